// Package services defines the business logic for auth, menu, orders,
// payments, day sessions, chat, settings, and reporting. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

// Auth-related errors.
var (
	// ErrInvalidCredentials is returned when login fails either because the
	// email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registration uses an email that already
	// belongs to another account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountDisabled is returned when a deactivated account attempts to
	// authenticate.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrInvalidToken is returned for malformed, expired, or mismatched JWTs.
	ErrInvalidToken = errors.New("invalid token")
)

// Menu-related errors.
var (
	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrMenuItemNotFound indicates the requested menu item does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")

	// ErrItemUnavailable is returned when an order references an item that is
	// hidden or out of stock.
	ErrItemUnavailable = errors.New("menu item unavailable")
)

// Order-related errors.
var (
	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrder is returned when an order is submitted with no line items.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidStatus is returned for status strings outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrTerminalOrder is returned when mutating an order that has already
	// reached COMPLETED or CANCELLED.
	ErrTerminalOrder = errors.New("order already finalized")

	// ErrDayClosed is returned when an order is submitted while no day
	// session is open.
	ErrDayClosed = errors.New("business day is not open")
)

// Payment-related errors.
var (
	// ErrPaymentNotFound indicates no payment exists for the given reference.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPaymentMismatch is returned when a verified gateway transaction does
	// not match the recorded charge (amount or currency).
	ErrPaymentMismatch = errors.New("payment does not match recorded charge")

	// ErrAlreadyPaid is returned when initializing a charge for an order that
	// has already been settled.
	ErrAlreadyPaid = errors.New("order already paid")

	// ErrBadSignature is returned when a webhook body fails HMAC validation.
	ErrBadSignature = errors.New("invalid webhook signature")
)

// Day-session errors.
var (
	// ErrSessionNotFound indicates there is no session for the requested day.
	ErrSessionNotFound = errors.New("day session not found")

	// ErrSessionExists is returned when opening a day that is already open.
	ErrSessionExists = errors.New("day session already open")
)

// Chat-related errors.
var (
	// ErrEmptyMessage is returned when a chat message body is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat message exceeds the limit.
	ErrMessageTooLong = errors.New("message too long")

	// ErrRoomForbidden is returned when a user posts to a room their role
	// cannot access.
	ErrRoomForbidden = errors.New("room not accessible")
)

// Settings-related errors.
var (
	// ErrSettingNotFound indicates no value is stored under the given key.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrInvalidSetting is returned when a setting value fails validation.
	ErrInvalidSetting = errors.New("invalid setting value")
)
