// Package handlers defines HTTP-layer error codes used across all API
// endpoints. These codes give clients a stable, machine-readable taxonomy to
// branch on, supplementing the human-readable message.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror common HTTP status semantics.
//   - Domain-specific codes cover business outcomes a status alone cannot
//     convey (day_closed, item_unavailable, payment_mismatch...).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeDayClosed        = "day_closed"
	ErrCodeItemUnavailable  = "item_unavailable"
	ErrCodeOrderFinalized   = "order_finalized"
	ErrCodeAlreadyPaid      = "already_paid"
	ErrCodePaymentMismatch  = "payment_mismatch"
	ErrCodeBadSignature     = "bad_signature"
	ErrCodeEmailTaken       = "email_taken"
	ErrCodeDisabled         = "account_disabled"
	ErrCodeImportFailed     = "import_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
