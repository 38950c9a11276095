package domain

// User roles.
const (
	RoleCustomer = "customer"
	RolePOS      = "pos"
	RoleKitchen  = "kitchen"
	RoleAdmin    = "admin"
)

// ValidRole reports whether r is a known role string.
func ValidRole(r string) bool {
	switch r {
	case RoleCustomer, RolePOS, RoleKitchen, RoleAdmin:
		return true
	}
	return false
}

// StaffRole reports whether r may access staff surfaces (POS, kitchen, admin).
func StaffRole(r string) bool {
	return r == RolePOS || r == RoleKitchen || r == RoleAdmin
}

// Order lifecycle statuses.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPreparing = "PREPARING"
	StatusReady     = "READY"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Order types.
const (
	OrderDineIn   = "dine_in"
	OrderTakeout  = "takeout"
	OrderDelivery = "delivery"
)

// Payment statuses on an order.
const (
	PayUnpaid   = "unpaid"
	PayPending  = "pending"
	PayPaid     = "paid"
	PayRefunded = "refunded"
)

// ValidOrderType reports whether t is a known order type.
func ValidOrderType(t string) bool {
	switch t {
	case OrderDineIn, OrderTakeout, OrderDelivery:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatus reports whether s ends the order lifecycle. Terminal orders
// are immutable: no further status updates are accepted.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ActiveKitchenStatus reports whether an order with status s belongs on the
// kitchen display queue.
func ActiveKitchenStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing:
		return true
	}
	return false
}
