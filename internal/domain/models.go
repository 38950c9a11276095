// Package domain defines the persistence models for the restaurant backend:
// users, menu catalog, orders, payments, chat, day sessions, settings, and
// audit records. These types are mapped with GORM and are shared across the
// repository and service layers.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered account: a customer or a staff member (POS, kitchen,
// admin). Passwords are stored as bcrypt hashes and never serialized.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier.
//   - Role: one of the Role* constants, enforced by handler-level checks.
//   - Active: staff accounts can be deactivated without deletion.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID           string         `json:"id"    gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"  gorm:"type:varchar(120);not null"`
	Email        string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone        string         `json:"phone" gorm:"type:varchar(32)"`
	PasswordHash string         `json:"-"     gorm:"type:varchar(100);not null"`
	Role         string         `json:"role"  gorm:"type:varchar(16);not null;index;check:role IN ('customer','pos','kitchen','admin')"`
	Active       bool           `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Category groups menu items for display. Position controls ordering on the
// customer site and the POS grid.
type Category struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"     gorm:"type:varchar(120);not null;uniqueIndex"`
	Position  int            `json:"position" gorm:"not null;default:0;index"`
	Active    bool           `json:"active"   gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Items []MenuItem `json:"items,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// MenuItem is a sellable dish or drink. Price is stored in minor currency
// units (kobo for NGN) to avoid floating-point money arithmetic.
type MenuItem struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	CategoryID  string         `json:"category_id" gorm:"type:char(36);not null;index"`
	Name        string         `json:"name"        gorm:"type:varchar(160);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       int64          `json:"price"       gorm:"not null"` // minor units
	Image       string         `json:"image"       gorm:"type:varchar(255)"`
	Available   bool           `json:"available"   gorm:"not null;index"`
	Position    int            `json:"position"    gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MenuItem.
func (MenuItem) TableName() string { return "menu_items" }

// Order is a customer or POS purchase. Monetary fields are minor units;
// Subtotal + Tax = Total. UserID is nil for walk-in POS orders.
//
// Status moves PENDING → CONFIRMED → PREPARING → READY → COMPLETED, or to
// CANCELLED from any non-terminal state. Terminal orders are immutable.
type Order struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	Number        string         `json:"number"         gorm:"type:varchar(32);not null;uniqueIndex"`
	UserID        *string        `json:"user_id"        gorm:"type:char(36);index"`
	CustomerName  string         `json:"customer_name"  gorm:"type:varchar(120);not null"`
	Type          string         `json:"type"           gorm:"type:varchar(16);not null;check:type IN ('dine_in','takeout','delivery')"`
	TableNumber   *int           `json:"table_number,omitempty"`
	DeliveryAddr  *string        `json:"delivery_address,omitempty" gorm:"type:varchar(255)"`
	Status        string         `json:"status"         gorm:"type:varchar(16);not null;index"`
	PaymentStatus string         `json:"payment_status" gorm:"type:varchar(16);not null;default:'unpaid';index"`
	Subtotal      int64          `json:"subtotal"       gorm:"not null"`
	Tax           int64          `json:"tax"            gorm:"not null;default:0"`
	Total         int64          `json:"total"          gorm:"not null"`
	Note          string         `json:"note"           gorm:"type:varchar(500)"`
	DaySessionID  string         `json:"day_session_id" gorm:"type:char(36);not null;index"`
	CreatedAt     time.Time      `json:"created_at"     gorm:"index"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is a priced line within an order. Name and UnitPrice are
// snapshots taken at order time so later menu edits do not rewrite history.
type OrderItem struct {
	ID         string `json:"id"           gorm:"type:char(36);primaryKey"`
	OrderID    string `json:"order_id"     gorm:"type:char(36);not null;index"`
	MenuItemID string `json:"menu_item_id" gorm:"type:char(36);not null;index"`
	Name       string `json:"name"         gorm:"type:varchar(160);not null"`
	UnitPrice  int64  `json:"unit_price"   gorm:"not null"`
	Quantity   int    `json:"quantity"     gorm:"not null"`
	LineTotal  int64  `json:"line_total"   gorm:"not null"`

	Order Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }

// Payment records one settlement attempt against an order. Reference is the
// gateway (or cash) reference and is unique, which is what makes webhook and
// verify processing idempotent: re-verifying a reference never creates a
// second row or re-marks the order.
type Payment struct {
	ID            string         `json:"id"        gorm:"type:char(36);primaryKey"`
	OrderID       string         `json:"order_id"  gorm:"type:char(36);not null;index"`
	Provider      string         `json:"provider"  gorm:"type:varchar(16);not null;check:provider IN ('paystack','cash')"`
	Reference     string         `json:"reference" gorm:"type:varchar(100);not null;uniqueIndex"`
	Amount        int64          `json:"amount"    gorm:"not null"` // minor units
	Currency      string         `json:"currency"  gorm:"type:varchar(8);not null"`
	Status        string         `json:"status"    gorm:"type:varchar(16);not null;index"` // pending|success|failed
	Channel       string         `json:"channel"   gorm:"type:varchar(32)"`                // card, bank, ussd, cash...
	GatewayStatus string         `json:"gateway_status" gorm:"type:varchar(64)"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Order Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// ChatMessage is a message posted into a named room (kitchen, pos, admin,
// user:<id>). Sender name and role are snapshots for display.
type ChatMessage struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Room       string         `json:"room"        gorm:"type:varchar(64);not null;index:idx_room_msgs,priority:1"`
	SenderID   string         `json:"sender_id"   gorm:"type:char(36);not null;index"`
	SenderName string         `json:"sender_name" gorm:"type:varchar(120);not null"`
	SenderRole string         `json:"sender_role" gorm:"type:varchar(16);not null"`
	Body       string         `json:"body"        gorm:"type:text;not null"`
	CreatedAt  time.Time      `json:"created_at"  gorm:"index:idx_room_msgs,priority:2"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// DaySession gates order intake for one calendar day. Exactly one row exists
// per Day value; orders can only be created while Open is true.
type DaySession struct {
	ID        string     `json:"id"   gorm:"type:char(36);primaryKey"`
	Day       string     `json:"day"  gorm:"type:char(10);not null;uniqueIndex"` // YYYY-MM-DD
	Open      bool       `json:"open" gorm:"not null;default:true;index"`
	OpenedBy  string     `json:"opened_by" gorm:"type:char(36);not null"`
	OpenedAt  time.Time  `json:"opened_at"`
	ClosedBy  *string    `json:"closed_by,omitempty" gorm:"type:char(36)"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the database table name for DaySession.
func (DaySession) TableName() string { return "day_sessions" }

// SystemSetting is a key/value configuration row editable by admins
// (restaurant name, tax rate, order number prefix...).
type SystemSetting struct {
	Key       string    `json:"key"   gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"value" gorm:"type:varchar(500);not null"`
	UpdatedBy string    `json:"updated_by" gorm:"type:char(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for SystemSetting.
func (SystemSetting) TableName() string { return "system_settings" }

// AuditLog records who did what to which entity. Rows are append-only.
type AuditLog struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	ActorID   string    `json:"actor_id" gorm:"type:char(36);not null;index"`
	Action    string    `json:"action"   gorm:"type:varchar(64);not null;index"`
	Entity    string    `json:"entity"   gorm:"type:varchar(64);not null"`
	EntityID  string    `json:"entity_id" gorm:"type:varchar(64)"`
	Detail    string    `json:"detail"   gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for AuditLog.
func (AuditLog) TableName() string { return "audit_logs" }

// OrderSubmission records the outcome of a previously processed order
// creation, keyed by (user_id, key). It enables safe client retries of
// POST /orders: a replayed Idempotency-Key returns the original order
// without creating a duplicate.
type OrderSubmission struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:char(36);not null;uniqueIndex:ux_submission_user_key,priority:1"`
	Key       string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_submission_user_key,priority:2"`
	OrderID   string    `gorm:"type:char(36);not null"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (OrderSubmission) TableName() string { return "order_submissions" }
