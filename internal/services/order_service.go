// Package services – OrderService
//
// This file implements OrderService, the component that owns the order
// lifecycle: intake (with day-session gating, server-side pricing, and
// idempotent replays), the kitchen queue, status transitions, and the
// real-time fan-out that keeps the POS, kitchen, and customer views in sync.
//
// Pricing is never trusted from the client. Line prices are re-read from the
// menu at submission time and snapshotted onto the order items, so later
// menu edits do not rewrite order history.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

// Settings keys read by OrderService.
const (
	settingTaxRateBps  = "tax_rate_bps"
	settingOrderPrefix = "order_number_prefix"

	defaultOrderPrefix = "ORD"
)

// OrderLine is one requested line in an order submission. Only the item id
// and quantity are accepted; pricing is resolved server-side.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// OrderInput is a validated order submission.
type OrderInput struct {
	CustomerName string      `json:"customer_name"`
	Type         string      `json:"type" binding:"required"`
	TableNumber  *int        `json:"table_number,omitempty"`
	DeliveryAddr *string     `json:"delivery_address,omitempty"`
	Note         string      `json:"note"`
	Lines        []OrderLine `json:"items" binding:"required"`
}

// OrderService coordinates order intake and lifecycle.
type OrderService struct {
	DB  *gorm.DB
	Hub Broadcaster

	// IdempotencyTTL bounds how long a replayed Idempotency-Key resolves to
	// its original order.
	IdempotencyTTL time.Duration

	// now is swappable for deterministic day and number handling in tests.
	now func() time.Time
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB, hub Broadcaster, idempotencyTTL time.Duration) *OrderService {
	return &OrderService{
		DB:             db,
		Hub:            orDiscard(hub),
		IdempotencyTTL: idempotencyTTL,
		now:            time.Now,
	}
}

// Create validates and persists a new order.
//
// Rules enforced here: the business day must be open, every line must
// reference an available menu item, totals come from current menu prices
// plus the configured tax rate, and the order number is sequential within
// the day session (ORD_YYYYMMDD_NNNN by default). When idemKey is non-empty
// and was seen before for the same user, the original order is returned
// with replayed=true and nothing is created.
func (s *OrderService) Create(ctx context.Context, userID, idemKey string, in OrderInput) (order *domain.Order, replayed bool, err error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if idemKey != "" {
		sub, serr := repo.GetOrderSubmission(ctx, s.DB, userID, idemKey, s.now())
		if serr == nil {
			prev, gerr := repo.GetOrder(ctx, s.DB, sub.OrderID)
			if gerr != nil {
				return nil, false, gerr
			}
			return prev, true, nil
		}
		if !errors.Is(serr, repo.ErrNotFound) {
			return nil, false, serr
		}
	}

	if len(in.Lines) == 0 {
		return nil, false, ErrEmptyOrder
	}
	if !domain.ValidOrderType(in.Type) {
		return nil, false, ErrInvalidStatus
	}

	day := s.now().UTC().Format("2006-01-02")
	session, err := repo.GetDaySession(ctx, s.DB, day)
	if err != nil || !session.Open {
		return nil, false, ErrDayClosed
	}

	items, subtotal, err := s.priceLines(ctx, in.Lines)
	if err != nil {
		return nil, false, err
	}
	tax := subtotal * s.taxRateBps(ctx) / 10000

	seq, err := repo.CountOrdersForSession(ctx, s.DB, session.ID)
	if err != nil {
		return nil, false, err
	}
	number := s.orderNumber(ctx, day, seq+1)

	o := &domain.Order{
		Number:        number,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Type:          in.Type,
		TableNumber:   in.TableNumber,
		DeliveryAddr:  in.DeliveryAddr,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PayUnpaid,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		Note:          strings.TrimSpace(in.Note),
		DaySessionID:  session.ID,
		Items:         items,
	}
	if userID != "" {
		o.UserID = &userID
	}
	if o.CustomerName == "" {
		o.CustomerName = "Walk-in"
	}

	created, err := repo.CreateOrder(ctx, s.DB, o)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Number collision from a concurrent submission; retry once with
			// the next sequence value.
			o.ID = ""
			o.Number = s.orderNumber(ctx, day, seq+2)
			created, err = repo.CreateOrder(ctx, s.DB, o)
		}
		if err != nil {
			return nil, false, err
		}
	}

	if idemKey != "" {
		if _, serr := repo.CreateOrderSubmission(ctx, s.DB, userID, idemKey, created.ID, 201, s.IdempotencyTTL); serr != nil && !errors.Is(serr, repo.ErrDuplicate) {
			return nil, false, serr
		}
	}

	span.SetAttributes(attribute.String("order.number", created.Number))
	s.fanOut(ws.EventOrderNew, created)
	return created, false, nil
}

// Get fetches an order. When requesterID is non-empty with a customer role,
// ownership is enforced; staff pass empty requesterID and see everything.
func (s *OrderService) Get(ctx context.Context, id, requesterID string) (*domain.Order, error) {
	o, err := repo.GetOrder(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if requesterID != "" && (o.UserID == nil || *o.UserID != requesterID) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// Track fetches an order by its public number. Used by the customer-facing
// tracking page, so no ownership is required; numbers are unguessable enough
// for a status display.
func (s *OrderService) Track(ctx context.Context, number string) (*domain.Order, error) {
	o, err := repo.GetOrderByNumber(ctx, s.DB, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListMine returns a page of the user's own orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int64, error) {
	offset := (page - 1) * pageSize
	orders, err := repo.ListOrdersByUserPage(ctx, s.DB, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountOrdersByUser(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByStatus returns a page of orders in one status, oldest first. An
// empty status lists every order.
func (s *OrderService) ListByStatus(ctx context.Context, status string, page, pageSize int) ([]domain.Order, int64, error) {
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	offset := (page - 1) * pageSize
	orders, err := repo.ListOrdersByStatusPage(ctx, s.DB, status, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountOrdersByStatus(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// KitchenQueue returns every active order oldest first, the kitchen's
// working set.
func (s *OrderService) KitchenQueue(ctx context.Context) ([]domain.Order, error) {
	return repo.ListKitchenQueue(ctx, s.DB)
}

// UpdateStatus moves an order to a new status. Unknown statuses are
// rejected, and orders already COMPLETED or CANCELLED are immutable.
// Listeners in the staff rooms and the owner's room are notified.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.status", status)),
	)
	defer span.End()

	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	o, err := repo.GetOrder(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if domain.TerminalStatus(o.Status) {
		return nil, ErrTerminalOrder
	}
	if o.Status == status {
		return o, nil
	}
	if err := repo.UpdateOrderStatus(ctx, s.DB, id, status); err != nil {
		return nil, err
	}
	o.Status = status

	s.fanOut(ws.EventOrderStatus, o)
	return o, nil
}

// Cancel moves an order to CANCELLED. Customers may cancel their own orders
// while still PENDING; staff paths pass an empty requesterID and may cancel
// any non-terminal order.
func (s *OrderService) Cancel(ctx context.Context, id, requesterID string) (*domain.Order, error) {
	o, err := repo.GetOrder(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if requesterID != "" {
		if o.UserID == nil || *o.UserID != requesterID {
			return nil, ErrOrderNotFound
		}
		if o.Status != domain.StatusPending {
			return nil, ErrTerminalOrder
		}
	}
	return s.UpdateStatus(ctx, id, domain.StatusCancelled)
}

// MarkPaid flips the order's payment status and notifies listeners. Called
// by PaymentService after a successful settlement.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (*domain.Order, error) {
	if err := repo.SetOrderPaymentStatus(ctx, s.DB, orderID, domain.PayPaid); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	s.fanOut(ws.EventPaymentConfirmed, o)
	return o, nil
}

// priceLines resolves menu items, rejects unavailable ones, and builds the
// snapshotted order lines.
func (s *OrderService) priceLines(ctx context.Context, lines []OrderLine) ([]domain.OrderItem, int64, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, 0, ErrEmptyOrder
		}
		ids = append(ids, l.MenuItemID)
	}
	menu, err := repo.GetMenuItemsByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]domain.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var subtotal int64
	for _, l := range lines {
		m, ok := byID[l.MenuItemID]
		if !ok {
			return nil, 0, ErrMenuItemNotFound
		}
		if !m.Available {
			return nil, 0, ErrItemUnavailable
		}
		line := int64(l.Quantity) * m.Price
		items = append(items, domain.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Quantity:   l.Quantity,
			LineTotal:  line,
		})
		subtotal += line
	}
	return items, subtotal, nil
}

// taxRateBps reads the configured tax rate in basis points, defaulting to 0.
func (s *OrderService) taxRateBps(ctx context.Context) int64 {
	setting, err := repo.GetSetting(ctx, s.DB, settingTaxRateBps)
	if err != nil {
		return 0
	}
	bps, err := strconv.ParseInt(strings.TrimSpace(setting.Value), 10, 64)
	if err != nil || bps < 0 || bps > 10000 {
		return 0
	}
	return bps
}

// orderNumber builds PREFIX_YYYYMMDD_NNNN.
func (s *OrderService) orderNumber(ctx context.Context, day string, seq int64) string {
	prefix := defaultOrderPrefix
	if setting, err := repo.GetSetting(ctx, s.DB, settingOrderPrefix); err == nil {
		if v := strings.TrimSpace(setting.Value); v != "" {
			prefix = v
		}
	}
	compact := strings.ReplaceAll(day, "-", "")
	return fmt.Sprintf("%s_%s_%04d", prefix, compact, seq)
}

// fanOut sends an order event to every staff room and the owner's room.
func (s *OrderService) fanOut(event string, o *domain.Order) {
	s.Hub.Broadcast(ws.RoomKitchen, event, o)
	s.Hub.Broadcast(ws.RoomPOS, event, o)
	s.Hub.Broadcast(ws.RoomAdmin, event, o)
	if o.UserID != nil {
		s.Hub.Broadcast(ws.UserRoom(*o.UserID), event, o)
	}
}

// OrderStats summarizes today's order activity for staff dashboards.
type OrderStats struct {
	SessionID   string             `json:"sessionId"`
	Day         string             `json:"day"`
	Total       int64              `json:"total"`
	ByStatus    []repo.StatusCount `json:"byStatus"`
	LastUpdated *time.Time         `json:"lastUpdated,omitempty"`
}

// Stats aggregates order counts for the current day session.
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	day := s.now().UTC().Format("2006-01-02")
	session, err := repo.GetDaySession(ctx, s.DB, day)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	byStatus, err := repo.OrdersByStatus(ctx, s.DB, session.ID)
	if err != nil {
		return nil, err
	}
	total, lastUpdated, err := repo.OrdersStats(ctx, s.DB, session.ID)
	if err != nil {
		return nil, err
	}
	return &OrderStats{
		SessionID:   session.ID,
		Day:         session.Day,
		Total:       total,
		ByStatus:    byStatus,
		LastUpdated: lastUpdated,
	}, nil
}
