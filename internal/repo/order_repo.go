// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for orders and
// their line items.
//
// CreateOrder inserts the order header and all items inside one transaction;
// everything else is single-statement CRUD. Status legality is a service
// concern; the repository only guards row existence via RowsAffected.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// CreateOrder persists an order and its items atomically. IDs are assigned
// here when absent. A duplicate order number returns ErrDuplicate.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) (*domain.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
		o.Items[i].OrderID = o.ID
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
	if err != nil {
		return nil, mapDuplicate(err)
	}
	return o, nil
}

// GetOrder fetches an order with its items, or ErrNotFound.
func GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByNumber fetches an order with its items by order number,
// or ErrNotFound.
func GetOrderByNumber(ctx context.Context, db *gorm.DB, number string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("number = ?", number).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrdersByUserPage returns a page of a user's orders, newest first.
func ListOrdersByUserPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountOrdersByUser returns the total number of orders placed by userID.
func CountOrdersByUser(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListOrdersByStatusPage returns a page of orders filtered by status (all
// statuses when empty), oldest first so staff work the queue in FIFO order.
func ListOrdersByStatusPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Order, error) {
	q := db.WithContext(ctx).Preload("Items").Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Order
	err := q.Order("created_at asc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// CountOrdersByStatus returns the number of orders with the given status
// (all statuses when empty).
func CountOrdersByStatus(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListKitchenQueue returns orders in the active kitchen statuses
// (PENDING/CONFIRMED/PREPARING), oldest first.
func ListKitchenQueue(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("status IN ?", []string{domain.StatusPending, domain.StatusConfirmed, domain.StatusPreparing}).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// UpdateOrderStatus sets a new lifecycle status. Returns ErrNotFound when no
// row matched.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetOrderPaymentStatus sets the payment status column. Returns ErrNotFound
// when no row matched.
func SetOrderPaymentStatus(ctx context.Context, db *gorm.DB, id, paymentStatus string) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("payment_status", paymentStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOrdersForSession returns the number of orders created under a day
// session. Used to derive the next order number sequence.
func CountOrdersForSession(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Unscoped(). // cancelled-then-deleted rows still consume a sequence slot
		Where("day_session_id = ?", sessionID).
		Count(&total).Error
	return total, err
}
