// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Payment
// model. The unique reference index is what makes payment verification and
// webhook processing idempotent at the storage level.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// CreatePayment inserts a payment row. A reference collision returns
// ErrDuplicate, which callers treat as "already recorded".
func CreatePayment(ctx context.Context, db *gorm.DB, p *domain.Payment) (*domain.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, mapDuplicate(err)
	}
	return p, nil
}

// GetPaymentByReference fetches a payment by its gateway reference,
// or ErrNotFound.
func GetPaymentByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPaymentsForOrder returns all payments recorded against an order,
// newest first.
func ListPaymentsForOrder(ctx context.Context, db *gorm.DB, orderID string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// SettlePayment marks a pending payment as settled (or failed) with the
// gateway outcome. Settlement only transitions rows still in "pending":
// a second settle of the same reference affects zero rows and returns
// (false, nil), which is the idempotent-replay signal.
func SettlePayment(ctx context.Context, db *gorm.DB, reference, status, channel, gatewayStatus string, paidAt *time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("reference = ? AND status = ?", reference, "pending").
		Updates(map[string]any{
			"status":         status,
			"channel":        channel,
			"gateway_status": gatewayStatus,
			"paid_at":        paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
