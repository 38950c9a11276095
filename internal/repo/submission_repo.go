// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// OrderSubmission model used to implement safe-retry semantics for
// POST /orders.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// GetOrderSubmission returns a non-expired submission record for
// (userID, key), or ErrNotFound.
func GetOrderSubmission(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.OrderSubmission, error) {
	if userID == "" || key == "" {
		return nil, ErrNotFound
	}
	var rec domain.OrderSubmission
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateOrderSubmission inserts a submission record and returns ErrDuplicate
// on a (user_id, key) collision.
func CreateOrderSubmission(ctx context.Context, db *gorm.DB, userID, key, orderID string, status int, ttl time.Duration) (*domain.OrderSubmission, error) {
	now := time.Now().UTC()
	rec := &domain.OrderSubmission{
		ID:        uuid.NewString(),
		UserID:    userID,
		Key:       key,
		OrderID:   orderID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, mapDuplicate(err)
	}
	return rec, nil
}
