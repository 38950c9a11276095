// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for day sessions,
// the per-calendar-day records that gate order intake.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// CreateDaySession opens a session for a day (format YYYY-MM-DD). A second
// session for the same day returns ErrDuplicate.
func CreateDaySession(ctx context.Context, db *gorm.DB, day, openedBy string) (*domain.DaySession, error) {
	now := time.Now().UTC()
	s := &domain.DaySession{
		ID:        uuid.NewString(),
		Day:       day,
		Open:      true,
		OpenedBy:  openedBy,
		OpenedAt:  now,
		CreatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, mapDuplicate(err)
	}
	return s, nil
}

// GetDaySession fetches the session for a day, or ErrNotFound.
func GetDaySession(ctx context.Context, db *gorm.DB, day string) (*domain.DaySession, error) {
	var s domain.DaySession
	if err := db.WithContext(ctx).Where("day = ?", day).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CloseDaySession marks a session closed. Closing an already-closed session
// affects zero rows and returns ErrNotFound so callers can report it.
func CloseDaySession(ctx context.Context, db *gorm.DB, day, closedBy string) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.DaySession{}).
		Where("day = ? AND open = ?", day, true).
		Updates(map[string]any{"open": false, "closed_by": closedBy, "closed_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReopenDaySession flips a closed session back to open. Returns ErrNotFound
// when the day has no closed session.
func ReopenDaySession(ctx context.Context, db *gorm.DB, day, openedBy string) error {
	res := db.WithContext(ctx).
		Model(&domain.DaySession{}).
		Where("day = ? AND open = ?", day, false).
		Updates(map[string]any{"open": true, "opened_by": openedBy, "closed_by": nil, "closed_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
