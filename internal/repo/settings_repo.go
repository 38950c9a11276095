// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for system
// settings and the append-only audit log.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// GetSetting fetches a setting row by key, or ErrNotFound.
func GetSetting(ctx context.Context, db *gorm.DB, key string) (*domain.SystemSetting, error) {
	var s domain.SystemSetting
	if err := db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSettings returns all settings ordered by key.
func ListSettings(ctx context.Context, db *gorm.DB) ([]domain.SystemSetting, error) {
	var out []domain.SystemSetting
	err := db.WithContext(ctx).Order("key asc").Find(&out).Error
	return out, err
}

// UpsertSetting inserts or overwrites a setting value.
func UpsertSetting(ctx context.Context, db *gorm.DB, key, value, updatedBy string) error {
	s := domain.SystemSetting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(&s).Error
}

// AppendAudit writes one audit row. Failures are the caller's to log; audit
// writes never abort the surrounding business operation.
func AppendAudit(ctx context.Context, db *gorm.DB, actorID, action, entity, entityID, detail string) error {
	a := &domain.AuditLog{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(a).Error
}

// ListAuditPage returns a page of audit rows, newest first, optionally
// filtered by action.
func ListAuditPage(ctx context.Context, db *gorm.DB, action string, offset, limit int) ([]domain.AuditLog, error) {
	q := db.WithContext(ctx).Model(&domain.AuditLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var out []domain.AuditLog
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// CountAudit returns the number of audit rows, optionally filtered by action.
func CountAudit(ctx context.Context, db *gorm.DB, action string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.AuditLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}
