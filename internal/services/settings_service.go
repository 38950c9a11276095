// Package services – SettingsService
//
// Admin-editable key/value configuration (restaurant name, tax rate, order
// number prefix) plus read access to the audit trail. Known numeric keys are
// validated before write so a typo cannot silently zero the tax rate.
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// SettingsService reads and writes system settings.
type SettingsService struct {
	DB *gorm.DB
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// List returns every stored setting.
func (s *SettingsService) List(ctx context.Context) ([]domain.SystemSetting, error) {
	return repo.ListSettings(ctx, s.DB)
}

// Get returns one setting by key.
func (s *SettingsService) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	setting, err := repo.GetSetting(ctx, s.DB, key)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

// Set validates and upserts a setting, recording the acting admin both on
// the row and in the audit trail.
func (s *SettingsService) Set(ctx context.Context, actorID, key, value string) (*domain.SystemSetting, error) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return nil, ErrInvalidSetting
	}
	if err := validateSetting(key, value); err != nil {
		return nil, err
	}
	if err := repo.UpsertSetting(ctx, s.DB, key, value, actorID); err != nil {
		return nil, err
	}
	_ = repo.AppendAudit(ctx, s.DB, actorID, "setting.set", "system_setting", key, value)
	return repo.GetSetting(ctx, s.DB, key)
}

// AuditPage returns a page of audit entries, newest first, optionally
// filtered by action, plus the total.
func (s *SettingsService) AuditPage(ctx context.Context, action string, page, pageSize int) ([]domain.AuditLog, int64, error) {
	offset := (page - 1) * pageSize
	entries, err := repo.ListAuditPage(ctx, s.DB, action, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountAudit(ctx, s.DB, action)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// validateSetting applies per-key rules for keys the backend itself reads.
func validateSetting(key, value string) error {
	switch key {
	case settingTaxRateBps:
		bps, err := strconv.ParseInt(value, 10, 64)
		if err != nil || bps < 0 || bps > 10000 {
			return ErrInvalidSetting
		}
	case settingOrderPrefix:
		if len(value) > 10 || strings.ContainsAny(value, " _") {
			return ErrInvalidSetting
		}
	}
	return nil
}
