// Package services – StaffService
//
// Admin-only account management: provisioning staff logins, listing accounts
// by role, updating profiles, and toggling access. Every mutation leaves an
// audit trail entry naming the acting admin.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// StaffService manages accounts on behalf of an admin.
type StaffService struct {
	DB *gorm.DB
}

// NewStaffService constructs a StaffService.
func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db}
}

// CreateStaff provisions a pos, kitchen, or admin account.
func (s *StaffService) CreateStaff(ctx context.Context, actorID, name, email, phone, password, role string) (*domain.User, error) {
	if !domain.StaffRole(role) {
		return nil, ErrInvalidSetting
	}
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" || email == "" || len(password) < 8 {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := repo.CreateUser(ctx, s.DB, name, email, strings.TrimSpace(phone), string(hash), role)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = repo.AppendAudit(ctx, s.DB, actorID, "staff.create", "user", u.ID, "role="+role)
	return u, nil
}

// ListByRole returns a page of accounts with the given role, newest first,
// plus the total for pagination. An empty role lists every account.
func (s *StaffService) ListByRole(ctx context.Context, role string, page, pageSize int) ([]domain.User, int64, error) {
	offset := (page - 1) * pageSize
	users, err := repo.ListUsersByRolePage(ctx, s.DB, role, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountUsersByRole(ctx, s.DB, role)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfile changes a user's display name and phone.
func (s *StaffService) UpdateProfile(ctx context.Context, actorID, userID, name, phone string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidSetting
	}
	if err := repo.UpdateUser(ctx, s.DB, userID, name, strings.TrimSpace(phone)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	_ = repo.AppendAudit(ctx, s.DB, actorID, "staff.update", "user", userID, "")
	return repo.GetUser(ctx, s.DB, userID)
}

// SetActive enables or disables an account. A disabled account cannot log in
// and its refresh tokens stop rotating.
func (s *StaffService) SetActive(ctx context.Context, actorID, userID string, active bool) error {
	if err := repo.SetUserActive(ctx, s.DB, userID, active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	action := "staff.disable"
	if active {
		action = "staff.enable"
	}
	return repo.AppendAudit(ctx, s.DB, actorID, action, "user", userID, "")
}
