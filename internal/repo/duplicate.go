package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate indicates a unique-constraint violation (email, order number,
// payment reference, submission key).
var ErrDuplicate = errors.New("duplicate")

// mapDuplicate normalizes driver-specific unique violation errors to
// ErrDuplicate; other errors pass through unchanged.
func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations,
	// and pgx reports SQLSTATE 23505.
	low := strings.ToLower(err.Error())
	if strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "sqlstate 23505") ||
		strings.Contains(low, "duplicate key value") {
		return ErrDuplicate
	}
	return err
}
