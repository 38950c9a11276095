// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the menu
// catalog: categories and menu items.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// CreateCategory inserts a new category. Name uniqueness violations return
// ErrDuplicate.
func CreateCategory(ctx context.Context, db *gorm.DB, name string, position int) (*domain.Category, error) {
	c := &domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Position:  position,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, mapDuplicate(err)
	}
	return c, nil
}

// ListCategories returns categories ordered by position then name.
// When activeOnly is true, inactive categories are filtered out.
func ListCategories(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.Category, error) {
	q := db.WithContext(ctx).Model(&domain.Category{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []domain.Category
	err := q.Order("position asc").Order("name asc").Find(&out).Error
	return out, err
}

// GetCategory fetches a category by ID, or ErrNotFound.
func GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.Category, error) {
	var c domain.Category
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory persists name/position/active changes. Returns ErrNotFound
// when no row matched and ErrDuplicate on a name collision.
func UpdateCategory(ctx context.Context, db *gorm.DB, id, name string, position int, active bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "position": position, "active": active})
	if res.Error != nil {
		return mapDuplicate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCategory soft-deletes a category. Returns ErrNotFound when no row
// matched.
func DeleteCategory(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateMenuItem inserts a new menu item under a category.
func CreateMenuItem(ctx context.Context, db *gorm.DB, item *domain.MenuItem) (*domain.MenuItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, mapDuplicate(err)
	}
	return item, nil
}

// MenuItemFilter narrows ListMenuItems. Zero values mean "no filter".
type MenuItemFilter struct {
	CategoryID    string
	AvailableOnly bool
}

// ListMenuItems returns menu items matching the filter, ordered by position
// then name.
func ListMenuItems(ctx context.Context, db *gorm.DB, f MenuItemFilter) ([]domain.MenuItem, error) {
	q := db.WithContext(ctx).Model(&domain.MenuItem{})
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	var out []domain.MenuItem
	err := q.Order("position asc").Order("name asc").Find(&out).Error
	return out, err
}

// GetMenuItem fetches a menu item by ID, or ErrNotFound.
func GetMenuItem(ctx context.Context, db *gorm.DB, id string) (*domain.MenuItem, error) {
	var m domain.MenuItem
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMenuItemsByIDs fetches all menu items whose ID is in ids. Missing IDs are
// simply absent from the result; the caller compares lengths.
func GetMenuItemsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// UpdateMenuItem persists field changes for a menu item. Returns ErrNotFound
// when no row matched.
func UpdateMenuItem(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.MenuItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetMenuItemAvailability flips the available flag. Returns ErrNotFound when
// no row matched.
func SetMenuItemAvailability(ctx context.Context, db *gorm.DB, id string, available bool) error {
	return UpdateMenuItem(ctx, db, id, map[string]any{"available": available})
}

// DeleteMenuItem soft-deletes a menu item. Returns ErrNotFound when no row
// matched.
func DeleteMenuItem(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
