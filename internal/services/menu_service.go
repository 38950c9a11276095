// Package services – MenuService
//
// This file implements MenuService, which owns categories and menu items:
// validation and normalization of names, price handling in minor currency
// units, availability toggles, and spreadsheet import/export for bulk menu
// management. Category names are title-cased with a configurable locale so
// "jollof rice" and "Jollof Rice" land in one category.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// menuSheet is the worksheet name used by import and export.
const menuSheet = "Menu"

// MenuService provides category and menu item operations.
type MenuService struct {
	DB *gorm.DB

	// NameLocale drives category title-casing.
	NameLocale language.Tag
	// MaxNameLen caps item and category names by rune length.
	MaxNameLen int
}

// NewMenuService constructs a MenuService with sane naming defaults.
func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db, NameLocale: language.Und, MaxNameLen: 160}
}

// CreateCategory inserts a new display category.
func (s *MenuService) CreateCategory(ctx context.Context, name string, position int) (*domain.Category, error) {
	name = s.normalizeCategoryName(name)
	if name == "" {
		return nil, ErrInvalidSetting
	}
	c, err := repo.CreateCategory(ctx, s.DB, name, position)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, repo.ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

// ListCategories returns categories ordered by position. When activeOnly is
// true, hidden categories are filtered out (the customer-facing view).
func (s *MenuService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	return repo.ListCategories(ctx, s.DB, activeOnly)
}

// UpdateCategory renames, reorders, or toggles a category.
func (s *MenuService) UpdateCategory(ctx context.Context, id, name string, position int, active bool) (*domain.Category, error) {
	name = s.normalizeCategoryName(name)
	if name == "" {
		return nil, ErrInvalidSetting
	}
	if err := repo.UpdateCategory(ctx, s.DB, id, name, position, active); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return repo.GetCategory(ctx, s.DB, id)
}

// DeleteCategory soft-deletes a category. Items under it stop resolving on
// the public menu but keep their history in past orders.
func (s *MenuService) DeleteCategory(ctx context.Context, id string) error {
	if err := repo.DeleteCategory(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// CreateItem adds a menu item under an existing category. Price is minor
// currency units and must be positive.
func (s *MenuService) CreateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price <= 0 {
		return nil, ErrInvalidSetting
	}
	if _, err := repo.GetCategory(ctx, s.DB, item.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if _, err := repo.CreateMenuItem(ctx, s.DB, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns menu items matching the filter, ordered for display.
func (s *MenuService) ListItems(ctx context.Context, filter repo.MenuItemFilter) ([]domain.MenuItem, error) {
	return repo.ListMenuItems(ctx, s.DB, filter)
}

// GetItem fetches one menu item.
func (s *MenuService) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := repo.GetMenuItem(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update. Only whitelisted fields are written.
func (s *MenuService) UpdateItem(ctx context.Context, id string, fields map[string]any) (*domain.MenuItem, error) {
	updates := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case "name":
			name, _ := v.(string)
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, ErrInvalidSetting
			}
			updates["name"] = name
		case "description", "image":
			updates[k] = v
		case "price":
			price, ok := toInt64(v)
			if !ok || price <= 0 {
				return nil, ErrInvalidSetting
			}
			updates["price"] = price
		case "position":
			pos, ok := toInt64(v)
			if !ok {
				return nil, ErrInvalidSetting
			}
			updates["position"] = int(pos)
		case "available":
			updates[k] = v
		case "category_id":
			cid, _ := v.(string)
			if _, err := repo.GetCategory(ctx, s.DB, cid); err != nil {
				return nil, ErrCategoryNotFound
			}
			updates["category_id"] = cid
		}
	}
	if len(updates) == 0 {
		return nil, ErrInvalidSetting
	}
	if err := repo.UpdateMenuItem(ctx, s.DB, id, updates); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return repo.GetMenuItem(ctx, s.DB, id)
}

// SetAvailability flips the sold-out switch without touching other fields.
func (s *MenuService) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := repo.SetMenuItemAvailability(ctx, s.DB, id, available); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}
	return nil
}

// DeleteItem soft-deletes a menu item.
func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	if err := repo.DeleteMenuItem(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}
	return nil
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportXLSX bulk-loads menu items from an .xlsx workbook. Expected columns
// on the first sheet: category, name, description, price (major units),
// available. Row 1 is treated as a header. Categories are created on demand;
// bad rows are skipped and reported, never aborting the whole import.
func (s *MenuService) ImportXLSX(ctx context.Context, r io.Reader) (*ImportResult, error) {
	tr := otel.Tracer("services/MenuService")
	ctx, span := tr.Start(ctx, "ImportXLSX")
	defer span.End()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrInvalidSetting
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	catIDs := make(map[string]string)
	res := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		line := i + 1
		if len(row) < 4 || strings.TrimSpace(row[1]) == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: missing name or price", line))
			continue
		}

		catName := s.normalizeCategoryName(row[0])
		if catName == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: missing category", line))
			continue
		}
		catID, ok := catIDs[catName]
		if !ok {
			id, cerr := s.ensureCategory(ctx, catName)
			if cerr != nil {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: category: %v", line, cerr))
				continue
			}
			catID = id
			catIDs[catName] = id
		}

		price, perr := parseMajorPrice(row[3])
		if perr != nil || price <= 0 {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: bad price %q", line, row[3]))
			continue
		}

		item := &domain.MenuItem{
			CategoryID: catID,
			Name:       strings.TrimSpace(row[1]),
			Price:      price,
			Available:  true,
		}
		if len(row) > 2 {
			item.Description = strings.TrimSpace(row[2])
		}
		if len(row) > 4 {
			item.Available = parseBoolCell(row[4])
		}
		if _, err := repo.CreateMenuItem(ctx, s.DB, item); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		res.Created++
	}

	span.SetAttributes(attribute.Int("import.created", res.Created), attribute.Int("import.skipped", res.Skipped))
	return res, nil
}

// ExportXLSX writes the full menu to an .xlsx workbook in the same column
// layout ImportXLSX reads, so an export can be edited and re-imported.
func (s *MenuService) ExportXLSX(ctx context.Context, w io.Writer) error {
	cats, err := repo.ListCategories(ctx, s.DB, false)
	if err != nil {
		return err
	}
	items, err := repo.ListMenuItems(ctx, s.DB, repo.MenuItemFilter{})
	if err != nil {
		return err
	}
	byCat := make(map[string]string, len(cats))
	for _, c := range cats {
		byCat[c.ID] = c.Name
	}

	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(menuSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	header := []any{"Category", "Name", "Description", "Price", "Available"}
	if err := f.SetSheetRow(menuSheet, "A1", &header); err != nil {
		return err
	}
	for i, item := range items {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{
			byCat[item.CategoryID],
			item.Name,
			item.Description,
			float64(item.Price) / 100,
			item.Available,
		}
		if err := f.SetSheetRow(menuSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// ensureCategory finds a category by normalized name or creates it.
func (s *MenuService) ensureCategory(ctx context.Context, name string) (string, error) {
	cats, err := repo.ListCategories(ctx, s.DB, false)
	if err != nil {
		return "", err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
	}
	c, err := repo.CreateCategory(ctx, s.DB, name, len(cats))
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *MenuService) normalizeCategoryName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	caser := cases.Title(s.NameLocale)
	name = caser.String(name)
	if s.MaxNameLen > 0 {
		runes := []rune(name)
		if len(runes) > s.MaxNameLen {
			name = string(runes[:s.MaxNameLen])
		}
	}
	return name
}

// parseMajorPrice converts a spreadsheet price in major units ("12.50") to
// minor units (1250), rejecting sub-cent precision.
func parseMajorPrice(cell string) (int64, error) {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	minor := int64(f*100 + 0.5)
	return minor, nil
}

func parseBoolCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
