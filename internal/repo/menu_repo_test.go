package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t, &domain.Category{}, &domain.MenuItem{})
	ctx := context.Background()

	c, err := CreateCategory(ctx, db, "Mains", 1)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := CreateCategory(ctx, db, "Mains", 2); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused name, got %v", err)
	}

	if err := UpdateCategory(ctx, db, c.ID, "Main dishes", 3, false); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	got, err := GetCategory(ctx, db, c.ID)
	if err != nil || got.Name != "Main dishes" || got.Position != 3 || got.Active {
		t.Fatalf("category round-trip: %+v err=%v", got, err)
	}

	// activeOnly filtering
	if _, err := CreateCategory(ctx, db, "Drinks", 0); err != nil {
		t.Fatalf("seed Drinks: %v", err)
	}
	active, err := ListCategories(ctx, db, true)
	if err != nil || len(active) != 1 || active[0].Name != "Drinks" {
		t.Fatalf("active list: %+v err=%v", active, err)
	}
	all, err := ListCategories(ctx, db, false)
	if err != nil || len(all) != 2 {
		t.Fatalf("full list: %+v err=%v", all, err)
	}

	if err := DeleteCategory(ctx, db, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := DeleteCategory(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestMenuItemCRUDAndFilters(t *testing.T) {
	db := newTestDB(t, &domain.Category{}, &domain.MenuItem{})
	ctx := context.Background()

	cat, err := CreateCategory(ctx, db, "Mains", 0)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	other, err := CreateCategory(ctx, db, "Drinks", 1)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	jollof, err := CreateMenuItem(ctx, db, &domain.MenuItem{
		CategoryID: cat.ID, Name: "Jollof rice", Price: 250000, Available: true,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	if _, err := CreateMenuItem(ctx, db, &domain.MenuItem{
		CategoryID: cat.ID, Name: "Waakye", Price: 180000, Available: false,
	}); err != nil {
		t.Fatalf("seed waakye: %v", err)
	}
	if _, err := CreateMenuItem(ctx, db, &domain.MenuItem{
		CategoryID: other.ID, Name: "Sobolo", Price: 50000, Available: true,
	}); err != nil {
		t.Fatalf("seed sobolo: %v", err)
	}

	// Category filter
	mains, err := ListMenuItems(ctx, db, MenuItemFilter{CategoryID: cat.ID})
	if err != nil || len(mains) != 2 {
		t.Fatalf("mains: %d err=%v", len(mains), err)
	}
	// Availability filter
	avail, err := ListMenuItems(ctx, db, MenuItemFilter{CategoryID: cat.ID, AvailableOnly: true})
	if err != nil || len(avail) != 1 || avail[0].Name != "Jollof rice" {
		t.Fatalf("available mains: %+v err=%v", avail, err)
	}

	// Batch fetch for order pricing
	batch, err := GetMenuItemsByIDs(ctx, db, []string{jollof.ID, "missing"})
	if err != nil || len(batch) != 1 {
		t.Fatalf("batch: %d err=%v", len(batch), err)
	}

	// Availability toggle + update
	if err := SetMenuItemAvailability(ctx, db, jollof.ID, false); err != nil {
		t.Fatalf("SetMenuItemAvailability: %v", err)
	}
	if err := UpdateMenuItem(ctx, db, jollof.ID, map[string]any{"price": int64(275000)}); err != nil {
		t.Fatalf("UpdateMenuItem: %v", err)
	}
	got, err := GetMenuItem(ctx, db, jollof.ID)
	if err != nil || got.Available || got.Price != 275000 {
		t.Fatalf("item round-trip: %+v err=%v", got, err)
	}

	if err := DeleteMenuItem(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateMenuItem_KeepsSoldOutFlag(t *testing.T) {
	db := newTestDB(t, &domain.Category{}, &domain.MenuItem{})
	ctx := context.Background()

	cat, err := CreateCategory(ctx, db, "Mains", 0)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	created, err := CreateMenuItem(ctx, db, &domain.MenuItem{
		CategoryID: cat.ID, Name: "Banku", Price: 200000, Available: false,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	got, err := GetMenuItem(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("GetMenuItem: %v", err)
	}
	if got.Available {
		t.Fatal("item created sold-out came back available")
	}
}
