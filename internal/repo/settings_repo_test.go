package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

func TestSettings_UpsertAndRead(t *testing.T) {
	db := newTestDB(t, &domain.SystemSetting{})
	ctx := context.Background()

	if _, err := GetSetting(ctx, db, "tax_rate_bps"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := UpsertSetting(ctx, db, "tax_rate_bps", "1250", "admin-1"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := UpsertSetting(ctx, db, "tax_rate_bps", "1500", "admin-2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := GetSetting(ctx, db, "tax_rate_bps")
	if err != nil || got.Value != "1500" || got.UpdatedBy != "admin-2" {
		t.Fatalf("round-trip: %+v err=%v", got, err)
	}

	if err := UpsertSetting(ctx, db, "currency", "NGN", "admin-1"); err != nil {
		t.Fatalf("second key: %v", err)
	}
	all, err := ListSettings(ctx, db)
	if err != nil || len(all) != 2 || all[0].Key != "currency" {
		t.Fatalf("list: %+v err=%v", all, err)
	}
}

func TestAuditLog_AppendAndPage(t *testing.T) {
	db := newTestDB(t, &domain.AuditLog{})
	ctx := context.Background()

	for _, action := range []string{"order.status", "order.status", "menu.update"} {
		if err := AppendAudit(ctx, db, "admin-1", action, "order", "o1", "detail"); err != nil {
			t.Fatalf("append %s: %v", action, err)
		}
	}

	page, err := ListAuditPage(ctx, db, "order.status", 0, 10)
	if err != nil || len(page) != 2 {
		t.Fatalf("filtered page: %d err=%v", len(page), err)
	}
	total, err := CountAudit(ctx, db, "")
	if err != nil || total != 3 {
		t.Fatalf("count: %d err=%v", total, err)
	}
}
