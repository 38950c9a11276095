package services

import (
	"context"
	"errors"
	"testing"
)

func TestSettings_SetGetAndValidation(t *testing.T) {
	svc := NewSettingsService(newSvcDB(t))
	ctx := context.Background()

	if _, err := svc.Get(ctx, "restaurant_name"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("missing get: err = %v", err)
	}

	set, err := svc.Set(ctx, "admin-1", "restaurant_name", "Mama's Kitchen")
	if err != nil || set.Value != "Mama's Kitchen" || set.UpdatedBy != "admin-1" {
		t.Fatalf("Set: %+v, %v", set, err)
	}

	// Upsert overwrites and re-stamps the editor.
	set, err = svc.Set(ctx, "admin-2", "restaurant_name", "Papa's Kitchen")
	if err != nil || set.Value != "Papa's Kitchen" || set.UpdatedBy != "admin-2" {
		t.Fatalf("re-Set: %+v, %v", set, err)
	}

	if _, err := svc.Set(ctx, "admin-1", "", "x"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("blank key: err = %v", err)
	}
	if _, err := svc.Set(ctx, "admin-1", "tax_rate_bps", "20000"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("tax over 100%%: err = %v", err)
	}
	if _, err := svc.Set(ctx, "admin-1", "tax_rate_bps", "abc"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("non-numeric tax: err = %v", err)
	}
	if _, err := svc.Set(ctx, "admin-1", "order_number_prefix", "WAY_TOO_LONG_PREFIX"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("long prefix: err = %v", err)
	}
	if _, err := svc.Set(ctx, "admin-1", "tax_rate_bps", "750"); err != nil {
		t.Fatalf("valid tax: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List = %d, %v", len(all), err)
	}
}

func TestAuditPage_FromSettingWrites(t *testing.T) {
	svc := NewSettingsService(newSvcDB(t))
	ctx := context.Background()

	for _, v := range []string{"100", "200", "300"} {
		if _, err := svc.Set(ctx, "admin-1", "tax_rate_bps", v); err != nil {
			t.Fatalf("seed set: %v", err)
		}
	}

	entries, total, err := svc.AuditPage(ctx, "setting.set", 1, 2)
	if err != nil || total != 3 || len(entries) != 2 {
		t.Fatalf("AuditPage = %d/%d, %v", len(entries), total, err)
	}
	if entries[0].Action != "setting.set" {
		t.Fatalf("unexpected action %q", entries[0].Action)
	}

	none, total, err := svc.AuditPage(ctx, "other.action", 1, 10)
	if err != nil || total != 0 || len(none) != 0 {
		t.Fatalf("filtered page = %d/%d, %v", len(none), total, err)
	}
}
