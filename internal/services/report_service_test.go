package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()
	orderSvc := NewOrderService(db, nil, 24*time.Hour)
	orderSvc.now = fixedNow
	openDay(t, db, "2025-06-15")

	jollof := seedMenuItem(t, db, "Jollof Rice", 2500, true)
	coke := seedMenuItem(t, db, "Coke", 500, true)

	ctx := context.Background()
	// Two completed paid orders and one pending unpaid.
	for i := 0; i < 2; i++ {
		o, _, err := orderSvc.Create(ctx, "", "", OrderInput{
			Type: domain.OrderDineIn,
			Lines: []OrderLine{
				{MenuItemID: jollof.ID, Quantity: 2},
				{MenuItemID: coke.ID, Quantity: 1},
			},
		})
		if err != nil {
			t.Fatalf("seed order: %v", err)
		}
		if _, err := orderSvc.UpdateStatus(ctx, o.ID, domain.StatusCompleted); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if _, err := orderSvc.MarkPaid(ctx, o.ID); err != nil {
			t.Fatalf("mark paid: %v", err)
		}
	}
	if _, _, err := orderSvc.Create(ctx, "", "", OrderInput{
		Type:  domain.OrderTakeout,
		Lines: []OrderLine{{MenuItemID: coke.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("seed pending: %v", err)
	}
}

func TestForDay(t *testing.T) {
	db := newSvcDB(t)
	seedReportData(t, db)
	svc := NewReportService(db)
	svc.now = fixedNow
	ctx := context.Background()

	rep, err := svc.ForDay(ctx, "")
	if err != nil {
		t.Fatalf("ForDay: %v", err)
	}
	if rep.Day != "2025-06-15" {
		t.Fatalf("day = %q", rep.Day)
	}
	if rep.Orders != 2 {
		t.Fatalf("paid orders = %d, want 2", rep.Orders)
	}
	// Two orders of 2x2500 + 1x500 each.
	if rep.GrossSales != 11000 {
		t.Fatalf("gross = %d, want 11000", rep.GrossSales)
	}
	if len(rep.ByStatus) != 2 {
		t.Fatalf("status buckets = %v", rep.ByStatus)
	}
	if len(rep.ItemSales) != 2 {
		t.Fatalf("item sales = %v", rep.ItemSales)
	}
	if rep.ItemSales[0].Name != "Jollof Rice" || rep.ItemSales[0].Revenue != 10000 {
		t.Fatalf("top item: %+v", rep.ItemSales[0])
	}

	if _, err := svc.ForDay(ctx, "1999-01-01"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown day: err = %v", err)
	}
}

func TestReportExportXLSX(t *testing.T) {
	db := newSvcDB(t)
	seedReportData(t, db)
	svc := NewReportService(db)
	svc.now = fixedNow

	var buf bytes.Buffer
	if err := svc.ExportXLSX(context.Background(), "2025-06-15", &buf); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen export: %v", err)
	}
	defer f.Close()

	summary, err := f.GetRows("Summary")
	if err != nil || len(summary) < 5 {
		t.Fatalf("summary rows = %d, %v", len(summary), err)
	}
	if summary[0][0] != "Day" || summary[0][1] != "2025-06-15" {
		t.Fatalf("summary header: %v", summary[0])
	}

	items, err := f.GetRows("Item Sales")
	if err != nil || len(items) != 3 {
		t.Fatalf("item rows = %d, %v", len(items), err)
	}
	if items[1][0] != "Jollof Rice" {
		t.Fatalf("top item row: %v", items[1])
	}
}
