// Package services – ReportService
//
// End-of-day reporting over a day session: order counts by status, gross
// sales, and per-item sales, served as JSON for dashboards or exported as a
// spreadsheet for the back office.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// DayReport aggregates one day session for reporting.
type DayReport struct {
	Day         string             `json:"day"`
	SessionID   string             `json:"session_id"`
	Open        bool               `json:"open"`
	Orders      int64              `json:"orders"`
	GrossSales  int64              `json:"gross_sales"` // minor units, completed and paid only
	ByStatus    []repo.StatusCount `json:"by_status"`
	ItemSales   []repo.ItemSales   `json:"item_sales"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// ReportService builds sales reports from persisted orders.
type ReportService struct {
	DB *gorm.DB

	now func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db, now: time.Now}
}

// ForDay builds the report for a calendar day (YYYY-MM-DD). An empty day
// means today.
func (s *ReportService) ForDay(ctx context.Context, day string) (*DayReport, error) {
	if day == "" {
		day = s.now().UTC().Format("2006-01-02")
	}
	session, err := repo.GetDaySession(ctx, s.DB, day)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	orders, gross, err := repo.SessionSales(ctx, s.DB, session.ID)
	if err != nil {
		return nil, err
	}
	byStatus, err := repo.OrdersByStatus(ctx, s.DB, session.ID)
	if err != nil {
		return nil, err
	}
	items, err := repo.SessionItemSales(ctx, s.DB, session.ID)
	if err != nil {
		return nil, err
	}

	return &DayReport{
		Day:         day,
		SessionID:   session.ID,
		Open:        session.Open,
		Orders:      orders,
		GrossSales:  gross,
		ByStatus:    byStatus,
		ItemSales:   items,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// ExportXLSX writes the day report as a two-sheet workbook: a summary sheet
// and a per-item sales sheet.
func (s *ReportService) ExportXLSX(ctx context.Context, day string, w io.Writer) error {
	rep, err := s.ForDay(ctx, day)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	idx, err := f.NewSheet(summarySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	rows := [][]any{
		{"Day", rep.Day},
		{"Completed paid orders", rep.Orders},
		{"Gross sales", float64(rep.GrossSales) / 100},
		{},
		{"Status", "Orders"},
	}
	for _, sc := range rep.ByStatus {
		rows = append(rows, []any{sc.Status, sc.Count})
	}
	for i := range rows {
		row := rows[i]
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	const itemsSheet = "Item Sales"
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return err
	}
	header := []any{"Item", "Quantity", "Revenue"}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return err
	}
	for i, item := range rep.ItemSales {
		row := []any{item.Name, item.Quantity, float64(item.Revenue) / 100}
		if err := f.SetSheetRow(itemsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
