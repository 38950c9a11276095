// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides aggregate queries used by the admin
// dashboard and the daily sales report.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
)

// StatusCount pairs an order status with its row count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// OrdersByStatus returns order counts grouped by status for one day session.
func OrdersByStatus(ctx context.Context, db *gorm.DB, sessionID string) ([]StatusCount, error) {
	var out []StatusCount
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("status, count(*) as count").
		Where("day_session_id = ?", sessionID).
		Group("status").
		Order("status asc").
		Scan(&out).Error
	return out, err
}

// SessionSales aggregates a day session's revenue: number of completed,
// paid orders and their gross total in minor units.
//
// Cancelled orders and unpaid orders are excluded; refunded orders are
// excluded from gross.
func SessionSales(ctx context.Context, db *gorm.DB, sessionID string) (orders int64, gross int64, err error) {
	row := struct {
		Orders int64
		Gross  int64
	}{}
	err = db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("count(*) as orders, coalesce(sum(total), 0) as gross").
		Where("day_session_id = ? AND status = ? AND payment_status = ?",
			sessionID, domain.StatusCompleted, domain.PayPaid).
		Scan(&row).Error
	return row.Orders, row.Gross, err
}

// ItemSales is one menu item's sold quantity and revenue within a session.
type ItemSales struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	Revenue    int64  `json:"revenue"`
}

// SessionItemSales returns per-item sales for completed, paid orders in a
// session, highest revenue first.
func SessionItemSales(ctx context.Context, db *gorm.DB, sessionID string) ([]ItemSales, error) {
	var out []ItemSales
	err := db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Select("order_items.menu_item_id, order_items.name, sum(order_items.quantity) as quantity, sum(order_items.line_total) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.day_session_id = ? AND orders.status = ? AND orders.payment_status = ?",
			sessionID, domain.StatusCompleted, domain.PayPaid).
		Group("order_items.menu_item_id, order_items.name").
		Order("revenue desc").
		Scan(&out).Error
	return out, err
}

// OrdersStats returns aggregate metadata for the order table scoped to a
// session: row count and greatest UpdatedAt. Used for ETag-style conditional
// responses on staff dashboards.
func OrdersStats(ctx context.Context, db *gorm.DB, sessionID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Order{}).Where("day_session_id = ?", sessionID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
