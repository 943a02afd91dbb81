// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
	"gorm.io/gorm"
)

// Reporting period identifiers accepted by ResolvePeriod.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Service computes read-only rollups over orders, order items and products
// for the admin dashboard and statistics views. No side effects.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductSalesData represents one product's contribution in a report
type ProductSalesData struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	TotalSold   int64  `json:"total_sold"`
	Revenue     int64  `json:"revenue"` // In cents
}

// SalesReport represents aggregates over one time window. Empty windows
// report zeros.
type SalesReport struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	OrderCount  int64              `json:"order_count"`
	Revenue     int64              `json:"revenue"` // In cents
	ItemsSold   int64              `json:"items_sold"`
	TopProducts []ProductSalesData `json:"top_products"`
}

// DashboardStats represents the admin dashboard rollup
type DashboardStats struct {
	TotalOrders   int64 `json:"total_orders"`
	TotalProducts int64 `json:"total_products"`
	TotalRevenue  int64 `json:"total_revenue"` // In cents

	OrdersToday  int64 `json:"orders_today"`
	OrdersWeek   int64 `json:"orders_week"`
	OrdersMonth  int64 `json:"orders_month"`
	RevenueToday int64 `json:"revenue_today"`
	RevenueWeek  int64 `json:"revenue_week"`
	RevenueMonth int64 `json:"revenue_month"`

	OrderStatuses   []order.StatusCount `json:"order_statuses"`
	PopularProducts []ProductSalesData  `json:"popular_products"`
}

// ResolvePeriod maps a period identifier to a half-open [from, to) window
// ending tomorrow at midnight. Unknown identifiers fall back to the weekly
// window.
func ResolvePeriod(period string, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1)

	switch period {
	case PeriodToday:
		return today, end
	case PeriodWeek:
		return today.AddDate(0, 0, -7), end
	case PeriodMonth:
		return today.AddDate(0, 0, -30), end
	case PeriodYear:
		return today.AddDate(0, 0, -365), end
	default:
		return today.AddDate(0, 0, -7), end
	}
}

// GetSalesReport computes order count, revenue, items sold and the top-N
// products by quantity for orders created within [from, to).
func (s *Service) GetSalesReport(from, to time.Time, topN int) (*SalesReport, error) {
	report := &SalesReport{
		From:        from,
		To:          to,
		TopProducts: []ProductSalesData{},
	}

	err := s.db.Model(&order.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&report.OrderCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	err = s.db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Select("COALESCE(SUM(order_items.price * order_items.quantity), 0) AS revenue, COALESCE(SUM(order_items.quantity), 0) AS items_sold").
		Row().Scan(&report.Revenue, &report.ItemsSold)
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	if topN > 0 {
		topProducts, err := s.topProducts(from, to, topN)
		if err != nil {
			return nil, err
		}
		report.TopProducts = topProducts
	}

	return report, nil
}

// GetSalesReportForPeriod resolves a named period and computes its report
func (s *Service) GetSalesReportForPeriod(period string, topN int) (*SalesReport, error) {
	from, to := ResolvePeriod(period, time.Now())
	return s.GetSalesReport(from, to, topN)
}

// GetDashboardStats computes the admin dashboard rollup
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	if err := s.db.Model(&order.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Table("products").Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var err error
	if stats.TotalRevenue, err = s.revenueSince(time.Time{}); err != nil {
		return nil, err
	}
	if stats.RevenueToday, err = s.revenueSince(today); err != nil {
		return nil, err
	}
	if stats.RevenueWeek, err = s.revenueSince(weekAgo); err != nil {
		return nil, err
	}
	if stats.RevenueMonth, err = s.revenueSince(monthAgo); err != nil {
		return nil, err
	}

	if stats.OrdersToday, err = s.orderCountSince(today); err != nil {
		return nil, err
	}
	if stats.OrdersWeek, err = s.orderCountSince(weekAgo); err != nil {
		return nil, err
	}
	if stats.OrdersMonth, err = s.orderCountSince(monthAgo); err != nil {
		return nil, err
	}

	orderService := order.NewService(s.db, s.config)
	if stats.OrderStatuses, err = orderService.StatusCounts(); err != nil {
		return nil, err
	}

	if stats.PopularProducts, err = s.topProducts(time.Time{}, now.AddDate(0, 0, 1), 10); err != nil {
		return nil, err
	}

	return stats, nil
}

// Private helpers

func (s *Service) orderCountSince(since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&order.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *Service) revenueSince(since time.Time) (int64, error) {
	var revenue int64
	err := s.db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ?", since).
		Select("COALESCE(SUM(order_items.price * order_items.quantity), 0)").
		Row().Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return revenue, nil
}

func (s *Service) topProducts(from, to time.Time, limit int) ([]ProductSalesData, error) {
	results := []ProductSalesData{}

	err := s.db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Select("order_items.product_id AS product_id, products.name AS product_name, " +
			"COALESCE(SUM(order_items.quantity), 0) AS total_sold, " +
			"COALESCE(SUM(order_items.price * order_items.quantity), 0) AS revenue").
		Group("order_items.product_id, products.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}

	return results, nil
}
