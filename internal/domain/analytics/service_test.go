package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/analytics"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&product.Product{}, &order.Order{}, &order.OrderItem{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, slug string, price int64) *product.Product {
	p := &product.Product{Name: name, Slug: slug, Price: price, IsAvailable: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedOrderAt(t *testing.T, db *gorm.DB, createdAt time.Time, items []order.OrderItem) *order.Order {
	o := &order.Order{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		Address: "1 Main St", PostalCode: "10001", City: "Springfield",
		Status: order.OrderStatusPending,
		Items:  items,
	}
	require.NoError(t, db.Create(o).Error)
	// AutoCreateTime fields have to be backdated after the insert
	require.NoError(t, db.Model(o).Update("created_at", createdAt).Error)
	return o
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	from, to := analytics.ResolvePeriod(analytics.PeriodToday, now)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, tomorrow, to)

	from, to = analytics.ResolvePeriod(analytics.PeriodWeek, now)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, tomorrow, to)

	from, _ = analytics.ResolvePeriod(analytics.PeriodMonth, now)
	assert.Equal(t, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), from)

	from, _ = analytics.ResolvePeriod(analytics.PeriodYear, now)
	assert.Equal(t, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), from)

	// Unknown identifiers fall back to the weekly window
	from, to = analytics.ResolvePeriod("fortnight", now)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, tomorrow, to)
}

func TestGetSalesReport(t *testing.T) {
	db := setupTestDB(t)
	service := analytics.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1000)
	tote := seedProduct(t, db, "Linen Tote", "linen-tote", 2500)

	now := time.Now()
	seedOrderAt(t, db, now.AddDate(0, 0, -1), []order.OrderItem{
		{ProductID: mug.ID, Price: 1000, Quantity: 2},
	})
	seedOrderAt(t, db, now.AddDate(0, 0, -2), []order.OrderItem{
		{ProductID: mug.ID, Price: 1000, Quantity: 1},
		{ProductID: tote.ID, Price: 2500, Quantity: 2},
	})
	seedOrderAt(t, db, now.AddDate(0, 0, -3), []order.OrderItem{
		{ProductID: tote.ID, Price: 2000, Quantity: 1},
	})

	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 1)

	report, err := service.GetSalesReport(from, to, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.OrderCount)
	assert.Equal(t, int64(2000+1000+5000+2000), report.Revenue)
	assert.Equal(t, int64(6), report.ItemsSold)

	require.Len(t, report.TopProducts, 2)
	// Mug sold 3 units, tote 3 units; ties resolve by the DB, so just check
	// both are present with correct sums.
	byID := map[uint]analytics.ProductSalesData{}
	for _, p := range report.TopProducts {
		byID[p.ProductID] = p
	}
	assert.Equal(t, int64(3), byID[mug.ID].TotalSold)
	assert.Equal(t, int64(3000), byID[mug.ID].Revenue)
	assert.Equal(t, int64(3), byID[tote.ID].TotalSold)
	assert.Equal(t, int64(7000), byID[tote.ID].Revenue)
}

func TestGetSalesReportRespectsWindow(t *testing.T) {
	db := setupTestDB(t)
	service := analytics.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1000)

	now := time.Now()
	seedOrderAt(t, db, now.AddDate(0, 0, -20), []order.OrderItem{
		{ProductID: mug.ID, Price: 1000, Quantity: 1},
	})

	// A window that excludes the order reports zeros
	report, err := service.GetSalesReport(now.AddDate(0, 0, -7), now.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	assert.Zero(t, report.OrderCount)
	assert.Zero(t, report.Revenue)
	assert.Zero(t, report.ItemsSold)
	assert.Empty(t, report.TopProducts)

	// A wider window picks it up
	report, err = service.GetSalesReport(now.AddDate(0, 0, -30), now.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.OrderCount)
	assert.Equal(t, int64(1000), report.Revenue)
}

func TestGetSalesReportTopN(t *testing.T) {
	db := setupTestDB(t)
	service := analytics.NewService(db, &config.Config{})

	now := time.Now()
	var items []order.OrderItem
	for i := 0; i < 5; i++ {
		p := seedProduct(t, db, fmt.Sprintf("Item %d", i), fmt.Sprintf("item-%d", i), 1000)
		items = append(items, order.OrderItem{ProductID: p.ID, Price: 1000, Quantity: i + 1})
	}
	seedOrderAt(t, db, now.AddDate(0, 0, -1), items)

	report, err := service.GetSalesReport(now.AddDate(0, 0, -7), now.AddDate(0, 0, 1), 2)
	require.NoError(t, err)
	require.Len(t, report.TopProducts, 2)
	// Ranked by units sold, descending
	assert.Equal(t, int64(5), report.TopProducts[0].TotalSold)
	assert.Equal(t, int64(4), report.TopProducts[1].TotalSold)
}

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	service := analytics.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1000)
	seedProduct(t, db, "Linen Tote", "linen-tote", 2500)

	now := time.Now()
	recent := seedOrderAt(t, db, now.Add(-time.Hour), []order.OrderItem{
		{ProductID: mug.ID, Price: 1000, Quantity: 2},
	})
	seedOrderAt(t, db, now.AddDate(0, 0, -60), []order.OrderItem{
		{ProductID: mug.ID, Price: 900, Quantity: 1},
	})
	_, err := order.NewService(db, &config.Config{}).UpdateStatus(recent.ID, order.OrderStatusShipped)
	require.NoError(t, err)

	stats, err := service.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2900), stats.TotalRevenue)

	assert.Equal(t, int64(1), stats.OrdersToday)
	assert.Equal(t, int64(1), stats.OrdersMonth)
	assert.Equal(t, int64(2000), stats.RevenueToday)
	assert.Equal(t, int64(2000), stats.RevenueMonth)

	byStatus := map[order.OrderStatus]int64{}
	for _, c := range stats.OrderStatuses {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(1), byStatus[order.OrderStatusShipped])
	assert.Equal(t, int64(1), byStatus[order.OrderStatusPending])

	require.NotEmpty(t, stats.PopularProducts)
	assert.Equal(t, mug.ID, stats.PopularProducts[0].ProductID)
	assert.Equal(t, int64(3), stats.PopularProducts[0].TotalSold)
}
