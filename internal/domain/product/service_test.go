package product_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
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

func TestCreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	created, err := service.Create(&product.CreateProductRequest{
		Name:  "Ceramic Mug",
		Slug:  "ceramic-mug",
		Price: 1250,
	})
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)

	bySlug, err := service.GetBySlug("ceramic-mug")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	byID, err := service.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ceramic Mug", byID.Name)

	_, err = service.GetBySlug("no-such-slug")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	_, err := service.Create(&product.CreateProductRequest{Name: "Mug", Slug: "mug", Price: 1000})
	require.NoError(t, err)

	_, err = service.Create(&product.CreateProductRequest{Name: "Other Mug", Slug: "mug", Price: 1100})
	assert.ErrorIs(t, err, product.ErrSlugTaken)
}

func TestCreateUnavailablePersists(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	unavailable := false
	created, err := service.Create(&product.CreateProductRequest{
		Name:        "Retired Mug",
		Slug:        "retired-mug",
		Price:       900,
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	assert.False(t, created.IsAvailable)

	// Read back from the database, not the in-memory struct
	stored, err := service.GetByID(created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	listed, err := service.ListAvailable("")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListAvailable(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	unavailable := false
	_, err := service.Create(&product.CreateProductRequest{Name: "Ceramic Mug", Slug: "ceramic-mug", Price: 1250})
	require.NoError(t, err)
	_, err = service.Create(&product.CreateProductRequest{Name: "Linen Tote", Slug: "linen-tote", Price: 2490, Description: "Natural linen bag"})
	require.NoError(t, err)
	_, err = service.Create(&product.CreateProductRequest{Name: "Retired Mug", Slug: "retired-mug", Price: 900, IsAvailable: &unavailable})
	require.NoError(t, err)

	all, err := service.ListAvailable("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Search matches name and description, case-insensitively
	mugs, err := service.ListAvailable("MUG")
	require.NoError(t, err)
	require.Len(t, mugs, 1)
	assert.Equal(t, "ceramic-mug", mugs[0].Slug)

	bags, err := service.ListAvailable("linen")
	require.NoError(t, err)
	assert.Len(t, bags, 1)

	everything, err := service.ListAll()
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	created, err := service.Create(&product.CreateProductRequest{Name: "Mug", Slug: "mug", Price: 1000})
	require.NoError(t, err)

	newPrice := int64(1500)
	hidden := false
	updated, err := service.Update(created.ID, &product.UpdateProductRequest{
		Price:       &newPrice,
		IsAvailable: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.Price)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Mug", updated.Name)

	negative := int64(-5)
	_, err = service.Update(created.ID, &product.UpdateProductRequest{Price: &negative})
	assert.Error(t, err)

	_, err = service.Update(999, &product.UpdateProductRequest{Price: &newPrice})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	created, err := service.Create(&product.CreateProductRequest{Name: "Mug", Slug: "mug", Price: 1000})
	require.NoError(t, err)

	require.NoError(t, service.Delete(created.ID))
	assert.ErrorIs(t, service.Delete(created.ID), product.ErrNotFound)

	_, err = service.GetByID(created.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestGetSalesSummary(t *testing.T) {
	db := setupTestDB(t)
	service := product.NewService(db, &config.Config{})

	created, err := service.Create(&product.CreateProductRequest{Name: "Mug", Slug: "mug", Price: 1000})
	require.NoError(t, err)

	// No sales yet
	summary, err := service.GetSalesSummary(created.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalOrdered)
	assert.Zero(t, summary.TotalRevenue)

	o := order.Order{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		Address: "1 Main St", PostalCode: "10001", City: "Springfield",
		Status: order.OrderStatusPending,
		Items: []order.OrderItem{
			{ProductID: created.ID, Price: 1000, Quantity: 2},
		},
	}
	require.NoError(t, db.Create(&o).Error)

	// A second order at an older captured price
	o2 := order.Order{
		FirstName: "John", LastName: "Roe", Email: "john@example.com",
		Address: "2 Main St", PostalCode: "10002", City: "Springfield",
		Status: order.OrderStatusDelivered,
		Items: []order.OrderItem{
			{ProductID: created.ID, Price: 900, Quantity: 3},
		},
	}
	require.NoError(t, db.Create(&o2).Error)

	summary, err = service.GetSalesSummary(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.TotalOrdered)
	assert.Equal(t, int64(2000+2700), summary.TotalRevenue)
}
