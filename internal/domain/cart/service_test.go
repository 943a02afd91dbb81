package cart_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
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

	require.NoError(t, db.AutoMigrate(&product.Product{}, &cart.Cart{}, &cart.CartItem{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, slug string, price int64, available bool) *product.Product {
	p := &product.Product{
		Name:        name,
		Slug:        slug,
		Price:       price,
		IsAvailable: available,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGetOrCreateCartReusesSessionKey(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	first, err := service.GetOrCreateCart("session-1")
	require.NoError(t, err)

	second, err := service.GetOrCreateCart("session-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := service.GetOrCreateCart("session-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1250, true)

	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: mug.ID, Quantity: 2})
	require.NoError(t, err)

	response, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: mug.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, response.Items, 1)
	assert.Equal(t, 3, response.Items[0].Quantity)
	assert.Equal(t, int64(3750), response.Items[0].LineTotal)
	assert.Equal(t, int64(3750), response.SubTotal)

	var rowCount int64
	require.NoError(t, db.Model(&cart.CartItem{}).Count(&rowCount).Error)
	assert.Equal(t, int64(1), rowCount)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestAddItemUnavailableProduct(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	hidden := seedProduct(t, db, "Hidden", "hidden", 500, false)

	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: hidden.ID, Quantity: 1})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestUpdateItemQuantity(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1250, true)
	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: mug.ID, Quantity: 2})
	require.NoError(t, err)

	response, err := service.UpdateItem("session-1", mug.ID, &cart.UpdateItemRequest{Quantity: 5})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, 5, response.Items[0].Quantity)
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1250, true)
	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: mug.ID, Quantity: 2})
	require.NoError(t, err)

	response, err := service.UpdateItem("session-1", mug.ID, &cart.UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, response.Items)
	assert.Zero(t, response.SubTotal)
}

func TestUpdateItemMissing(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	_, err := service.UpdateItem("session-1", 42, &cart.UpdateItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestClearKeepsCartRow(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1250, true)
	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: mug.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, service.Clear("session-1"))

	count, err := service.ItemCount("session-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	var cartCount int64
	require.NoError(t, db.Model(&cart.Cart{}).Count(&cartCount).Error)
	assert.Equal(t, int64(1), cartCount)

	// Clearing a session with no cart is a no-op
	require.NoError(t, service.Clear("session-never-seen"))
}

func TestGetCartSkipsRemovedProducts(t *testing.T) {
	db := setupTestDB(t)
	service := cart.NewService(db, &config.Config{})

	mug := seedProduct(t, db, "Ceramic Mug", "ceramic-mug", 1250, true)
	tote := seedProduct(t, db, "Linen Tote", "linen-tote", 2490, true)
	_, err := service.AddItem("session-1", &cart.AddItemRequest{ProductID: mug.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = service.AddItem("session-1", &cart.AddItemRequest{ProductID: tote.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&product.Product{}, tote.ID).Error)

	response, err := service.GetCart("session-1")
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, mug.ID, response.Items[0].ProductID)
	assert.Equal(t, int64(1250), response.SubTotal)
}
