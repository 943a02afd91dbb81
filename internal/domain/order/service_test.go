package order_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
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

	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID *uint, status order.OrderStatus) *order.Order {
	o := &order.Order{
		UserID:     userID,
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@example.com",
		Address:    "1 Main St",
		PostalCode: "10001",
		City:       "Springfield",
		Status:     status,
		Items: []order.OrderItem{
			{ProductID: 1, Price: 1000, Quantity: 2},
			{ProductID: 2, Price: 550, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func TestGetOrderTotals(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	seeded := seedOrder(t, db, nil, order.OrderStatusPending)

	o, err := service.GetOrder(seeded.ID)
	require.NoError(t, err)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, int64(2550), o.GetTotalCost())
	assert.Equal(t, int64(2000), o.Items[0].GetCost())
}

func TestGetOrderMissing(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	_, err := service.GetOrder(42)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestGetOrderForActor(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	ownerID := uint(7)
	otherID := uint(8)
	owned := seedOrder(t, db, &ownerID, order.OrderStatusPending)
	guest := seedOrder(t, db, nil, order.OrderStatusPending)

	// Owner sees their own order
	o, err := service.GetOrderForActor(owned.ID, &ownerID, false)
	require.NoError(t, err)
	assert.Equal(t, owned.ID, o.ID)

	// Another account is denied
	_, err = service.GetOrderForActor(owned.ID, &otherID, false)
	assert.ErrorIs(t, err, order.ErrAccessDenied)

	// Guest orders have no owner to match
	_, err = service.GetOrderForActor(guest.ID, &ownerID, false)
	assert.ErrorIs(t, err, order.ErrAccessDenied)

	// Staff sees everything
	o, err = service.GetOrderForActor(guest.ID, &otherID, true)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, o.ID)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	seeded := seedOrder(t, db, nil, order.OrderStatusPending)

	// Every enumerated status is settable, in any order
	for _, status := range order.AllStatuses {
		o, err := service.UpdateStatus(seeded.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, o.Status)
	}

	// Moving backwards is allowed too
	o, err := service.UpdateStatus(seeded.ID, order.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusProcessing, o.Status)
}

func TestUpdateStatusInvalidRetainsPrior(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	seeded := seedOrder(t, db, nil, order.OrderStatusShipped)

	_, err := service.UpdateStatus(seeded.ID, order.OrderStatus("teleported"))
	require.Error(t, err)

	var statusErr *order.InvalidStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, order.OrderStatus("teleported"), statusErr.Status)

	reloaded, err := service.GetOrder(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusShipped, reloaded.Status)
}

func TestListOrdersStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	seedOrder(t, db, nil, order.OrderStatusPending)
	seedOrder(t, db, nil, order.OrderStatusPending)
	seedOrder(t, db, nil, order.OrderStatusDelivered)

	all, err := service.ListOrders("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := service.ListOrders(order.OrderStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = service.ListOrders(order.OrderStatus("bogus"))
	var statusErr *order.InvalidStatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestListUserOrders(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	ownerID := uint(3)
	seedOrder(t, db, &ownerID, order.OrderStatusPending)
	seedOrder(t, db, &ownerID, order.OrderStatusShipped)
	seedOrder(t, db, nil, order.OrderStatusPending)

	orders, err := service.ListUserOrders(ownerID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.NotEmpty(t, o.Items)
	}
}

func TestStatusCounts(t *testing.T) {
	db := setupTestDB(t)
	service := order.NewService(db, &config.Config{})

	seedOrder(t, db, nil, order.OrderStatusPending)
	seedOrder(t, db, nil, order.OrderStatusPending)
	seedOrder(t, db, nil, order.OrderStatusCancelled)

	counts, err := service.StatusCounts()
	require.NoError(t, err)

	byStatus := map[order.OrderStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(2), byStatus[order.OrderStatusPending])
	assert.Equal(t, int64(1), byStatus[order.OrderStatusCancelled])
}

func TestStatusIsValid(t *testing.T) {
	for _, status := range order.AllStatuses {
		assert.True(t, status.IsValid(), "expected %q to be valid", status)
	}
	assert.False(t, order.OrderStatus("").IsValid())
	assert.False(t, order.OrderStatus("PENDING").IsValid())
}
