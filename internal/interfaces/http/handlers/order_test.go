package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"gorm.io/gorm"
)

// identity mimics the auth middleware for tests by seeding its context keys.
func identity(userID uint, isStaff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", fmt.Sprintf("user_%d", userID))
		c.Set("is_staff", isStaff)
		c.Next()
	}
}

func setupOrderRouter(t *testing.T, userID uint, isStaff bool) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	handler := handlers.NewOrderHandler(db, &config.Config{})

	r := gin.New()
	r.GET("/admin/orders/:id", identity(userID, isStaff), handler.GetOrder)
	return r, db
}

func TestAdminGetOrderAsStaff(t *testing.T) {
	router, db := setupOrderRouter(t, 42, true)

	// A guest order, owned by nobody
	o := seedOrderAt(t, db, time.Now(), []order.OrderItem{
		{ProductID: 1, Price: 1500, Quantity: 2},
	})

	w := httptest.NewRecorder()
	path := fmt.Sprintf("/admin/orders/%d", o.ID)
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data order.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, o.ID, resp.Data.ID)
	assert.Len(t, resp.Data.Items, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminGetOrderDeniedToNonStaff(t *testing.T) {
	router, db := setupOrderRouter(t, 7, false)

	o := seedOrderAt(t, db, time.Now(), []order.OrderItem{
		{ProductID: 1, Price: 1500, Quantity: 1},
	})

	w := httptest.NewRecorder()
	path := fmt.Sprintf("/admin/orders/%d", o.ID)
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
