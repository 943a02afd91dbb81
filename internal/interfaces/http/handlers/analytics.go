// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsHandler handles admin reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		config:           cfg,
	}
}

// GetDashboard handles GET /admin/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve dashboard statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard statistics retrieved successfully",
		"data":    stats,
	})
}

// GetSalesReport handles GET /admin/analytics/sales. The window comes from
// either ?period=today|week|month|year or explicit ?from=&to= dates
// (YYYY-MM-DD, half-open).
func (h *AnalyticsHandler) GetSalesReport(c *gin.Context) {
	topN := 10
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid top parameter",
			})
			return
		}
		topN = n
	}

	fromParam := c.Query("from")
	toParam := c.Query("to")

	if fromParam != "" || toParam != "" {
		from, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid from date, expected YYYY-MM-DD",
			})
			return
		}
		to, err := time.Parse("2006-01-02", toParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid to date, expected YYYY-MM-DD",
			})
			return
		}
		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "from must be before to",
			})
			return
		}

		report, err := h.analyticsService.GetSalesReport(from, to, topN)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to build sales report",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Sales report retrieved successfully",
			"data":    report,
		})
		return
	}

	period := c.DefaultQuery("period", analytics.PeriodWeek)
	report, err := h.analyticsService.GetSalesReportForPeriod(period, topN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build sales report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales report retrieved successfully",
		"data":    report,
	})
}
