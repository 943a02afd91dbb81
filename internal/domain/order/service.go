// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an order does not exist
var ErrNotFound = errors.New("order not found")

// ErrAccessDenied is returned when an actor who is neither the owner nor
// staff requests an order's detail.
var ErrAccessDenied = errors.New("access to this order is denied")

// InvalidStatusError is returned when a status update names a value outside
// the enumeration. The prior status is retained.
type InvalidStatusError struct {
	Status OrderStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %q", e.Status)
}

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// StatusCount represents the number of orders in one status
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// GetOrder retrieves a single order with its items
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	err := s.db.Preload("Items").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// GetOrderForActor retrieves an order on behalf of an actor. Only the owning
// account and staff may see an order's detail; guests and other accounts are
// denied.
func (s *Service) GetOrderForActor(id uint, actorID *uint, isStaff bool) (*Order, error) {
	o, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if isStaff {
		return o, nil
	}
	if actorID != nil && o.UserID != nil && *o.UserID == *actorID {
		return o, nil
	}
	return nil, ErrAccessDenied
}

// ListUserOrders returns the orders owned by a user, newest first
func (s *Service) ListUserOrders(userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// ListOrders returns all orders for the admin surface, optionally filtered
// by status, newest first.
func (s *Service) ListOrders(status OrderStatus) ([]Order, error) {
	query := s.db.Preload("Items").Order("created_at DESC")
	if status != "" {
		if !status.IsValid() {
			return nil, &InvalidStatusError{Status: status}
		}
		query = query.Where("status = ?", status)
	}

	var orders []Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets an order's status. Any in-enumeration value may be set
// at any time; values outside the enumeration are rejected and the prior
// status is retained.
func (s *Service) UpdateStatus(orderID uint, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, &InvalidStatusError{Status: status}
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(o).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	o.Status = status
	return o, nil
}

// StatusCounts returns the number of orders per status
func (s *Service) StatusCounts() ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.Model(&Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return counts, nil
}
