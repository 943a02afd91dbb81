// internal/domain/order/entity.go
package order

import (
	"time"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses lists every valid order status
var AllStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid reports whether the status is a member of the enumeration
func (s OrderStatus) IsValid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order represents a completed checkout. Orders may be owned by an account
// or placed as a guest; deleting the owning account clears the reference
// and keeps the order.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     *uint       `gorm:"index" json:"user_id"` // Nullable for guest orders
	FirstName  string      `gorm:"not null;size:50" json:"first_name"`
	LastName   string      `gorm:"not null;size:50" json:"last_name"`
	Email      string      `gorm:"not null;size:255" json:"email"`
	Phone      string      `gorm:"size:20" json:"phone"`
	Address    string      `gorm:"not null;size:250" json:"address"`
	PostalCode string      `gorm:"not null;size:20" json:"postal_code"`
	City       string      `gorm:"not null;size:100" json:"city"`
	Status     OrderStatus `gorm:"not null;default:'pending';size:20" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents a line in an order. The price is captured from the
// product at order time and never tracks later catalog changes. Items are
// immutable after creation.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Price     int64     `gorm:"not null" json:"price"` // Unit price in cents, captured at order time
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GetCost returns the line cost from the captured price
func (i *OrderItem) GetCost() int64 {
	return i.Price * int64(i.Quantity)
}

// GetTotalCost returns the order's total from its loaded items
func (o *Order) GetTotalCost() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.GetCost()
	}
	return total
}

// GetFormattedTotal returns the total cost as a decimal amount
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.GetTotalCost()) / 100
}
