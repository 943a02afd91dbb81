// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Cart represents a session-scoped shopping cart. Exactly one cart exists
// per session key.
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SessionKey string     `gorm:"uniqueIndex;not null;size:64" json:"session_key"`
	CreatedAt  time.Time  `json:"created_at"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem represents a product line in a cart. At most one row exists per
// (cart, product) pair; repeated adds increment the quantity.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }
