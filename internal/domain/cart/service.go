// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/product"
	"gorm.io/gorm"
)

// ErrItemNotFound is returned when a product is not present in the cart
var ErrItemNotFound = errors.New("item not found in cart")

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CartItemResponse represents a cart line with product details
type CartItemResponse struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
	LineTotal int64            `json:"line_total"` // Current price * quantity, in cents
	AddedAt   time.Time        `json:"added_at"`
}

// CartResponse represents a shopping cart with items and totals
type CartResponse struct {
	SessionKey    string             `json:"session_key"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	SubTotal      int64              `json:"sub_total"` // In cents, from current catalog prices
	CreatedAt     time.Time          `json:"created_at"`
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a cart line quantity update. Quantity zero
// removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// GetOrCreateCart returns the cart bound to the session key, creating it if
// it does not exist yet.
func (s *Service) GetOrCreateCart(sessionKey string) (*Cart, error) {
	var c Cart
	err := s.db.Where("session_key = ?", sessionKey).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	c = Cart{SessionKey: sessionKey}
	if err := s.db.Create(&c).Error; err != nil {
		// A concurrent request may have created the cart between the
		// lookup and the insert; the unique session key resolves it.
		if lookupErr := s.db.Where("session_key = ?", sessionKey).First(&c).Error; lookupErr == nil {
			return &c, nil
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return &c, nil
}

// GetCart returns the cart for the session key with product details and
// totals from current catalog prices.
func (s *Service) GetCart(sessionKey string) (*CartResponse, error) {
	c, err := s.GetOrCreateCart(sessionKey)
	if err != nil {
		return nil, err
	}

	var items []CartItem
	if err := s.db.Where("cart_id = ?", c.ID).Order("created_at").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	response := &CartResponse{
		SessionKey: sessionKey,
		Items:      make([]CartItemResponse, 0, len(items)),
		CreatedAt:  c.CreatedAt,
	}

	for _, item := range items {
		var prod product.Product
		if err := s.db.First(&prod, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product removed from the catalog after it was added.
				continue
			}
			return nil, fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
		}

		lineTotal := prod.Price * int64(item.Quantity)
		response.Items = append(response.Items, CartItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   &prod,
			LineTotal: lineTotal,
			AddedAt:   item.CreatedAt,
		})
		response.TotalQuantity += item.Quantity
		response.SubTotal += lineTotal
	}

	return response, nil
}

// AddItem adds a product to the session's cart. If the product is already
// present, its quantity is incremented instead of creating a second row.
func (s *Service) AddItem(sessionKey string, req *AddItemRequest) (*CartResponse, error) {
	var prod product.Product
	if err := s.db.Where("id = ? AND is_available = ?", req.ProductID, true).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	c, err := s.GetOrCreateCart(sessionKey)
	if err != nil {
		return nil, err
	}

	var existing CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", c.ID, req.ProductID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := CartItem{
			CartID:    c.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	default:
		existing.Quantity += req.Quantity
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(sessionKey)
}

// UpdateItem sets the quantity of a cart line. Quantity zero removes the line.
func (s *Service) UpdateItem(sessionKey string, productID uint, req *UpdateItemRequest) (*CartResponse, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	c, err := s.GetOrCreateCart(sessionKey)
	if err != nil {
		return nil, err
	}

	var item CartItem
	if err := s.db.Where("cart_id = ? AND product_id = ?", c.ID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}

	if req.Quantity == 0 {
		if err := s.db.Delete(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		item.Quantity = req.Quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(sessionKey)
}

// RemoveItem removes a product line from the cart
func (s *Service) RemoveItem(sessionKey string, productID uint) (*CartResponse, error) {
	return s.UpdateItem(sessionKey, productID, &UpdateItemRequest{Quantity: 0})
}

// Clear removes every item from the session's cart. The cart row itself is
// kept; an empty cart never re-surfaces stale items.
func (s *Service) Clear(sessionKey string) error {
	var c Cart
	err := s.db.Where("session_key = ?", sessionKey).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ItemCount returns the total quantity across all cart lines
func (s *Service) ItemCount(sessionKey string) (int, error) {
	response, err := s.GetCart(sessionKey)
	if err != nil {
		return 0, err
	}
	return response.TotalQuantity, nil
}
