// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/storefront/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// ErrSlugTaken is returned when a product slug is already in use
var ErrSlugTaken = errors.New("product slug already in use")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"required,max=200"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=0"`
	Image       string `json:"image"`
	IsAvailable *bool  `json:"is_available"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// SalesSummary represents on-demand per-product sales aggregates
type SalesSummary struct {
	TotalOrdered int64 `json:"total_ordered"`
	TotalRevenue int64 `json:"total_revenue"` // In cents
}

// ListAvailable returns available products, optionally filtered by a
// case-insensitive search over name and description.
func (s *Service) ListAvailable(search string) ([]Product, error) {
	var products []Product

	query := s.db.Where("is_available = ?", true).Order("created_at DESC")

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// ListAll returns every product, newest first. Used by the admin surface.
func (s *Service) ListAll() ([]Product, error) {
	var products []Product
	if err := s.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its identifier
func (s *Service) GetByID(id uint) (*Product, error) {
	var prod Product
	if err := s.db.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// GetBySlug retrieves a product by its public slug
func (s *Service) GetBySlug(slug string) (*Product, error) {
	var prod Product
	if err := s.db.Where("slug = ?", slug).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// Create creates a new catalog product
func (s *Service) Create(req *CreateProductRequest) (*Product, error) {
	var count int64
	if err := s.db.Model(&Product{}).Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	prod := Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		prod.IsAvailable = *req.IsAvailable
	}

	if err := s.db.Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &prod, nil
}

// Update updates an existing product. The slug is the public lookup key and
// stays immutable once assigned.
func (s *Service) Update(id uint, req *UpdateProductRequest) (*Product, error) {
	prod, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) == 0 {
		return prod, nil
	}

	if err := s.db.Model(prod).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return prod, nil
}

// Delete removes a product from the catalog
func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSalesSummary computes total quantity sold and total revenue for a
// product across all order items. Computed on demand, not cached.
func (s *Service) GetSalesSummary(productID uint) (*SalesSummary, error) {
	summary := &SalesSummary{}

	err := s.db.Table("order_items").
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0) AS total_ordered, COALESCE(SUM(price * quantity), 0) AS total_revenue").
		Scan(summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute sales summary: %w", err)
	}

	return summary, nil
}
