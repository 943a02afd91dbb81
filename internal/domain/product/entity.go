// internal/domain/product/entity.go
package product

import (
	"time"
)

// Product represents a catalog product
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:200" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:200" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null" json:"price"` // Price in cents
	Image       string    `gorm:"size:500" json:"image"`
	// No default tag: gorm drops zero values for defaulted columns on
	// INSERT, which would turn an unavailable product into an available one.
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// GetFormattedPrice returns the price as a decimal amount
func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}
