// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	// Orders keep their contact snapshot when the owning account goes away.
	if err := m.db.Exec(
		"ALTER TABLE orders DROP CONSTRAINT IF EXISTS fk_orders_user, " +
			"ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL",
	).Error; err != nil {
		return fmt.Errorf("failed to set order owner deletion policy: %w", err)
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_available_created ON products(is_available, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SeedInitialData seeds a staff account and a few catalog products for
// development environments.
func (m *Migration) SeedInitialData() error {
	var userCount int64
	if err := m.db.Model(&user.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if userCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		staff := user.User{
			Username:  "admin",
			Email:     "admin@example.com",
			Password:  string(hashed),
			FirstName: "Store",
			LastName:  "Admin",
			IsActive:  true,
			IsStaff:   true,
		}
		if err := m.db.Create(&staff).Error; err != nil {
			return fmt.Errorf("failed to seed staff user: %w", err)
		}
		log.Println("Seeded staff user: admin")
	}

	var productCount int64
	if err := m.db.Model(&product.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	if productCount == 0 {
		products := []product.Product{
			{Name: "Ceramic Mug", Slug: "ceramic-mug", Description: "Hand-glazed ceramic mug, 350ml", Price: 1250, IsAvailable: true},
			{Name: "Linen Tote Bag", Slug: "linen-tote-bag", Description: "Natural linen tote with inner pocket", Price: 2490, IsAvailable: true},
			{Name: "Scented Candle", Slug: "scented-candle", Description: "Soy wax candle, cedar and amber", Price: 1890, IsAvailable: true},
		}
		if err := m.db.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		log.Printf("Seeded %d catalog products", len(products))
	}

	return nil
}
