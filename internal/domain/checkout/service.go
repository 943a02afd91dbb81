// internal/domain/checkout/service.go
package checkout

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/pkg/auth"
	"gorm.io/gorm"
)

// ErrEmptyCart is returned when checkout is attempted with no cart items.
// No writes are performed.
var ErrEmptyCart = errors.New("cart is empty")

// ContactValidationError reports the contact fields that failed validation.
// Detected before any write occurs.
type ContactValidationError struct {
	Fields map[string]string
}

func (e *ContactValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid contact info: %s", strings.Join(names, ", "))
}

// Service orchestrates the order-placement workflow: cart validation,
// identity resolution, order and line-item creation, and cart clearing,
// as one atomic unit.
type Service struct {
	db              *gorm.DB
	config          *config.Config
	cartService     *cart.Service
	userService     *user.Service
	passwordManager *auth.PasswordManager
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		cartService:     cart.NewService(db, cfg),
		userService:     user.NewService(db, cfg),
		passwordManager: auth.NewPasswordManager(cfg),
	}
}

// PlaceOrderRequest represents the checkout form data
type PlaceOrderRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	CreateAccount bool   `json:"create_account"`
}

// PlaceOrderResult represents a completed checkout. Warnings carry non-fatal
// account-creation failures; the order itself succeeded.
type PlaceOrderResult struct {
	Order    *order.Order       `json:"order"`
	Notices  []string           `json:"notices,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
	Account  *user.User         `json:"account,omitempty"`
	Session  *user.AuthResponse `json:"session,omitempty"`
}

// PlaceOrder converts the session's cart into an order. All writes happen in
// one transaction: the order row, its items with prices captured from the
// catalog at this instant, the optional new account, and the cart clearing
// either all become visible or none do.
func (s *Service) PlaceOrder(sessionKey string, actorID *uint, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	c, err := s.cartService.GetOrCreateCart(sessionKey)
	if err != nil {
		return nil, err
	}

	var items []cart.CartItem
	if err := s.db.Where("cart_id = ?", c.ID).Order("created_at").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := validateContact(req); err != nil {
		return nil, err
	}

	result := &PlaceOrderResult{}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Resolve the owning identity
	owner, newAccount := s.resolveOwner(tx, actorID, req, result)

	o := order.Order{
		UserID:     owner,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      strings.ToLower(req.Email),
		Phone:      req.Phone,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		City:       req.City,
		Status:     order.OrderStatusPending,
	}

	if err := tx.Create(&o).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Capture line items with the product's price as of now, not the price
	// seen when the item was added to the cart.
	for _, item := range items {
		var prod product.Product
		if err := tx.First(&prod, item.ProductID).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
		}

		orderItem := order.OrderItem{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Price:     prod.Price,
			Quantity:  item.Quantity,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	// Establish a session for a freshly synthesized account. Failure here is
	// non-fatal: the order stands, the caller is warned instead.
	if newAccount != nil {
		result.Account = newAccount
		session, err := s.userService.EstablishSession(newAccount)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("account %q was created but could not be signed in: %v", newAccount.Username, err))
		} else {
			result.Session = session
			result.Notices = append(result.Notices,
				fmt.Sprintf("account created, your username is %q", newAccount.Username))
		}
	}

	if err := s.db.Preload("Items").First(&o, o.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load complete order: %w", err)
	}

	result.Order = &o
	return result, nil
}

// resolveOwner decides which account, if any, owns the order. An
// authenticated actor always wins. Otherwise, when an account is requested,
// an existing account with the submitted email is reused, or a new one is
// synthesized inside a savepoint so that any failure rolls back the account
// alone and downgrades to a warning.
func (s *Service) resolveOwner(tx *gorm.DB, actorID *uint, req *PlaceOrderRequest, result *PlaceOrderResult) (*uint, *user.User) {
	if actorID != nil {
		var u user.User
		if err := tx.First(&u, *actorID).Error; err == nil {
			id := u.ID
			return &id, nil
		}
		// Stale authenticated identity; fall through to a guest order.
		return nil, nil
	}

	if !req.CreateAccount {
		return nil, nil
	}

	var owner *uint
	var newAccount *user.User

	err := tx.Transaction(func(ptx *gorm.DB) error {
		var existing user.User
		err := ptx.Where("email = ?", strings.ToLower(req.Email)).First(&existing).Error
		if err == nil {
			id := existing.ID
			owner = &id
			result.Notices = append(result.Notices,
				fmt.Sprintf("an existing account for %s was found and attached to this order", req.Email))
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up account: %w", err)
		}

		username, err := s.deriveUsername(ptx, req.FirstName, req.LastName)
		if err != nil {
			return err
		}

		password, err := s.passwordManager.GenerateRandomPassword()
		if err != nil {
			return err
		}
		hashed, err := s.passwordManager.HashPassword(password)
		if err != nil {
			return err
		}

		u := user.User{
			Username:  username,
			Email:     req.Email,
			Password:  hashed,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			IsActive:  true,
		}
		if err := ptx.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		id := u.ID
		owner = &id
		u.Password = ""
		newAccount = &u
		return nil
	})
	if err != nil {
		// Account creation is never fatal to the order.
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not create an account: %v", err))
		return nil, nil
	}

	return owner, newAccount
}

// deriveUsername builds a deterministic username from the customer's name:
// lower(first)_lower(last), with an incrementing numeric suffix on collision.
func (s *Service) deriveUsername(tx *gorm.DB, firstName, lastName string) (string, error) {
	base := strings.ToLower(firstName) + "_" + strings.ToLower(lastName)
	candidate := base

	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&user.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, counter)
	}
}

func validateContact(req *PlaceOrderRequest) error {
	fields := map[string]string{}

	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "first name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["last_name"] = "last name is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "email is not a valid address"
	}
	if strings.TrimSpace(req.Address) == "" {
		fields["address"] = "address is required"
	}
	if strings.TrimSpace(req.PostalCode) == "" {
		fields["postal_code"] = "postal code is required"
	}
	if strings.TrimSpace(req.City) == "" {
		fields["city"] = "city is required"
	}

	if len(fields) > 0 {
		return &ContactValidationError{Fields: fields}
	}
	return nil
}
