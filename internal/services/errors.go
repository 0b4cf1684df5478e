package services

import (
	"errors"
	"fmt"
)

// Business-rule failures. All are terminal: nothing here is retried, the
// transport layer maps them onto 4xx responses.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrItemNotFound     = errors.New("item not in cart")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrReviewNotFound   = errors.New("review not found")

	ErrProductUnavailable      = errors.New("product is unavailable")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrInvalidStatusTransition = errors.New("illegal order status transition")
	ErrCategoryCycle           = errors.New("category cannot be its own ancestor")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InsufficientStockError names the offending product so the caller can react
// by removing the item or reducing the quantity.
type InsufficientStockError struct {
	ProductID uint64
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}
