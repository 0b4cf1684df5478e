package repository

import (
	"context"

	"store-service/internal/domain"
)

type CartRepository interface {
	// FindByUserWithItems returns nil, nil when the user has no cart yet.
	FindByUserWithItems(ctx context.Context, userID uint64) (*domain.Cart, error)
	FindItem(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error)
	CreateCart(ctx context.Context, cart *domain.Cart) error
	TouchCart(ctx context.Context, cartID uint64) error
	CreateItem(ctx context.Context, item *domain.CartItem) error
	SaveItem(ctx context.Context, item *domain.CartItem) error
	DeleteItem(ctx context.Context, item *domain.CartItem) error
	DeleteItems(ctx context.Context, cartID uint64) error
}
