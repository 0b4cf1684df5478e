package repository

import (
	"context"

	"store-service/internal/domain"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	SearchActive(ctx context.Context, term string, page, pageSize int) ([]domain.Product, error)
	CountActive(ctx context.Context, term string, categoryID *uint64) (int64, error)
	ListByCategory(ctx context.Context, categoryID uint64, page, pageSize int) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Save(ctx context.Context, p *domain.Product) error

	// DecrementStock subtracts qty from the product's stock only when enough
	// stock remains. Returns false when the conditional update matched no row,
	// meaning the product would have been oversold.
	DecrementStock(ctx context.Context, id uint64, qty int) (bool, error)
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Save(ctx context.Context, c *domain.Category) error
}
