package repository

import (
	"context"

	"store-service/internal/domain"
)

type OrderRepository interface {
	// Create persists the order together with its item snapshots.
	Create(ctx context.Context, order *domain.Order) error
	FindWithItems(ctx context.Context, id uint64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, page, pageSize int) ([]domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
}
