package mysql

import (
	"context"

	"store-service/internal/repository"

	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) repository.UnitOfWork {
	return &unitOfWork{db: db}
}

// Do rebinds the repositories onto the transaction handle so every store call
// inside fn shares one transaction. gorm rolls back when fn returns an error.
func (u *unitOfWork) Do(ctx context.Context, fn func(tx repository.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.Stores{
			Products: NewProductRepository(tx),
			Carts:    NewCartRepository(tx),
			Orders:   NewOrderRepository(tx),
		})
	})
}
