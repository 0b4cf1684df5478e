package repository

import "context"

// Stores bundles the repositories that take part in order placement so the
// whole read-snapshot-decrement-clear sequence can share one transaction.
type Stores struct {
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
}

// UnitOfWork runs fn inside a single database transaction. An error from fn
// rolls everything back, so a failed placement leaves no partial state.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Stores) error) error
}
