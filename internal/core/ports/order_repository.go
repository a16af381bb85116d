// Package ports defines the contracts between the order lifecycle core and
// its infrastructure: storage, the product service reached over the broker,
// and the notification service.
package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderReader is the read side of the order store.
type OrderReader interface {
	// Get retrieves an order by identifier.
	// Returns *errs.ObjectNotFoundError when no order has that identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByUser returns every order owned by userID. The order is the store's
	// iteration order and is stable while the store is unchanged.
	GetByUser(ctx context.Context, userID kernel.UUID) ([]*order.Order, error)

	// GetAll returns every order, in the same stable iteration order.
	GetAll(ctx context.Context) ([]*order.Order, error)
}

// OrderRepository defines the persistence contract for order aggregates.
// No transactional guarantee is assumed beyond a single call unless the
// repository is obtained from a UnitOfWork.
type OrderRepository interface {
	OrderReader

	// Add persists a new order. The order must be valid.
	Add(ctx context.Context, aggregate *order.Order) error

	// Delete removes an order by identifier. Deleting an identifier that does
	// not exist is a no-op, so racing deletes stay harmless.
	Delete(ctx context.Context, id kernel.UUID) error
}
