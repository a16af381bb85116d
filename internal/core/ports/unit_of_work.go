package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command, so concurrent
// creates and deletes never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork brackets the order store writes of one command. Broker side
// effects happen only after Commit returns.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit makes staged order writes visible. It fails without Begin.
	Commit(ctx context.Context) error

	// Rollback discards staged writes. Calling it after Commit is harmless
	// for callers that defer it.
	Rollback(ctx context.Context) error

	// OrderRepository reads and writes through the open transaction, or
	// directly against the store when none is open.
	OrderRepository() OrderRepository
}
