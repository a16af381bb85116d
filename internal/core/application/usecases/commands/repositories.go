// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, then the broker side effects that must not be rolled back.
package commands

import (
	"context"

	"orders/internal/core/ports"
)

// Command handlers depend on these narrow views of ports.UnitOfWork so tests
// can mock exactly what a handler touches.
type (
	// TxManager brackets the order store writes of one command.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory exposes the order repository of the open transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW is what create and delete run inside:
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil { ... }
	//	defer func() { _ = uow.Rollback(ctx) }()
	//	o, err := uow.OrderRepository().Get(ctx, id)
	//	...
	//	err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory returns a fresh OrderUoW per command.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)
