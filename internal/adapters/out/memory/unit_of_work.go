package memory

import (
	"context"
	"errors"
	"sync"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback without a prior Begin.
var ErrNoTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work over one store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

type stagedChange struct {
	added   *order.Order
	deleted kernel.UUID
}

// UnitOfWork stages writes between Begin and Commit. Outside a transaction
// its repository writes straight to the store.
type UnitOfWork struct {
	store *Store

	mu      sync.Mutex
	active  bool
	changes []stagedChange
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active {
		return nil
	}
	u.active = true
	u.changes = nil
	return nil
}

// Commit applies staged changes atomically. A duplicate add aborts the whole
// commit and leaves the store untouched.
func (u *UnitOfWork) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return ErrNoTransaction
	}
	changes := u.changes
	u.active = false
	u.changes = nil

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for _, c := range changes {
		if c.added == nil {
			continue
		}
		if _, ok := u.store.orders[c.added.ID()]; ok {
			return ErrOrderAlreadyExists
		}
	}

	for _, c := range changes {
		if c.added != nil {
			_ = u.store.addLocked(c.added)
			continue
		}
		u.store.deleteLocked(c.deleted)
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return ErrNoTransaction
	}
	u.active = false
	u.changes = nil
	return nil
}

// OrderRepository returns a repository bound to the current transaction, if any.
func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return NewOrderRepository(u.store)
	}
	return &txOrderRepository{uow: u}
}

func (u *UnitOfWork) stage(c stagedChange) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.changes = append(u.changes, c)
}

// view replays staged changes over a store snapshot.
func (u *UnitOfWork) view() []*order.Order {
	orders := u.store.snapshot()

	u.mu.Lock()
	changes := append([]stagedChange(nil), u.changes...)
	u.mu.Unlock()

	for _, c := range changes {
		if c.added != nil {
			orders = append(orders, c.added.Clone())
			continue
		}
		kept := orders[:0]
		for _, o := range orders {
			if !o.ID().IsEqual(c.deleted) {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	return orders
}

type txOrderRepository struct {
	uow *UnitOfWork
}

func (r *txOrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	for _, o := range r.uow.view() {
		if o.IsEqual(aggregate) {
			return ErrOrderAlreadyExists
		}
	}
	r.uow.stage(stagedChange{added: aggregate.Clone()})
	return nil
}

func (r *txOrderRepository) Delete(_ context.Context, id kernel.UUID) error {
	r.uow.stage(stagedChange{deleted: id})
	return nil
}

func (r *txOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	for _, o := range r.uow.view() {
		if o.ID().IsEqual(id) {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderId", id)
}

func (r *txOrderRepository) GetByUser(_ context.Context, userID kernel.UUID) ([]*order.Order, error) {
	return filterByUser(r.uow.view(), userID), nil
}

func (r *txOrderRepository) GetAll(_ context.Context) ([]*order.Order, error) {
	return r.uow.view(), nil
}
