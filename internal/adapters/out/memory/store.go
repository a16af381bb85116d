// Package memory is the in-process order store used when no database is
// configured. It keeps orders in insertion order behind a sync.RWMutex and
// offers the same Unit of Work contract as the postgres adapter: writes made
// after Begin are staged and become visible on Commit.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// ErrOrderAlreadyExists is returned when an order identifier is added twice.
var ErrOrderAlreadyExists = errors.New("order already exists")

// Store holds every order of the process. Orders are copied on the way in
// and out, so callers never share an aggregate with the store.
type Store struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]*order.Order
	seq    []kernel.UUID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		orders: make(map[kernel.UUID]*order.Order),
	}
}

func (s *Store) get(id kernel.UUID) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

func (s *Store) snapshot() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*order.Order, 0, len(s.seq))
	for _, id := range s.seq {
		result = append(result, s.orders[id].Clone())
	}
	return result
}

func (s *Store) addLocked(o *order.Order) error {
	if _, ok := s.orders[o.ID()]; ok {
		return ErrOrderAlreadyExists
	}
	s.orders[o.ID()] = o.Clone()
	s.seq = append(s.seq, o.ID())
	return nil
}

func (s *Store) deleteLocked(id kernel.UUID) {
	if _, ok := s.orders[id]; !ok {
		return
	}
	delete(s.orders, id)
	s.seq = slices.DeleteFunc(s.seq, func(candidate kernel.UUID) bool {
		return candidate == id
	})
}

// OrderRepository reads and writes the store directly, one call at a time.
type OrderRepository struct {
	store *Store
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates a repository without transactional staging.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.addLocked(aggregate)
}

func (r *OrderRepository) Delete(_ context.Context, id kernel.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.deleteLocked(id)
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.store.get(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return o, nil
}

func (r *OrderRepository) GetByUser(_ context.Context, userID kernel.UUID) ([]*order.Order, error) {
	return filterByUser(r.store.snapshot(), userID), nil
}

func (r *OrderRepository) GetAll(_ context.Context) ([]*order.Order, error) {
	return r.store.snapshot(), nil
}

func filterByUser(orders []*order.Order, userID kernel.UUID) []*order.Order {
	result := make([]*order.Order, 0)
	for _, o := range orders {
		if o.IsOwnedBy(userID) {
			result = append(result, o)
		}
	}
	return result
}
