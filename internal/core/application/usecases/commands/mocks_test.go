package commands_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUser(ctx context.Context, userID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCalculator struct{ mock.Mock }

func (m *MockCalculator) CalculateTotal(ctx context.Context, items []order.Item) (decimal.Decimal, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) OrderConfirmed(ctx context.Context, details order.EmailDetails) error {
	args := m.Called(ctx, details)
	return args.Error(0)
}

type MockInventoryPublisher struct{ mock.Mock }

func (m *MockInventoryPublisher) Publish(ctx context.Context, event ports.InventoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockInventoryOutbox struct{ mock.Mock }

func (m *MockInventoryOutbox) Enqueue(ctx context.Context, event ports.InventoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockInventoryOutbox) Pending(ctx context.Context, limit int) ([]ports.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]ports.OutboxEntry), args.Error(1)
}

func (m *MockInventoryOutbox) MarkSent(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryOutbox) MarkFailed(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var testNow = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func mustItem(t *testing.T, productID string, qty int) order.Item {
	t.Helper()
	item, err := order.NewItem(productID, qty)
	require.NoError(t, err)
	return item
}

func restoreOrder(t *testing.T, owner kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		owner,
		[]order.Item{mustItem(t, "sku-1", 5)},
		decimal.RequireFromString("149.95"),
		status,
		testNow,
	)
	require.NoError(t, err)
	return o
}
