package commands_test

import (
	"errors"
	"log/slog"
	"testing"

	"orders/internal/core/application/access"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/clock"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type deleteFixture struct {
	repo      *MockOrderRepository
	uow       *MockOrderUoW
	factory   *MockOrderUoWFactory
	publisher *MockInventoryPublisher
	outbox    *MockInventoryOutbox
	handler   commands.DeleteOrderCommandHandler
}

func newDeleteFixture() *deleteFixture {
	f := &deleteFixture{
		repo:      new(MockOrderRepository),
		uow:       new(MockOrderUoW),
		factory:   new(MockOrderUoWFactory),
		publisher: new(MockInventoryPublisher),
		outbox:    new(MockInventoryOutbox),
	}
	dispatcher := commands.NewInventoryDispatcher(f.publisher, f.outbox, nil, slog.Default())
	f.handler = commands.NewDeleteOrderCommandHandler(f.factory, dispatcher, clock.NewFixed(testNow), slog.Default())

	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", mock.Anything).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.repo).Once()
	f.uow.On("Rollback", mock.Anything).Return(nil).Once()
	return f
}

func newDeleteCommand(t *testing.T, id kernel.UUID, policy access.Policy) commands.DeleteOrderCommand {
	t.Helper()
	cmd, err := commands.NewDeleteOrderCommand(id, policy)
	require.NoError(t, err)
	return cmd
}

func TestDeleteOrderCommandHandler_Handle_AdminDeletesOrder(t *testing.T) {
	f := newDeleteFixture()
	o := restoreOrder(t, kernel.NewUUID(), order.Ordered)

	mock.InOrder(
		f.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		f.repo.On("Delete", mock.Anything, o.ID()).Return(nil).Once(),
		f.uow.On("Commit", mock.Anything).Return(nil).Once(),
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e ports.InventoryEvent) bool {
			return e.Kind == ports.InventoryRestore &&
				e.OrderID.IsEqual(o.ID()) &&
				len(e.Items) == 1 && e.Items[0].ProductID() == "sku-1" &&
				e.OccurredAt.Equal(testNow)
		})).Return(nil).Once(),
	)

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, o.ID(), access.NewAdminPolicy("ADMIN", "")))

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_ShippedOrderCanBeDeleted(t *testing.T) {
	f := newDeleteFixture()
	o := restoreOrder(t, kernel.NewUUID(), order.Shipped)

	f.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.repo.On("Delete", mock.Anything, o.ID()).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, o.ID(), access.NewAdminPolicy("ADMIN", "")))
	require.NoError(t, err)
}

func TestDeleteOrderCommandHandler_Handle_DeliveredOrderIsKept(t *testing.T) {
	f := newDeleteFixture()
	o := restoreOrder(t, kernel.NewUUID(), order.Delivered)

	f.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, o.ID(), access.NewAdminPolicy("ADMIN", "")))

	require.ErrorIs(t, err, errs.ErrForbidden)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDeleteOrderCommandHandler_Handle_NotFound(t *testing.T) {
	f := newDeleteFixture()
	id := kernel.NewUUID()

	f.repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("orderId", id)).Once()

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, id, access.NewAdminPolicy("ADMIN", "")))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDeleteOrderCommandHandler_Handle_NonAdminIsForbidden(t *testing.T) {
	f := newDeleteFixture()
	o := restoreOrder(t, kernel.NewUUID(), order.Ordered)

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, o.ID(), access.NewAdminPolicy("USER", "")))

	require.ErrorIs(t, err, errs.ErrForbidden)
	f.factory.AssertNotCalled(t, "Create")
	f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteOrderCommandHandler_Handle_NonAdminOnMissingOrderIsForbidden(t *testing.T) {
	f := newDeleteFixture()

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, kernel.NewUUID(), access.NewAdminPolicy("", "")))

	require.ErrorIs(t, err, errs.ErrForbidden)
	f.factory.AssertNotCalled(t, "Create")
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDeleteOrderCommandHandler_Handle_RestoreFailureGoesToOutbox(t *testing.T) {
	f := newDeleteFixture()
	o := restoreOrder(t, kernel.NewUUID(), order.Ordered)

	f.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.repo.On("Delete", mock.Anything, o.ID()).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	f.outbox.On("Enqueue", mock.Anything, mock.MatchedBy(func(e ports.InventoryEvent) bool {
		return e.Kind == ports.InventoryRestore && e.OrderID.IsEqual(o.ID())
	})).Return(nil).Once()

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, o.ID(), access.NewAdminPolicy("ADMIN", "")))

	require.NoError(t, err)
	f.outbox.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_CommitErrorSkipsRestore(t *testing.T) {
	f := newDeleteFixture()
	o := restoreOrder(t, kernel.NewUUID(), order.Ordered)

	f.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.repo.On("Delete", mock.Anything, o.ID()).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(errors.New("commit error")).Once()

	err := f.handler.Handle(t.Context(), newDeleteCommand(t, o.ID(), access.NewAdminPolicy("ADMIN", "")))

	require.EqualError(t, err, "commit error")
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDeleteOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	dispatcher := commands.NewInventoryDispatcher(new(MockInventoryPublisher), nil, nil, slog.Default())
	factory := new(MockOrderUoWFactory)
	h := commands.NewDeleteOrderCommandHandler(factory, dispatcher, clock.NewFixed(testNow), slog.Default())

	err := h.Handle(t.Context(), commands.DeleteOrderCommand{})

	require.ErrorIs(t, err, commands.ErrDeleteOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
