package queries_test

import (
	"errors"
	"log/slog"
	"testing"

	"orders/internal/core/application/access"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery(t *testing.T) {
	policy := access.NewAdminPolicy("ADMIN", "")

	t.Run("valid", func(t *testing.T) {
		id := kernel.NewUUID()
		query, err := queries.NewGetOrderQuery(id, policy)
		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.Equal(t, id, query.OrderID())
	})

	t.Run("invalid order id", func(t *testing.T) {
		_, err := queries.NewGetOrderQuery(kernel.UUID{}, policy)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("missing policy", func(t *testing.T) {
		_, err := queries.NewGetOrderQuery(kernel.NewUUID(), nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("not constructed", func(t *testing.T) {
		require.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	})
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	owner := kernel.NewUUID()
	ownerPolicy, err := access.NewOwnerPolicy(owner)
	require.NoError(t, err)
	strangerPolicy, err := access.NewOwnerPolicy(kernel.NewUUID())
	require.NoError(t, err)

	t.Run("owner sees own order", func(t *testing.T) {
		o := newTestOrder(t, owner, "149.95")
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

		query, err := queries.NewGetOrderQuery(o.ID(), ownerPolicy)
		require.NoError(t, err)

		view, err := queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.NoError(t, err)
		assert.Equal(t, o.ID(), view.ID)
		assert.Equal(t, "149.95", view.TotalPrice.StringFixed(2))
		assert.Equal(t, order.Ordered, view.Status)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "sku-1", view.Items[0].ProductID())
		reader.AssertExpectations(t)
	})

	t.Run("foreign order is forbidden", func(t *testing.T) {
		o := newTestOrder(t, owner, "10")
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

		query, err := queries.NewGetOrderQuery(o.ID(), strangerPolicy)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("missing order is not found for any requester", func(t *testing.T) {
		id := kernel.NewUUID()
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("orderId", id))

		for _, policy := range []access.Policy{strangerPolicy, access.NewAdminPolicy("ADMIN", "")} {
			query, err := queries.NewGetOrderQuery(id, policy)
			require.NoError(t, err)

			_, err = queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
			require.ErrorIs(t, err, errs.ErrObjectNotFound)
		}
	})

	t.Run("admin sees any order", func(t *testing.T) {
		o := newTestOrder(t, owner, "10")
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

		query, err := queries.NewGetOrderQuery(o.ID(), access.NewAdminPolicy("ADMIN", ""))
		require.NoError(t, err)

		view, err := queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.NoError(t, err)
		assert.Equal(t, o.ID(), view.ID)
	})

	t.Run("non admin role is denied before lookup", func(t *testing.T) {
		for _, id := range []kernel.UUID{newTestOrder(t, owner, "10").ID(), kernel.NewUUID()} {
			reader := new(MockOrderReader)

			query, err := queries.NewGetOrderQuery(id, access.NewAdminPolicy("USER", ""))
			require.NoError(t, err)

			_, err = queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
			require.ErrorIs(t, err, errs.ErrForbidden)
			reader.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		}
	})

	t.Run("store error", func(t *testing.T) {
		id := kernel.NewUUID()
		reader := new(MockOrderReader)
		reader.On("Get", mock.Anything, id).Return(nil, errors.New("connection reset"))

		query, err := queries.NewGetOrderQuery(id, ownerPolicy)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.EqualError(t, err, "connection reset")
	})

	t.Run("query not constructed", func(t *testing.T) {
		reader := new(MockOrderReader)
		_, err := queries.NewGetOrderQueryHandler(reader, slog.Default()).Handle(t.Context(), queries.GetOrderQuery{})
		require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
		reader.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
