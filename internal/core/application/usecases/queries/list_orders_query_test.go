package queries_test

import (
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

func TestNewListOrdersQuery(t *testing.T) {
	admin := access.NewAdminPolicy("ADMIN", "")

	all, err := queries.NewListAllOrdersQuery(admin)
	require.NoError(t, err)
	require.NoError(t, all.Validate())
	assert.Nil(t, all.UserID())

	userID := kernel.NewUUID()
	byUser, err := queries.NewListUserOrdersQuery(userID, admin)
	require.NoError(t, err)
	require.NotNil(t, byUser.UserID())
	assert.True(t, byUser.UserID().IsEqual(userID))

	_, err = queries.NewListUserOrdersQuery(kernel.UUID{}, admin)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewListAllOrdersQuery(nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
}

func TestListOrdersQueryHandler_Handle(t *testing.T) {
	owner := kernel.NewUUID()
	other := kernel.NewUUID()
	ownerPolicy, err := access.NewOwnerPolicy(owner)
	require.NoError(t, err)

	t.Run("owner lists own orders", func(t *testing.T) {
		first := newTestOrder(t, owner, "1")
		second := newTestOrder(t, owner, "2")
		reader := new(MockOrderReader)
		reader.On("GetByUser", mock.Anything, owner).Return([]*order.Order{first, second}, nil).Once()

		query, err := queries.NewListUserOrdersQuery(owner, ownerPolicy)
		require.NoError(t, err)

		views, err := queries.NewListOrdersQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, first.ID(), views[0].ID)
		assert.Equal(t, second.ID(), views[1].ID)
		reader.AssertExpectations(t)
	})

	t.Run("owner cannot list other users", func(t *testing.T) {
		reader := new(MockOrderReader)

		query, err := queries.NewListUserOrdersQuery(other, ownerPolicy)
		require.NoError(t, err)
		_, err = queries.NewListOrdersQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrForbidden)

		all, err := queries.NewListAllOrdersQuery(ownerPolicy)
		require.NoError(t, err)
		_, err = queries.NewListOrdersQueryHandler(reader, slog.Default()).Handle(t.Context(), all)
		require.ErrorIs(t, err, errs.ErrForbidden)

		reader.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
		reader.AssertNotCalled(t, "GetAll", mock.Anything)
	})

	t.Run("admin lists everything", func(t *testing.T) {
		orders := []*order.Order{newTestOrder(t, owner, "1"), newTestOrder(t, other, "2")}
		reader := new(MockOrderReader)
		reader.On("GetAll", mock.Anything).Return(orders, nil).Once()

		query, err := queries.NewListAllOrdersQuery(access.NewAdminPolicy("ADMIN", ""))
		require.NoError(t, err)

		views, err := queries.NewListOrdersQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.NoError(t, err)
		require.Len(t, views, 2)
	})

	t.Run("admin filters by user", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("GetByUser", mock.Anything, other).Return([]*order.Order{}, nil).Once()

		query, err := queries.NewListUserOrdersQuery(other, access.NewAdminPolicy("ADMIN", ""))
		require.NoError(t, err)

		views, err := queries.NewListOrdersQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("non admin is denied", func(t *testing.T) {
		reader := new(MockOrderReader)

		query, err := queries.NewListAllOrdersQuery(access.NewAdminPolicy("", ""))
		require.NoError(t, err)

		_, err = queries.NewListOrdersQueryHandler(reader, slog.Default()).Handle(t.Context(), query)
		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}
