package queries

import (
	"errors"

	"orders/internal/core/application/access"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListUserOrdersQuery or NewListAllOrdersQuery constructor",
	)
)

// ListOrdersQuery lists the orders of one user, or of every user when no user is set.
type ListOrdersQuery struct {
	userID *kernel.UUID
	policy access.Policy

	guard guard.ConstructorGuard
}

// NewListUserOrdersQuery lists the orders owned by userID.
func NewListUserOrdersQuery(userID kernel.UUID, policy access.Policy) (ListOrdersQuery, error) {
	if err := userID.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	if policy == nil {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("policy")
	}

	return ListOrdersQuery{
		userID: &userID,
		policy: policy,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// NewListAllOrdersQuery lists every order in the store.
func NewListAllOrdersQuery(policy access.Policy) (ListOrdersQuery, error) {
	if policy == nil {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("policy")
	}

	return ListOrdersQuery{
		policy: policy,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// UserID returns the user filter, or nil when listing all orders.
func (q ListOrdersQuery) UserID() *kernel.UUID {
	return q.userID
}

func (q ListOrdersQuery) Policy() access.Policy {
	return q.policy
}
