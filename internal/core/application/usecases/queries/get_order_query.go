package queries

import (
	"errors"

	"orders/internal/core/application/access"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery looks up one order on behalf of a requester.
//
// Example:
//
//	policy, _ := access.NewOwnerPolicy(userID)
//	query, err := queries.NewGetOrderQuery(orderID, policy)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	policy  access.Policy

	guard guard.ConstructorGuard
}

// NewGetOrderQuery requires a valid order ID and a policy.
func NewGetOrderQuery(orderID kernel.UUID, policy access.Policy) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	if policy == nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("policy")
	}

	return GetOrderQuery{
		orderID: orderID,
		policy:  policy,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Policy returns the access policy of the requester.
func (q GetOrderQuery) Policy() access.Policy {
	return q.policy
}
