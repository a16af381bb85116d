// Package access holds the two policies that wrap the unchecked order lookup:
// OwnerPolicy for customers and AdminPolicy for operators. Authentication is
// done upstream; the policies only compare what the transport already
// extracted.
package access

import (
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// DefaultAdminRole is the role claim that unlocks the management view.
const DefaultAdminRole = "ADMIN"

// Policy decides whether a requester may act on orders.
type Policy interface {
	// Preauthorize is called before any lookup. A denial here hides whether
	// the order exists.
	Preauthorize() error

	// AuthorizeOrder is called after the order was found.
	AuthorizeOrder(o *order.Order) error

	// AuthorizeList is called before listing. A nil userID means every user's orders.
	AuthorizeList(userID *kernel.UUID) error
}

// OwnerPolicy allows a user to see their own orders only.
type OwnerPolicy struct {
	userID kernel.UUID
}

// NewOwnerPolicy builds the policy for an authenticated user.
func NewOwnerPolicy(userID kernel.UUID) (OwnerPolicy, error) {
	if err := userID.Validate(); err != nil {
		return OwnerPolicy{}, errs.NewValueIsInvalidErrorWithCause("userId", err)
	}
	return OwnerPolicy{userID: userID}, nil
}

// UserID returns the requester.
func (p OwnerPolicy) UserID() kernel.UUID {
	return p.userID
}

// Preauthorize lets every authenticated user through: owners learn about
// existence first and ownership second.
func (p OwnerPolicy) Preauthorize() error {
	return nil
}

func (p OwnerPolicy) AuthorizeOrder(o *order.Order) error {
	if err := p.userID.Validate(); err != nil {
		return errs.NewForbiddenErrorWithCause("requester is unknown", err)
	}
	if !o.IsOwnedBy(p.userID) {
		return errs.NewForbiddenErrorWithCause(
			"user ids do not match",
			fmt.Errorf("order %s belongs to another user", o.ID()),
		)
	}
	return nil
}

func (p OwnerPolicy) AuthorizeList(userID *kernel.UUID) error {
	if err := p.userID.Validate(); err != nil {
		return errs.NewForbiddenErrorWithCause("requester is unknown", err)
	}
	if userID == nil || !userID.IsEqual(p.userID) {
		return errs.NewForbiddenError("users may only list their own orders")
	}
	return nil
}

// AdminPolicy grants full access when the caller's role claim matches the admin role.
type AdminPolicy struct {
	roleClaim string
	adminRole string
}

// NewAdminPolicy compares roleClaim with adminRole on every check. An empty
// adminRole falls back to DefaultAdminRole.
func NewAdminPolicy(roleClaim, adminRole string) AdminPolicy {
	if adminRole == "" {
		adminRole = DefaultAdminRole
	}
	return AdminPolicy{roleClaim: roleClaim, adminRole: adminRole}
}

func (p AdminPolicy) authorize() error {
	if p.adminRole == "" || p.roleClaim != p.adminRole {
		return errs.NewForbiddenError("access denied")
	}
	return nil
}

// Preauthorize checks the role claim before the order is looked up.
func (p AdminPolicy) Preauthorize() error {
	return p.authorize()
}

func (p AdminPolicy) AuthorizeOrder(_ *order.Order) error {
	return p.authorize()
}

func (p AdminPolicy) AuthorizeList(_ *kernel.UUID) error {
	return p.authorize()
}
