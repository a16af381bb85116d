package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of a customer order.
//
// Order follows these invariants:
//   - id and owning user are valid and never change
//   - items keep insertion order and are never empty
//   - totalPrice is non-negative; it is computed by pricing, never supplied by the customer
//   - createdAt is set once
//   - status only moves forward (see Status)
type Order struct {
	id         kernel.UUID
	userID     kernel.UUID
	status     Status
	items      []Item
	createdAt  time.Time
	totalPrice decimal.Decimal

	isConstructed bool
}

// NewOrder creates an order in the Ordered status.
//
// Example:
//
//	total, err := calculator.CalculateTotal(ctx, items)
//	if err != nil {
//	    return err
//	}
//	o, err := order.NewOrder(kernel.NewUUID(), userID, items, total, clock.Now())
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []Item,
	totalPrice decimal.Decimal,
	createdAt time.Time,
) (*Order, error) {
	return RestoreOrder(id, userID, items, totalPrice, Ordered, createdAt)
}

// RestoreOrder rebuilds an order loaded from storage, in any valid status.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []Item,
	totalPrice decimal.Decimal,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setTotalPrice(totalPrice),
		o.setStatus(status),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order went through a constructor. Repositories call it
// before writing.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the owning user.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the order lines in insertion order.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// TotalPrice returns the price computed at creation.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.totalPrice
}

// IsOwnedBy reports whether userID placed this order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.userID.IsEqual(userID)
}

// ValidateDeletion returns a Forbidden error for orders that may not be deleted.
func (o *Order) ValidateDeletion() error {
	return o.status.ValidateDeletion()
}

// Clone returns a copy that shares no mutable state with o.
func (o *Order) Clone() *Order {
	c := *o
	c.items = slices.Clone(o.items)
	return &c
}

// Ship marks the order as shipped.
func (o *Order) Ship() error {
	newStatus, err := o.status.Ship()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver marks the order as delivered, after which it can no longer be deleted.
func (o *Order) Deliver() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("userId", err)
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return NewInvalidOrderItemErrorWithCause("", 0, ErrOrderHasNoItems)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setTotalPrice(totalPrice decimal.Decimal) error {
	if totalPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("totalPrice", fmt.Errorf("%s is negative", totalPrice))
	}
	o.totalPrice = totalPrice
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
