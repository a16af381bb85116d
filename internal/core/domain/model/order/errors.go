package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrderItem classifies every failure to establish a price for an
	// order's items: bad input, no reply, malformed reply or a zero price.
	ErrInvalidOrderItem = errors.New("order item is invalid")

	// ErrOrderHasNoItems is the cause attached when an order is built without items.
	ErrOrderHasNoItems = errors.New("order must contain at least one item")
)

// InvalidOrderItemError carries the offending item (when known) and a
// diagnostic cause. Callers branch on ErrInvalidOrderItem only; the cause is
// for logs.
type InvalidOrderItemError struct {
	ProductID string
	Quantity  int
	Cause     error
}

func NewInvalidOrderItemError(productID string, quantity int) *InvalidOrderItemError {
	return &InvalidOrderItemError{ProductID: productID, Quantity: quantity}
}

func NewInvalidOrderItemErrorWithCause(productID string, quantity int, cause error) *InvalidOrderItemError {
	return &InvalidOrderItemError{ProductID: productID, Quantity: quantity, Cause: cause}
}

func (e *InvalidOrderItemError) Error() string {
	msg := ErrInvalidOrderItem.Error()
	if e.ProductID != "" {
		msg = fmt.Sprintf("%s: product %q, qty %d", msg, e.ProductID, e.Quantity)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidOrderItemError) Unwrap() error {
	return ErrInvalidOrderItem
}
