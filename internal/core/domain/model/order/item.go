package order

import (
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
)

// Item is one order line: a product and a positive quantity. Items have no
// identity; two equal lines in one order stay two lines.
type Item struct {
	productID string
	quantity  int
}

// NewItem validates and builds an order line. Violations are reported as
// InvalidOrderItemError so callers handle them like any unpriceable item.
func NewItem(productID string, quantity int) (Item, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Item{}, NewInvalidOrderItemErrorWithCause(productID, quantity, errs.NewValueIsRequiredError("productId"))
	}
	if quantity <= 0 {
		return Item{}, NewInvalidOrderItemErrorWithCause(
			productID,
			quantity,
			errs.NewValueIsInvalidErrorWithCause("qty", fmt.Errorf("%d is not greater than 0", quantity)),
		)
	}

	return Item{productID: productID, quantity: quantity}, nil
}

// ProductID returns the opaque product identifier.
func (i Item) ProductID() string {
	return i.productID
}

// Quantity returns the requested quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// Validate rejects the zero Item.
func (i Item) Validate() error {
	if i.productID == "" || i.quantity <= 0 {
		return NewInvalidOrderItemError(i.productID, i.quantity)
	}
	return nil
}

func (i Item) String() string {
	return fmt.Sprintf("%s x%d", i.productID, i.quantity)
}
