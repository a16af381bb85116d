package commands

import (
	"errors"
	"slices"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a user placing an order for a list of items.
//
// Example:
//
//	item, _ := order.NewItem("sku-1", 5)
//	cmd, err := NewCreateOrderCommand(userID, []order.Item{item})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	view, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s costs %s", view.ID, view.TotalPrice)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UUID
	items  []order.Item

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the requester and every item. An empty item
// list is an invalid order item, like a bad quantity.
func NewCreateOrderCommand(userID kernel.UUID, items []order.Item) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// UserID returns the user placing the order.
func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Items returns a copy of the requested items in request order.
func (c CreateOrderCommand) Items() []order.Item {
	return slices.Clone(c.items)
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return order.NewInvalidOrderItemErrorWithCause("", 0, order.ErrOrderHasNoItems)
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = slices.Clone(items)
	return nil
}
