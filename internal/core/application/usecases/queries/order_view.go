// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Every query is checked against an access.Policy before any order leaves the core.
package queries

import (
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderView is the read model handed to callers: the order without its owner.
//
// Example:
//
//	view := queries.NewOrderView(o)
//	fmt.Printf("%s: %s (%s)\n", view.ID, view.TotalPrice.StringFixed(2), view.Status)
type OrderView struct {
	ID         kernel.UUID
	Items      []order.Item
	TotalPrice decimal.Decimal
	Status     order.Status
}

// NewOrderView projects an order into its read model.
func NewOrderView(o *order.Order) OrderView {
	return OrderView{
		ID:         o.ID(),
		Items:      o.Items(),
		TotalPrice: o.TotalPrice(),
		Status:     o.Status(),
	}
}

func newOrderViews(orders []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views
}
