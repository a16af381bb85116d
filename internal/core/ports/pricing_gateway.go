package ports

import (
	"context"

	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// PricingGateway asks the product service for the total price of one order
// line. It hides the broker entirely: implementations correlate the reply and
// bound the wait themselves.
type PricingGateway interface {
	// PriceItem returns a strictly positive price for item.
	// Every failure (no reply in time, malformed reply, zero price) is an
	// *order.InvalidOrderItemError.
	PriceItem(ctx context.Context, item order.Item) (decimal.Decimal, error)
}
