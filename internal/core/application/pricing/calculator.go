// Package pricing computes order totals from per-item prices supplied by a
// ports.PricingGateway.
package pricing

import (
	"context"
	"errors"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrNonPositivePrice is the cause attached when a gateway hands back a zero or negative price.
var ErrNonPositivePrice = errors.New("price must be greater than zero")

// Calculator prices every item of an order on its own (no batching) and sums
// the results. The first failure cancels the outstanding requests and is
// returned; a partial total is never returned.
type Calculator struct {
	gateway     ports.PricingGateway
	concurrency int
	logger      *slog.Logger
}

// NewCalculator returns a calculator that keeps at most concurrency pricing
// requests in flight. Values below 1 mean one at a time.
func NewCalculator(gateway ports.PricingGateway, concurrency int, logger *slog.Logger) *Calculator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Calculator{
		gateway:     gateway,
		concurrency: concurrency,
		logger:      logger.With("component", "pricing_calculator"),
	}
}

// CalculateTotal returns the sum of the item prices.
func (c *Calculator) CalculateTotal(ctx context.Context, items []order.Item) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, order.NewInvalidOrderItemErrorWithCause("", 0, order.ErrOrderHasNoItems)
	}

	prices := make([]decimal.Decimal, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return order.NewInvalidOrderItemErrorWithCause(item.ProductID(), item.Quantity(), err)
			}
			price, err := c.gateway.PriceItem(gctx, item)
			if err != nil {
				c.logger.WarnContext(ctx, "Order item is invalid",
					"product_id", item.ProductID(), "qty", item.Quantity(), "error", err)
				return err
			}
			if price.Sign() <= 0 {
				return order.NewInvalidOrderItemErrorWithCause(item.ProductID(), item.Quantity(), ErrNonPositivePrice)
			}
			prices[i] = price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	return decimal.Sum(decimal.Zero, prices...), nil
}
