package queries

import (
	"context"
	"log/slog"

	"orders/internal/core/ports"
)

// GetOrderQueryHandler finds an order and then applies the requester's policy.
// Role checks run before the lookup. For owners existence is checked first:
// a missing order is ObjectNotFound, a foreign order is Forbidden.
type GetOrderQueryHandler struct {
	reader ports.OrderReader
	logger *slog.Logger
}

// NewGetOrderQueryHandler creates a handler reading from the order store.
func NewGetOrderQueryHandler(reader ports.OrderReader, logger *slog.Logger) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		reader: reader,
		logger: logger.With("component", "get_order_query"),
	}
}

// Handle returns the view of the requested order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	if err := query.Policy().Preauthorize(); err != nil {
		h.logger.WarnContext(ctx, "Order access denied", "order_id", query.OrderID(), "error", err)
		return OrderView{}, err
	}

	h.logger.DebugContext(ctx, "Fetching order", "order_id", query.OrderID())

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}

	if err = query.Policy().AuthorizeOrder(o); err != nil {
		h.logger.WarnContext(ctx, "Order access denied", "order_id", query.OrderID(), "error", err)
		return OrderView{}, err
	}

	return NewOrderView(o), nil
}
