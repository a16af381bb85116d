package queries

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// ListOrdersQueryHandler authorizes the listing, then reads the store in
// creation order.
type ListOrdersQueryHandler struct {
	reader ports.OrderReader
	logger *slog.Logger
}

func NewListOrdersQueryHandler(reader ports.OrderReader, logger *slog.Logger) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{
		reader: reader,
		logger: logger.With("component", "list_orders_query"),
	}
}

// Handle returns an empty slice, never nil, when nothing matches.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := query.Policy().AuthorizeList(query.UserID()); err != nil {
		h.logger.WarnContext(ctx, "Order listing denied", "error", err)
		return nil, err
	}

	var (
		orders []*order.Order
		err    error
	)
	if userID := query.UserID(); userID != nil {
		orders, err = h.reader.GetByUser(ctx, *userID)
	} else {
		orders, err = h.reader.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	return newOrderViews(orders), nil
}
