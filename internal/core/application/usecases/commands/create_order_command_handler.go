package commands

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/clock"
	"orders/internal/pkg/metrics"

	"github.com/shopspring/decimal"
)

// TotalCalculator prices a list of items through the product service.
type TotalCalculator interface {
	CalculateTotal(ctx context.Context, items []order.Item) (decimal.Decimal, error)
}

// CreateOrderCommandHandler prices, stores and announces a new order.
//
// The order is persisted before any notification: a confirmation is never
// sent for an order that does not exist. Notification and inventory
// reservation happen after commit and never fail the command.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, calculator, notifier, dispatcher, clock.NewSystem(), m, logger)
//	view, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrInvalidOrderItem) {
//	    // some item could not be priced, nothing was stored
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	calculator TotalCalculator
	notifier   ports.OrderNotifier
	inventory  *InventoryDispatcher
	timeout    time.Duration
	clock      clock.Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	calculator TotalCalculator,
	notifier ports.OrderNotifier,
	inventory *InventoryDispatcher,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		notifier:   notifier,
		inventory:  inventory,
		timeout:    DefaultPublishTimeout,
		clock:      clk,
		metrics:    m,
		logger:     logger.With("component", "create_order_command"),
	}
}

// WithPublishTimeout returns a copy of h whose confirmation publish is bounded
// by timeout. Non-positive values are ignored.
func (h CreateOrderCommandHandler) WithPublishTimeout(timeout time.Duration) CreateOrderCommandHandler {
	if timeout > 0 {
		h.timeout = timeout
	}
	return h
}

// Handle runs price, persist, notify, reserve in that order and returns the
// view of the stored order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (queries.OrderView, error) {
	if err := cmd.Validate(); err != nil {
		return queries.OrderView{}, err
	}

	h.logger.InfoContext(ctx, "Adding new order", "user_id", cmd.UserID(), "items", len(cmd.Items()))

	total, err := h.calculator.CalculateTotal(ctx, cmd.Items())
	if err != nil {
		h.logger.WarnContext(ctx, "Order was not priced", "user_id", cmd.UserID(), "error", err)
		return queries.OrderView{}, err
	}

	newOrder, err := order.NewOrder(kernel.NewUUID(), cmd.UserID(), cmd.Items(), total, h.clock.Now())
	if err != nil {
		return queries.OrderView{}, err
	}

	if err = h.persist(ctx, newOrder); err != nil {
		return queries.OrderView{}, err
	}

	h.logger.InfoContext(ctx, "Order created",
		"order_id", newOrder.ID(),
		"user_id", newOrder.UserID(),
		"total_price", newOrder.TotalPrice().String(),
	)

	h.notify(ctx, newOrder)
	h.inventory.Dispatch(ctx, ports.NewInventoryEvent(ports.InventoryReserve, newOrder, h.clock.Now()))

	return queries.NewOrderView(newOrder), nil
}

func (h *CreateOrderCommandHandler) persist(ctx context.Context, o *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *CreateOrderCommandHandler) notify(ctx context.Context, o *order.Order) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	defer cancel()

	err := h.notifier.OrderConfirmed(notifyCtx, order.NewEmailDetails(o))
	if err == nil {
		return
	}

	h.metrics.NotificationFailed()
	h.logger.ErrorContext(ctx, "Order confirmation was not sent",
		"order_id", o.ID(),
		"user_id", o.UserID(),
		"error", err,
	)
}
