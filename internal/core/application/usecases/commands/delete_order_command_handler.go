package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/clock"
)

// DeleteOrderCommandHandler removes an order and returns its quantities to
// inventory. Delivered orders are kept: the request is Forbidden and the
// store is not touched.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	inventory  *InventoryDispatcher
	clock      clock.Clock
	logger     *slog.Logger
}

// NewDeleteOrderCommandHandler creates a handler for order deletion.
func NewDeleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	inventory *InventoryDispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		inventory:  inventory,
		clock:      clk,
		logger:     logger.With("component", "delete_order_command"),
	}
}

// Handle checks the role claim, then existence, then access to the order,
// then the delivered rule, and only then deletes. The restore event is published after commit.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	deleted, err := h.delete(ctx, cmd)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "Order deleted", "order_id", deleted.ID(), "user_id", deleted.UserID())

	h.inventory.Dispatch(ctx, ports.NewInventoryEvent(ports.InventoryRestore, deleted, h.clock.Now()))
	return nil
}

func (h *DeleteOrderCommandHandler) delete(ctx context.Context, cmd DeleteOrderCommand) (*order.Order, error) {
	if err := cmd.Policy().Preauthorize(); err != nil {
		h.logger.WarnContext(ctx, "Order deletion denied", "order_id", cmd.OrderID(), "error", err)
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	existing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = cmd.Policy().AuthorizeOrder(existing); err != nil {
		h.logger.WarnContext(ctx, "Order deletion denied", "order_id", cmd.OrderID(), "error", err)
		return nil, err
	}

	if err = existing.ValidateDeletion(); err != nil {
		h.logger.WarnContext(ctx, "Order cannot be deleted",
			"order_id", cmd.OrderID(),
			"status", existing.Status().String(),
		)
		return nil, err
	}

	if err = orderRepo.Delete(ctx, cmd.OrderID()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return existing, nil
}
