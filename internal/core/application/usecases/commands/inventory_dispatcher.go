package commands

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"
)

// DefaultPublishTimeout bounds a single broker publish made after commit.
const DefaultPublishTimeout = 3 * time.Second

// InventoryDispatcher publishes inventory events after the order store has
// already changed. A failed publish never fails the command: it is logged,
// counted, and parked in the outbox for the relay job.
type InventoryDispatcher struct {
	publisher ports.InventoryPublisher
	outbox    ports.InventoryOutbox
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewInventoryDispatcher wires the publisher and its fallback. outbox may be
// nil, in which case failures are only logged and counted.
func NewInventoryDispatcher(
	publisher ports.InventoryPublisher,
	outbox ports.InventoryOutbox,
	m *metrics.Metrics,
	logger *slog.Logger,
) *InventoryDispatcher {
	return &InventoryDispatcher{
		publisher: publisher,
		outbox:    outbox,
		timeout:   DefaultPublishTimeout,
		metrics:   m,
		logger:    logger.With("component", "inventory_dispatcher"),
	}
}

// WithPublishTimeout replaces the publish deadline. Non-positive values are
// ignored.
func (d *InventoryDispatcher) WithPublishTimeout(timeout time.Duration) *InventoryDispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Dispatch publishes event and reports whether it reached the broker. The
// publish outlives the caller's cancellation but not the publish timeout.
func (d *InventoryDispatcher) Dispatch(ctx context.Context, event ports.InventoryEvent) bool {
	ctx = context.WithoutCancel(ctx)

	publishCtx, cancel := context.WithTimeout(ctx, d.timeout)
	err := d.publisher.Publish(publishCtx, event)
	cancel()
	if err == nil {
		return true
	}

	d.metrics.InventoryPublishFailed(string(event.Kind))
	d.logger.ErrorContext(ctx, "Inventory event was not published",
		"event_id", event.ID,
		"order_id", event.OrderID,
		"kind", event.Kind,
		"error", err,
	)

	if d.outbox == nil {
		return false
	}

	if err = d.outbox.Enqueue(ctx, event); err != nil {
		d.logger.ErrorContext(ctx, "Inventory event lost, outbox enqueue failed",
			"event_id", event.ID,
			"order_id", event.OrderID,
			"kind", event.Kind,
			"error", err,
		)
	}

	return false
}
