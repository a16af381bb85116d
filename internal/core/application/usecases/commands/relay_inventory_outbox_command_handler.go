package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"
)

// Relay results recorded per event.
const (
	RelaySent   = "sent"
	RelayFailed = "failed"
)

// RelayReport summarises one relay run.
type RelayReport struct {
	Sent   int
	Failed int
}

// RelayInventoryOutboxCommandHandler drains the inventory outbox through the
// publisher. An event that fails again stays pending for the next run.
type RelayInventoryOutboxCommandHandler struct {
	outbox    ports.InventoryOutbox
	publisher ports.InventoryPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewRelayInventoryOutboxCommandHandler(
	outbox ports.InventoryOutbox,
	publisher ports.InventoryPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) RelayInventoryOutboxCommandHandler {
	return RelayInventoryOutboxCommandHandler{
		outbox:    outbox,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With("component", "relay_inventory_outbox_command"),
	}
}

// Handle returns an error only when the outbox itself cannot be read.
func (h *RelayInventoryOutboxCommandHandler) Handle(ctx context.Context, cmd RelayInventoryOutboxCommand) (RelayReport, error) {
	if err := cmd.Validate(); err != nil {
		return RelayReport{}, err
	}

	entries, err := h.outbox.Pending(ctx, cmd.BatchSize())
	if err != nil {
		return RelayReport{}, err
	}

	var report RelayReport
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		event := entry.Event
		if err = h.publisher.Publish(ctx, event); err != nil {
			report.Failed++
			h.metrics.OutboxRelayed(RelayFailed)
			h.logger.WarnContext(ctx, "Inventory event relay failed",
				"event_id", event.ID,
				"order_id", event.OrderID,
				"kind", event.Kind,
				"attempts", entry.Attempts+1,
				"error", err,
			)
			if markErr := h.outbox.MarkFailed(ctx, event.ID); markErr != nil {
				h.logger.ErrorContext(ctx, "Failed to record relay attempt", "event_id", event.ID, "error", markErr)
			}
			continue
		}

		report.Sent++
		h.metrics.OutboxRelayed(RelaySent)
		if err = h.outbox.MarkSent(ctx, event.ID); err != nil {
			// Published but still pending: the next run sends it again.
			h.logger.ErrorContext(ctx, "Failed to mark inventory event sent", "event_id", event.ID, "error", err)
		}
	}

	if report.Sent > 0 || report.Failed > 0 {
		h.logger.InfoContext(ctx, "Inventory outbox relayed", "sent", report.Sent, "failed", report.Failed)
	}

	return report, nil
}
