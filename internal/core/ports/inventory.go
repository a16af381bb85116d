package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// InventoryEventKind selects what the product service does with the items.
type InventoryEventKind string

const (
	// InventoryReserve takes the quantities out of stock after an order is placed.
	InventoryReserve InventoryEventKind = "reserve"

	// InventoryRestore puts the quantities back after an order is deleted.
	InventoryRestore InventoryEventKind = "restore"
)

// InventoryEvent is a fire-and-forget instruction to the product service.
type InventoryEvent struct {
	ID         kernel.UUID
	Kind       InventoryEventKind
	OrderID    kernel.UUID
	Items      []order.Item
	OccurredAt time.Time
}

// NewInventoryEvent builds an event with a fresh identifier.
func NewInventoryEvent(kind InventoryEventKind, o *order.Order, at time.Time) InventoryEvent {
	return InventoryEvent{
		ID:         kernel.NewUUID(),
		Kind:       kind,
		OrderID:    o.ID(),
		Items:      o.Items(),
		OccurredAt: at,
	}
}

// InventoryPublisher delivers inventory events to the broker. No reply is expected.
type InventoryPublisher interface {
	Publish(ctx context.Context, event InventoryEvent) error
}

// OutboxEntry is an inventory event waiting to be relayed.
type OutboxEntry struct {
	Event    InventoryEvent
	Attempts int
}

// InventoryOutbox keeps inventory events whose publish failed after the order
// store was already changed, so a background job can relay them.
type InventoryOutbox interface {
	// Enqueue stores the event. Enqueueing an event ID twice keeps one entry.
	Enqueue(ctx context.Context, event InventoryEvent) error

	// Pending returns up to limit unsent entries, oldest first.
	Pending(ctx context.Context, limit int) ([]OutboxEntry, error)

	// MarkSent removes the event from the pending set.
	MarkSent(ctx context.Context, eventID kernel.UUID) error

	// MarkFailed records one more failed relay attempt.
	MarkFailed(ctx context.Context, eventID kernel.UUID) error
}
