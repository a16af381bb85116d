package memory

import (
	"context"
	"sync"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
)

// InventoryOutbox keeps failed inventory events in memory. Entries do not
// survive a restart.
type InventoryOutbox struct {
	mu      sync.Mutex
	entries []ports.OutboxEntry
}

var _ ports.InventoryOutbox = (*InventoryOutbox)(nil)

func NewInventoryOutbox() *InventoryOutbox {
	return &InventoryOutbox{}
}

func (o *InventoryOutbox) Enqueue(_ context.Context, event ports.InventoryEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.indexLocked(event.ID) >= 0 {
		return nil
	}
	o.entries = append(o.entries, ports.OutboxEntry{Event: event})
	return nil
}

func (o *InventoryOutbox) Pending(_ context.Context, limit int) ([]ports.OutboxEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]ports.OutboxEntry, n)
	copy(result, o.entries[:n])
	return result, nil
}

func (o *InventoryOutbox) MarkSent(_ context.Context, eventID kernel.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i := o.indexLocked(eventID); i >= 0 {
		o.entries = append(o.entries[:i], o.entries[i+1:]...)
	}
	return nil
}

func (o *InventoryOutbox) MarkFailed(_ context.Context, eventID kernel.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i := o.indexLocked(eventID); i >= 0 {
		o.entries[i].Attempts++
	}
	return nil
}

func (o *InventoryOutbox) indexLocked(id kernel.UUID) int {
	for i, e := range o.entries {
		if e.Event.ID.IsEqual(id) {
			return i
		}
	}
	return -1
}
