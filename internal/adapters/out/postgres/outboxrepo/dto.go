// Package outboxrepo stores inventory events whose publish failed, in the
// inventory_outbox table, until the relay job delivers them.
package outboxrepo

import (
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/google/uuid"
)

// OutboxEntryDTO is one inventory_outbox row. SentAt is set once relayed.
type OutboxEntryDTO struct {
	EventID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind       string    `gorm:"type:varchar(16);not null"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Items      []byte    `gorm:"type:jsonb;not null"`
	OccurredAt time.Time `gorm:"not null"`
	Attempts   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"index;not null"`
	SentAt     *time.Time
}

func (OutboxEntryDTO) TableName() string {
	return "inventory_outbox"
}

type itemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

func fromDomain(event ports.InventoryEvent, now time.Time) (OutboxEntryDTO, error) {
	items := make([]itemDTO, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, itemDTO{ProductID: item.ProductID(), Quantity: item.Quantity()})
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return OutboxEntryDTO{}, err
	}

	return OutboxEntryDTO{
		EventID:    event.ID.Bytes(),
		Kind:       string(event.Kind),
		OrderID:    event.OrderID.Bytes(),
		Items:      raw,
		OccurredAt: event.OccurredAt.UTC(),
		CreatedAt:  now,
	}, nil
}

func toDomain(dto OutboxEntryDTO) (ports.OutboxEntry, error) {
	eventID, err := kernel.UUIDFromBytes(dto.EventID[:])
	if err != nil {
		return ports.OutboxEntry{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.OutboxEntry{}, err
	}

	var raw []itemDTO
	if err = json.Unmarshal(dto.Items, &raw); err != nil {
		return ports.OutboxEntry{}, err
	}

	items := make([]order.Item, 0, len(raw))
	for _, r := range raw {
		item, itemErr := order.NewItem(r.ProductID, r.Quantity)
		if itemErr != nil {
			return ports.OutboxEntry{}, itemErr
		}
		items = append(items, item)
	}

	return ports.OutboxEntry{
		Event: ports.InventoryEvent{
			ID:         eventID,
			Kind:       ports.InventoryEventKind(dto.Kind),
			OrderID:    orderID,
			Items:      items,
			OccurredAt: dto.OccurredAt.UTC(),
		},
		Attempts: dto.Attempts,
	}, nil
}
