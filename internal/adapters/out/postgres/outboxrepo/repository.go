package outboxrepo

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/clock"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryOutbox implements ports.InventoryOutbox using GORM.
type GormInventoryOutbox struct {
	db    *gorm.DB
	clock clock.Clock
}

var _ ports.InventoryOutbox = (*GormInventoryOutbox)(nil)

func NewGormInventoryOutbox(db *gorm.DB, clk clock.Clock) *GormInventoryOutbox {
	return &GormInventoryOutbox{db: db, clock: clk}
}

// Enqueue inserts the event once; a repeated event ID is ignored.
func (o *GormInventoryOutbox) Enqueue(ctx context.Context, event ports.InventoryEvent) error {
	dto, err := fromDomain(event, o.clock.Now().UTC())
	if err != nil {
		return err
	}

	return o.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
}

// Pending returns unsent entries, oldest first.
func (o *GormInventoryOutbox) Pending(ctx context.Context, limit int) ([]ports.OutboxEntry, error) {
	query := o.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at, event_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []OutboxEntryDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]ports.OutboxEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (o *GormInventoryOutbox) MarkSent(ctx context.Context, eventID kernel.UUID) error {
	return o.db.WithContext(ctx).
		Model(&OutboxEntryDTO{}).
		Where("event_id = ?", eventID.Bytes()).
		Update("sent_at", o.clock.Now().UTC()).Error
}

func (o *GormInventoryOutbox) MarkFailed(ctx context.Context, eventID kernel.UUID) error {
	return o.db.WithContext(ctx).
		Model(&OutboxEntryDTO{}).
		Where("event_id = ?", eventID.Bytes()).
		UpdateColumn("attempts", gorm.Expr("attempts + ?", 1)).Error
}
