package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"orders/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// InventoryConfig routes reserve and restore events to the product service.
type InventoryConfig struct {
	Exchange          string
	ReserveRoutingKey string
	RestoreRoutingKey string
}

// InventoryPublisher sends fire-and-forget inventory events. The value is the
// JSON list of items; the order and event ids travel in headers and the
// order id is the message key, so events of one order stay ordered.
type InventoryPublisher struct {
	cfg    InventoryConfig
	writer MessageWriter
}

var _ ports.InventoryPublisher = (*InventoryPublisher)(nil)

func NewInventoryPublisher(cfg InventoryConfig, writer MessageWriter) *InventoryPublisher {
	return &InventoryPublisher{cfg: cfg, writer: writer}
}

func (p *InventoryPublisher) routingKey(kind ports.InventoryEventKind) (string, error) {
	switch kind {
	case ports.InventoryReserve:
		return p.cfg.ReserveRoutingKey, nil
	case ports.InventoryRestore:
		return p.cfg.RestoreRoutingKey, nil
	default:
		return "", fmt.Errorf("unknown inventory event kind %q", kind)
	}
}

func (p *InventoryPublisher) Publish(ctx context.Context, event ports.InventoryEvent) error {
	routingKey, err := p.routingKey(event.Kind)
	if err != nil {
		return err
	}

	items := make([]itemMessage, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, itemMessage{ProductID: item.ProductID(), Quantity: item.Quantity()})
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.cfg.Exchange,
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: headers(
			HeaderRoutingKey, routingKey,
			HeaderEventID, event.ID.String(),
			HeaderOrderID, event.OrderID.String(),
		),
	})
}
