package kafka

import (
	"context"
	"encoding/json"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// NotifierConfig addresses the notification service.
type NotifierConfig struct {
	Exchange   string
	RoutingKey string
}

type emailDetailsMessage struct {
	UserID     string      `json:"userId"`
	OrderTime  string      `json:"orderTime"`
	TotalPrice json.Number `json:"totalPrice"`
}

// Notifier publishes order confirmations for the notification service.
type Notifier struct {
	cfg    NotifierConfig
	writer MessageWriter
}

var _ ports.OrderNotifier = (*Notifier)(nil)

func NewNotifier(cfg NotifierConfig, writer MessageWriter) *Notifier {
	return &Notifier{cfg: cfg, writer: writer}
}

// OrderConfirmed sends {"userId", "orderTime", "totalPrice"} with the total as
// a JSON number.
func (n *Notifier) OrderConfirmed(ctx context.Context, details order.EmailDetails) error {
	payload, err := json.Marshal(emailDetailsMessage{
		UserID:     details.UserID(),
		OrderTime:  details.OrderTime(),
		TotalPrice: json.Number(details.TotalPrice().String()),
	})
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Topic:   n.cfg.Exchange,
		Key:     []byte(details.UserID()),
		Value:   payload,
		Headers: headers(HeaderRoutingKey, n.cfg.RoutingKey),
	})
}
