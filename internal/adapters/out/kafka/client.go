// Package kafka connects the order engine to the message broker. An AMQP
// style exchange maps to a topic and the routing key travels in the
// routing_key header, so consumers can share a topic and filter by key.
package kafka

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	HeaderRoutingKey    = "routing_key"
	HeaderCorrelationID = "correlation_id"
	HeaderReplyTo       = "reply_to"
	HeaderEventID       = "event_id"
	HeaderOrderID       = "order_id"
)

// MessageWriter is the part of *kafka.Writer the adapters use.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageReader is the part of *kafka.Reader the adapters use.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Client struct {
	Brokers []string
}

// NewClient parses a comma separated broker list.
func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

// NewWriter returns a synchronous writer shared by every adapter; each
// message names its topic. The short batch timeout keeps single-message
// request latency low.
func (c *Client) NewWriter() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewReader returns a group reader that starts from the newest offset when
// the group has no committed position.
func (c *Client) NewReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     250 * time.Millisecond,
	})
}

// Header returns the first value of key, or "".
func Header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func headers(kv ...string) []kafka.Header {
	result := make([]kafka.Header, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		result = append(result, kafka.Header{Key: kv[i], Value: []byte(kv[i+1])})
	}
	return result
}

// itemMessage is the wire form of an order item.
type itemMessage struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}
