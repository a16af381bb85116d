package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrReplyTimeout   = errors.New("no price reply before timeout")
	ErrEmptyReply     = errors.New("price reply is empty")
	ErrMalformedReply = errors.New("price reply is not a decimal")
	ErrZeroPrice      = errors.New("price reply is zero")
	ErrNegativePrice  = errors.New("price reply is negative")
	ErrPublishRequest = errors.New("price request was not published")
)

const (
	DefaultPricingTimeout   = 5 * time.Second
	defaultBreakerFailures  = 5
	defaultBreakerOpenDelay = 30 * time.Second
)

// PricingConfig addresses the product service and bounds each round-trip.
type PricingConfig struct {
	Exchange   string
	RoutingKey string
	ReplyTopic string
	Timeout    time.Duration

	// BreakerFailures consecutive transport failures open the breaker for
	// BreakerOpenDelay. Business rejections (zero, malformed) do not count.
	BreakerFailures  uint32
	BreakerOpenDelay time.Duration
}

func (c PricingConfig) withDefaults() PricingConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultPricingTimeout
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = defaultBreakerFailures
	}
	if c.BreakerOpenDelay <= 0 {
		c.BreakerOpenDelay = defaultBreakerOpenDelay
	}
	return c
}

// PricingGateway asks the product service for the price of one item and
// waits for the correlated reply. Run must be running for replies to arrive.
//
// Example:
//
//	gateway := NewPricingGateway(cfg, client.NewWriter(), client.NewReader(cfg.ReplyTopic, groupID), m, logger)
//	go gateway.Run(ctx)
//	price, err := gateway.PriceItem(ctx, item)
type PricingGateway struct {
	cfg     PricingConfig
	writer  MessageWriter
	reader  MessageReader
	breaker *gobreaker.CircuitBreaker[decimal.Decimal]
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]chan []byte
}

var _ ports.PricingGateway = (*PricingGateway)(nil)

func NewPricingGateway(
	cfg PricingConfig,
	writer MessageWriter,
	reader MessageReader,
	m *metrics.Metrics,
	logger *slog.Logger,
) *PricingGateway {
	cfg = cfg.withDefaults()
	logger = logger.With("component", "pricing_gateway")

	g := &PricingGateway{
		cfg:     cfg,
		writer:  writer,
		reader:  reader,
		metrics: m,
		logger:  logger,
		pending: make(map[string]chan []byte),
	}

	g.breaker = gobreaker.NewCircuitBreaker[decimal.Decimal](gobreaker.Settings{
		Name:    "pricing",
		Timeout: cfg.BreakerOpenDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: isTransportHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return g
}

// isTransportHealthy reports whether err says nothing about the broker path.
func isTransportHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, ErrEmptyReply) ||
		errors.Is(err, ErrMalformedReply) ||
		errors.Is(err, ErrZeroPrice) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, context.Canceled)
}

// PriceItem returns the positive price of item. Every failure is an
// order.InvalidOrderItemError whose cause tells what went wrong.
func (g *PricingGateway) PriceItem(ctx context.Context, item order.Item) (decimal.Decimal, error) {
	started := time.Now()

	price, err := g.breaker.Execute(func() (decimal.Decimal, error) {
		return g.roundTrip(ctx, item)
	})

	g.metrics.ObservePricing(outcome(err), float64(time.Since(started).Milliseconds()))

	if err != nil {
		return decimal.Zero, order.NewInvalidOrderItemErrorWithCause(item.ProductID(), item.Quantity(), err)
	}
	return price, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrReplyTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrEmptyReply):
		return "empty"
	case errors.Is(err, ErrMalformedReply):
		return "malformed"
	case errors.Is(err, ErrZeroPrice):
		return "zero"
	case errors.Is(err, ErrNegativePrice):
		return "negative"
	case errors.Is(err, ErrPublishRequest):
		return "publish_error"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func (g *PricingGateway) roundTrip(ctx context.Context, item order.Item) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	payload, err := json.Marshal(itemMessage{ProductID: item.ProductID(), Quantity: item.Quantity()})
	if err != nil {
		return decimal.Zero, err
	}

	correlationID := uuid.NewString()
	replies := g.register(correlationID)
	defer g.unregister(correlationID)

	waitCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	msg := kafka.Message{
		Topic: g.cfg.Exchange,
		Key:   []byte(item.ProductID()),
		Value: payload,
		Headers: headers(
			HeaderRoutingKey, g.cfg.RoutingKey,
			HeaderCorrelationID, correlationID,
			HeaderReplyTo, g.cfg.ReplyTopic,
		),
	}
	if err = g.writer.WriteMessages(waitCtx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return decimal.Zero, ctxErr
		}
		return decimal.Zero, fmt.Errorf("%w: %w", ErrPublishRequest, err)
	}

	select {
	case body := <-replies:
		return parsePrice(body)
	case <-waitCtx.Done():
		if ctxErr := ctx.Err(); ctxErr != nil {
			return decimal.Zero, ctxErr
		}
		return decimal.Zero, ErrReplyTimeout
	}
}

func parsePrice(body []byte) (decimal.Decimal, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return decimal.Zero, ErrEmptyReply
	}

	var price decimal.Decimal
	if err := json.Unmarshal(body, &price); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}

	switch price.Sign() {
	case 0:
		return decimal.Zero, ErrZeroPrice
	case -1:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativePrice, price.String())
	}
	return price, nil
}

func (g *PricingGateway) register(correlationID string) chan []byte {
	ch := make(chan []byte, 1)
	g.mu.Lock()
	g.pending[correlationID] = ch
	g.mu.Unlock()
	return ch
}

func (g *PricingGateway) unregister(correlationID string) {
	g.mu.Lock()
	delete(g.pending, correlationID)
	g.mu.Unlock()
}

// Run consumes the reply topic until ctx is done or the reader is closed.
func (g *PricingGateway) Run(ctx context.Context) error {
	g.logger.InfoContext(ctx, "Pricing reply consumer started", "topic", g.cfg.ReplyTopic)

	for {
		msg, err := g.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			g.logger.ErrorContext(ctx, "Reading price reply failed", "error", err)
			continue
		}

		g.deliver(ctx, msg)
	}
}

func (g *PricingGateway) deliver(ctx context.Context, msg kafka.Message) {
	correlationID := Header(msg, HeaderCorrelationID)

	g.mu.Lock()
	ch, ok := g.pending[correlationID]
	if ok {
		delete(g.pending, correlationID)
	}
	g.mu.Unlock()

	if !ok {
		g.logger.DebugContext(ctx, "Dropping uncorrelated price reply", "correlation_id", correlationID)
		return
	}

	ch <- msg.Value
}
