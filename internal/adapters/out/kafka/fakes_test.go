package kafka_test

import (
	"context"
	"io"
	"sync"

	adapter "orders/internal/adapters/out/kafka"

	"github.com/segmentio/kafka-go"
)

// fakeBroker loops requests written by the gateway back as replies on the
// reader side, using respond to build each reply body.
type fakeBroker struct {
	mu       sync.Mutex
	written  []kafka.Message
	writeErr error
	respond  func(req kafka.Message) ([]byte, bool)
	replies  chan kafka.Message
	closed   chan struct{}
	once     sync.Once
}

func newFakeBroker(respond func(req kafka.Message) ([]byte, bool)) *fakeBroker {
	return &fakeBroker{
		respond: respond,
		replies: make(chan kafka.Message, 64),
		closed:  make(chan struct{}),
	}
}

func (b *fakeBroker) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	b.mu.Lock()
	err := b.writeErr
	if err == nil {
		b.written = append(b.written, msgs...)
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		if b.respond == nil {
			continue
		}
		body, ok := b.respond(msg)
		if !ok {
			continue
		}
		b.replies <- kafka.Message{
			Topic: adapter.Header(msg, adapter.HeaderReplyTo),
			Value: body,
			Headers: []kafka.Header{{
				Key:   adapter.HeaderCorrelationID,
				Value: []byte(adapter.Header(msg, adapter.HeaderCorrelationID)),
			}},
		}
	}
	return nil
}

func (b *fakeBroker) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-b.replies:
		return msg, nil
	case <-b.closed:
		return kafka.Message{}, io.EOF
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (b *fakeBroker) Close() {
	b.once.Do(func() { close(b.closed) })
}

func (b *fakeBroker) setWriteErr(err error) {
	b.mu.Lock()
	b.writeErr = err
	b.mu.Unlock()
}

func (b *fakeBroker) messages() []kafka.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]kafka.Message(nil), b.written...)
}
