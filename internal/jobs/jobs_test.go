package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"orders/internal/adapters/out/memory"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/jobs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPublisher struct {
	mu        sync.Mutex
	failures  int
	published []ports.InventoryEvent
}

func (p *flakyPublisher) Publish(_ context.Context, event ports.InventoryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func (p *flakyPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func newEvent(t *testing.T) ports.InventoryEvent {
	t.Helper()
	item, err := order.NewItem("sku-1", 2)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item},
		decimal.RequireFromString("10"), time.Now())
	require.NoError(t, err)
	return ports.NewInventoryEvent(ports.InventoryRestore, o, time.Now())
}

func TestInventoryOutboxJob_RunRetriesUntilSent(t *testing.T) {
	outbox := memory.NewInventoryOutbox()
	publisher := &flakyPublisher{failures: 1}
	event := newEvent(t)
	require.NoError(t, outbox.Enqueue(t.Context(), event))

	handler := commands.NewRelayInventoryOutboxCommandHandler(outbox, publisher, nil, slog.Default())
	job := jobs.NewInventoryOutboxJob(&handler, "", 0, slog.Default())

	job.Run(t.Context())
	pending, err := outbox.Pending(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)

	job.Run(t.Context())
	pending, err = outbox.Pending(t.Context(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, 1, publisher.count())
}

func TestInventoryOutboxJob_StartRejectsBadSchedule(t *testing.T) {
	handler := commands.NewRelayInventoryOutboxCommandHandler(memory.NewInventoryOutbox(), &flakyPublisher{}, nil, slog.Default())
	job := jobs.NewInventoryOutboxJob(&handler, "not a schedule", 0, slog.Default())

	require.Error(t, job.Start())
}

func TestInventoryOutboxJob_ScheduledRelay(t *testing.T) {
	outbox := memory.NewInventoryOutbox()
	publisher := &flakyPublisher{}
	require.NoError(t, outbox.Enqueue(t.Context(), newEvent(t)))

	handler := commands.NewRelayInventoryOutboxCommandHandler(outbox, publisher, nil, slog.Default())
	job := jobs.NewInventoryOutboxJob(&handler, "@every 1s", 0, slog.Default())
	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return publisher.count() == 1 }, 5*time.Second, 50*time.Millisecond)
}

type recordingJob struct {
	name   string
	err    error
	events *[]string
}

func (j recordingJob) Start() error {
	*j.events = append(*j.events, "start "+j.name)
	return j.err
}

func (j recordingJob) Stop() {
	*j.events = append(*j.events, "stop "+j.name)
}

func TestJobManager(t *testing.T) {
	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var events []string
		jm := jobs.NewJobManager(slog.Default(),
			recordingJob{name: "a", events: &events},
			recordingJob{name: "b", events: &events},
		)

		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
	})

	t.Run("failed start stops already started jobs", func(t *testing.T) {
		var events []string
		jm := jobs.NewJobManager(slog.Default(),
			recordingJob{name: "a", events: &events},
			recordingJob{name: "b", err: errors.New("boom"), events: &events},
		)

		require.Error(t, jm.StartAll())
		assert.Equal(t, []string{"start a", "start b", "stop a"}, events)
	})
}
