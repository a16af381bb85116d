package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultOutboxSchedule = "@every 10s"

// OutboxRelayer is the command handler the job drives.
type OutboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayInventoryOutboxCommand) (commands.RelayReport, error)
}

// InventoryOutboxJob periodically relays inventory events whose first publish failed.
type InventoryOutboxJob struct {
	relayer   OutboxRelayer
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewInventoryOutboxJob creates the relay job. An empty schedule means
// DefaultOutboxSchedule; a non-positive batchSize means commands.DefaultRelayBatchSize.
func NewInventoryOutboxJob(relayer OutboxRelayer, schedule string, batchSize int, logger *slog.Logger) *InventoryOutboxJob {
	if schedule == "" {
		schedule = DefaultOutboxSchedule
	}
	if batchSize <= 0 {
		batchSize = commands.DefaultRelayBatchSize
	}
	return &InventoryOutboxJob{
		relayer:   relayer,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "inventory_outbox_job"),
	}
}

// Run relays one batch.
func (j *InventoryOutboxJob) Run(ctx context.Context) {
	cmd, err := commands.NewRelayInventoryOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Inventory outbox job misconfigured", "error", err)
		return
	}

	if _, err = j.relayer.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Inventory outbox job failed", "error", err)
	}
}

// Start schedules the job.
func (j *InventoryOutboxJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Inventory outbox job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running relay to finish.
func (j *InventoryOutboxJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Inventory outbox job stopped")
}
