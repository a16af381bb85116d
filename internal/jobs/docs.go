// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. InventoryOutboxJob - relays reserve/restore events whose first publish
// failed after the order store had already changed
//
// # Usage
//
//	relay := jobs.NewInventoryOutboxJob(relayHandler, cfg.OutboxSchedule, 0, logger)
//	jobManager := jobs.NewJobManager(logger, relay)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The relay runs on "@every 10s" unless configured otherwise. A run that is
// still in progress when the next tick fires makes that tick a no-op.
//
// # Error Handling
//
// - Events that fail again stay pending and are retried on the next run
// - Only an unreadable outbox is logged as a job failure
// - Failed job starts will stop any already running jobs
package jobs
