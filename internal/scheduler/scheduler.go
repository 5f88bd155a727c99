// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/inkwell-cms/inkwell/internal/store"
)

// Scheduler owns the cron runner and the maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	db     *sql.DB
	store  *store.Store
	logger *slog.Logger

	eventRetention time.Duration
}

// New creates a Scheduler. eventRetention controls how far back the event
// log is kept by the pruning job.
func New(db *sql.DB, logger *slog.Logger, eventRetention time.Duration) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		db:             db,
		store:          store.New(db),
		logger:         logger,
		eventRetention: eventRetention,
	}
}

// Start registers the maintenance jobs under the given cron spec and
// starts the runner in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runMaintenance); err != nil {
		return fmt.Errorf("scheduling maintenance job: %w", err)
	}
	if _, err := s.cron.AddFunc("@daily", s.pruneEvents); err != nil {
		return fmt.Errorf("scheduling event pruning job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "maintenance_schedule", spec)
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runMaintenance checkpoints the WAL and refreshes query planner
// statistics. Failures are logged and retried on the next tick.
func (s *Scheduler) runMaintenance() {
	start := time.Now()

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Warn("wal checkpoint failed", "error", err)
		return
	}
	if _, err := s.db.Exec("PRAGMA optimize"); err != nil {
		s.logger.Warn("pragma optimize failed", "error", err)
		return
	}

	s.logger.Info("database maintenance completed", "duration_ms", time.Since(start).Milliseconds())
}

// pruneEvents deletes event log entries older than the retention window.
func (s *Scheduler) pruneEvents() {
	cutoff := time.Now().Add(-s.eventRetention)

	removed, err := s.store.PruneEvents(context.Background(), cutoff)
	if err != nil {
		s.logger.Warn("event pruning failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("event log pruned", "removed", removed, "cutoff", cutoff)
	}
}
