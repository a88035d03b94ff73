package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EpocDotFr/server-patrol/internal/checker"
	"github.com/EpocDotFr/server-patrol/internal/config"
	"github.com/robfig/cron/v3"
)

// Scheduler periodically triggers check runs. It is the in-process
// replacement for an external timer invoking the checker once a minute.
type Scheduler struct {
	cfg    *config.Config
	runner *checker.Runner
	cron   *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, runner *checker.Runner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		cron:   cron.New(),
	}
}

// Start begins triggering check runs on the configured schedule
func (s *Scheduler) Start() error {
	if !s.cfg.SchedulerEnabled {
		slog.Info("Scheduler is disabled by configuration")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CheckSchedule, s.tick); err != nil {
		return err
	}

	slog.Info("Starting scheduler", "schedule", s.cfg.CheckSchedule)
	s.cron.Start()

	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight run
// until the context expires
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.cfg.SchedulerEnabled {
		return
	}

	slog.Info("Stopping scheduler")

	select {
	case <-s.cron.Stop().Done():
		slog.Info("Scheduler stopped")
	case <-ctx.Done():
		slog.Warn("Timeout waiting for in-flight check run to complete")
	}
}

// tick performs one scheduled check run. Lock contention is expected
// when a previous run overruns its slot and is only worth a warning.
func (s *Scheduler) tick() {
	err := s.runner.Run(context.Background(), false)
	if err == nil {
		return
	}

	if errors.Is(err, checker.ErrRunActive) {
		slog.Warn("Skipping scheduled check run, previous run still active",
			"lock_file", s.cfg.LockFilePath,
		)
		return
	}

	slog.Error("Scheduled check run failed", "error", err)
}
