package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
	"github.com/google/uuid"
)

// Registry is the stored monitoring configuration and state the runner
// reads and writes.
type Registry interface {
	// ListActive returns the active monitorings, ordered by name
	// ascending.
	ListActive(ctx context.Context) ([]model.Monitoring, error)
	// CommitCheck persists the updated runtime state of one monitoring
	// together with its new check record.
	CommitCheck(ctx context.Context, m *model.Monitoring, record *model.CheckRecord) error
}

// TransitionNotifier is the sink for status transitions. It must never
// influence the runner's control flow: implementations log and swallow
// their own failures.
type TransitionNotifier interface {
	Notify(ctx context.Context, m *model.Monitoring, oldStatus, newStatus model.Status)
}

// Runner turns one scheduled run into committed state changes: it
// acquires the run lock, probes every due monitoring in name order,
// commits each result and fires the notifier on status transitions
// between two known states.
type Runner struct {
	registry Registry
	prober   Prober
	notifier TransitionNotifier
	lock     *RunLock
	now      func() time.Time
}

// NewRunner creates a new check runner
func NewRunner(registry Registry, prober Prober, notifier TransitionNotifier, lock *RunLock) *Runner {
	return &Runner{
		registry: registry,
		prober:   prober,
		notifier: notifier,
		lock:     lock,
		now:      time.Now,
	}
}

// Run executes one check cycle over the due set. Only lock contention
// aborts the whole run (ErrRunActive, no side effects); any failure on
// one monitoring is logged and the run moves on to the next.
func (r *Runner) Run(ctx context.Context, force bool) error {
	if err := r.lock.Acquire(); err != nil {
		return err
	}
	defer r.lock.Release()

	runID := uuid.New().String()
	now := r.now().UTC().Truncate(time.Minute)

	slog.Info("Starting check run", "run_id", runID, "force", force)

	monitorings, err := r.registry.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active monitorings: %w", err)
	}

	due := DueSet(monitorings, now, force)

	slog.Info("Due set computed",
		"run_id", runID,
		"active", len(monitorings),
		"due", len(due),
	)

	for i := range due {
		r.checkOne(ctx, runID, now, &due[i])
	}

	slog.Info("Check run completed", "run_id", runID, "checked", len(due))

	return nil
}

// checkOne probes a single monitoring and commits the outcome. Failures
// are contained here so one broken monitoring cannot abort the run.
func (r *Runner) checkOne(ctx context.Context, runID string, now time.Time, m *model.Monitoring) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Panic while checking monitoring",
				"run_id", runID,
				"monitoring", m.Name,
				"panic", rec,
			)
		}
	}()

	result := r.prober.Probe(ctx, m)

	slog.Info("Monitoring probed",
		"run_id", runID,
		"monitoring", m.Name,
		"status", result.Status,
		"reason", result.Reason.String(),
		"duration_ms", result.Duration.Milliseconds(),
	)

	oldStatus := m.Status

	if result.Status != oldStatus {
		m.Status = result.Status
		m.LastStatusChangeAt = now
		m.LastDownReason = result.Detail
	}
	m.LastCheckedAt = now

	record := &model.CheckRecord{
		MonitoringID: m.ID,
		CheckedAt:    now,
		DownReason:   result.Detail,
		DurationMs:   result.Duration.Milliseconds(),
	}

	if err := r.registry.CommitCheck(ctx, m, record); err != nil {
		slog.Error("Failed to commit check result",
			"run_id", runID,
			"monitoring", m.Name,
			"error", err,
		)
		return
	}

	// A transition out of the unknown state is the first ever
	// classification of this monitoring: update silently.
	if result.Status != oldStatus && oldStatus != model.StatusUnknown {
		slog.Info("Status transition",
			"run_id", runID,
			"monitoring", m.Name,
			"old_status", oldStatus,
			"new_status", result.Status,
		)
		r.notifier.Notify(ctx, m, oldStatus, result.Status)
	}
}
