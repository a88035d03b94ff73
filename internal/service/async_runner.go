package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/checker"
	"github.com/EpocDotFr/server-patrol/internal/model"
	"github.com/google/uuid"
)

// AsyncRunner triggers check runs in the background and tracks their
// job status so the management API can poll for completion.
type AsyncRunner struct {
	runner   *checker.Runner
	jobStore *model.RunJobStore
}

// NewAsyncRunner creates a new async runner
func NewAsyncRunner(runner *checker.Runner) *AsyncRunner {
	return &AsyncRunner{
		runner:   runner,
		jobStore: model.NewRunJobStore(),
	}
}

// Submit queues a check run for background execution and returns its
// job ID.
func (ar *AsyncRunner) Submit(force bool) string {
	jobID := uuid.New().String()

	ar.jobStore.Set(jobID, &model.RunJob{
		JobID:  jobID,
		Status: "queued",
		Forced: force,
	})

	go ar.execute(jobID, force)

	return jobID
}

// GetJob retrieves the status of an async run job
func (ar *AsyncRunner) GetJob(jobID string) (*model.RunJob, bool) {
	return ar.jobStore.Get(jobID)
}

func (ar *AsyncRunner) execute(jobID string, force bool) {
	if job, exists := ar.jobStore.Get(jobID); exists {
		job.Status = "running"
		job.StartedAt = time.Now().UTC()
		ar.jobStore.Set(jobID, job)
	}

	slog.Info("Starting async check run", "job_id", jobID, "force", force)

	err := ar.runner.Run(context.Background(), force)

	if job, exists := ar.jobStore.Get(jobID); exists {
		job.CompletedAt = time.Now().UTC()
		switch {
		case errors.Is(err, checker.ErrRunActive):
			job.Status = "skipped"
			job.Error = err.Error()
		case err != nil:
			job.Status = "failed"
			job.Error = err.Error()
		default:
			job.Status = "completed"
		}
		ar.jobStore.Set(jobID, job)
	}

	slog.Info("Async check run finished", "job_id", jobID, "error", err)
}
