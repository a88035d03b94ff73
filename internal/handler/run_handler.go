package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/EpocDotFr/server-patrol/internal/checker"
	"github.com/EpocDotFr/server-patrol/internal/service"
)

// RunHandler exposes the "run a check cycle" operation on the
// management API
type RunHandler struct {
	runner      *checker.Runner
	asyncRunner *service.AsyncRunner
}

// NewRunHandler creates a new run handler
func NewRunHandler(runner *checker.Runner, asyncRunner *service.AsyncRunner) *RunHandler {
	return &RunHandler{
		runner:      runner,
		asyncRunner: asyncRunner,
	}
}

// RunResponse represents the synchronous run response
type RunResponse struct {
	Message string `json:"message"`
	Forced  bool   `json:"forced"`
}

// RunJobResponse represents the async run submission response
type RunJobResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// Run handles POST /api/v1/checks/run
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	force := parseQueryFlag(r, "force")

	if parseQueryFlag(r, "async") {
		jobID := h.asyncRunner.Submit(force)
		writeJSON(w, http.StatusAccepted, RunJobResponse{
			JobID:   jobID,
			Message: "Check run queued",
		})
		return
	}

	// Detach from the request context: an aborted client connection
	// must not cancel probes halfway through the due set.
	err := h.runner.Run(context.WithoutCancel(r.Context()), force)
	if err != nil {
		if errors.Is(err, checker.ErrRunActive) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RunResponse{
		Message: "Check run completed",
		Forced:  force,
	})
}

// JobStatus handles GET /api/v1/checks/run/{job_id}
func (h *RunHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/v1/checks/run/")

	job, exists := h.asyncRunner.GetJob(jobID)
	if !exists {
		writeError(w, http.StatusNotFound, "Run job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}
