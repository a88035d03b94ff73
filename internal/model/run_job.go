package model

import (
	"sync"
	"time"
)

// RunJob represents the status of an asynchronously triggered check run.
type RunJob struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"` // "queued", "running", "completed", "failed", "skipped"
	Forced      bool      `json:"forced"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// RunJobStore is an in-memory store for async run job statuses.
type RunJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*RunJob
}

// NewRunJobStore creates a new run job store.
func NewRunJobStore() *RunJobStore {
	return &RunJobStore{
		jobs: make(map[string]*RunJob),
	}
}

// Set stores a job status.
func (s *RunJobStore) Set(jobID string, job *RunJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = job
}

// Get retrieves a job status.
func (s *RunJobStore) Get(jobID string) (*RunJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[jobID]
	return job, exists
}

// Delete removes a job status.
func (s *RunJobStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}
