package checker

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrRunActive is returned when a check run cannot start because the
// exclusivity marker is already held, either by a run in progress or by
// one that crashed without releasing it.
var ErrRunActive = errors.New("a check run is already active (or a previous run crashed)")

// RunLock is the run-wide exclusivity marker, backed by a file at a
// well-known path. The file is created exclusively on Acquire and
// removed on Release; a crashed process leaves it behind, in which case
// the operator has to remove it by hand before checks resume.
type RunLock struct {
	path string
}

// NewRunLock creates a run lock over the given marker file path.
func NewRunLock(path string) *RunLock {
	return &RunLock{path: path}
}

// Acquire takes the lock. It fails with ErrRunActive when the marker
// file already exists.
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrRunActive
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	// Content is informational only, for the operator inspecting a
	// stale marker.
	fmt.Fprintf(f, "pid=%d acquired_at=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))

	return nil
}

// Release removes the marker file. Safe to call when the lock is not
// held.
func (l *RunLock) Release() {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		slog.Error("Failed to remove lock file", "path", l.path, "error", err)
	}
}

// Held reports whether the marker file currently exists.
func (l *RunLock) Held() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Path returns the marker file path.
func (l *RunLock) Path() string {
	return l.path
}
