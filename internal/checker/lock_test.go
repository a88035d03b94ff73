package checker

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLockAcquireRelease(t *testing.T) {
	lock := NewRunLock(filepath.Join(t.TempDir(), "storage", ".running"))

	require.NoError(t, lock.Acquire())
	assert.True(t, lock.Held())

	lock.Release()
	assert.False(t, lock.Held())
}

func TestRunLockContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".running")

	first := NewRunLock(path)
	require.NoError(t, first.Acquire())
	defer first.Release()

	second := NewRunLock(path)
	err := second.Acquire()

	assert.ErrorIs(t, err, ErrRunActive)
}

func TestRunLockReacquireAfterRelease(t *testing.T) {
	lock := NewRunLock(filepath.Join(t.TempDir(), ".running"))

	require.NoError(t, lock.Acquire())
	lock.Release()

	assert.NoError(t, lock.Acquire())
	lock.Release()
}

func TestRunLockReleaseWhenNotHeld(t *testing.T) {
	lock := NewRunLock(filepath.Join(t.TempDir(), ".running"))

	// Must not panic or log an error for a missing file.
	lock.Release()
	assert.False(t, lock.Held())
}
