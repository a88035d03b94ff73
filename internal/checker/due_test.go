package checker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

func TestDueSet(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 10, 0, 0, time.UTC)

	monitorings := []model.Monitoring{
		{Name: "a", CheckInterval: 5, LastCheckedAt: now.Add(-5 * time.Minute)},
		{Name: "b", CheckInterval: 5, LastCheckedAt: now.Add(-2 * time.Minute)},
		{Name: "c", CheckInterval: 1, LastCheckedAt: now.Add(-1 * time.Minute)},
	}

	due := DueSet(monitorings, now, false)

	assert.Len(t, due, 2)
	assert.Equal(t, "a", due[0].Name)
	assert.Equal(t, "c", due[1].Name)
}

func TestDueSetForceIncludesEverything(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 10, 0, 0, time.UTC)

	monitorings := []model.Monitoring{
		{Name: "a", CheckInterval: 60, LastCheckedAt: now},
		{Name: "b", CheckInterval: 60, LastCheckedAt: now},
	}

	due := DueSet(monitorings, now, true)

	assert.Len(t, due, 2)
}

func TestDueSetTruncatesNow(t *testing.T) {
	// A monitoring due at 10:05:00 must be picked up even when the run
	// starts a few seconds into the minute.
	now := time.Date(2024, 3, 1, 10, 5, 37, 0, time.UTC)

	monitorings := []model.Monitoring{
		{Name: "a", CheckInterval: 5, LastCheckedAt: time.Date(2024, 3, 1, 10, 0, 12, 0, time.UTC)},
	}

	due := DueSet(monitorings, now, false)

	assert.Len(t, due, 1)
}

func TestDueSetEmptyInput(t *testing.T) {
	due := DueSet(nil, time.Now(), false)

	assert.Empty(t, due)
}
