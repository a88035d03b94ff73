package checker

import (
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

// DueSet filters the active monitorings down to the subset that must be
// probed at the given instant. The input is expected to be sorted by
// name ascending and the order is preserved. Force mode includes every
// active monitoring regardless of its due time.
func DueSet(monitorings []model.Monitoring, now time.Time, force bool) []model.Monitoring {
	now = now.Truncate(time.Minute)

	due := make([]model.Monitoring, 0, len(monitorings))
	for _, m := range monitorings {
		if m.IsDue(now, force) {
			due = append(due, m)
		}
	}

	return due
}
