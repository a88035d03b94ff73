package checker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/EpocDotFr/server-patrol/internal/model"
)

type fakeRegistry struct {
	monitorings []model.Monitoring
	commitErr   error

	committed []model.Monitoring
	records   []model.CheckRecord
}

func (f *fakeRegistry) ListActive(ctx context.Context) ([]model.Monitoring, error) {
	return f.monitorings, nil
}

func (f *fakeRegistry) CommitCheck(ctx context.Context, m *model.Monitoring, record *model.CheckRecord) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, *m)
	f.records = append(f.records, *record)
	return nil
}

type fakeProber struct {
	results map[string]Result
}

func (f *fakeProber) Probe(ctx context.Context, m *model.Monitoring) Result {
	return f.results[m.Name]
}

type notification struct {
	name      string
	oldStatus model.Status
	newStatus model.Status
}

type fakeNotifier struct {
	notifications []notification
}

func (f *fakeNotifier) Notify(ctx context.Context, m *model.Monitoring, oldStatus, newStatus model.Status) {
	f.notifications = append(f.notifications, notification{m.Name, oldStatus, newStatus})
}

func upResult() Result {
	return Result{Status: model.StatusUp, Reason: ReasonNone, Duration: 12 * time.Millisecond}
}

func downResult() Result {
	return Result{Status: model.StatusDown, Reason: ReasonHTTPError, Detail: "HTTP error: 503 Service Unavailable"}
}

func newTestRunner(t *testing.T, registry *fakeRegistry, prober Prober, notifier *fakeNotifier) *Runner {
	t.Helper()

	runner := NewRunner(registry, prober, notifier, NewRunLock(filepath.Join(t.TempDir(), ".running")))
	runner.now = func() time.Time {
		return time.Date(2024, 3, 1, 10, 5, 17, 0, time.UTC)
	}
	return runner
}

func activeMonitoring(name string, status model.Status) model.Monitoring {
	return model.Monitoring{
		ID:            primitive.NewObjectID(),
		Name:          name,
		IsActive:      true,
		URL:           "https://example.com",
		HTTPMethod:    "GET",
		CheckInterval: 1,
		Timeout:       5,
		Status:        status,
		LastCheckedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRunNotifiesOnDownTransition(t *testing.T) {
	registry := &fakeRegistry{monitorings: []model.Monitoring{activeMonitoring("a", model.StatusUp)}}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": downResult()}}, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, model.StatusUp, notifier.notifications[0].oldStatus)
	assert.Equal(t, model.StatusDown, notifier.notifications[0].newStatus)

	require.Len(t, registry.committed, 1)
	committed := registry.committed[0]
	assert.Equal(t, model.StatusDown, committed.Status)
	assert.Equal(t, "HTTP error: 503 Service Unavailable", committed.LastDownReason)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC), committed.LastCheckedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC), committed.LastStatusChangeAt)
}

func TestRunNotifiesOnUpTransition(t *testing.T) {
	registry := &fakeRegistry{monitorings: []model.Monitoring{activeMonitoring("a", model.StatusDown)}}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": upResult()}}, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, model.StatusDown, notifier.notifications[0].oldStatus)
	assert.Equal(t, model.StatusUp, notifier.notifications[0].newStatus)
}

func TestRunSuppressesUnknownTransition(t *testing.T) {
	registry := &fakeRegistry{monitorings: []model.Monitoring{activeMonitoring("a", model.StatusUnknown)}}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": downResult()}}, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	// The state change is still committed, silently.
	assert.Empty(t, notifier.notifications)
	require.Len(t, registry.committed, 1)
	assert.Equal(t, model.StatusDown, registry.committed[0].Status)
}

func TestRunStableStatusDoesNotNotify(t *testing.T) {
	m := activeMonitoring("a", model.StatusUp)
	m.LastStatusChangeAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	registry := &fakeRegistry{monitorings: []model.Monitoring{m}}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": upResult()}}, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	assert.Empty(t, notifier.notifications)

	// Only the check time moves on a stable status.
	require.Len(t, registry.committed, 1)
	committed := registry.committed[0]
	assert.Equal(t, time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC), committed.LastCheckedAt)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), committed.LastStatusChangeAt)
}

func TestRunCommitFailureSkipsNotification(t *testing.T) {
	registry := &fakeRegistry{
		monitorings: []model.Monitoring{activeMonitoring("a", model.StatusUp)},
		commitErr:   errors.New("write failed"),
	}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": downResult()}}, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	assert.Empty(t, notifier.notifications)
}

func TestRunRecordsEveryProbe(t *testing.T) {
	registry := &fakeRegistry{monitorings: []model.Monitoring{
		activeMonitoring("a", model.StatusUp),
		activeMonitoring("b", model.StatusUp),
	}}
	notifier := &fakeNotifier{}
	prober := &fakeProber{results: map[string]Result{
		"a": upResult(),
		"b": downResult(),
	}}
	runner := newTestRunner(t, registry, prober, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	require.Len(t, registry.records, 2)
	assert.Empty(t, registry.records[0].DownReason)
	assert.Equal(t, int64(12), registry.records[0].DurationMs)
	assert.Equal(t, "HTTP error: 503 Service Unavailable", registry.records[1].DownReason)
}

func TestRunSkipsNotDueMonitorings(t *testing.T) {
	m := activeMonitoring("a", model.StatusUp)
	m.CheckInterval = 60

	registry := &fakeRegistry{monitorings: []model.Monitoring{m}}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": downResult()}}, notifier)

	require.NoError(t, runner.Run(context.Background(), false))

	assert.Empty(t, registry.committed)

	// Force mode probes it anyway.
	require.NoError(t, runner.Run(context.Background(), true))
	assert.Len(t, registry.committed, 1)
}

func TestRunAbortsWhenLockHeld(t *testing.T) {
	registry := &fakeRegistry{monitorings: []model.Monitoring{activeMonitoring("a", model.StatusUp)}}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, registry, &fakeProber{results: map[string]Result{"a": downResult()}}, notifier)

	require.NoError(t, runner.lock.Acquire())
	defer runner.lock.Release()

	err := runner.Run(context.Background(), false)

	assert.ErrorIs(t, err, ErrRunActive)
	assert.Empty(t, registry.committed)
	assert.Empty(t, notifier.notifications)
}

func TestRunReleasesLock(t *testing.T) {
	registry := &fakeRegistry{monitorings: nil}
	runner := newTestRunner(t, registry, &fakeProber{}, &fakeNotifier{})

	require.NoError(t, runner.Run(context.Background(), false))

	assert.False(t, runner.lock.Held())
}
