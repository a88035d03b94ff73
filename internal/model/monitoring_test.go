package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	m := Monitoring{
		Name: "Example",
		URL:  "https://example.com",
	}

	require.NoError(t, m.Validate())

	assert.Equal(t, "GET", m.HTTPMethod)
	assert.Equal(t, DefaultCheckInterval, m.CheckInterval)
	assert.Equal(t, DefaultTimeout, m.Timeout)
	assert.Equal(t, StatusUnknown, m.Status)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name       string
		monitoring Monitoring
	}{
		{"missing name", Monitoring{URL: "https://example.com"}},
		{"missing url", Monitoring{Name: "Example"}},
		{"bad scheme", Monitoring{Name: "Example", URL: "ftp://example.com"}},
		{"bad method", Monitoring{Name: "Example", URL: "https://example.com", HTTPMethod: "TRACE"}},
		{"bad regex", Monitoring{Name: "Example", URL: "https://example.com", HTTPBodyRegex: "("}},
		{"negative interval", Monitoring{Name: "Example", URL: "https://example.com", CheckInterval: -1}},
		{"negative timeout", Monitoring{Name: "Example", URL: "https://example.com", Timeout: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.monitoring.Validate())
		})
	}
}

func TestValidateNormalizesMethod(t *testing.T) {
	m := Monitoring{Name: "Example", URL: "https://example.com", HTTPMethod: "head"}

	require.NoError(t, m.Validate())
	assert.Equal(t, "HEAD", m.HTTPMethod)
}

func TestNextDueFloorsToMinute(t *testing.T) {
	m := Monitoring{
		CheckInterval: 5,
		LastCheckedAt: time.Date(2024, 3, 1, 10, 0, 42, 0, time.UTC),
	}

	assert.Equal(t, time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC), m.NextDue())
}

func TestNextDueFallsBackToCreatedAt(t *testing.T) {
	m := Monitoring{
		CheckInterval: 3,
		CreatedAt:     time.Date(2024, 3, 1, 12, 30, 59, 0, time.UTC),
	}

	assert.Equal(t, time.Date(2024, 3, 1, 12, 33, 0, 0, time.UTC), m.NextDue())
}

func TestIsDue(t *testing.T) {
	m := Monitoring{
		CheckInterval: 5,
		LastCheckedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	before := time.Date(2024, 3, 1, 10, 4, 0, 0, time.UTC)
	exact := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	after := time.Date(2024, 3, 1, 10, 6, 0, 0, time.UTC)

	assert.False(t, m.IsDue(before, false))
	assert.True(t, m.IsDue(exact, false))
	assert.True(t, m.IsDue(after, false))

	// Force mode ignores the due time.
	assert.True(t, m.IsDue(before, true))
}
