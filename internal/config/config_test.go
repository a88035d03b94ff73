package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "server_patrol", cfg.MongoDatabase)
	assert.Equal(t, "* * * * *", cfg.CheckSchedule)
	assert.Equal(t, "storage/.running", cfg.LockFilePath)
	assert.True(t, cfg.SchedulerEnabled)
	assert.False(t, cfg.EnableEmailAlerts)
	assert.False(t, cfg.EnableSMSAlerts)
	assert.Empty(t, cfg.AdminUsers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MONGO_TIMEOUT_SEC", "3")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("CHECK_SCHEDULE", "*/5 * * * *")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 3*time.Second, cfg.MongoTimeout)
	assert.False(t, cfg.SchedulerEnabled)
	assert.Equal(t, "*/5 * * * *", cfg.CheckSchedule)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("SCHEDULER_ENABLED", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.SchedulerEnabled)
}

func TestGetUsersEnv(t *testing.T) {
	t.Setenv("ADMIN_USERS", "alice:secret, bob:hunter2,:nouser,broken")

	users := getUsersEnv("ADMIN_USERS")

	assert.Equal(t, map[string]string{
		"alice": "secret",
		"bob":   "hunter2",
	}, users)
}
