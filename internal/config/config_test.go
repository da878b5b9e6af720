package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
telegram:
  token: "123:abc"
  admin_id: 1
  channel_id: -100
`

func TestLoad(t *testing.T) {
	t.Run("MinimalWithDefaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, minimalConfig))
		require.NoError(t, err)

		assert.Equal(t, "polling", cfg.Telegram.Mode)
		assert.Equal(t, 30, cfg.Telegram.PollTimeout)
		assert.Equal(t, 10, cfg.Telegram.ActionTimeout)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "data/gatekeeper.db", cfg.Database.Path)
		assert.Equal(t, []int{7, 14, 30, 60, 90}, cfg.Subscription.PlanDays)
		assert.Equal(t, 10, cfg.Subscription.ExpiringWindowDays)
		assert.Equal(t, 20, cfg.Subscription.PageSize)
		assert.Equal(t, "0 0 4 * * *", cfg.Scheduler.CheckSubscriptions)
		assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "456:def")
		t.Setenv("ADMIN_ID", "777")
		t.Setenv("DB_PATH", "/tmp/other.db")

		cfg, err := Load(writeConfig(t, minimalConfig))
		require.NoError(t, err)

		assert.Equal(t, "456:def", cfg.Telegram.Token)
		assert.Equal(t, int64(777), cfg.Telegram.AdminID)
		assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	})

	t.Run("MissingToken", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
telegram:
  admin_id: 1
  channel_id: -100
`))
		assert.Error(t, err)
	})

	t.Run("WebhookModeRequiresURL", func(t *testing.T) {
		_, err := Load(writeConfig(t, minimalConfig+`  mode: webhook
`))
		assert.Error(t, err)
	})

	t.Run("UnknownMode", func(t *testing.T) {
		_, err := Load(writeConfig(t, minimalConfig+`  mode: carrier-pigeon
`))
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestGetDatabaseConnectionString(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "gatekeeper",
		Password: "secret",
		Database: "gatekeeper",
		SSLMode:  "disable",
	}}
	assert.Equal(t,
		"host=localhost port=5432 user=gatekeeper password=secret dbname=gatekeeper sslmode=disable",
		cfg.GetDatabaseConnectionString())
}
