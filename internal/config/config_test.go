package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "tradechecker.db", cfg.Storage.DSN)
	assert.Equal(t, "trades", cfg.Storage.Slot)
	assert.Equal(t, "1/2/2006", cfg.Journal.DateFormat)
	assert.Equal(t, 1000, cfg.Journal.MaxCommentLength)
	assert.Len(t, cfg.Journal.Strategies, 5)
	assert.Equal(t, []string{"Win", "Loss", "Break Even", "Partial Win", "Partial Loss"}, cfg.Journal.Results)
	assert.Equal(t, 20.0, cfg.Client.RateLimit)
	assert.Equal(t, 5, cfg.Client.RateLimitBurst)
	assert.Equal(t, 3, cfg.Client.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
logger:
  level: debug
  format: json
server:
  port: 9090
storage:
  driver: bolt
  dsn: trades.bolt
journal:
  timezone: UTC
  strategies: [Breakout, Reversal]
client:
  timeout: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, "trades.bolt", cfg.Storage.DSN)
	assert.Equal(t, "trades", cfg.Storage.Slot)
	assert.Equal(t, []string{"Breakout", "Reversal"}, cfg.Journal.Strategies)
	assert.Equal(t, 2*time.Second, cfg.Client.Timeout)

	loc, err := cfg.Journal.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("server: [port"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestJournalLocation(t *testing.T) {
	loc, err := Journal{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = Journal{Timezone: "Not/AZone"}.Location()
	assert.Error(t, err)
}
