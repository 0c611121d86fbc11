package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/marketai?sslmode=disable")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Second, cfg.MetricsFetchTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MARKETAI_API_BASE_URL", "https://api.example.com")
	t.Setenv("MARKETAI_API_TOKEN", "token")
	t.Setenv("METRICS_FETCH_TIMEOUT", "5s")
	t.Setenv("SESSION_SWEEP_INTERVAL", "1m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "https://api.example.com", cfg.MarketAIBaseURL)
	assert.Equal(t, "token", cfg.MarketAIToken)
	assert.Equal(t, 5*time.Second, cfg.MetricsFetchTimeout)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("POSTGRES_DSN", "postgres://env/db")
	os.Unsetenv("TELEGRAM_TOKEN")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_TOKEN=from-file\nPOSTGRES_DSN=postgres://file/db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.TelegramToken)
	assert.Equal(t, "postgres://env/db", cfg.PostgresDSN, "environment wins over the file")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "")
		t.Setenv("POSTGRES_DSN", "dsn")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SESSION_IDLE_TTL", "half an hour")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "SESSION_IDLE_TTL")
	})
}

func TestValidate(t *testing.T) {
	setRequired(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.LogLevel = "warn"
	cfg.SessionIdleTTL = time.Second
	assert.Error(t, cfg.Validate())
}
