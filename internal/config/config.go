package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram
	TelegramToken string

	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// MarketAI API
	MarketAIBaseURL string
	MarketAIToken   string
	MarketAITimeout time.Duration

	// Sessions
	MetricsFetchTimeout  time.Duration
	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment. Values from the given
// dotenv files (".env" when none) fill in variables that are not set; a
// missing file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		// Defaults
		MarketAIBaseURL:      "http://localhost:3000/api",
		MarketAITimeout:      30 * time.Second,
		MetricsFetchTimeout:  15 * time.Second,
		SessionIdleTTL:       30 * time.Minute,
		SessionSweepInterval: 5 * time.Minute,
		LogLevel:             "info",
		RedisDB:              0,
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	} else {
		cfg.RedisAddr = "localhost:6379"
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if baseURL := os.Getenv("MARKETAI_API_BASE_URL"); baseURL != "" {
		cfg.MarketAIBaseURL = baseURL
	}

	cfg.MarketAIToken = os.Getenv("MARKETAI_API_TOKEN")

	durations := []struct {
		env  string
		dest *time.Duration
	}{
		{"MARKETAI_API_TIMEOUT", &cfg.MarketAITimeout},
		{"METRICS_FETCH_TIMEOUT", &cfg.MetricsFetchTimeout},
		{"SESSION_IDLE_TTL", &cfg.SessionIdleTTL},
		{"SESSION_SWEEP_INTERVAL", &cfg.SessionSweepInterval},
	}
	for _, d := range durations {
		raw := os.Getenv(d.env)
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dest = v
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram token is empty")
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.MarketAIBaseURL == "" {
		return fmt.Errorf("marketai base URL is empty")
	}

	if c.MetricsFetchTimeout <= 0 {
		return fmt.Errorf("metrics fetch timeout must be positive: %v", c.MetricsFetchTimeout)
	}

	if c.SessionIdleTTL < time.Minute {
		return fmt.Errorf("session idle ttl too small: %v", c.SessionIdleTTL)
	}

	if c.SessionSweepInterval < time.Second {
		return fmt.Errorf("session sweep interval too small: %v", c.SessionSweepInterval)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
