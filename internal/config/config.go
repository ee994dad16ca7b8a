package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the api process configuration, loaded from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// GeminiAPIKeys is a comma-separated pool; requests rotate to the next
	// key when one is rate-limited.
	GeminiAPIKeys []string      `env:"GEMINI_API_KEYS"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"45s"`
	LLMMaxRetries int           `env:"LLM_MAX_RETRIES" envDefault:"3"`
	LLMRetryWait  time.Duration `env:"LLM_RETRY_WAIT" envDefault:"2s"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// HistoryWindow is how many recent room messages each prompt carries.
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"20"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that Load cannot default.
func (c *Config) Validate() error {
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEYS is required")
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("HISTORY_WINDOW must be positive")
	}
	return nil
}

// SlogLevel maps the configured log level string to a slog.Level,
// defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
