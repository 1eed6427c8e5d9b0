package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the plan service.
// Environment variables are automatically parsed from the LAMPLIGHT_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage selection: sqlite (default) or postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Generation endpoint (OpenAI-compatible chat completions)
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL     string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	OpenAIModel       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAITemperature float64       `envconfig:"OPENAI_TEMPERATURE" default:"0.6"`
	GenerateTimeout   time.Duration `envconfig:"GENERATE_TIMEOUT" default:"10s"`
	RetryBackoff      time.Duration `envconfig:"RETRY_BACKOFF" default:"500ms"`

	// Content cache directory; empty derives <data dir>/aicache
	CacheDir string `envconfig:"CACHE_DIR" default:""`

	// Optional override for the bundled scripture catalog
	CatalogPath string `envconfig:"CATALOG_PATH" default:""`

	// Local hour for the daily background plan refresh
	RefreshHour int `envconfig:"REFRESH_HOUR" default:"6"`

	// Connectivity probe interval
	ProbeInterval time.Duration `envconfig:"PROBE_INTERVAL" default:"30s"`
}

// ResolveDefaults validates driver selection and derived settings.
func (c *Config) ResolveDefaults() error {
	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
	}
	if c.RefreshHour < 0 || c.RefreshHour > 23 {
		return fmt.Errorf("REFRESH_HOUR out of range: %d", c.RefreshHour)
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with LAMPLIGHT_
// Example: LAMPLIGHT_HTTP_PORT, LAMPLIGHT_OPENAI_API_KEY
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("LAMPLIGHT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("model", cfg.OpenAIModel).
		Dur("generate_timeout", cfg.GenerateTimeout).
		Str("api_key_present", func() string {
			if cfg.OpenAIAPIKey != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:       EnvTesting,
		HTTPPort:          8080,
		DBDriver:          "sqlite",
		SQLitePath:        "",
		OpenAIBaseURL:     "http://localhost:0",
		OpenAIModel:       "gpt-4o-mini",
		OpenAITemperature: 0.6,
		GenerateTimeout:   2 * time.Second,
		RetryBackoff:      10 * time.Millisecond,
		RefreshHour:       6,
		ProbeInterval:     30 * time.Second,
	}
}
