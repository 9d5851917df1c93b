package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/redirusmana/bakery-shop-web/pkg/config"
)

// Storage backend names.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// Config holds all configuration for the storefront client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Commerce API
	APIBaseURL     string        `env:"STOREFRONT_API_BASE_URL" envDefault:"http://localhost:8080"`
	RequestTimeout time.Duration `env:"STOREFRONT_REQUEST_TIMEOUT" envDefault:"10s"`

	// Persisted client state
	StorageBackend string `env:"STOREFRONT_STORAGE" envDefault:"file"`
	StateDir       string `env:"STOREFRONT_STATE_DIR" envDefault:".storefront"`

	// Redis (only used when StorageBackend is "redis")
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.APIBaseURL, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.StorageBackend != StorageFile && c.StorageBackend != StorageRedis {
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}
