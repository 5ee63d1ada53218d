package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Scan      ScanConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"3001"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// FetchConfig holds outbound page fetch configuration.
type FetchConfig struct {
	Timeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	Retries   int           `envconfig:"FETCH_RETRIES" default:"0"`
	RetryWait time.Duration `envconfig:"FETCH_RETRY_WAIT" default:"500ms"`
	UserAgent string        `envconfig:"FETCH_USER_AGENT" default:"TableScan/1.0"`
	MaxBytes  int64         `envconfig:"FETCH_MAX_BYTES" default:"10485760"`
	RPS       float64       `envconfig:"FETCH_RPS" default:"0"`
}

// ScanConfig holds table extraction configuration.
type ScanConfig struct {
	Collector string `envconfig:"SCAN_COLLECTOR" default:"css"`
	Sanitize  bool   `envconfig:"SCAN_SANITIZE" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3001",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			Retries:   0,
			RetryWait: 500 * time.Millisecond,
			UserAgent: "TableScan/1.0",
			MaxBytes:  10 * 1024 * 1024,
		},
		Scan: ScanConfig{
			Collector: "css",
			Sanitize:  false,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
