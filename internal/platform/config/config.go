// Package config assembles the engine-wide configuration: defaults merged
// with an optional YAML file, then environment overrides, so main stays
// lean.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"anchor/internal/company"
	"anchor/internal/email"
	"anchor/internal/movement"
	"anchor/internal/people"
	"anchor/internal/similarity"
)

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Config is the full engine configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// OpsAddr serves /healthz, /metrics, and bay inspection. Empty disables
	// the ops server.
	OpsAddr string `yaml:"ops_addr"`

	// PostgresDSN enables the durable bay and row stores. Empty falls back
	// to in-memory stores.
	PostgresDSN string      `yaml:"postgres_dsn"`
	Redis       RedisConfig `yaml:"redis"`

	AdapterTimeout   time.Duration `yaml:"adapter_timeout"`
	AdapterRateLimit float64       `yaml:"adapter_rate_limit"`
	Workers          int           `yaml:"workers"`

	Similarity similarity.Config `yaml:"similarity"`
	Company    company.Config    `yaml:"company"`
	People     people.Config     `yaml:"people"`
	Email      email.Config      `yaml:"email"`
	Movement   movement.Config   `yaml:"movement"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "text",
		AdapterTimeout: 10 * time.Second,
		Workers:        8,
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Similarity: similarity.DefaultConfig(),
		Company:    company.DefaultConfig(),
		People:     people.DefaultConfig(),
		Email:      email.DefaultConfig(),
		Movement:   movement.DefaultConfig(),
	}
}

// Load reads YAML over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds a config from defaults plus environment variables only.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	setString(&c.LogLevel, "ANCHOR_LOG_LEVEL")
	setString(&c.LogFormat, "ANCHOR_LOG_FORMAT")
	setString(&c.OpsAddr, "ANCHOR_OPS_ADDR")
	setString(&c.PostgresDSN, "ANCHOR_POSTGRES_DSN")
	setString(&c.Redis.URL, "ANCHOR_REDIS_URL")
	if v := os.Getenv("ANCHOR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv("ANCHOR_ADAPTER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.AdapterTimeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
