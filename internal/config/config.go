// Package config loads service configuration from an optional TOML file with
// TASKDECK_* environment overrides. The auth secret is mandatory and only
// ever supplied externally.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries everything the binaries need at startup.
type Config struct {
	Addr          string
	DatabaseDSN   string
	AuthSecret    string
	TokenTTL      time.Duration
	RateBurst     int
	RatePerSecond int
	MaxBodyBytes  int64
	AutoMigrate   bool
	LogLevel      string
}

type fileConfig struct {
	Addr          string `toml:"addr"`
	DatabaseDSN   string `toml:"database_dsn"`
	AuthSecret    string `toml:"auth_secret"`
	TokenTTL      string `toml:"token_ttl"`
	RateBurst     int    `toml:"rate_burst"`
	RatePerSecond int    `toml:"rate_per_second"`
	MaxBodyBytes  int64  `toml:"max_body_bytes"`
	AutoMigrate   *bool  `toml:"auto_migrate"`
	LogLevel      string `toml:"log_level"`
}

// Load reads the optional TOML file at path (expanding ${VAR} references),
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Addr:          ":8080",
		TokenTTL:      time.Hour,
		RateBurst:     20,
		RatePerSecond: 10,
		MaxBodyBytes:  1 << 20,
		LogLevel:      "info",
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return nil, errors.New("config: auth secret is required (auth_secret or TASKDECK_AUTH_SECRET)")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("config: token ttl must be greater than zero")
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	var fc fileConfig
	if _, err := toml.Decode(expandEnvVars(string(data)), &fc); err != nil {
		return fmt.Errorf("config: parse file: %w", err)
	}

	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.DatabaseDSN != "" {
		c.DatabaseDSN = fc.DatabaseDSN
	}
	if fc.AuthSecret != "" {
		c.AuthSecret = fc.AuthSecret
	}
	if fc.TokenTTL != "" {
		ttl, err := time.ParseDuration(fc.TokenTTL)
		if err != nil {
			return fmt.Errorf("config: token_ttl: %w", err)
		}
		c.TokenTTL = ttl
	}
	if fc.RateBurst > 0 {
		c.RateBurst = fc.RateBurst
	}
	if fc.RatePerSecond > 0 {
		c.RatePerSecond = fc.RatePerSecond
	}
	if fc.MaxBodyBytes > 0 {
		c.MaxBodyBytes = fc.MaxBodyBytes
	}
	if fc.AutoMigrate != nil {
		c.AutoMigrate = *fc.AutoMigrate
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TASKDECK_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("TASKDECK_PG_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv("TASKDECK_AUTH_SECRET"); v != "" {
		c.AuthSecret = v
	}
	if v := os.Getenv("TASKDECK_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: TASKDECK_TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	if v := os.Getenv("TASKDECK_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: TASKDECK_RATE_BURST must be a positive integer, got %q", v)
		}
		c.RateBurst = n
	}
	if v := os.Getenv("TASKDECK_RATE_PER_SECOND"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: TASKDECK_RATE_PER_SECOND must be a positive integer, got %q", v)
		}
		c.RatePerSecond = n
	}
	if v := os.Getenv("TASKDECK_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: TASKDECK_MAX_BODY_BYTES must be a positive integer, got %q", v)
		}
		c.MaxBodyBytes = n
	}
	if v := os.Getenv("TASKDECK_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: TASKDECK_AUTO_MIGRATE: %w", err)
		}
		c.AutoMigrate = b
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} references in the config file with
// environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(name)
	})
}
