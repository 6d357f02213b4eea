// Package config loads the service configuration from defaults, config.yaml,
// a .env file and HWCATALOG_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "HWCATALOG_"
	DefaultFile    = "config.yaml"
	DefaultEnvFile = ".env"
)

// Keys are lowercase so that environment overrides land on the same key as
// the yaml value.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	NATS     NATSConfig     `koanf:"nats"`
	Notify   NotifyConfig   `koanf:"notify"`
}

type AppConfig struct {
	Env             string        `koanf:"env"`
	Port            int           `koanf:"port"`
	LogLevel        string        `koanf:"loglevel"`
	ShutdownTimeout time.Duration `koanf:"shutdowntimeout"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type DatabaseConfig struct {
	URL              string        `koanf:"url"`
	MaxConns         int32         `koanf:"maxconns"`
	MinConns         int32         `koanf:"minconns"`
	ConnLifetime     time.Duration `koanf:"connlifetime"`
	IdleTime         time.Duration `koanf:"idletime"`
	StatementTimeout time.Duration `koanf:"statementtimeout"`
}

type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	Stream  string        `koanf:"stream"`
	Subject string        `koanf:"subject"`
	Timeout time.Duration `koanf:"timeout"`
}

type NotifyConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.env":                   "production",
		"app.port":                  8080,
		"app.loglevel":              "info",
		"app.shutdowntimeout":       "15s",
		"database.maxconns":         25,
		"database.minconns":         2,
		"database.connlifetime":     "1h",
		"database.idletime":         "30m",
		"database.statementtimeout": "30s",
		"nats.enabled":              false,
		"nats.url":                  "nats://localhost:4222",
		"nats.stream":               "HARDWARE",
		"nats.subject":              "hardware.created",
		"nats.timeout":              "5s",
		"notify.timeout":            "10s",
	}
}

// Load reads the configuration from DefaultFile, DefaultEnvFile and the environment.
func Load() (*Config, error) {
	return LoadFrom(DefaultFile, DefaultEnvFile)
}

// LoadFrom reads the configuration from the given files and the environment.
// Missing files are skipped.
func LoadFrom(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 1. yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading YAML config file '%s': %w", configFile, err)
		}
	}

	// 2. .env file
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				envMap[keyTransformer(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. process environment, highest priority
	if err := k.Load(env.Provider(envPrefix, ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// keyTransformer maps HWCATALOG_DATABASE_MAXCONNS to database.maxconns.
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
	return strings.ReplaceAll(key, "_", ".")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.App.Port)
	}
	if c.App.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %v", c.App.ShutdownTimeout)
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.NATS.Enabled {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}
	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("invalid notify timeout: %v", c.Notify.Timeout)
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !isValidPostgresURL(c.URL) {
		return fmt.Errorf("database URL must start with 'postgres://': %s", maskURL(c.URL))
	}
	if c.MaxConns <= 0 || c.MinConns < 0 || c.MinConns > c.MaxConns {
		return fmt.Errorf("invalid pool size: min %d, max %d", c.MinConns, c.MaxConns)
	}
	return nil
}

func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("NATS URL is not configured")
	}
	if c.Stream == "" || c.Subject == "" {
		return fmt.Errorf("NATS stream and subject must be configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("nats dial timeout is not configured")
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("app.env=%s, app.port=%d, app.loglevel=%s, database.url=%s, database.maxconns=%d, nats.enabled=%t, nats.url=%s, nats.subject=%s, notify.timeout=%v",
		c.App.Env,
		c.App.Port,
		c.App.LogLevel,
		maskURL(c.Database.URL),
		c.Database.MaxConns,
		c.NATS.Enabled,
		c.NATS.URL,
		c.NATS.Subject,
		c.Notify.Timeout)
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}
