// Package config loads the sitegen application settings: which persistence
// driver backs the config store, how to reach it, logging and template
// overrides. Settings come from an optional YAML file and SITEGEN_*
// environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Persistence drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverREST   = "rest"
)

const (
	DefaultDriver      = DriverSQLite
	DefaultSQLitePath  = ".sitegen/projects.db"
	DefaultRESTTimeout = 15 * time.Second
	DefaultLogLevel    = "info"

	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "sitegen.yaml"
)

// Config is the root settings document.
type Config struct {
	Persistence Persistence `yaml:"persistence"`
	Log         Log         `yaml:"log"`
	Templates   Templates   `yaml:"templates"`
}

// Persistence selects and configures the project collaborator.
type Persistence struct {
	Driver string `yaml:"driver"`
	SQLite SQLite `yaml:"sqlite"`
	REST   REST   `yaml:"rest"`
}

type SQLite struct {
	Path string `yaml:"path"`
}

// REST configures the hosted PostgREST-style database.
type REST struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Templates points the HTML renderer at an on-disk template bundle instead of
// the embedded one.
type Templates struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Persistence: Persistence{
			Driver: DefaultDriver,
			SQLite: SQLite{Path: DefaultSQLitePath},
			REST:   REST{Timeout: DefaultRESTTimeout},
		},
		Log: Log{Level: DefaultLogLevel},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path tries DefaultFile and silently skips it
// when absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if value := env("SITEGEN_DRIVER"); value != "" {
		c.Persistence.Driver = value
	}
	if value := env("SITEGEN_SQLITE_PATH"); value != "" {
		c.Persistence.SQLite.Path = value
	}
	if value := env("SITEGEN_REST_URL"); value != "" {
		c.Persistence.REST.BaseURL = value
	}
	if value := env("SITEGEN_REST_API_KEY"); value != "" {
		c.Persistence.REST.APIKey = value
	}
	if value := env("SITEGEN_REST_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config: SITEGEN_REST_TIMEOUT: %w", err)
		}
		c.Persistence.REST.Timeout = timeout
	}
	if value := env("SITEGEN_LOG_LEVEL"); value != "" {
		c.Log.Level = value
	}
	if value := env("SITEGEN_LOG_DEVELOPMENT"); value != "" {
		dev, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: SITEGEN_LOG_DEVELOPMENT: %w", err)
		}
		c.Log.Development = dev
	}
	if value := env("SITEGEN_TEMPLATES_DIR"); value != "" {
		c.Templates.Dir = value
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (c *Config) normalize() {
	c.Persistence.Driver = strings.ToLower(strings.TrimSpace(c.Persistence.Driver))
	if c.Persistence.Driver == "" {
		c.Persistence.Driver = DefaultDriver
	}
	if strings.TrimSpace(c.Persistence.SQLite.Path) == "" {
		c.Persistence.SQLite.Path = DefaultSQLitePath
	}
	c.Persistence.SQLite.Path = filepath.Clean(c.Persistence.SQLite.Path)
	c.Persistence.REST.BaseURL = strings.TrimRight(strings.TrimSpace(c.Persistence.REST.BaseURL), "/")
	if c.Persistence.REST.Timeout <= 0 {
		c.Persistence.REST.Timeout = DefaultRESTTimeout
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate reports settings the CLI cannot start with.
func (c Config) Validate() error {
	var problems []string
	switch c.Persistence.Driver {
	case DriverMemory, DriverSQLite:
	case DriverREST:
		if c.Persistence.REST.BaseURL == "" {
			problems = append(problems, "persistence.rest.base_url is required for the rest driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown persistence driver %q", c.Persistence.Driver))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ZapLevel returns the configured log level. Validate guarantees it parses.
func (l Log) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
