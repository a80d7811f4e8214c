package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override: SLSRPT_SERVER__PORT=9090
// overrides server.port.
const EnvPrefix = "SLSRPT_"

// Config represents the top-level application config.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Ingestion IngestionConfig `koanf:"ingestion"`
	Source    SourceConfig    `koanf:"source"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type IngestionConfig struct {
	BatchSize      int  `koanf:"batch_size"`
	BatchWorkers   int  `koanf:"batch_workers"`
	DuplicateGuard bool `koanf:"duplicate_guard"`
}

// SourceConfig points at the EDI portal the daily document is exported from.
type SourceConfig struct {
	BaseURL      string `koanf:"base_url"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Domain       string `koanf:"domain"`
	Group        string `koanf:"group"`
	DocumentType string `koanf:"document_type"`
	Timeout      string `koanf:"timeout"` // parsed and validated on startup
}

type SchedulerConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Interval      string `koanf:"interval"`        // parsed and validated on startup
	PeriodLagDays int    `koanf:"period_lag_days"` // report period = download day minus lag
}

type LoggingConfig struct {
	Level      string `koanf:"level"`  // debug | info | warn | error
	Format     string `koanf:"format"` // text | json
	File       string `koanf:"file"`   // empty logs to stdout only
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// SourceTimeout returns the parsed per-request timeout of the portal client.
func (c SourceConfig) SourceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// SchedulerInterval returns the parsed pull interval.
func (c SchedulerConfig) SchedulerInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Configured reports whether enough credentials are present to talk to the portal.
func (c SourceConfig) Configured() bool {
	return strings.TrimSpace(c.User) != "" && strings.TrimSpace(c.Password) != ""
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if c.Ingestion.BatchSize <= 0 {
		return fmt.Errorf("ingestion.batch_size must be > 0")
	}
	if c.Ingestion.BatchWorkers <= 0 {
		return fmt.Errorf("ingestion.batch_workers must be > 0")
	}

	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid source.base_url %q", c.Source.BaseURL)
	}
	if strings.TrimSpace(c.Source.DocumentType) == "" {
		return fmt.Errorf("source.document_type is required")
	}
	if d, err := time.ParseDuration(c.Source.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid source.timeout %q", c.Source.Timeout)
	}

	interval, err := time.ParseDuration(c.Scheduler.Interval)
	if err != nil {
		return fmt.Errorf("invalid scheduler interval %q: %w", c.Scheduler.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("scheduler interval must be > 0")
	}
	if c.Scheduler.PeriodLagDays < 0 {
		return fmt.Errorf("scheduler.period_lag_days must be >= 0")
	}
	if c.Scheduler.Enabled && !c.Source.Configured() {
		return fmt.Errorf("scheduler.enabled requires source.user and source.password")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q (must be text or json)", c.Logging.Format)
	}

	return nil
}

// Load parses config from defaults, then file, then environment, and validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":               8080,
		"server.host":               "0.0.0.0",
		"server.max_body_size_mb":   8,
		"server.mode":               "release",
		"database.type":             "postgres",
		"database.dsn":              "postgres://localhost:5432/sales?sslmode=disable",
		"database.max_open_conns":   10,
		"database.max_idle_conns":   10,
		"database.auto_migrate":     true,
		"ingestion.batch_size":      1000,
		"ingestion.batch_workers":   4,
		"ingestion.duplicate_guard": true,
		"source.base_url":           "https://ediwin.edicomgroup.com",
		"source.user":               "",
		"source.password":           "",
		"source.domain":             "",
		"source.group":              "",
		"source.document_type":      "SLSRPT",
		"source.timeout":            "60s",
		"scheduler.enabled":         false,
		"scheduler.interval":        "24h",
		"scheduler.period_lag_days": 1,
		"logging.level":             "info",
		"logging.format":            "text",
		"logging.file":              "",
		"logging.max_size_mb":       50,
		"logging.max_backups":       5,
		"logging.max_age_days":      30,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
