// Package config handles TOML configuration for reaper.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	AWS     AWSConfig     `toml:"aws"`
	Sweep   SweepConfig   `toml:"sweep"`
	OTEL    OTELConfig    `toml:"otel"`
	Metrics MetricsConfig `toml:"metrics"`
	Log     LogConfig     `toml:"log"`
	Output  OutputConfig  `toml:"output"`
}

// AWSConfig holds AWS provider settings. Empty values defer to the SDK's
// environment and shared-profile resolution.
type AWSConfig struct {
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
}

// SweepConfig holds sweeper settings.
type SweepConfig struct {
	ThresholdDays *int   `toml:"threshold_days"`
	LastUsedTag   string `toml:"last_used_tag"`
}

// OTELConfig holds OpenTelemetry settings.
type OTELConfig struct {
	Endpoint    string       `toml:"endpoint"`
	Insecure    bool         `toml:"insecure"`
	ServiceName string       `toml:"service_name"`
	Traces      TracesConfig `toml:"traces"`
	Metrics     OTLPMetrics  `toml:"metrics"`
}

// TracesConfig holds tracing settings.
type TracesConfig struct {
	Enabled    bool    `toml:"enabled"`
	SampleRate float64 `toml:"sample_rate"`
}

// OTLPMetrics holds OTLP metric export settings.
type OTLPMetrics struct {
	Enabled bool `toml:"enabled"`
}

// MetricsConfig holds Prometheus Pushgateway settings.
type MetricsConfig struct {
	Pushgateway string `toml:"pushgateway"`
	Job         string `toml:"job"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format string `toml:"format"`
}

const (
	defaultThresholdDays = 30
	defaultLastUsedTag   = "LastUsed"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a TOML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Sweep.ThresholdDays == nil {
		days := defaultThresholdDays
		cfg.Sweep.ThresholdDays = &days
	}
	if cfg.Sweep.LastUsedTag == "" {
		cfg.Sweep.LastUsedTag = defaultLastUsedTag
	}
	if cfg.OTEL.ServiceName == "" {
		cfg.OTEL.ServiceName = "reaper"
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = "reaper"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
}

// Threshold returns the idle threshold in days.
func (c *Config) Threshold() int {
	if c.Sweep.ThresholdDays == nil {
		return defaultThresholdDays
	}
	return *c.Sweep.ThresholdDays
}

// SetThreshold overrides the idle threshold.
func (c *Config) SetThreshold(days int) {
	c.Sweep.ThresholdDays = &days
}

// Validate checks the configuration is valid.
func (c *Config) Validate() error {
	if c.Threshold() < 0 {
		return fmt.Errorf("sweep: threshold_days must not be negative (got %d)", c.Threshold())
	}
	if c.OTEL.Traces.SampleRate < 0.0 || c.OTEL.Traces.SampleRate > 1.0 {
		return fmt.Errorf("otel: traces.sample_rate must be between 0.0 and 1.0 (got %v)", c.OTEL.Traces.SampleRate)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output: unknown format %q", c.Output.Format)
	}
	return nil
}
