package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups all configuration related to telemetry.
//
// It covers:
//   - logging settings (format, level, slow send threshold)
//   - New Relic APM settings
//   - health check settings
//
// It is optional at the root (pointer in Config). If omitted, defaults are injected.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs and APM dashboards.
	// Always overwritten with config.ServiceName by LoadConfig.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment splits telemetry by environment (production, development, local).
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required"`

	// Format is "json" or "console". JSON is only honoured in production.
	Format string `koanf:"format" validate:"required"`

	// SlowSendThreshold marks a provider call as slow. Slow sends are logged
	// at warn level with their duration. Zero disables the check.
	//
	// Parsed as a Go duration string ("500ms", "2s").
	SlowSendThreshold time.Duration `koanf:"slow_send_threshold"`
}

// NewRelicConfig holds configuration for New Relic APM and log forwarding.
//
// An empty LicenseKey disables New Relic entirely; everything else is a toggle.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig controls the /status endpoint.
type HealthChecksConfig struct {
	Enabled bool `koanf:"enabled"`

	// Timeout bounds a single dependency check (e.g. the SMTP dial).
	Timeout time.Duration `koanf:"timeout" validate:"omitempty,min=1s"`

	// Checks names the dependency checks to run. Only "mail" exists today.
	Checks []string `koanf:"checks"`
}

// DefaultObservabilityConfig provides the defaults used when
// Config.Observability is nil.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:             "info",
			Format:            "json",
			SlowSendThreshold: 2 * time.Second,
		},
		NewRelic: NewRelicConfig{
			LicenseKey:                "",
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false, // mixed log formats otherwise
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"mail"},
		},
	}
}

// Validate applies rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.SlowSendThreshold < 0 {
		return fmt.Errorf("logging slow_send_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level, defaulting by environment
// when none is set: info in production, debug in development.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development":
		if c.Logging.Level == "" {
			return "debug"
		}
	}

	return c.Logging.Level
}

// IsProduction reports whether the application is running in production
// mode. A nil config is not production.
func (c *ObservabilityConfig) IsProduction() bool {
	return c != nil && c.Environment == "production"
}

// HealthCheckTimeout returns the per-check timeout, falling back to 5s.
func (c *ObservabilityConfig) HealthCheckTimeout() time.Duration {
	if c.HealthChecks.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.HealthChecks.Timeout
}
