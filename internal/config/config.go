// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// one exists), maps them into structured Go types and validates them so the
// app fails fast on bad or missing configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values, including the provider-specific mail settings.
//   - Provide sane defaults for optional config blocks (observability, rate limit).
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

/*
	Env vars are read with the MAILER_ prefix. A double underscore marks
	nesting, a single underscore stays part of the key:

		MAILER_SERVER__PORT            -> server.port
		MAILER_MAIL__FROM_ADDRESS      -> mail.from_address
		MAILER_INTEGRATION__RESEND_API_KEY -> integration.resend_api_key
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "MAILER_"

// ServiceName tags logs and New Relic data for this service.
const ServiceName = "go-mailer"

// Mail providers understood by MailConfig.Provider.
const (
	MailProviderResend = "resend"
	MailProviderSMTP   = "smtp"
	MailProviderLog    = "log"
)

// Config is the root configuration object for the application.
//
// Observability and RateLimit are pointers because they are optional.
// When missing, defaults are injected by LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Mail          MailConfig           `koanf:"mail" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// AuthConfig stores the Clerk secret key used to verify session tokens
// on the mail endpoints.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// MailConfig selects and configures the mail transport.
//
// Provider decides which of the remaining fields matter:
//   - "resend": Integration.ResendAPIKey must be set.
//   - "smtp":   SMTPHost and SMTPPort must be set, credentials are optional.
//   - "log":    nothing is sent, emails are written to the logger (local dev).
type MailConfig struct {
	Provider    string `koanf:"provider" validate:"required,oneof=resend smtp log"`
	FromName    string `koanf:"from_name" validate:"required"`
	FromAddress string `koanf:"from_address" validate:"required,email"`

	SMTPHost               string `koanf:"smtp_host" validate:"required_if=Provider smtp"`
	SMTPPort               int    `koanf:"smtp_port" validate:"required_if=Provider smtp"`
	SMTPUser               string `koanf:"smtp_user"`
	SMTPPassword           string `koanf:"smtp_password"`
	SMTPInsecureSkipVerify bool   `koanf:"smtp_insecure_skip_verify"`

	// SMTPTimeout bounds one whole SMTP exchange (dial to QUIT). Zero means
	// the sender default of 10s.
	SMTPTimeout time.Duration `koanf:"smtp_timeout" validate:"gte=0"`
}

// IntegrationConfig holds credentials for third-party APIs.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// RateLimitConfig throttles the mail send endpoint per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"gte=1"`
}

// DefaultRateLimitConfig allows one send per second with short bursts.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             5,
	}
}

// envKey maps MAILER_MAIL__FROM_ADDRESS to mail.from_address.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from environment variables, applies
// defaults, validates the result and returns it. Every failure is
// returned as an error.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	// Defaults are decoded over, so a partial observability or rate_limit
	// block from env keeps the remaining default values.
	mainConfig := &Config{
		RateLimit:     DefaultRateLimitConfig(),
		Observability: DefaultObservabilityConfig(),
	}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	// Service name and environment are not user-configurable: telemetry must
	// always be tagged consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs struct-tag validation plus the cross-block rules that tags
// cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}

	// The Resend key lives in the integration block, so required_if cannot
	// reach it from MailConfig.
	if c.Mail.Provider == MailProviderResend && c.Integration.ResendAPIKey == "" {
		return errors.New("integration.resend_api_key is required when mail.provider is resend")
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return errors.Wrap(err, "invalid observability config")
		}
	}

	return nil
}
