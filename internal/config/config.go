// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MinSigningSecretLen is the minimum length in bytes of the HS256 signing secret.
const MinSigningSecretLen = 32

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SigningSecret signs access tokens (HS256). Must be at least 32 bytes; startup fails otherwise.
	SigningSecret string `mapstructure:"AUTH_SIGNING_SECRET"`
	// Issuer is the iss claim stamped on access tokens and validated on verify.
	Issuer string `mapstructure:"AUTH_ISSUER"`
	// Audience is the aud claim stamped on access tokens and validated on verify.
	Audience string `mapstructure:"AUTH_AUDIENCE"`
	// AccessTokenTTL is the access token lifetime (e.g. "15m").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// SessionTTL is the session (refresh credential) lifetime (e.g. "168h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// CleanupGrace is how long revoked sessions are kept for audit before the sweeper deletes them.
	CleanupGrace string `mapstructure:"CLEANUP_GRACE"`
	// CleanupInterval is the sweeper run interval (cmd/sweeper only).
	CleanupInterval string `mapstructure:"CLEANUP_INTERVAL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses for auth lifecycle events.
	// Empty disables the Kafka emitter.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// KafkaTopic is the Kafka topic for auth lifecycle events (default auth-events).
	KafkaTopic string `mapstructure:"AUTH_EVENTS_TOPIC"`

	// OTLPEndpoint is the OTLP gRPC endpoint for traces/metrics/logs. Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields
// are invalid; a missing or short AUTH_SIGNING_SECRET is a fatal configuration error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTH_SIGNING_SECRET", "")
	v.SetDefault("AUTH_ISSUER", "authcore")
	v.SetDefault("AUTH_AUDIENCE", "authcore-api")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("SESSION_TTL", "168h") // 7d
	v.SetDefault("CLEANUP_GRACE", "24h")
	v.SetDefault("CLEANUP_INTERVAL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("AUTH_EVENTS_TOPIC", "auth-events")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.SigningSecret) < MinSigningSecretLen {
		return nil, errors.New("config: AUTH_SIGNING_SECRET must be set and at least 32 bytes")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("config: AUTH_ISSUER and AUTH_AUDIENCE must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses AccessTokenTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// SessionLifetime parses SessionTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) SessionLifetime() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// Grace parses CleanupGrace as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) Grace() time.Duration {
	d, err := time.ParseDuration(c.CleanupGrace)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SweepInterval parses CleanupInterval as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) SweepInterval() time.Duration {
	d, err := time.ParseDuration(c.CleanupInterval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the Kafka emitter is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
