package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/DigitalMasterpieces/wishkit-go/pkg/config"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

// Identity store backends.
const (
	IdentityStoreSQLite = "sqlite"
	IdentityStoreRedis  = "redis"
	IdentityStoreMemory = "memory"
)

// Status badge display modes. Any known wish state is also accepted and
// shows the badge for that state only.
const (
	BadgeShow = "show"
	BadgeHide = "hide"
)

// Config holds all configuration for the widget host.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"WISHKIT_HTTP_PORT" envDefault:"8090"`

	// WishKit API
	APIURL string `env:"WISHKIT_API_URL" envDefault:"https://wishkit.io"`
	APIKey string `env:"WISHKIT_API_KEY"`

	// Widget behaviour
	EmailField        string        `env:"WISHKIT_EMAIL_FIELD" envDefault:"optional"`
	AllowUndoVote     bool          `env:"WISHKIT_ALLOW_UNDO_VOTE" envDefault:"false"`
	ExpandDescription bool          `env:"WISHKIT_EXPAND_DESCRIPTION" envDefault:"false"`
	StatusBadge       string        `env:"WISHKIT_STATUS_BADGE" envDefault:"show"`
	CommentSection    bool          `env:"WISHKIT_COMMENT_SECTION" envDefault:"true"`
	RefreshInterval   time.Duration `env:"WISHKIT_REFRESH_INTERVAL" envDefault:"5m"`

	// Identity persistence
	IdentityStore        string `env:"IDENTITY_STORE" envDefault:"sqlite"`
	IdentitySQLitePath   string `env:"IDENTITY_SQLITE_PATH" envDefault:"data/wishkit.db"`
	IdentityInstallation string `env:"IDENTITY_INSTALLATION" envDefault:"default"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka; events are dropped when no brokers are set.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Outgoing HTTP client
	HTTPClientTimeout    time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"15s"`
	HTTPClientMaxRetries int           `env:"HTTP_CLIENT_MAX_RETRIES" envDefault:"2"`

	// Circuit breaker settings for WishKit API calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Per-client limit on the bridge's mutating routes; 0 disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"200"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load wishkit config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("invalid WISHKIT_API_URL %q: %w", c.APIURL, err)
	}
	if _, err := domain.ParseEmailPolicy(c.EmailField); err != nil {
		return fmt.Errorf("invalid WISHKIT_EMAIL_FIELD: %w", err)
	}
	if !validBadge(c.StatusBadge) {
		return fmt.Errorf("invalid WISHKIT_STATUS_BADGE %q (want show, hide or a wish state)", c.StatusBadge)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("WISHKIT_REFRESH_INTERVAL must not be negative, got %s", c.RefreshInterval)
	}
	switch c.IdentityStore {
	case IdentityStoreSQLite:
		if c.IdentitySQLitePath == "" {
			return fmt.Errorf("IDENTITY_SQLITE_PATH is required for the sqlite identity store")
		}
	case IdentityStoreRedis:
		if c.IdentityInstallation == "" {
			return fmt.Errorf("IDENTITY_INSTALLATION is required for the redis identity store")
		}
	case IdentityStoreMemory:
	default:
		return fmt.Errorf("invalid IDENTITY_STORE %q (want sqlite, redis or memory)", c.IdentityStore)
	}
	if c.HTTPClientMaxRetries < 0 {
		return fmt.Errorf("HTTP_CLIENT_MAX_RETRIES must not be negative, got %d", c.HTTPClientMaxRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

func validBadge(v string) bool {
	switch v {
	case BadgeShow, BadgeHide:
		return true
	default:
		_, err := domain.ParseWishState(v)
		return err == nil
	}
}

// EmailPolicy returns the parsed email field policy.
func (c *Config) EmailPolicy() domain.EmailPolicy {
	p, _ := domain.ParseEmailPolicy(c.EmailField)
	return p
}

// KafkaEnabled reports whether events should be published.
func (c *Config) KafkaEnabled() bool {
	for _, b := range c.KafkaBrokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}
