// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the admin/read HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required by server, worker, migrate, and seed.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AdminToken, when set, is required as a Bearer token on /admin endpoints.
	AdminToken string `mapstructure:"ADMIN_TOKEN"`

	// ProvidersBaseURL is the base URL of the authoritative providers system
	// (snapshot endpoint: GET <base>/all-onboarded-providers).
	ProvidersBaseURL string `mapstructure:"PROVIDERS_BASE_URL"`
	// SnapshotFetchTimeout is the timeout for one snapshot fetch (e.g. "30s").
	SnapshotFetchTimeout string `mapstructure:"SNAPSHOT_FETCH_TIMEOUT"`
	// ReconcileTimeout bounds a whole reconciliation run, fetch plus transaction (e.g. "2m").
	ReconcileTimeout string `mapstructure:"RECONCILE_TIMEOUT"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// OnboardingTopic is the topic carrying incremental onboarding events.
	OnboardingTopic string `mapstructure:"ONBOARDING_TOPIC"`
	// OnboardingGroupID is the consumer group ID for the onboarding worker.
	OnboardingGroupID string `mapstructure:"ONBOARDING_GROUP_ID"`
	// DeadLetterTopic, when set, receives events the worker could not parse or apply.
	DeadLetterTopic string `mapstructure:"DEAD_LETTER_TOPIC"`
	// ChangeTopic is the topic change notifications are published to. Empty disables publishing.
	ChangeTopic string `mapstructure:"CHANGE_TOPIC"`
	// WorkerCount is the number of parallel partition readers in the worker (>= 1).
	WorkerCount int `mapstructure:"WORKER_COUNT"`

	// OTLPEndpoint enables OTel trace/metric export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("PROVIDERS_BASE_URL", "")
	v.SetDefault("SNAPSHOT_FETCH_TIMEOUT", "30s")
	v.SetDefault("RECONCILE_TIMEOUT", "2m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("ONBOARDING_TOPIC", "client-onboarded-providers")
	v.SetDefault("ONBOARDING_GROUP_ID", "provider-onboarding-worker")
	v.SetDefault("DEAD_LETTER_TOPIC", "")
	v.SetDefault("CHANGE_TOPIC", "provider-onboarding-changed")
	v.SetDefault("WORKER_COUNT", 4)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("config: WORKER_COUNT must be >= 1")
	}

	return &cfg, nil
}

// FetchTimeout parses SnapshotFetchTimeout as a time.Duration. Returns 30s if unset or invalid.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.SnapshotFetchTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ReconcileDeadline parses ReconcileTimeout as a time.Duration. Returns 2m if unset or invalid.
func (c *Config) ReconcileDeadline() time.Duration {
	d, err := time.ParseDuration(c.ReconcileTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka is enabled (non-empty list) and to create readers and writers.
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
