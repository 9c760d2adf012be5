// Package config defines the paymentd application configuration.
package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - database.go: Postgres and Redis configuration
//   - processor.go: processing engine configuration
//   - webhook.go: outbound webhook configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging).
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Storage backend configuration
	Store StoreConfig

	// Database configuration, used when the corresponding backend is selected
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// Processing engine configuration
	Processor ProcessorConfig

	// Outbound webhook configuration
	Webhook WebhookConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Store.Sanitize()
	c.Processor.Sanitize()
	c.Webhook.Sanitize()
}

// StoreBackend selects a storage implementation.
type StoreBackend string

const (
	// StoreBackendMemory keeps all state in process memory.
	StoreBackendMemory StoreBackend = "memory"
	// StoreBackendPostgres keeps payments and idempotency keys in Postgres.
	StoreBackendPostgres StoreBackend = "postgres"
	// StoreBackendRedis keeps the dedup set and idempotency index in Redis.
	StoreBackendRedis StoreBackend = "redis"
)

// StoreConfig selects the backing stores. Payments accepts memory|postgres;
// Index and Dedup accept memory|postgres|redis (postgres applies to the
// index only).
type StoreConfig struct {
	Payments StoreBackend `env:"STORE_PAYMENTS" envDefault:"memory"`
	Index    StoreBackend `env:"STORE_INDEX"    envDefault:"memory"`
	Dedup    StoreBackend `env:"STORE_DEDUP"    envDefault:"memory"`
}

// Sanitize falls back to the in-memory backend for unknown values.
func (s *StoreConfig) Sanitize() {
	if s.Payments != StoreBackendMemory && s.Payments != StoreBackendPostgres {
		s.Payments = StoreBackendMemory
	}
	switch s.Index {
	case StoreBackendMemory, StoreBackendPostgres, StoreBackendRedis:
	default:
		s.Index = StoreBackendMemory
	}
	if s.Dedup != StoreBackendMemory && s.Dedup != StoreBackendRedis {
		s.Dedup = StoreBackendMemory
	}
}

// NeedsPostgres reports whether any selected backend requires a database connection.
func (c *AppConfig) NeedsPostgres() bool {
	return c.Store.Payments == StoreBackendPostgres || c.Store.Index == StoreBackendPostgres
}

// NeedsRedis reports whether any selected backend requires a Redis connection.
func (c *AppConfig) NeedsRedis() bool {
	return c.Store.Index == StoreBackendRedis || c.Store.Dedup == StoreBackendRedis
}
