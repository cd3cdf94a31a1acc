// Package configuration holds the typed configuration for the generation
// client. Configuration is read once at startup; nothing in the pipeline
// branches on it per call.
package configuration

import (
	"net/http"
	"time"
)

// Config holds the full configuration for the generation client.
type Config struct {
	// HTTP client configuration.
	HTTPTimeout time.Duration `json:"http_timeout"`
	HTTPClient  *http.Client  `json:"-"`

	// Provider selects which configured provider handles requests.
	Provider string `json:"provider"`

	// Model identifies the model to request; empty selects the provider default.
	Model string `json:"model"`

	// Providers maps provider names to their endpoint and credential settings.
	Providers map[string]ProviderConfig `json:"providers"`

	// MaxTokens caps response length per request.
	MaxTokens int64 `json:"max_tokens"`

	// Retry controls transient-failure recovery.
	Retry RetryConfig `json:"retry"`

	// RateLimit controls the local token bucket.
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Cache controls the Redis success-only response cache.
	Cache CacheConfig `json:"cache"`

	// Observability controls logging detail.
	Observability ObservabilityConfig `json:"observability"`
}

// HasCredentials reports whether the selected provider has an API key
// configured. Callers use this once, at construction, to choose between the
// live client and the deterministic stand-in.
func (c *Config) HasCredentials() bool {
	p, ok := c.Providers[c.Provider]
	return ok && p.APIKey != ""
}

// ProviderConfig holds provider-specific endpoint and credential settings.
type ProviderConfig struct {
	Endpoint     string            `json:"endpoint"`
	APIKey       string            `json:"-"` // Sensitive, not serialized
	DefaultModel string            `json:"default_model"`
	Timeout      time.Duration     `json:"timeout"`
	Headers      map[string]string `json:"headers"`
}

// RetryConfig controls retry behavior for failed generation attempts.
type RetryConfig struct {
	MaxAttempts     int           `json:"max_attempts"`     // Total attempts including the first
	InitialInterval time.Duration `json:"initial_interval"` // Starting backoff duration
	MaxInterval     time.Duration `json:"max_interval"`     // Maximum backoff duration
	Multiplier      float64       `json:"multiplier"`       // Exponential backoff multiplier
	UseJitter       bool          `json:"use_jitter"`       // Enable full jitter randomization
}

// RateLimitConfig controls the local token-bucket rate limiter.
type RateLimitConfig struct {
	Enabled         bool    `json:"enabled"`
	TokensPerSecond float64 `json:"tokens_per_second"`
	BurstSize       int     `json:"burst_size"`
}

// CacheConfig controls Redis-based response caching. Generation runs at zero
// temperature, so identical prompts produce stable output and success-only
// caching is sound.
type CacheConfig struct {
	Enabled       bool          `json:"enabled"`
	TTL           time.Duration `json:"ttl"`
	RedisAddr     string        `json:"redis_addr"`
	RedisPassword string        `json:"-"` // Sensitive
	RedisDB       int           `json:"redis_db"`
}

// ObservabilityConfig controls structured logging behavior.
type ObservabilityConfig struct {
	LogLevel      string `json:"log_level"`
	LogFormat     string `json:"log_format"`
	RedactPrompts bool   `json:"redact_prompts"`
}
