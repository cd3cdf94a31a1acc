package configuration

import (
	"os"
	"time"
)

// HTTP and connection constants.
const (
	DefaultMaxIdleConns       = 100
	DefaultIdleTimeoutSeconds = 90
	DefaultTLSTimeoutSeconds  = 10
	DefaultHTTPTimeoutSeconds = 60
)

// Retry constants. Three attempts with a 1s/2s/4s backoff sequence.
const (
	DefaultMaxAttempts       = 3
	DefaultInitialInterval   = 1 * time.Second
	DefaultMaxInterval       = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Rate limiting and cache constants.
const (
	DefaultTokensPerSecond = 5
	DefaultBurstSize       = 10
	DefaultCacheTTL        = 24 * time.Hour
)

// DefaultMaxTokens caps generated response length.
const DefaultMaxTokens = 4096

// Environment variable names read by FromEnv.
const (
	EnvProvider     = "REDLINE_PROVIDER"
	EnvModel        = "REDLINE_MODEL"
	EnvRedisAddr    = "REDLINE_REDIS_ADDR"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// DefaultConfig returns a configuration with production defaults and no
// credentials. Deterministic backoff is the default; the 1/2/4 sequence is
// part of the client's observable contract.
func DefaultConfig() *Config {
	return &Config{
		HTTPTimeout: DefaultHTTPTimeoutSeconds * time.Second,
		Provider:    "openai",
		MaxTokens:   DefaultMaxTokens,
		Providers: map[string]ProviderConfig{
			"openai":    {DefaultModel: "gpt-4o-mini"},
			"anthropic": {DefaultModel: "claude-sonnet-4-20250514"},
		},
		Retry: RetryConfig{
			MaxAttempts:     DefaultMaxAttempts,
			InitialInterval: DefaultInitialInterval,
			MaxInterval:     DefaultMaxInterval,
			Multiplier:      DefaultBackoffMultiplier,
			UseJitter:       false,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			TokensPerSecond: DefaultTokensPerSecond,
			BurstSize:       DefaultBurstSize,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     DefaultCacheTTL,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogFormat:     "json",
			RedactPrompts: true,
		},
	}
}

// FromEnv returns the default configuration overlaid with environment
// settings: provider credentials, an optional provider/model override, and an
// optional Redis address enabling the response cache. Read once at startup.
func FromEnv() *Config {
	cfg := DefaultConfig()

	if key := os.Getenv(EnvOpenAIKey); key != "" {
		p := cfg.Providers["openai"]
		p.APIKey = key
		cfg.Providers["openai"] = p
	}
	if key := os.Getenv(EnvAnthropicKey); key != "" {
		p := cfg.Providers["anthropic"]
		p.APIKey = key
		cfg.Providers["anthropic"] = p
	}

	if provider := os.Getenv(EnvProvider); provider != "" {
		cfg.Provider = provider
	} else if os.Getenv(EnvOpenAIKey) == "" && os.Getenv(EnvAnthropicKey) != "" {
		cfg.Provider = "anthropic"
	}

	if model := os.Getenv(EnvModel); model != "" {
		cfg.Model = model
	}

	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.RedisAddr = addr
	}

	return cfg
}

// ModelFor resolves the model to request: the configured override when set,
// otherwise the provider's default.
func (c *Config) ModelFor(provider string) string {
	if c.Model != "" {
		return c.Model
	}
	return c.Providers[provider].DefaultModel
}
