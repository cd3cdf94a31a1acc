package retry

import (
	"errors"
	"math/rand"
	"time"

	"github.com/redlinehq/redline/internal/llm/configuration"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
)

// calculateBackoff computes the retry delay for the given attempt.
// Server Retry-After guidance takes precedence over exponential backoff;
// with jitter disabled the sequence is deterministic.
func (r *retryMiddleware) calculateBackoff(attempt int, err error) time.Duration {
	if retryAfter := extractRetryAfter(err); retryAfter > 0 {
		return retryAfter
	}
	return ExponentialBackoff(attempt, r.config)
}

// extractRetryAfter determines a server-specified retry delay from the error,
// or zero when none is available.
func extractRetryAfter(err error) time.Duration {
	var provider AfterProvider
	if errors.As(err, &provider) {
		return provider.GetRetryAfter()
	}

	var rateLimitErr *llmerrors.RateLimitError
	if errors.As(err, &rateLimitErr) && rateLimitErr.RetryAfter > 0 {
		return time.Duration(rateLimitErr.RetryAfter) * time.Second
	}

	var providerErr *llmerrors.ProviderError
	if errors.As(err, &providerErr) && providerErr.RetryAfter > 0 {
		return time.Duration(providerErr.RetryAfter) * time.Second
	}

	return 0
}

// ExponentialBackoff calculates the delay before the attempt following the
// given one: initialInterval * multiplier^(attempt-1), capped at maxInterval.
// With UseJitter set, full jitter randomizes between 0 and the computed value
// using thread-safe rand/v2. Returns zero for non-positive attempts.
func ExponentialBackoff(attempt int, cfg configuration.RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := cfg.InitialInterval
	for i := 1; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxInterval {
			backoff = cfg.MaxInterval
			break
		}
	}

	if cfg.UseJitter {
		jitterMs := rand.Int63n(backoff.Milliseconds() + 1) // #nosec G404 -- non-cryptographic jitter
		return time.Duration(jitterMs) * time.Millisecond
	}

	return backoff
}
