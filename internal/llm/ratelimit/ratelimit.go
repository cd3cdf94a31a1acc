// Package ratelimit provides a local token-bucket middleware so a burst of
// analysis requests cannot exhaust the provider quota. Limits are per task so
// one analysis type cannot starve another.
package ratelimit

import (
	"context"
	"math"
	"sync"

	"golang.org/x/time/rate"

	"github.com/redlinehq/redline/internal/llm/configuration"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
	"github.com/redlinehq/redline/internal/llm/transport"
)

// NewMiddleware creates a local rate-limit middleware. A rejected request
// surfaces as a RateLimitError carrying a retry-after hint, which the retry
// middleware honors in its backoff.
func NewMiddleware(cfg configuration.RateLimitConfig) transport.Middleware {
	rl := &rateLimiter{
		config:   cfg,
		limiters: make(map[string]*rate.Limiter),
	}

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			if cfg.Enabled {
				if err := rl.check(req.Task); err != nil {
					return nil, err
				}
			}
			return next.Handle(ctx, req)
		})
	}
}

type rateLimiter struct {
	config configuration.RateLimitConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// check enforces the token bucket for the given key without consuming a
// token on rejection, so failed requests do not leak bucket capacity.
func (r *rateLimiter) check(key string) error {
	limiter := r.getOrCreate(key)

	if limiter.Allow() {
		return nil
	}

	// Compute the wait a caller would need, then cancel the reservation so
	// the rejected request does not consume a token.
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	retryAfter := int(math.Ceil(delay.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	return &llmerrors.RateLimitError{
		Provider:   "local",
		Limit:      int(r.config.TokensPerSecond),
		RetryAfter: retryAfter,
	}
}

func (r *rateLimiter) getOrCreate(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, ok := r.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(r.config.TokensPerSecond), r.config.BurstSize)
		r.limiters[key] = limiter
	}
	return limiter
}
