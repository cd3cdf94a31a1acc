// Package retry provides the retry middleware that masks transient generation
// failures from callers. Failures are classified through the explicit
// error-kind taxonomy; only transient kinds are retried, with exponential
// backoff between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/redlinehq/redline/internal/llm/configuration"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
	"github.com/redlinehq/redline/internal/llm/transport"
)

var (
	// Configuration validation errors.
	errMaxAttemptsInvalid     = errors.New("maxAttempts must be greater than 0")
	errInitialIntervalInvalid = errors.New("initialInterval must be greater than 0")
	errMaxIntervalInvalid     = errors.New("maxInterval must be >= initialInterval")
	errMultiplierInvalid      = errors.New("multiplier must be >= 1.0")

	// Runtime errors.
	errContextCancelledBeforeRetry = errors.New("context cancelled before retry")
	errContextCancelledDuringRetry = errors.New("context cancelled during retry")
	errAllRetriesExhausted         = errors.New("all retries exhausted")
)

// AfterProvider defines an interface for error types that carry a
// server-specified duration to wait before retrying.
type AfterProvider interface {
	// GetRetryAfter returns the recommended wait before the next attempt,
	// or zero when no specific duration is available.
	GetRetryAfter() time.Duration
}

// retryMiddleware implements retry with exponential backoff.
type retryMiddleware struct {
	config configuration.RetryConfig
	logger *slog.Logger

	// sleep waits for the backoff duration or context cancellation,
	// whichever comes first. Replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewMiddleware creates retry middleware with the given configuration.
// Backoff follows initialInterval * multiplier^(attempt-1), capped at
// maxInterval, with server Retry-After guidance taking precedence.
func NewMiddleware(cfg configuration.RetryConfig) (transport.Middleware, error) {
	return NewMiddlewareWithSleep(cfg, sleepContext)
}

// NewMiddlewareWithSleep creates retry middleware with an injected sleep
// function. Tests use this to observe backoff waits without real delays.
func NewMiddlewareWithSleep(
	cfg configuration.RetryConfig,
	sleep func(ctx context.Context, d time.Duration) error,
) (transport.Middleware, error) {
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w, got %d", errMaxAttemptsInvalid, cfg.MaxAttempts)
	}
	if cfg.InitialInterval <= 0 {
		return nil, fmt.Errorf("%w, got %v", errInitialIntervalInvalid, cfg.InitialInterval)
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		return nil, fmt.Errorf("%w, MaxInterval: %v, InitialInterval: %v",
			errMaxIntervalInvalid, cfg.MaxInterval, cfg.InitialInterval)
	}
	if cfg.Multiplier < 1.0 {
		return nil, fmt.Errorf("%w, got %f", errMultiplierInvalid, cfg.Multiplier)
	}

	rm := &retryMiddleware{
		config: cfg,
		logger: slog.Default().With("component", "retry"),
		sleep:  sleep,
	}
	return rm.middleware(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *retryMiddleware) middleware() transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			// Fail fast if the caller already abandoned the request.
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", errContextCancelledBeforeRetry, ctx.Err())
			default:
			}

			var lastErr error
			for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
				resp, err := next.Handle(ctx, req)
				if err == nil {
					if attempt > 1 {
						r.logger.Info("request succeeded after retry",
							"attempt", attempt,
							"task", req.Task,
							"provider", req.Provider)
					}
					return resp, nil
				}

				if !r.isRetryable(err) {
					r.logger.Debug("non-retryable error",
						"error", err,
						"attempt", attempt,
						"provider", req.Provider)
					return nil, err
				}

				lastErr = err

				if attempt == r.config.MaxAttempts {
					break
				}

				backoff := r.calculateBackoff(attempt, err)
				r.logger.Debug("retrying after backoff",
					"attempt", attempt,
					"backoff", backoff,
					"error", err,
					"provider", req.Provider)

				if err := r.sleep(ctx, backoff); err != nil {
					return nil, fmt.Errorf("%w: %w", errContextCancelledDuringRetry, err)
				}
			}

			return nil, fmt.Errorf("%w after %d attempts: %w",
				errAllRetriesExhausted, r.config.MaxAttempts, lastErr)
		})
	}
}

// isRetryable evaluates error types to determine retry eligibility.
// Classified provider errors take precedence; network faults and deadline
// expiry are transient; anything unclassified is not retried.
func (r *retryMiddleware) isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rateLimitErr *llmerrors.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	var providerErr *llmerrors.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.IsRetryable()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, llmerrors.ErrEmptyResponse) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	return llmerrors.IsRetryableError(err)
}

// isNetworkError checks if an error is network-related using type assertions
// rather than fragile string matching alone.
func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var netErr net.Error
		if errors.As(urlErr.Err, &netErr) {
			return netErr.Timeout()
		}
		return isNetworkErrorByString(urlErr.Err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return isNetworkErrorByString(err.Error())
}

func isNetworkErrorByString(errStr string) bool {
	lowered := strings.ToLower(errStr)
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
	} {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}
