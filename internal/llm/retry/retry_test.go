package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/llm/configuration"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
	"github.com/redlinehq/redline/internal/llm/retry"
	"github.com/redlinehq/redline/internal/llm/transport"
)

func testConfig() configuration.RetryConfig {
	return configuration.RetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		UseJitter:       false,
	}
}

// recordingSleep collects requested backoff durations without waiting.
func recordingSleep(record *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*record = append(*record, d)
		return nil
	}
}

// scriptedHandler fails a fixed number of times before succeeding.
type scriptedHandler struct {
	failures int
	err      error
	calls    int
}

func (h *scriptedHandler) Handle(_ context.Context, _ *transport.Request) (*transport.Response, error) {
	h.calls++
	if h.calls <= h.failures {
		return nil, h.err
	}
	return &transport.Response{Content: "ok"}, nil
}

func wrap(t *testing.T, cfg configuration.RetryConfig, sleeps *[]time.Duration, next transport.Handler) transport.Handler {
	t.Helper()
	mw, err := retry.NewMiddlewareWithSleep(cfg, recordingSleep(sleeps))
	require.NoError(t, err)
	return mw(next)
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	var sleeps []time.Duration
	h := &scriptedHandler{}
	handler := wrap(t, testConfig(), &sleeps, h)

	resp, err := handler.Handle(context.Background(), &transport.Request{Task: "comparison"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 1, h.calls)
	assert.Empty(t, sleeps)
}

func TestRetry_ExponentialBackoffSequence(t *testing.T) {
	var sleeps []time.Duration
	h := &scriptedHandler{
		failures: 2,
		err:      &llmerrors.ProviderError{Provider: "openai", StatusCode: 503, Type: llmerrors.ErrorTypeProvider},
	}
	handler := wrap(t, testConfig(), &sleeps, h)

	resp, err := handler.Handle(context.Background(), &transport.Request{Task: "comparison"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, h.calls)
	// Jitter is off, so the waits are the exact doubling sequence.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeps)
}

func TestRetry_NonRetryableFailsImmediately(t *testing.T) {
	var sleeps []time.Duration
	authErr := &llmerrors.ProviderError{Provider: "openai", StatusCode: 401, Type: llmerrors.ErrorTypeAuth}
	h := &scriptedHandler{failures: 5, err: authErr}
	handler := wrap(t, testConfig(), &sleeps, h)

	resp, err := handler.Handle(context.Background(), &transport.Request{Task: "comparison"})

	require.Error(t, err)
	assert.Nil(t, resp)
	var provErr *llmerrors.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, llmerrors.ErrorTypeAuth, provErr.Type)
	assert.Equal(t, 1, h.calls)
	assert.Empty(t, sleeps)
}

func TestRetry_Exhaustion(t *testing.T) {
	var sleeps []time.Duration
	h := &scriptedHandler{
		failures: 5,
		err:      &llmerrors.ProviderError{Provider: "openai", StatusCode: 503, Type: llmerrors.ErrorTypeProvider},
	}
	handler := wrap(t, testConfig(), &sleeps, h)

	resp, err := handler.Handle(context.Background(), &transport.Request{Task: "comparison"})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, h.calls)
	assert.Len(t, sleeps, 2)
}

func TestRetry_RetryAfterTakesPrecedence(t *testing.T) {
	var sleeps []time.Duration
	h := &scriptedHandler{
		failures: 1,
		err:      &llmerrors.RateLimitError{Provider: "openai", RetryAfter: 5},
	}
	handler := wrap(t, testConfig(), &sleeps, h)

	_, err := handler.Handle(context.Background(), &transport.Request{Task: "comparison"})

	require.NoError(t, err)
	// The server's Retry-After guidance overrides the computed backoff.
	assert.Equal(t, []time.Duration{5 * time.Second}, sleeps)
}

func TestRetry_EmptyResponseIsRetryable(t *testing.T) {
	var sleeps []time.Duration
	h := &scriptedHandler{failures: 1, err: llmerrors.ErrEmptyResponse}
	handler := wrap(t, testConfig(), &sleeps, h)

	resp, err := handler.Handle(context.Background(), &transport.Request{Task: "comparison"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, h.calls)
}

func TestRetry_CanceledContextFailsFast(t *testing.T) {
	var sleeps []time.Duration
	h := &scriptedHandler{}
	handler := wrap(t, testConfig(), &sleeps, h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := handler.Handle(ctx, &transport.Request{Task: "comparison"})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.calls)
}

func TestNewMiddleware_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*configuration.RetryConfig)
		wantErr string
	}{
		{
			name:    "zero max attempts",
			mutate:  func(c *configuration.RetryConfig) { c.MaxAttempts = 0 },
			wantErr: "maxAttempts must be greater than 0",
		},
		{
			name:    "zero initial interval",
			mutate:  func(c *configuration.RetryConfig) { c.InitialInterval = 0 },
			wantErr: "initialInterval must be greater than 0",
		},
		{
			name:    "max below initial",
			mutate:  func(c *configuration.RetryConfig) { c.MaxInterval = time.Millisecond },
			wantErr: "maxInterval must be >= initialInterval",
		},
		{
			name:    "multiplier below one",
			mutate:  func(c *configuration.RetryConfig) { c.Multiplier = 0.5 },
			wantErr: "multiplier must be >= 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			mw, err := retry.NewMiddleware(cfg)

			require.Error(t, err)
			assert.Nil(t, mw)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
