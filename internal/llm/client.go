// Package llm provides the generation strategy for the analysis pipeline:
// a live HTTP client with a resilience middleware chain, and a deterministic
// stand-in used when no provider credential is configured. Both satisfy the
// same Generator contract; the orchestrator never knows which one it calls.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/redlinehq/redline/internal/domain"
	"github.com/redlinehq/redline/internal/llm/cache"
	"github.com/redlinehq/redline/internal/llm/configuration"
	"github.com/redlinehq/redline/internal/llm/providers"
	"github.com/redlinehq/redline/internal/llm/ratelimit"
	"github.com/redlinehq/redline/internal/llm/retry"
	"github.com/redlinehq/redline/internal/llm/transport"
)

// Generator produces raw text for a prompt pair. The task name identifies
// the analysis contract the output must satisfy; implementations may use it
// for cache namespacing or canned payload selection, never for business
// branching.
type Generator interface {
	Generate(ctx context.Context, task string, prompt domain.PromptPair) (string, error)
}

// Client is the live Generator backed by a remote generation service.
type Client struct {
	config  *configuration.Config
	handler transport.Handler
}

// NewClient builds the live client with its full middleware chain:
// cache (call level) wrapping retry wrapping rate limit wrapping the core
// HTTP handler. Requests run at zero sampling temperature; the domain is
// decision-sensitive analysis, not creative generation.
func NewClient(cfg *configuration.Config) (*Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	router, err := providers.NewRouter(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          configuration.DefaultMaxIdleConns,
				IdleConnTimeout:       configuration.DefaultIdleTimeoutSeconds * time.Second,
				TLSHandshakeTimeout:   configuration.DefaultTLSTimeoutSeconds * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
			Timeout: cfg.HTTPTimeout,
		}
	}

	coreHandler := transport.NewHTTPHandler(httpClient, router)

	// Attempt-level middleware runs inside the retry loop.
	attemptHandler := transport.Chain(coreHandler, ratelimit.NewMiddleware(cfg.RateLimit))

	retryMiddleware, err := retry.NewMiddleware(cfg.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize retry middleware: %w", err)
	}
	retryHandler := retryMiddleware(attemptHandler)

	// Call-level middleware runs once per logical generation.
	handler := transport.Chain(retryHandler, cache.NewMiddleware(cfg.Cache))

	return &Client{config: cfg, handler: handler}, nil
}

// Generate implements Generator against the remote service, masking
// transient failures through the retry chain. It fails only after the retry
// budget is exhausted or on a non-retryable error.
func (c *Client) Generate(ctx context.Context, task string, prompt domain.PromptPair) (string, error) {
	provider := c.config.Provider

	req := &transport.Request{
		Task:         task,
		Provider:     provider,
		Model:        c.config.ModelFor(provider),
		Instructions: prompt.Instructions,
		Data:         prompt.Data,
		MaxTokens:    c.config.MaxTokens,
		Temperature:  0,
		Timeout:      c.config.Providers[provider].Timeout,
		TraceID:      uuid.NewString(),
	}
	if req.Timeout == 0 {
		req.Timeout = c.config.HTTPTimeout
	}

	resp, err := c.handler.Handle(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generation failed for task %q: %w", task, err)
	}

	return resp.Content, nil
}
