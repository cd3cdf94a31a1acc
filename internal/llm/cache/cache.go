// Package cache provides a Redis-backed, success-only response cache for
// generation calls. The pipeline requests zero sampling temperature, so
// identical prompts yield stable output and cached content stays faithful.
// Redis unavailability degrades to pass-through rather than failing requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/redlinehq/redline/internal/llm/configuration"
	"github.com/redlinehq/redline/internal/llm/transport"
)

// keyPrefix namespaces cache entries; bump the version on any change to the
// key composition or stored value format.
const keyPrefix = "redline:gen:v1"

// NewMiddleware creates a cache middleware using the configured Redis
// address. A nil client with caching disabled yields a pass-through.
func NewMiddleware(cfg configuration.CacheConfig) transport.Middleware {
	var client *redis.Client
	if cfg.Enabled && cfg.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return NewMiddlewareWithClient(cfg, client)
}

// NewMiddlewareWithClient creates a cache middleware around an existing
// Redis client. Tests inject their own client or nil.
func NewMiddlewareWithClient(cfg configuration.CacheConfig, client *redis.Client) transport.Middleware {
	cm := &cacheMiddleware{
		config: cfg,
		client: client,
		logger: slog.Default().With("component", "cache"),
	}

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			if !cm.config.Enabled || cm.client == nil {
				return next.Handle(ctx, req)
			}
			return cm.handle(ctx, req, next)
		})
	}
}

type cacheMiddleware struct {
	config configuration.CacheConfig
	client *redis.Client
	logger *slog.Logger
}

func (c *cacheMiddleware) handle(ctx context.Context, req *transport.Request, next transport.Handler) (*transport.Response, error) {
	key := Key(req)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.logger.Debug("cache hit", "task", req.Task, "key", key)
		return &transport.Response{Content: cached}, nil
	case errors.Is(err, redis.Nil):
		// Miss, fall through to the provider.
	default:
		c.logger.Warn("cache lookup failed, continuing without cache",
			"task", req.Task, "error", err)
	}

	resp, err := next.Handle(ctx, req)
	if err != nil {
		return nil, err
	}

	// Success-only caching: failures are never stored.
	if setErr := c.client.Set(ctx, key, resp.Content, c.config.TTL).Err(); setErr != nil {
		c.logger.Warn("cache store failed", "task", req.Task, "error", setErr)
	}

	return resp, nil
}

// Key derives the deterministic cache key for a request. The hash covers
// everything that affects output: provider, model, and both prompt blocks.
func Key(req *transport.Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", req.Provider, req.Model, req.Instructions, req.Data)
	return fmt.Sprintf("%s:%s:%s", keyPrefix, req.Task, hex.EncodeToString(h.Sum(nil)))
}
