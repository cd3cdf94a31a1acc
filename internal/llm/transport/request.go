// Package transport defines the normalized request/response types for
// generation calls and the middleware pipeline they flow through.
package transport

import (
	"net/http"
	"time"
)

// Request represents a normalized generation request across all providers.
// The Task field carries the contract name, used for cache key namespacing
// and log labeling; providers ignore it when building HTTP requests.
type Request struct {
	// Task names the analysis contract this request serves.
	Task string `json:"task"`

	// Provider identifies which generation service to use.
	Provider string `json:"provider"` // "openai"|"anthropic"

	// Model specifies the exact model version to use.
	Model string `json:"model"`

	// Instructions is the system-level instruction block.
	Instructions string `json:"instructions"`

	// Data is the user-level data block.
	Data string `json:"data"`

	// Generation parameters. Temperature is pinned to zero by the client;
	// the domain is decision-sensitive analysis, not creative generation.
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// Timeout bounds a single attempt independent of caller deadlines.
	Timeout time.Duration `json:"timeout"`

	// TraceID correlates attempts across middleware and logs.
	TraceID string `json:"trace_id"`
}

// Response represents normalized output from any provider.
type Response struct {
	// Content is the raw generated text.
	Content string `json:"content"`

	// Usage tracks token consumption and latency.
	Usage NormalizedUsage `json:"usage"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`

	// RawBody preserves the original response body for audit.
	RawBody []byte `json:"raw_body,omitempty"`
}

// NormalizedUsage provides consistent usage metrics across providers.
type NormalizedUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	LatencyMs        int64 `json:"latency_ms"`
}
