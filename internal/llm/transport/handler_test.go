package transport_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/llm/configuration"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
	"github.com/redlinehq/redline/internal/llm/providers"
	"github.com/redlinehq/redline/internal/llm/transport"
)

func newHandler(t *testing.T, endpoint string) transport.Handler {
	t.Helper()
	router, err := providers.NewRouter(map[string]configuration.ProviderConfig{
		providers.ProviderOpenAI: {Endpoint: endpoint, APIKey: "sk-test"},
	})
	require.NoError(t, err)
	return transport.NewHTTPHandler(http.DefaultClient, router)
}

func openAIRequest() *transport.Request {
	return &transport.Request{
		Task:         "comparison",
		Provider:     providers.ProviderOpenAI,
		Model:        "gpt-4o-mini",
		Instructions: "instructions",
		Data:         "data",
		MaxTokens:    4096,
	}
}

func completionBody(content string) string {
	return fmt.Sprintf(`{
		"choices": [{"message": {"content": %q}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`, content)
}

func TestHTTPHandler_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody(`{"overallScore": 80}`))
	}))
	defer ts.Close()

	handler := newHandler(t, ts.URL)
	resp, err := handler.Handle(context.Background(), openAIRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"overallScore": 80}`, resp.Content)
	assert.Equal(t, int64(15), resp.Usage.TotalTokens)
	assert.GreaterOrEqual(t, resp.Usage.LatencyMs, int64(0))
}

func TestHTTPHandler_EmptyContentIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("   "))
	}))
	defer ts.Close()

	handler := newHandler(t, ts.URL)
	resp, err := handler.Handle(context.Background(), openAIRequest())

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, llmerrors.ErrEmptyResponse)
}

func TestHTTPHandler_ProviderErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "Rate limit reached", "type": "rate_limit_exceeded"}}`)
	}))
	defer ts.Close()

	handler := newHandler(t, ts.URL)
	_, err := handler.Handle(context.Background(), openAIRequest())

	require.Error(t, err)
	var provErr *llmerrors.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, llmerrors.ErrorTypeRateLimit, provErr.Type)
	assert.Equal(t, 3, provErr.RetryAfter)
}

func TestHTTPHandler_UnknownProvider(t *testing.T) {
	handler := newHandler(t, "http://unused.test")

	req := openAIRequest()
	req.Provider = "mistral"
	_, err := handler.Handle(context.Background(), req)

	assert.ErrorIs(t, err, llmerrors.ErrUnknownProvider)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) transport.Middleware {
		return func(next transport.Handler) transport.Handler {
			return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
				order = append(order, name)
				return next.Handle(ctx, req)
			})
		}
	}
	core := transport.HandlerFunc(func(_ context.Context, _ *transport.Request) (*transport.Response, error) {
		order = append(order, "core")
		return &transport.Response{Content: "ok"}, nil
	})

	handler := transport.Chain(core, mw("outer"), mw("inner"))
	_, err := handler.Handle(context.Background(), &transport.Request{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "core"}, order)
}
