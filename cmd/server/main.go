// Command server hosts the contract-analysis API. Configuration is read once
// at startup; the generation strategy (live client vs deterministic stand-in)
// is selected here and injected, never branched on per call.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redlinehq/redline/internal/analysis"
	"github.com/redlinehq/redline/internal/llm"
	"github.com/redlinehq/redline/internal/llm/configuration"
	"github.com/redlinehq/redline/internal/playbook"
	"github.com/redlinehq/redline/internal/schema"
	"github.com/redlinehq/redline/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	cfg := configuration.FromEnv()
	setupLogging(cfg.Observability)

	gen, err := selectGenerator(cfg)
	if err != nil {
		slog.Error("failed to initialize generator", "error", err)
		os.Exit(1)
	}

	playbooks, err := playbook.Load()
	if err != nil {
		slog.Error("failed to load playbooks", "error", err)
		os.Exit(1)
	}

	srv := server.New(
		analysis.New(gen, schema.Comparison()),
		analysis.New(gen, schema.Risk()),
		playbooks,
	)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", *addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// selectGenerator picks the generation strategy once, at process
// construction: the live client when a provider credential is configured,
// the deterministic stand-in otherwise.
func selectGenerator(cfg *configuration.Config) (llm.Generator, error) {
	if cfg.HasCredentials() {
		slog.Info("using live generation client",
			"provider", cfg.Provider,
			"model", cfg.ModelFor(cfg.Provider))
		return llm.NewClient(cfg)
	}

	slog.Warn("no provider credential configured, using deterministic stand-in")
	return llm.NewStandIn(), nil
}

func setupLogging(cfg configuration.ObservabilityConfig) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
