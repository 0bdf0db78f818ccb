package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/minsky/internal/config"
	httpAdapter "github.com/aretw0/minsky/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/minsky/pkg/adapters/mcp"
	"github.com/aretw0/minsky/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Transports supported by ServeMCP.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

const shutdownTimeout = 5 * time.Second

// NewServerHandler builds the HTTP API for cfg, registering the interpreter metrics with reg.
// The returned close function releases the program store.
func NewServerHandler(cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, func() error, error) {
	store, closeStore, err := NewStore(cfg.Store)
	if err != nil {
		return nil, closeStore, err
	}
	metrics := observability.NewMetrics(reg)
	engine := createEngine(logger, false, false, cfg.Fuel, store, metrics.Hooks())

	handler := httpAdapter.NewHandler(engine,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithGatherer(reg),
	)
	return handler, closeStore, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, closeStore, err := NewServerHandler(cfg, logger, reg)
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close program store", "error", err)
		}
	}()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Minsky Server listening", "address", srv.Addr, "store", cfg.Store.Kind)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		logger.Info("Minsky Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over the given transport. The SSE transport stops when
// ctx is cancelled; stdio stops when its input closes.
func ServeMCP(ctx context.Context, cfg config.Config, transport string, port int, logger *slog.Logger) error {
	store, closeStore, err := NewStore(cfg.Store)
	defer func() { _ = closeStore() }()
	if err != nil {
		return err
	}
	engine := createEngine(logger, false, false, cfg.Fuel, store)
	srv := mcpAdapter.NewServer(engine, logger)

	switch transport {
	case TransportStdio:
		logger.Info("Starting Minsky MCP Server (Stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		logger.Info("Starting Minsky MCP Server (SSE)", "port", port)
		err := srv.ServeSSE(ctx, port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport %q, supported: %s, %s", transport, TransportStdio, TransportSSE)
	}
}
