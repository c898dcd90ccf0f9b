package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/instrumentation"
	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server/middleware"
)

// maxRequestBodyBytes caps inbound MCP request bodies. Tool arguments are
// small; anything near this size is not a legitimate request.
const maxRequestBodyBytes = 4 << 20

// runStreamableHTTPServer runs the server with Streamable HTTP transport.
func runStreamableHTTPServer(
	ctx context.Context,
	mcpSrv *mcpserver.MCPServer,
	config ServeConfig,
	provider *instrumentation.Provider,
	sc *server.ServerContext,
	logger *slog.Logger,
) error {
	mux := http.NewServeMux()

	// The context func lifts OCM-Offline-Token and Authorization headers into
	// the request context so each tool call runs with the caller's identity.
	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
		mcpserver.WithHTTPContextFunc(auth.HTTPContextFunc),
	)
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	// Health check endpoints
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	allowedOrigins, err := middleware.ValidateAllowedOrigins(os.Getenv("ALLOWED_ORIGINS"))
	if err != nil {
		return fmt.Errorf("invalid ALLOWED_ORIGINS: %w", err)
	}

	var handler http.Handler = mux
	handler = middleware.MaxRequestSize(maxRequestBodyBytes)(handler)
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
		EnableHSTS: os.Getenv("ENABLE_HSTS") == "true",
	})(handler)
	handler = middleware.HTTPMetrics(provider)(handler)

	// Metrics are served on a dedicated listener, never on the MCP port
	var metricsServer *server.MetricsServer
	if config.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = startMetricsServer(config.Metrics, provider, logger)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"endpoint", config.HTTPEndpoint,
		"health_endpoints", []string{"/healthz", "/readyz"})

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the dedicated metrics server on a separate port.
func startMetricsServer(config MetricsServeConfig, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", logging.Err(err))
		}
	}()

	logger.Info("metrics server started", "addr", metricsServer.Addr(), "endpoint", "/metrics")
	return metricsServer, nil
}
