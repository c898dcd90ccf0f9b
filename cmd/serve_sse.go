package cmd

import (
	"context"
	"fmt"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

// runSSEServer runs the server with SSE transport.
func runSSEServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, config ServeConfig, logger *slog.Logger) error {
	// Credentials ride on every inbound request, so the context func must be
	// installed on the SSE server for per-user authentication to work.
	sseServer := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint(config.SSEEndpoint),
		mcpserver.WithMessageEndpoint(config.MessageEndpoint),
		mcpserver.WithSSEContextFunc(auth.HTTPContextFunc),
	)

	logger.Info("SSE server starting",
		"addr", config.HTTPAddr,
		"sse_endpoint", config.SSEEndpoint,
		"message_endpoint", config.MessageEndpoint)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := sseServer.Start(config.HTTPAddr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping SSE server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down SSE server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("SSE server stopped with error: %w", err)
		}
		logger.Info("SSE server stopped normally")
	}

	logger.Info("SSE server gracefully stopped")
	return nil
}
