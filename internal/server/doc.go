// Package server provides the ServerContext pattern and related infrastructure
// for the Assisted Service MCP server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - HealthChecker: Liveness and readiness probes for container deployments
//   - MetricsServer: Dedicated Prometheus scrape endpoint
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It holds:
//
//   - The Assisted Installer inventory client
//   - The SSO token manager and per-request credential resolver
//   - A structured logger
//   - Configuration settings
//   - The OpenTelemetry instrumentation provider
//
// All dependencies are injected using functional options, making the code
// highly testable and modular.
//
// Example usage:
//
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithInventoryClient(client),
//		WithTokenManager(manager),
//		WithResolver(resolver),
//		WithLogger(logger),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
package server
