package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
	"github.com/openshift-assisted/assisted-service-mcp/internal/instrumentation"
	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/catalog"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/cluster"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/host"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/infraenv"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Assisted Installer MCP server",
		Long: `Start the MCP server exposing Red Hat Assisted Installer operations
as tools over the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication:
  Tools authenticate against the Assisted Installer API with short-lived
  access tokens obtained by exchanging a Red Hat SSO offline token. HTTP
  transports read the credential per request from the OCM-Offline-Token
  header (or a bearer Authorization header); the stdio transport uses the
  OFFLINE_TOKEN environment variable. Get an offline token from
  https://console.redhat.com/openshift/token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.applyEnvironment()
			if err := config.validate(); err != nil {
				return err
			}
			return runServe(config)
		},
	}

	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	cmd.Flags().StringVar(&config.InventoryURL, "inventory-url", "", "Assisted Installer API base URL (can also be set via INVENTORY_URL env var)")
	cmd.Flags().StringVar(&config.PullSecretURL, "pull-secret-url", "", "Pull secret endpoint URL (can also be set via PULL_SECRET_URL env var)")
	cmd.Flags().StringVar(&config.SSOTokenURL, "sso-url", "", "Red Hat SSO token endpoint URL (can also be set via SSO_URL env var)")
	cmd.Flags().StringVar(&config.OfflineToken, "offline-token", "", "Fallback offline token for requests without credentials (prefer the OFFLINE_TOKEN env var; flags are visible in process listings)")
	cmd.Flags().StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, or error (can also be set via LOG_LEVEL env var)")

	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics", false, "Serve Prometheus metrics on a dedicated listener (requires instrumentation to be enabled)")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Dedicated metrics server address")

	return cmd
}

// runServe contains the main server logic with support for multiple transports.
func runServe(config ServeConfig) error {
	// Stdio transports own stdout for MCP framing; all logging goes to stderr.
	logger := logging.NewLogger(os.Stderr, config.LogLevel)

	// Graceful shutdown on SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	// Credential layer: per-request resolution plus cached SSO token exchange
	resolver := auth.NewResolver(config.OfflineToken)
	tokenManager := auth.NewTokenManager(auth.TokenManagerConfig{
		TokenURL: config.SSOTokenURL,
		Logger:   logger,
		Metrics:  instrumentation.NewTokenExchangeRecorder(instrumentationProvider.Metrics()),
	})

	inventoryClient, err := installer.NewClient(installer.ClientConfig{
		InventoryURL:  config.InventoryURL,
		PullSecretURL: config.PullSecretURL,
		Logger:        logger,
		Resolver:      resolver,
		TokenManager:  tokenManager,
		Metrics:       instrumentation.NewBackendOperationRecorder(instrumentationProvider.Metrics()),
	})
	if err != nil {
		return fmt.Errorf("failed to create inventory client: %w", err)
	}

	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	if config.InventoryURL != "" {
		serverConfig.InventoryURL = config.InventoryURL
	}
	if config.PullSecretURL != "" {
		serverConfig.PullSecretURL = config.PullSecretURL
	}
	if config.SSOTokenURL != "" {
		serverConfig.SSOTokenURL = config.SSOTokenURL
	}
	if config.LogLevel != "" {
		serverConfig.LogLevel = config.LogLevel
	}

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithInventoryClient(inventoryClient),
		server.WithTokenManager(tokenManager),
		server.WithResolver(resolver),
		server.WithLogger(logger),
		server.WithConfig(serverConfig),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("assisted-service-mcp", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	if err := cluster.RegisterClusterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register cluster tools: %w", err)
	}
	if err := host.RegisterHostTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register host tools: %w", err)
	}
	if err := infraenv.RegisterInfraEnvTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register infra-env tools: %w", err)
	}
	if err := catalog.RegisterCatalogTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register catalog tools: %w", err)
	}

	switch config.Transport {
	case transportStdio:
		// No startup banner for stdio mode as it interferes with MCP framing
		return runStdioServer(mcpSrv)
	case transportSSE:
		return runSSEServer(shutdownCtx, mcpSrv, config, logger)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, config, instrumentationProvider, serverContext, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
