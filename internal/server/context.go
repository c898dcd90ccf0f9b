package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
	"github.com/openshift-assisted/assisted-service-mcp/internal/instrumentation"
)

// DefaultShutdownTimeout bounds graceful shutdown of HTTP listeners.
const DefaultShutdownTimeout = 30 * time.Second

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	inventoryClient installer.Client
	tokenManager    *auth.TokenManager
	resolver        *auth.Resolver
	logger          *slog.Logger
	config          *Config

	// Observability
	instrumentationProvider *instrumentation.Provider

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// InventoryClient returns the Assisted Installer API client.
func (sc *ServerContext) InventoryClient() installer.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.inventoryClient
}

// TokenManager returns the SSO token manager.
func (sc *ServerContext) TokenManager() *auth.TokenManager {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.tokenManager
}

// Resolver returns the per-request credential resolver.
func (sc *ServerContext) Resolver() *auth.Resolver {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.resolver
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// InstrumentationProvider returns the OpenTelemetry provider, or nil when
// instrumentation was never configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// disabled. The recorder is nil-safe, so callers can use it unconditionally.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.InstrumentationProvider().Metrics()
}

// CachedTokenIdentities returns the number of offline-token identities with
// a cached access token. Exposed for the detailed health endpoint.
func (sc *ServerContext) CachedTokenIdentities() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.tokenManager == nil {
		return 0
	}
	return sc.tokenManager.CachedIdentities()
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and flushes instrumentation exporters.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("shutting down server context")

	var err error
	if sc.instrumentationProvider != nil {
		err = sc.instrumentationProvider.Shutdown(context.Background())
	}

	if sc.cancel != nil {
		sc.cancel()
	}
	sc.shutdown = true

	sc.logger.Info("server context shutdown complete")
	return err
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.inventoryClient == nil {
		return ErrMissingInventoryClient
	}
	if sc.tokenManager == nil {
		return ErrMissingTokenManager
	}
	if sc.resolver == nil {
		return ErrMissingResolver
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Assisted Installer settings
	InventoryURL  string `json:"inventoryURL"`
	PullSecretURL string `json:"pullSecretURL"`
	SSOTokenURL   string `json:"ssoTokenURL"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:    "assisted-service-mcp",
		Version:       "0.1.0",
		InventoryURL:  installer.DefaultInventoryURL,
		PullSecretURL: installer.DefaultPullSecretURL,
		SSOTokenURL:   auth.DefaultSSOTokenURL,
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
