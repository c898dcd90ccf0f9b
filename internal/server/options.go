package server

import (
	"errors"
	"log/slog"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
	"github.com/openshift-assisted/assisted-service-mcp/internal/instrumentation"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithInventoryClient sets the Assisted Installer API client for the ServerContext.
func WithInventoryClient(client installer.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingInventoryClient
		}
		sc.inventoryClient = client
		return nil
	}
}

// WithTokenManager sets the SSO token manager for the ServerContext.
func WithTokenManager(manager *auth.TokenManager) Option {
	return func(sc *ServerContext) error {
		if manager == nil {
			return ErrMissingTokenManager
		}
		sc.tokenManager = manager
		return nil
	}
}

// WithResolver sets the per-request credential resolver for the ServerContext.
func WithResolver(resolver *auth.Resolver) Option {
	return func(sc *ServerContext) error {
		if resolver == nil {
			return ErrMissingResolver
		}
		sc.resolver = resolver
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithVersion sets the server version in the configuration.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Version = version
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
// This enables production-grade observability including metrics and tracing.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingInventoryClient = errors.New("inventory client is required")
	ErrMissingTokenManager    = errors.New("token manager is required")
	ErrMissingResolver        = errors.New("credential resolver is required")
	ErrMissingLogger          = errors.New("logger is required")
	ErrMissingConfig          = errors.New("configuration is required")
	ErrServerShutdown         = errors.New("server context has been shutdown")
)
