package cmd

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names recognized by the serve command. Values set via
// flags take precedence over the environment.
const (
	envOfflineToken  = "OFFLINE_TOKEN"
	envInventoryURL  = "INVENTORY_URL"
	envPullSecretURL = "PULL_SECRET_URL"
	envSSOTokenURL   = "SSO_URL"
	envLogLevel      = "LOG_LEVEL"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Backend settings
	InventoryURL  string
	PullSecretURL string
	SSOTokenURL   string

	// OfflineToken is the optional server-wide fallback credential used when
	// a request carries no OCM-Offline-Token or Authorization header.
	OfflineToken string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Metrics configuration for the dedicated metrics listener.
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds the dedicated metrics server configuration.
// The metrics listener is separate from the MCP listener so that scrape
// traffic never shares a port with client traffic.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// applyEnvironment fills unset fields from the environment. Flag values win.
func (c *ServeConfig) applyEnvironment() {
	loadEnvIfEmpty(&c.OfflineToken, envOfflineToken)
	loadEnvIfEmpty(&c.InventoryURL, envInventoryURL)
	loadEnvIfEmpty(&c.PullSecretURL, envPullSecretURL)
	loadEnvIfEmpty(&c.SSOTokenURL, envSSOTokenURL)
	loadEnvIfEmpty(&c.LogLevel, envLogLevel)
}

// validate rejects configurations the server cannot run with.
func (c *ServeConfig) validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if c.InventoryURL != "" && !strings.HasPrefix(c.InventoryURL, "http://") && !strings.HasPrefix(c.InventoryURL, "https://") {
		return fmt.Errorf("inventory URL must be an http(s) URL, got %q", c.InventoryURL)
	}
	if c.SSOTokenURL != "" && !strings.HasPrefix(c.SSOTokenURL, "http://") && !strings.HasPrefix(c.SSOTokenURL, "https://") {
		return fmt.Errorf("SSO token URL must be an http(s) URL, got %q", c.SSOTokenURL)
	}

	// Stdio has no inbound HTTP request to carry per-user credentials, so a
	// fallback offline token is the only way to authenticate.
	if c.Transport == transportStdio && c.OfflineToken == "" {
		return fmt.Errorf("stdio transport requires an offline token (set %s or --offline-token); "+
			"get one from https://console.redhat.com/openshift/token", envOfflineToken)
	}

	return nil
}
