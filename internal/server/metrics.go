package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openshift-assisted/assisted-service-mcp/internal/instrumentation"
)

// DefaultMetricsAddr is the default listen address for the metrics server.
const DefaultMetricsAddr = ":9090"

// MetricsServerConfig holds configuration for the dedicated metrics server.
type MetricsServerConfig struct {
	// Addr is the listen address. Defaults to DefaultMetricsAddr.
	Addr string

	// InstrumentationProvider supplies the Prometheus scrape handler. Required.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves the Prometheus scrape endpoint on a dedicated port,
// separate from the MCP transport, so cluster-internal scraping does not
// require exposing the MCP endpoint.
type MetricsServer struct {
	addr   string
	server *http.Server
}

// NewMetricsServer creates a metrics server from the given configuration.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, errors.New("instrumentation provider is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}

	mux := http.NewServeMux()
	if handler := config.InstrumentationProvider.PrometheusHandler(); handler != nil {
		mux.Handle("/metrics", handler)
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &MetricsServer{
		addr: config.Addr,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Start runs the metrics server. It blocks until the server stops and
// returns http.ErrServerClosed after a graceful shutdown.
func (s *MetricsServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
