package instrumentation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderIsNoOp(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.Nil(t, provider.Metrics())
	assert.Nil(t, provider.PrometheusHandler())
	assert.NoError(t, provider.Shutdown(context.Background()))

	// Recording through a disabled provider must not panic.
	provider.Metrics().RecordToolCall(context.Background(), "list_clusters", StatusSuccess, time.Millisecond)
}

func TestPrometheusProviderServesScrapeEndpoint(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		Enabled:         true,
		ServiceName:     "assisted-service-mcp",
		ServiceVersion:  "test",
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	require.True(t, provider.Enabled())
	require.NotNil(t, provider.Metrics())
	require.NotNil(t, provider.PrometheusHandler())

	provider.Metrics().RecordToolCall(ctx, "cluster_info", StatusSuccess, 25*time.Millisecond)
	provider.Metrics().RecordTokenExchange(ctx, ExchangeResultSuccess)

	recorder := httptest.NewRecorder()
	provider.PrometheusHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "mcp_tool_calls_total")
	assert.Contains(t, body, "sso_token_exchanges_total")
}

func TestStdoutExporters(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		Enabled:         true,
		ServiceName:     "assisted-service-mcp",
		MetricsExporter: "stdout",
		TracingExporter: "stdout",
	})
	require.NoError(t, err)

	assert.Nil(t, provider.PrometheusHandler(), "stdout exporter has no scrape endpoint")
	assert.NotNil(t, provider.Metrics())
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestUnknownExportersRejected(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, Config{Enabled: true, MetricsExporter: "graphite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphite")

	_, err = NewProvider(ctx, Config{Enabled: true, MetricsExporter: "stdout", TracingExporter: "jaeger"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jaeger")
}

func TestNilProviderAccessorsAreSafe(t *testing.T) {
	var provider *Provider

	assert.False(t, provider.Enabled())
	assert.Nil(t, provider.Metrics())
	assert.Nil(t, provider.PrometheusHandler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}
