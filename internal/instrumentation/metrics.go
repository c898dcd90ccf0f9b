package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrTool      = "tool"
	attrOperation = "operation"
	attrResult    = "result"
	attrOutcome   = "outcome"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// MCP tool metrics
	toolCallsTotal   metric.Int64Counter
	toolCallDuration metric.Float64Histogram

	// Installer backend metrics
	backendOperationsTotal   metric.Int64Counter
	backendOperationDuration metric.Float64Histogram

	// SSO token metrics
	tokenExchangesTotal metric.Int64Counter
	tokenCacheTotal     metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Tool Metrics
	m.toolCallsTotal, err = meter.Int64Counter(
		"mcp_tool_calls_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_calls_total counter: %w", err)
	}

	m.toolCallDuration, err = meter.Float64Histogram(
		"mcp_tool_call_duration_seconds",
		metric.WithDescription("MCP tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_call_duration_seconds histogram: %w", err)
	}

	// Backend Operation Metrics
	m.backendOperationsTotal, err = meter.Int64Counter(
		"installer_operations_total",
		metric.WithDescription("Total number of Assisted Installer API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create installer_operations_total counter: %w", err)
	}

	m.backendOperationDuration, err = meter.Float64Histogram(
		"installer_operation_duration_seconds",
		metric.WithDescription("Assisted Installer API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create installer_operation_duration_seconds histogram: %w", err)
	}

	// Token Metrics
	m.tokenExchangesTotal, err = meter.Int64Counter(
		"sso_token_exchanges_total",
		metric.WithDescription("Total number of offline-token exchanges against Red Hat SSO"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sso_token_exchanges_total counter: %w", err)
	}

	m.tokenCacheTotal, err = meter.Int64Counter(
		"sso_token_cache_total",
		metric.WithDescription("Total number of access-token cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sso_token_cache_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolCall records an MCP tool invocation with its outcome and duration.
// Tool names are a small fixed set, so they are safe as a metric label.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
	if m == nil || m.toolCallsTotal == nil || m.toolCallDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	}

	m.toolCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBackendOperation records an Assisted Installer API call with operation
// type, status, and duration. Resource IDs are never used as labels.
func (m *Metrics) RecordBackendOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.backendOperationsTotal == nil || m.backendOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.backendOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.backendOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTokenExchange records an SSO token exchange attempt with its result.
// Result should be one of: "success", "error"
func (m *Metrics) RecordTokenExchange(ctx context.Context, result string) {
	if m == nil || m.tokenExchangesTotal == nil {
		return // Instrumentation not initialized
	}

	m.tokenExchangesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordTokenCacheLookup records an access-token cache lookup.
// Outcome should be one of: "hit", "miss"
func (m *Metrics) RecordTokenCacheLookup(ctx context.Context, outcome string) {
	if m == nil || m.tokenCacheTotal == nil {
		return // Instrumentation not initialized
	}

	m.tokenCacheTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
}
