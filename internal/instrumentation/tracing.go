package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for this module.
const TracerName = "github.com/openshift-assisted/assisted-service-mcp"

// Span attribute keys. Cluster, host, and infra-env IDs are fine as span
// attributes (unlike metric labels) because traces are sampled.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrOperation is the installer API operation name.
	SpanAttrOperation = "installer.operation"

	// SpanAttrClusterID is the Assisted Installer cluster ID.
	SpanAttrClusterID = "installer.cluster_id"

	// SpanAttrHostID is the discovered host ID.
	SpanAttrHostID = "installer.host_id"

	// SpanAttrInfraEnvID is the infrastructure environment ID.
	SpanAttrInfraEnvID = "installer.infra_env_id"

	// SpanAttrTokenCacheHit indicates whether the access token came from cache.
	SpanAttrTokenCacheHit = "sso.token_cache_hit"
)

// StartSpan starts a new span with the given name and attributes using the
// globally registered tracer provider.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{
		attribute.String(SpanAttrTool, toolName),
	}, attrs...)
	return StartSpan(ctx, "mcp.tool."+toolName, allAttrs...)
}

// StartBackendSpan starts a span for an Assisted Installer API operation.
func StartBackendSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{
		attribute.String(SpanAttrOperation, operation),
	}, attrs...)
	return StartSpan(ctx, "installer."+operation, allAttrs...)
}

// SetSpanError marks the span as failed and records the error.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanSuccess marks the span as successful.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the context, or empty when no span
// is recording.
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
