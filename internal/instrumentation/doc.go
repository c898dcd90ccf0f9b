// Package instrumentation provides OpenTelemetry metrics and tracing for the
// Assisted Service MCP server.
//
// Instrumentation is disabled by default and enabled via
// INSTRUMENTATION_ENABLED=true, so stdio deployments pay no overhead. When
// enabled, a Provider owns the exporter lifecycle and exposes a Metrics
// instance covering three planes:
//
//   - MCP tool invocations (count and duration per tool and outcome)
//   - Assisted Installer API operations (count and duration per operation)
//   - SSO token exchanges and access-token cache lookups
//
// Metric labels are restricted to low-cardinality values: tool names,
// operation names, and statuses. Cluster, host, and infra-env IDs never
// appear as labels; they are recorded as span attributes instead, where
// sampling bounds their cost.
//
// The auth and installer packages take callback interfaces rather than
// importing this package; adapters.go provides the implementations that wire
// those callbacks to the OpenTelemetry meters.
package instrumentation
