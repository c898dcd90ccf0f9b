package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/openshift-assisted/assisted-service-mcp/internal/instrumentation"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// newResponseWriter creates a new responseWriter wrapper.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // Default status code
	}
}

// WriteHeader captures the status code before writing the header.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures that a response was written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter to support http.Flusher etc.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Flush implements http.Flusher for streaming responses.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTPMetrics creates middleware that records HTTP request metrics.
// It records the total number of requests and request duration for each
// method/path/status combination.
//
// Paths are normalized to keep metric cardinality bounded: the endpoints
// this server actually serves pass through as-is, cluster and infra-env
// UUIDs that clients paste into paths are replaced with :uuid, and
// everything else is bucketed. MCP session IDs never appear in paths here
// (streamable HTTP carries them in the Mcp-Session-Id header, SSE in the
// sessionId query parameter), so no session normalization is needed.
//
// The provider parameter can be nil, in which case the middleware is a no-op
// that just passes through to the next handler.
func HTTPMetrics(provider *instrumentation.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics recording if provider is nil or disabled
			if provider == nil || !provider.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			// Wrap the response writer to capture the status code
			wrapped := newResponseWriter(w)

			// Call the next handler
			next.ServeHTTP(wrapped, r)

			// Record the metrics
			duration := time.Since(start)
			path := normalizePath(r.URL.Path)

			provider.Metrics().RecordHTTPRequest(
				r.Context(),
				r.Method,
				path,
				wrapped.statusCode,
				duration,
			)
		})
	}
}

// servedPaths are the endpoints this server registers: the MCP transports
// (/mcp for streamable HTTP, /sse and /message for SSE), the health checks,
// and /metrics on the dedicated listener.
var servedPaths = map[string]struct{}{
	"/mcp":              {},
	"/sse":              {},
	"/message":          {},
	"/healthz":          {},
	"/readyz":           {},
	"/healthz/detailed": {},
	"/metrics":          {},
}

// uuidPattern matches cluster and infra-env IDs (e.g.
// 550e8400-e29b-41d4-a716-446655440000) that clients sometimes paste into
// request paths.
var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// normalizePath keeps path label cardinality bounded: served endpoints pass
// through unchanged, embedded UUIDs are replaced with :uuid, and any other
// path collapses into a single bucket.
func normalizePath(path string) string {
	if _, ok := servedPaths[path]; ok {
		return path
	}
	if uuidPattern.MatchString(path) {
		return uuidPattern.ReplaceAllString(path, ":uuid")
	}
	return "/other"
}
