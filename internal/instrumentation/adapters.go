package instrumentation

import (
	"context"
	"time"
)

// TokenExchangeRecorder adapts Metrics to the callback interface the token
// manager accepts, so the auth package stays free of OpenTelemetry imports.
type TokenExchangeRecorder struct {
	metrics *Metrics
}

// NewTokenExchangeRecorder returns a recorder backed by the given Metrics.
// A nil Metrics yields a recorder whose callbacks are no-ops.
func NewTokenExchangeRecorder(metrics *Metrics) *TokenExchangeRecorder {
	return &TokenExchangeRecorder{metrics: metrics}
}

// OnTokenCacheHit records a cache hit for an access-token lookup.
func (r *TokenExchangeRecorder) OnTokenCacheHit() {
	r.metrics.RecordTokenCacheLookup(context.Background(), CacheHit)
}

// OnTokenCacheMiss records a cache miss for an access-token lookup.
func (r *TokenExchangeRecorder) OnTokenCacheMiss() {
	r.metrics.RecordTokenCacheLookup(context.Background(), CacheMiss)
}

// OnTokenExchange records an SSO exchange attempt with its result.
func (r *TokenExchangeRecorder) OnTokenExchange(result string) {
	r.metrics.RecordTokenExchange(context.Background(), result)
}

// BackendOperationRecorder adapts Metrics to the callback interface the
// inventory client accepts.
type BackendOperationRecorder struct {
	metrics *Metrics
}

// NewBackendOperationRecorder returns a recorder backed by the given Metrics.
func NewBackendOperationRecorder(metrics *Metrics) *BackendOperationRecorder {
	return &BackendOperationRecorder{metrics: metrics}
}

// OnBackendOperation records an Assisted Installer API call.
func (r *BackendOperationRecorder) OnBackendOperation(operation, status string, duration time.Duration) {
	r.metrics.RecordBackendOperation(context.Background(), operation, status, duration)
}
