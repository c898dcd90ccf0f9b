package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/containerd/errdefs"
)

// OfflineTokenHeader is the transport header carrying a per-request OCM
// offline token on HTTP transports.
const OfflineTokenHeader = "OCM-Offline-Token"

// contextKey is a custom type for context keys to avoid collisions with
// other packages that might use the same string key in the context.
type contextKey string

const (
	offlineTokenKey contextKey = "ocm_offline_token"
	accessTokenKey  contextKey = "ocm_access_token"
)

// ContextWithOfflineToken returns a context carrying a per-request offline token.
func ContextWithOfflineToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, offlineTokenKey, token)
}

// OfflineTokenFromContext retrieves the per-request offline token, if any.
func OfflineTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(offlineTokenKey).(string)
	return token, ok && token != ""
}

// ContextWithAccessToken returns a context carrying a caller-supplied access
// token. Such a token is used verbatim for backend calls and is never
// exchanged or refreshed by the server.
func ContextWithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessTokenFromContext retrieves the caller-supplied access token, if any.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}

// HTTPContextFunc copies credential headers from an inbound HTTP request
// into the request context. It is installed on the SSE and streamable-HTTP
// servers so that tool handlers see the same context shape regardless of
// transport; the stdio transport simply never populates these keys.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	if r == nil {
		return ctx
	}
	if token := r.Header.Get(OfflineTokenHeader); token != "" {
		ctx = ContextWithOfflineToken(ctx, token)
	}
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			ctx = ContextWithAccessToken(ctx, parts[1])
		}
	}
	return ctx
}

// Session is the credential resolved for a single invocation. It is an
// immutable value created per call and never shared across invocations.
type Session struct {
	accessToken  string
	offlineToken string
}

// HasDirectAccessToken reports whether the caller supplied a ready-to-use
// access token. Direct tokens cannot be refreshed: there is no offline token
// to exchange.
func (s Session) HasDirectAccessToken() bool {
	return s.accessToken != ""
}

// DirectAccessToken returns the caller-supplied access token, if any.
func (s Session) DirectAccessToken() string {
	return s.accessToken
}

// OfflineToken returns the offline token selected for this invocation.
func (s Session) OfflineToken() string {
	return s.offlineToken
}

// Resolver resolves the credential to use for an invocation.
//
// Precedence: caller-supplied Authorization bearer token, then the
// per-request offline-token header, then the process-wide default offline
// token. Resolution is cheap and synchronous; when nothing is available it
// fails before any network call is attempted.
type Resolver struct {
	defaultOfflineToken string
}

// NewResolver creates a Resolver with the given process-wide default offline
// token (usually from the OFFLINE_TOKEN environment variable; empty for none).
func NewResolver(defaultOfflineToken string) *Resolver {
	return &Resolver{defaultOfflineToken: defaultOfflineToken}
}

// Session resolves the credential for the current invocation.
func (r *Resolver) Session(ctx context.Context) (Session, error) {
	if token, ok := AccessTokenFromContext(ctx); ok {
		return Session{accessToken: token}, nil
	}
	if token, ok := OfflineTokenFromContext(ctx); ok {
		return Session{offlineToken: token}, nil
	}
	if r.defaultOfflineToken != "" {
		return Session{offlineToken: r.defaultOfflineToken}, nil
	}
	return Session{}, fmt.Errorf("no offline token found in environment or request headers: %w", errdefs.ErrFailedPrecondition)
}
