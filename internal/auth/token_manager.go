package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/containerd/errdefs"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultSSOTokenURL is the Red Hat SSO token endpoint used to exchange an
// offline token for an access token. Override with SSO_URL.
const DefaultSSOTokenURL = "https://sso.redhat.com/auth/realms/redhat-external/protocol/openid-connect/token"

// ssoClientID is the public OCM client used for the refresh_token grant.
const ssoClientID = "cloud-services"

// DefaultExchangeTimeout bounds a single token-exchange call.
const DefaultExchangeTimeout = 30 * time.Second

// DefaultExpiryMargin is the safety window before the recorded expiry at
// which a cached token is treated as already expired. It absorbs clock skew
// and the latency of the backend call the token is about to authenticate.
const DefaultExpiryMargin = 30 * time.Second

// ExchangeMetrics is an optional callback for recording token-cache metrics.
// It keeps the manager free of a direct instrumentation dependency.
type ExchangeMetrics interface {
	OnTokenCacheHit()
	OnTokenCacheMiss()
	OnTokenExchange(result string)
}

// TokenManagerConfig holds configuration for a TokenManager.
type TokenManagerConfig struct {
	// TokenURL is the SSO token endpoint. Defaults to DefaultSSOTokenURL.
	TokenURL string
	// ExchangeTimeout bounds each exchange call. Defaults to DefaultExchangeTimeout.
	ExchangeTimeout time.Duration
	// ExpiryMargin is the pre-expiry refresh window. Defaults to DefaultExpiryMargin.
	ExpiryMargin time.Duration
	// HTTPClient performs the exchange requests. Defaults to a client with
	// ExchangeTimeout as its overall timeout.
	HTTPClient *http.Client
	// Logger receives debug/warn output. Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics is an optional metrics callback.
	Metrics ExchangeMetrics
}

// TokenManager exchanges offline tokens for access tokens and caches the
// results per offline-token identity.
//
// Cache entries are created lazily on first use of an identity and live for
// the process lifetime; the access token inside an entry is replaced on
// expiry or forced refresh. Refreshes for one identity are deduplicated with
// singleflight so N concurrent callers sharing a cold credential trigger
// exactly one exchange, and never serialize callers of other identities.
type TokenManager struct {
	cfg     oauth2.Config
	timeout time.Duration
	margin  time.Duration
	client  *http.Client
	logger  *slog.Logger
	metrics ExchangeMetrics

	mu      sync.RWMutex
	entries map[string]*oauth2.Token

	// group deduplicates in-flight exchanges per identity.
	group singleflight.Group
}

// NewTokenManager creates a TokenManager from the given configuration.
func NewTokenManager(config TokenManagerConfig) *TokenManager {
	if config.TokenURL == "" {
		config.TokenURL = DefaultSSOTokenURL
	}
	if config.ExchangeTimeout <= 0 {
		config.ExchangeTimeout = DefaultExchangeTimeout
	}
	if config.ExpiryMargin <= 0 {
		config.ExpiryMargin = DefaultExpiryMargin
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.ExchangeTimeout}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &TokenManager{
		cfg: oauth2.Config{
			ClientID: ssoClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  config.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		timeout: config.ExchangeTimeout,
		margin:  config.ExpiryMargin,
		client:  config.HTTPClient,
		logger:  config.Logger,
		metrics: config.Metrics,
		entries: make(map[string]*oauth2.Token),
	}
}

// identity derives the cache key for an offline token. The raw token is
// never used as a map key or logged.
func identity(offlineToken string) string {
	sum := sha256.Sum256([]byte(offlineToken))
	return hex.EncodeToString(sum[:])
}

// AccessToken returns a valid access token for the given offline token,
// performing the SSO exchange if no unexpired token is cached.
func (m *TokenManager) AccessToken(ctx context.Context, offlineToken string) (string, error) {
	if offlineToken == "" {
		return "", fmt.Errorf("no offline token provided: %w", errdefs.ErrFailedPrecondition)
	}

	id := identity(offlineToken)
	if token, ok := m.cached(id); ok {
		if m.metrics != nil {
			m.metrics.OnTokenCacheHit()
		}
		return token.AccessToken, nil
	}
	if m.metrics != nil {
		m.metrics.OnTokenCacheMiss()
	}
	return m.refresh(ctx, id, offlineToken)
}

// ForceRefresh discards any cached access token for the offline token and
// performs a fresh exchange. The Adapter calls this exactly once when the
// backend rejects a cached token; it is never called in a loop.
func (m *TokenManager) ForceRefresh(ctx context.Context, offlineToken string) (string, error) {
	if offlineToken == "" {
		return "", fmt.Errorf("no offline token provided: %w", errdefs.ErrFailedPrecondition)
	}

	id := identity(offlineToken)
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()

	m.logger.Debug("forcing access token refresh", slog.String("identity", id[:12]))
	return m.refresh(ctx, id, offlineToken)
}

// TokenForSession resolves the access token for an invocation's session.
// Direct caller-supplied access tokens are returned verbatim.
func (m *TokenManager) TokenForSession(ctx context.Context, session Session) (string, error) {
	if session.HasDirectAccessToken() {
		return session.DirectAccessToken(), nil
	}
	return m.AccessToken(ctx, session.OfflineToken())
}

// CachedIdentities returns the number of distinct offline-token identities
// currently cached. Used by health reporting.
func (m *TokenManager) CachedIdentities() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// cached returns the cached token for id when it is still comfortably
// inside its lifetime.
func (m *TokenManager) cached(id string) (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.entries[id]
	if !ok || token == nil {
		return nil, false
	}
	if !token.Expiry.IsZero() && time.Until(token.Expiry) <= m.margin {
		return nil, false
	}
	return token, true
}

// refresh performs the exchange for id, deduplicating concurrent callers.
// All callers blocked on the same identity receive the token obtained by the
// single in-flight exchange.
func (m *TokenManager) refresh(ctx context.Context, id, offlineToken string) (string, error) {
	result, err, _ := m.group.Do(id, func() (interface{}, error) {
		// Re-check under the flight: a racing caller may have already
		// stored a fresh token between our cache miss and this call.
		if token, ok := m.cached(id); ok {
			return token, nil
		}

		token, err := m.exchange(ctx, offlineToken)
		if err != nil {
			if m.metrics != nil {
				m.metrics.OnTokenExchange("error")
			}
			return nil, err
		}

		m.mu.Lock()
		m.entries[id] = token
		m.mu.Unlock()

		if m.metrics != nil {
			m.metrics.OnTokenExchange("success")
		}
		m.logger.Debug("exchanged offline token for access token",
			slog.String("identity", id[:12]),
			slog.Time("expiry", token.Expiry))
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return result.(*oauth2.Token).AccessToken, nil
}

// exchange performs one refresh_token grant against the SSO endpoint with a
// bounded timeout and classifies failures.
func (m *TokenManager) exchange(ctx context.Context, offlineToken string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)

	source := m.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: offlineToken})
	token, err := source.Token()
	if err != nil {
		return nil, classifyExchangeError(err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("identity provider returned an empty access token: %w", errdefs.ErrUnavailable)
	}
	return token, nil
}

// classifyExchangeError maps an SSO exchange failure onto the error
// taxonomy: a definitive rejection of the credential is an authentication
// failure, anything else (timeout, network, 5xx) is a transient outage.
func classifyExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		code := retrieveErr.Response.StatusCode
		if code == http.StatusBadRequest || code == http.StatusUnauthorized || code == http.StatusForbidden {
			description := retrieveErr.ErrorDescription
			if description == "" {
				description = "offline token rejected by identity provider"
			}
			return fmt.Errorf("%s: %w", description, errdefs.ErrUnauthenticated)
		}
		return fmt.Errorf("identity provider returned status %d: %w", code, errdefs.ErrUnavailable)
	}
	return fmt.Errorf("token exchange failed: %v: %w", err, errdefs.ErrUnavailable)
}
