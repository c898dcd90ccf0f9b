package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ssoStub is a fake SSO token endpoint that counts exchange calls.
type ssoStub struct {
	server    *httptest.Server
	exchanges atomic.Int64

	mu         sync.Mutex
	statusCode int
	expiresIn  int
	delay      time.Duration
}

func newSSOStub(t *testing.T) *ssoStub {
	t.Helper()
	stub := &ssoStub{statusCode: http.StatusOK, expiresIn: 900}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "cloud-services", r.Form.Get("client_id"))
		assert.NotEmpty(t, r.Form.Get("refresh_token"))

		n := stub.exchanges.Add(1)

		stub.mu.Lock()
		status, expiresIn, delay := stub.statusCode, stub.expiresIn, stub.delay
		stub.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Offline user session not found",
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("access-%d", n),
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *ssoStub) setStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCode = code
}

func (s *ssoStub) setExpiresIn(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresIn = seconds
}

func newTestManager(stub *ssoStub) *TokenManager {
	return NewTokenManager(TokenManagerConfig{
		TokenURL: stub.server.URL,
	})
}

func TestAccessTokenExchangesOnce(t *testing.T) {
	stub := newSSOStub(t)
	manager := newTestManager(stub)

	token, err := manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)

	// Second call is served from the cache.
	token, err = manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.EqualValues(t, 1, stub.exchanges.Load())
}

func TestAccessTokenConcurrentSingleExchange(t *testing.T) {
	stub := newSSOStub(t)
	manager := newTestManager(stub)

	const callers = 20
	tokens := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			token, err := manager.AccessToken(context.Background(), "offline-shared")
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, stub.exchanges.Load(),
		"concurrent callers sharing a cold credential must trigger exactly one exchange")
	for _, token := range tokens {
		assert.Equal(t, "access-1", token, "all blocked callers receive the same token")
	}
}

func TestAccessTokenIsolatesIdentities(t *testing.T) {
	stub := newSSOStub(t)
	manager := newTestManager(stub)

	tokenA, err := manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)
	tokenB, err := manager.AccessToken(context.Background(), "offline-b")
	require.NoError(t, err)

	assert.NotEqual(t, tokenA, tokenB)
	assert.EqualValues(t, 2, stub.exchanges.Load())
	assert.Equal(t, 2, manager.CachedIdentities())
}

func TestAccessTokenRefreshesNearExpiry(t *testing.T) {
	stub := newSSOStub(t)
	// Tokens come back already inside the expiry margin.
	stub.setExpiresIn(5)
	manager := NewTokenManager(TokenManagerConfig{
		TokenURL:     stub.server.URL,
		ExpiryMargin: 10 * time.Second,
	})

	_, err := manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)
	token, err := manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)

	assert.Equal(t, "access-2", token)
	assert.EqualValues(t, 2, stub.exchanges.Load())
}

func TestForceRefreshMintsNewToken(t *testing.T) {
	stub := newSSOStub(t)
	manager := newTestManager(stub)

	first, err := manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)

	second, err := manager.ForceRefresh(context.Background(), "offline-a")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.EqualValues(t, 2, stub.exchanges.Load())

	// The forced token is now the cached one.
	cached, err := manager.AccessToken(context.Background(), "offline-a")
	require.NoError(t, err)
	assert.Equal(t, second, cached)
	assert.EqualValues(t, 2, stub.exchanges.Load())
}

func TestAccessTokenRejectedCredential(t *testing.T) {
	stub := newSSOStub(t)
	stub.setStatus(http.StatusBadRequest)
	manager := newTestManager(stub)

	_, err := manager.AccessToken(context.Background(), "expired-offline")
	require.Error(t, err)
	assert.True(t, errdefs.IsUnauthorized(err), "credential rejection must classify as unauthenticated, got: %v", err)
	assert.Contains(t, err.Error(), "Offline user session not found")
}

func TestAccessTokenUnreachableEndpoint(t *testing.T) {
	stub := newSSOStub(t)
	stub.setStatus(http.StatusBadGateway)
	manager := newTestManager(stub)

	_, err := manager.AccessToken(context.Background(), "offline-a")
	require.Error(t, err)
	assert.True(t, errdefs.IsUnavailable(err), "5xx from SSO must classify as unavailable, got: %v", err)
}

func TestAccessTokenExchangeTimeout(t *testing.T) {
	stub := newSSOStub(t)
	stub.mu.Lock()
	stub.delay = 200 * time.Millisecond
	stub.mu.Unlock()

	manager := NewTokenManager(TokenManagerConfig{
		TokenURL:        stub.server.URL,
		ExchangeTimeout: 20 * time.Millisecond,
	})

	_, err := manager.AccessToken(context.Background(), "offline-a")
	require.Error(t, err)
	assert.True(t, errdefs.IsUnavailable(err), "timed-out exchange must classify as unavailable, got: %v", err)

	// A failed exchange must not poison the cache: once the endpoint is
	// healthy again the same manager succeeds on the next invocation.
	stub.mu.Lock()
	stub.delay = 0
	stub.mu.Unlock()
	_, err = manager.AccessToken(context.Background(), "offline-a")
	assert.NoError(t, err)
}

func TestAccessTokenMissingCredential(t *testing.T) {
	manager := newTestManager(newSSOStub(t))

	_, err := manager.AccessToken(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errdefs.IsFailedPrecondition(err))
}

func TestTokenForSessionDirectPassthrough(t *testing.T) {
	stub := newSSOStub(t)
	manager := newTestManager(stub)

	session := Session{accessToken: "caller-supplied"}
	token, err := manager.TokenForSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", token)
	assert.EqualValues(t, 0, stub.exchanges.Load(), "direct tokens are never exchanged")
}
