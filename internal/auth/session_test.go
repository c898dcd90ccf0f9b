package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPContextFunc(t *testing.T) {
	tests := []struct {
		name            string
		headers         map[string]string
		wantOffline     string
		wantAccessToken string
	}{
		{
			name:    "no credential headers",
			headers: map[string]string{},
		},
		{
			name:        "offline token header",
			headers:     map[string]string{OfflineTokenHeader: "offline-123"},
			wantOffline: "offline-123",
		},
		{
			name:            "authorization bearer",
			headers:         map[string]string{"Authorization": "Bearer access-456"},
			wantAccessToken: "access-456",
		},
		{
			name:            "bearer is case-insensitive",
			headers:         map[string]string{"Authorization": "bearer access-456"},
			wantAccessToken: "access-456",
		},
		{
			name:    "malformed authorization ignored",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
		},
		{
			name: "both headers present",
			headers: map[string]string{
				OfflineTokenHeader: "offline-123",
				"Authorization":    "Bearer access-456",
			},
			wantOffline:     "offline-123",
			wantAccessToken: "access-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/mcp", nil)
			require.NoError(t, err)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			ctx := HTTPContextFunc(context.Background(), req)

			offline, _ := OfflineTokenFromContext(ctx)
			assert.Equal(t, tt.wantOffline, offline)
			access, _ := AccessTokenFromContext(ctx)
			assert.Equal(t, tt.wantAccessToken, access)
		})
	}
}

func TestResolverPrecedence(t *testing.T) {
	resolver := NewResolver("env-offline")

	t.Run("authorization bearer wins", func(t *testing.T) {
		ctx := ContextWithAccessToken(context.Background(), "direct")
		ctx = ContextWithOfflineToken(ctx, "header-offline")

		session, err := resolver.Session(ctx)
		require.NoError(t, err)
		assert.True(t, session.HasDirectAccessToken())
		assert.Equal(t, "direct", session.DirectAccessToken())
	})

	t.Run("header offline token overrides env default", func(t *testing.T) {
		ctx := ContextWithOfflineToken(context.Background(), "header-offline")

		session, err := resolver.Session(ctx)
		require.NoError(t, err)
		assert.False(t, session.HasDirectAccessToken())
		assert.Equal(t, "header-offline", session.OfflineToken())
	})

	t.Run("falls back to env default", func(t *testing.T) {
		session, err := resolver.Session(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "env-offline", session.OfflineToken())
	})
}

func TestResolverNoCredential(t *testing.T) {
	resolver := NewResolver("")

	_, err := resolver.Session(context.Background())
	require.Error(t, err)
	assert.True(t, errdefs.IsFailedPrecondition(err))
	assert.Contains(t, err.Error(), "no offline token")
}
