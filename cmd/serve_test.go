package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmdProperties(t *testing.T) {
	cmd := newServeCmd()

	assert.Equal(t, "serve", cmd.Use)
	assert.Contains(t, cmd.Short, "Assisted Installer")
	assert.Contains(t, cmd.Long, "stdio")
	assert.Contains(t, cmd.Long, "streamable-http")
	assert.Contains(t, cmd.Long, "OCM-Offline-Token")
}

func TestServeCmdFlagDefaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"sse-endpoint", "/sse"},
		{"message-endpoint", "/message"},
		{"http-endpoint", "/mcp"},
		{"inventory-url", ""},
		{"pull-secret-url", ""},
		{"sso-url", ""},
		{"offline-token", ""},
		{"log-level", ""},
		{"metrics", "false"},
		{"metrics-addr", ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag, "flag %s should be registered", tt.flag)
			assert.Equal(t, tt.want, flag.DefValue)
		})
	}
}

func TestServeCmdRejectsUnknownTransport(t *testing.T) {
	cmd := newServeCmd()
	cmd.SetArgs([]string{"--transport", "websocket"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport")
}

func TestServeCmdStdioRequiresOfflineToken(t *testing.T) {
	// Guard against an OFFLINE_TOKEN in the test environment masking the failure.
	t.Setenv("OFFLINE_TOKEN", "")

	cmd := newServeCmd()
	cmd.SetArgs([]string{"--transport", "stdio"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline token")
}
