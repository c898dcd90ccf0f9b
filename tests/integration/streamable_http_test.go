//go:build integration

// Package integration provides end-to-end integration tests for
// assisted-service-mcp.
//
// These tests start a real MCP server wired to stub backend and SSO
// endpoints, and drive it with the mcp-go client over streamable HTTP.
//
// Run with: go test -v ./tests/integration/... -tags=integration
package integration

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/catalog"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/cluster"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/host"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools/infraenv"
)

// newStubSSO returns a test server that issues access tokens for any
// refresh_token grant.
func newStubSSO(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-access-token",
			"token_type":   "Bearer",
			"expires_in":   900,
		})
	}))
}

// newStubBackend returns a test server that mimics the inventory API
// endpoints used by the tools under test.
func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clusters", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"c1","name":"prod","openshift_version":"4.18.2","status":"ready","extra":"ignored"}]`))
	})
	mux.HandleFunc("GET /openshift-versions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"4.18":{"display_name":"4.18.2","support_level":"production"}}`))
	})
	return httptest.NewServer(mux)
}

// startMCPServer wires the full tool stack against the stub endpoints and
// serves it over streamable HTTP.
func startMCPServer(t *testing.T, ssoURL, backendURL string) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	resolver := auth.NewResolver("integration-offline-token")
	tokenManager := auth.NewTokenManager(auth.TokenManagerConfig{
		TokenURL: ssoURL,
		Logger:   logger,
	})
	inventoryClient, err := installer.NewClient(installer.ClientConfig{
		InventoryURL: backendURL,
		Logger:       logger,
		Resolver:     resolver,
		TokenManager: tokenManager,
	})
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(),
		server.WithInventoryClient(inventoryClient),
		server.WithTokenManager(tokenManager),
		server.WithResolver(resolver),
		server.WithLogger(logger),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	mcpSrv := mcpserver.NewMCPServer("assisted-service-mcp", "integration",
		mcpserver.WithToolCapabilities(true),
	)
	require.NoError(t, cluster.RegisterClusterTools(mcpSrv, sc))
	require.NoError(t, host.RegisterHostTools(mcpSrv, sc))
	require.NoError(t, infraenv.RegisterInfraEnvTools(mcpSrv, sc))
	require.NoError(t, catalog.RegisterCatalogTools(mcpSrv, sc))

	httpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath("/mcp"),
		mcpserver.WithHTTPContextFunc(auth.HTTPContextFunc),
	)

	ts := httptest.NewServer(httpHandler)
	t.Cleanup(ts.Close)
	return ts
}

func newInitializedClient(t *testing.T, ctx context.Context, url string) *client.Client {
	t.Helper()

	mcpClient, err := client.NewStreamableHttpClient(url + "/mcp")
	require.NoError(t, err, "Failed to create MCP client")

	require.NoError(t, mcpClient.Start(ctx), "Failed to start MCP client transport")
	t.Cleanup(func() { _ = mcpClient.Close() })

	_, err = mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "integration-test",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err, "Failed to initialize MCP client")
	return mcpClient
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

// TestStreamableHTTPListAndCallTools drives the registered tool set end to
// end: discovery, a read-only call that reaches the stub backend through the
// token exchange, and an argument validation failure.
func TestStreamableHTTPListAndCallTools(t *testing.T) {
	sso := newStubSSO(t)
	defer sso.Close()
	backend := newStubBackend(t)
	defer backend.Close()

	ts := startMCPServer(t, sso.URL, backend.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mcpClient := newInitializedClient(t, ctx, ts.URL)

	toolsResp, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err, "Failed to list tools")

	var names []string
	for _, tool := range toolsResp.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"list_clusters", "cluster_info", "cluster_events", "create_cluster",
		"set_cluster_vips", "install_cluster", "cluster_credentials_download_url",
		"host_events", "set_host_role",
		"infraenv_info", "cluster_iso_download_url",
		"list_versions", "list_operator_bundles", "add_operator_bundle_to_cluster",
	} {
		assert.Contains(t, names, want)
	}

	result, err := mcpClient.CallTool(ctx, mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name: "list_clusters",
		},
	})
	require.NoError(t, err, "Failed to call list_clusters")
	require.False(t, result.IsError, "list_clusters returned error result: %s", textContent(t, result))

	var summaries []installer.ClusterSummary
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "prod", summaries[0].Name)
	assert.Equal(t, "ready", summaries[0].Status)

	result, err = mcpClient.CallTool(ctx, mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name:      "cluster_info",
			Arguments: map[string]interface{}{},
		},
	})
	require.NoError(t, err)
	require.True(t, result.IsError, "cluster_info without cluster_id should fail")
	assert.True(t, strings.HasPrefix(textContent(t, result), "invalid_argument: "))
}

// TestStreamableHTTPTimeout tests that requests don't hang indefinitely.
func TestStreamableHTTPTimeout(t *testing.T) {
	server := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	slowTool := mcp.NewTool("slow_tool",
		mcp.WithDescription("A slow tool that takes time"),
		mcp.WithNumber("delay_seconds",
			mcp.Description("How long to delay"),
		),
	)

	server.AddTool(slowTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		delay := 5.0
		if d, ok := args["delay_seconds"].(float64); ok {
			delay = d
		}

		select {
		case <-time.After(time.Duration(delay) * time.Second):
			return mcp.NewToolResultText("Done after delay"), nil
		case <-ctx.Done():
			return mcp.NewToolResultError("cancelled"), ctx.Err()
		}
	})

	httpHandler := mcpserver.NewStreamableHTTPServer(server,
		mcpserver.WithEndpointPath("/mcp"),
	)

	ts := httptest.NewServer(httpHandler)
	defer ts.Close()

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer initCancel()

	mcpClient := newInitializedClient(t, initCtx, ts.URL)

	callCtx, callCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer callCancel()

	// Call slow tool with 10 second delay, but our context has 2 second timeout
	_, err := mcpClient.CallTool(callCtx, mcp.CallToolRequest{
		Request: mcp.Request{
			Method: "tools/call",
		},
		Params: mcp.CallToolParams{
			Name: "slow_tool",
			Arguments: map[string]interface{}{
				"delay_seconds": 10.0,
			},
		},
	})

	require.Error(t, err, "expected the call to time out")
	assert.True(t, strings.Contains(err.Error(), "context deadline exceeded") ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "canceled"),
		"Expected timeout-related error, got: %v", err)
}

// TestMain sets up logging for integration tests
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	os.Exit(m.Run())
}
