// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
//
// Handlers return domain errors as Go errors; the wrapper installed by
// WrapWithLogging classifies them into coded tool error results. A handler
// should only construct a CallToolResult itself for successful responses.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)
