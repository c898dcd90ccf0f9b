// Package cmd provides the command-line interface for assisted-service-mcp.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI maintains backwards compatibility by running the serve command when
// no subcommand is specified.
//
// Command Structure:
//
//	assisted-service-mcp [flags]                 # Starts the MCP server (default)
//	assisted-service-mcp serve [flags]           # Explicitly starts the MCP server
//	assisted-service-mcp version                 # Shows version information
//	assisted-service-mcp self-update             # Updates to latest release
//	assisted-service-mcp help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	assisted-service-mcp serve --transport stdio
//	assisted-service-mcp serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	assisted-service-mcp serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command reads backend endpoints and the fallback offline token
// from flags or environment variables (INVENTORY_URL, PULL_SECRET_URL,
// SSO_URL, OFFLINE_TOKEN, LOG_LEVEL).
package cmd
