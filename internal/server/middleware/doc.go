// Package middleware provides HTTP middleware for the Assisted Service MCP server.
// These middleware functions handle security headers, CORS, and HTTP metrics.
package middleware
