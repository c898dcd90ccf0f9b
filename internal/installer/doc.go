// Package installer provides a typed client for the Assisted Installer
// REST API (the "inventory" service).
//
// The Client interface exposes one method per capability the MCP tools
// need. The implementation resolves the invocation's credential through the
// auth package, attaches the bearer token, and classifies backend failures
// into the shared error taxonomy: invalid arguments, authentication
// failures, missing resources, and transient outages. When the backend
// rejects a cached access token the client forces exactly one refresh and
// retries exactly once before giving up.
package installer
