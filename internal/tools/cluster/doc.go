// Package cluster implements the MCP tools for cluster lifecycle
// operations: listing and inspecting clusters, creating a cluster with its
// paired infra-env, configuring VIPs, triggering installation, and fetching
// presigned credential download URLs.
package cluster
