package host

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools"
)

// RegisterHostTools registers all host management tools with the MCP server.
func RegisterHostTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	hostEventsTool := mcp.NewTool("host_events",
		mcp.WithDescription("Get events specific to a particular host within a cluster: installation "+
			"progress, hardware validation results, role assignment, and host-specific issues."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster containing the host"),
		),
		mcp.WithString("host_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the host to get events for"),
		),
	)
	s.AddTool(hostEventsTool, tools.WrapWithLogging("host_events", handleHostEvents, sc))

	setHostRoleTool := mcp.NewTool("set_host_role",
		mcp.WithDescription("Assign a role to a host discovered through the infra-env boot process. "+
			"The role determines the host's function in the OpenShift cluster."),
		mcp.WithString("host_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the host to configure"),
		),
		mcp.WithString("infraenv_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the infra-env containing the host"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("The role to assign: \"auto-assign\" (installer decides), \"master\" (control plane), "+
				"\"arbiter\" (arbiter node for stretched clusters), or \"worker\" (compute node)"),
		),
	)
	s.AddTool(setHostRoleTool, tools.WrapWithLogging("set_host_role", handleSetHostRole, sc))

	return nil
}
