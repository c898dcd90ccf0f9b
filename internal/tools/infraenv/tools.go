package infraenv

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools"
)

// RegisterInfraEnvTools registers infrastructure environment tools with the MCP server.
func RegisterInfraEnvTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	infraEnvInfoTool := mcp.NewTool("infraenv_info",
		mcp.WithDescription("Get detailed information about an infrastructure environment, including its "+
			"discovery ISO configuration and the cluster it belongs to."),
		mcp.WithString("infraenv_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the infra-env, typically a UUID"),
		),
	)
	s.AddTool(infraEnvInfoTool, tools.WrapWithLogging("infraenv_info", handleInfraEnvInfo, sc))

	isoURLTool := mcp.NewTool("cluster_iso_download_url",
		mcp.WithDescription("Get discovery ISO download URL(s) for a cluster. Hosts boot this ISO to be "+
			"discovered and join the cluster. URLs are presigned and time-limited; report the "+
			"expiration to the user when available."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster"),
		),
	)
	s.AddTool(isoURLTool, tools.WrapWithLogging("cluster_iso_download_url", handleISODownloadURL, sc))

	return nil
}
