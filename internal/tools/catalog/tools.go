package catalog

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools"
)

// RegisterCatalogTools registers version and operator catalog tools with the MCP server.
func RegisterCatalogTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listVersionsTool := mcp.NewTool("list_versions",
		mcp.WithDescription("List the latest available OpenShift versions for installation with the "+
			"assisted installer service."),
	)
	s.AddTool(listVersionsTool, tools.WrapWithLogging("list_versions", handleListVersions, sc))

	listBundlesTool := mcp.NewTool("list_operator_bundles",
		mcp.WithDescription("List available operator bundles that can optionally be installed during "+
			"cluster deployment, such as virtualization or OpenShift AI."),
	)
	s.AddTool(listBundlesTool, tools.WrapWithLogging("list_operator_bundles", handleListOperatorBundles, sc))

	addBundleTool := mcp.NewTool("add_operator_bundle_to_cluster",
		mcp.WithDescription("Configure an operator bundle to be installed with the cluster. The bundle "+
			"must come from list_operator_bundles."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster to configure"),
		),
		mcp.WithString("bundle_name",
			mcp.Required(),
			mcp.Description("The name of the operator bundle to add"),
		),
	)
	s.AddTool(addBundleTool, tools.WrapWithLogging("add_operator_bundle_to_cluster", handleAddOperatorBundle, sc))

	return nil
}
