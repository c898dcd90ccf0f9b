package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
	"github.com/openshift-assisted/assisted-service-mcp/internal/tools"
)

// RegisterClusterTools registers all cluster management tools with the MCP server.
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listClustersTool := mcp.NewTool("list_clusters",
		mcp.WithDescription("List all assisted installer clusters for the current user. "+
			"Returns a summary per cluster (name, id, openshift_version, status); "+
			"use cluster_info for the full configuration of a specific cluster."),
	)
	s.AddTool(listClustersTool, tools.WrapWithLogging("list_clusters", handleListClusters, sc))

	clusterInfoTool := mcp.NewTool("cluster_info",
		mcp.WithDescription("Get comprehensive information about a specific assisted installer cluster, "+
			"including configuration, status, hosts, network settings, and installation progress."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster, typically a UUID"),
		),
	)
	s.AddTool(clusterInfoTool, tools.WrapWithLogging("cluster_info", handleClusterInfo, sc))

	clusterEventsTool := mcp.NewTool("cluster_events",
		mcp.WithDescription("Get the chronological events related to a cluster: installation progress, "+
			"configuration changes, and status updates."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster to get events for"),
		),
	)
	s.AddTool(clusterEventsTool, tools.WrapWithLogging("cluster_events", handleClusterEvents, sc))

	createClusterTool := mcp.NewTool("create_cluster",
		mcp.WithDescription("Create a new OpenShift cluster definition together with its infrastructure "+
			"environment. Returns the new cluster and infra-env IDs. Hosts boot the infra-env's "+
			"discovery ISO to join the cluster."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name for the new cluster, unique within your account"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("The OpenShift version to install (e.g. \"4.18.2\"); use list_versions to see what is available"),
		),
		mcp.WithString("base_domain",
			mcp.Required(),
			mcp.Description("The base DNS domain for the cluster (e.g. \"example.com\"); the cluster API will be at api.{name}.{base_domain}"),
		),
		mcp.WithBoolean("single_node",
			mcp.Required(),
			mcp.Description("Create a single-node cluster (edge or resource-constrained deployments); false for multi-node high availability"),
		),
	)
	s.AddTool(createClusterTool, tools.WrapWithLogging("create_cluster", handleCreateCluster, sc))

	setVIPsTool := mcp.NewTool("set_cluster_vips",
		mcp.WithDescription("Configure the virtual IP addresses for cluster API and ingress traffic. "+
			"Both VIPs must be available addresses inside the cluster's network subnet."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster to configure"),
		),
		mcp.WithString("api_vip",
			mcp.Required(),
			mcp.Description("The IP address for the cluster API endpoint"),
		),
		mcp.WithString("ingress_vip",
			mcp.Required(),
			mcp.Description("The IP address for ingress traffic to applications running in the cluster"),
		),
	)
	s.AddTool(setVIPsTool, tools.WrapWithLogging("set_cluster_vips", handleSetClusterVIPs, sc))

	installClusterTool := mcp.NewTool("install_cluster",
		mcp.WithDescription("Trigger the installation process for a prepared cluster. All required hosts "+
			"must be discovered and validated, and network configuration (VIPs) must be complete."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster to install"),
		),
	)
	s.AddTool(installClusterTool, tools.WrapWithLogging("install_cluster", handleInstallCluster, sc))

	credentialsURLTool := mcp.NewTool("cluster_credentials_download_url",
		mcp.WithDescription("Get a time-limited presigned download URL for cluster credential files. "+
			"For a successfully installed cluster prefer \"kubeconfig\" over \"kubeconfig-noingress\". "+
			"Report the URL expiration to the user when available."),
		mcp.WithString("cluster_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the cluster to get credentials for"),
		),
		mcp.WithString("file_name",
			mcp.Required(),
			mcp.Description("The credential file to download: \"kubeconfig\", \"kubeconfig-noingress\", or \"kubeadmin-password\""),
		),
	)
	s.AddTool(credentialsURLTool, tools.WrapWithLogging("cluster_credentials_download_url", handleCredentialsDownloadURL, sc))

	return nil
}
