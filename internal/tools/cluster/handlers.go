package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

type clusterIDArgs struct {
	ClusterID string `json:"cluster_id"`
}

func (a *clusterIDArgs) validate() error {
	if a.ClusterID == "" {
		return fmt.Errorf("cluster_id is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

type createClusterArgs struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	BaseDomain string `json:"base_domain"`
	SingleNode bool   `json:"single_node"`
}

func (a *createClusterArgs) validate() error {
	if a.Name == "" {
		return fmt.Errorf("name is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.Version == "" {
		return fmt.Errorf("version is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.BaseDomain == "" {
		return fmt.Errorf("base_domain is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

type setVIPsArgs struct {
	ClusterID  string `json:"cluster_id"`
	APIVIP     string `json:"api_vip"`
	IngressVIP string `json:"ingress_vip"`
}

func (a *setVIPsArgs) validate() error {
	if a.ClusterID == "" {
		return fmt.Errorf("cluster_id is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.APIVIP == "" {
		return fmt.Errorf("api_vip is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.IngressVIP == "" {
		return fmt.Errorf("ingress_vip is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

type credentialsURLArgs struct {
	ClusterID string `json:"cluster_id"`
	FileName  string `json:"file_name"`
}

func (a *credentialsURLArgs) validate() error {
	if a.ClusterID == "" {
		return fmt.Errorf("cluster_id is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.FileName == "" {
		return fmt.Errorf("file_name is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

func handleListClusters(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	summaries, err := sc.InventoryClient().ListClusters(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("marshaling cluster summaries: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleClusterInfo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args clusterIDArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().GetCluster(ctx, args.ClusterID)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleClusterEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args clusterIDArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().ClusterEvents(ctx, args.ClusterID)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleCreateCluster(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args createClusterArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	result, err := sc.InventoryClient().CreateCluster(ctx, installer.CreateClusterParams{
		Name:       args.Name,
		Version:    args.Version,
		BaseDomain: args.BaseDomain,
		SingleNode: args.SingleNode,
	})
	if err != nil {
		return nil, err
	}
	sc.Logger().Info("cluster created",
		logging.ClusterID(result.ClusterID), logging.InfraEnvID(result.InfraEnvID))

	jsonData, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshaling create result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleSetClusterVIPs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args setVIPsArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().SetClusterVIPs(ctx, args.ClusterID, args.APIVIP, args.IngressVIP)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleInstallCluster(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args clusterIDArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().InstallCluster(ctx, args.ClusterID)
	if err != nil {
		return nil, err
	}
	sc.Logger().Info("cluster installation triggered", logging.ClusterID(args.ClusterID))
	return mcp.NewToolResultText(string(raw)), nil
}

func handleCredentialsDownloadURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args credentialsURLArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	presigned, err := sc.InventoryClient().ClusterCredentialsDownloadURL(ctx, args.ClusterID, installer.CredentialFileName(args.FileName))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(formatPresignedURL(presigned)), nil
}

// formatPresignedURL renders a presigned URL with its expiry. Zero-value
// expiry timestamps from the backend are omitted.
func formatPresignedURL(presigned *installer.PresignedURL) string {
	parts := []string{"URL: " + presigned.URL}
	if presigned.ExpiresAt != "" && !strings.HasPrefix(presigned.ExpiresAt, "0001-01-01") {
		parts = append(parts, "Expires at: "+presigned.ExpiresAt)
	}
	return strings.Join(parts, "\n")
}
