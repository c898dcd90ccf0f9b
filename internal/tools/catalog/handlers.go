package catalog

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

type addBundleArgs struct {
	ClusterID  string `json:"cluster_id"`
	BundleName string `json:"bundle_name"`
}

func (a *addBundleArgs) validate() error {
	if a.ClusterID == "" {
		return fmt.Errorf("cluster_id is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.BundleName == "" {
		return fmt.Errorf("bundle_name is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

func handleListVersions(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	raw, err := sc.InventoryClient().ListVersions(ctx)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleListOperatorBundles(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	raw, err := sc.InventoryClient().ListOperatorBundles(ctx)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleAddOperatorBundle(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args addBundleArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().AddOperatorBundle(ctx, args.ClusterID, args.BundleName)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}
