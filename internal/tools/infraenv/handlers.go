package infraenv

import (
	"context"
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

const noISOsMessage = "No ISO download URLs found for this cluster."

type infraEnvIDArgs struct {
	InfraEnvID string `json:"infraenv_id"`
}

func (a *infraEnvIDArgs) validate() error {
	if a.InfraEnvID == "" {
		return fmt.Errorf("infraenv_id is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

type clusterIDArgs struct {
	ClusterID string `json:"cluster_id"`
}

func (a *clusterIDArgs) validate() error {
	if a.ClusterID == "" {
		return fmt.Errorf("cluster_id is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

func handleInfraEnvInfo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args infraEnvIDArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().GetInfraEnv(ctx, args.InfraEnvID)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleISODownloadURL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args clusterIDArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	infraEnvs, err := sc.InventoryClient().ListInfraEnvs(ctx, args.ClusterID)
	if err != nil {
		return nil, err
	}
	if len(infraEnvs) == 0 {
		return mcp.NewToolResultText(noISOsMessage), nil
	}

	logger := sc.Logger()
	var isoInfo []string
	for _, env := range infraEnvs {
		presigned, err := sc.InventoryClient().InfraEnvDownloadURL(ctx, env.ID)
		if err != nil {
			return nil, err
		}
		if presigned.URL == "" {
			logger.Warn("no ISO download URL for infra-env", logging.InfraEnvID(env.ID))
			continue
		}

		parts := []string{"URL: " + presigned.URL}
		if presigned.ExpiresAt != "" && !strings.HasPrefix(presigned.ExpiresAt, "0001-01-01") {
			parts = append(parts, "Expires at: "+presigned.ExpiresAt)
		}
		isoInfo = append(isoInfo, strings.Join(parts, "\n"))
	}

	if len(isoInfo) == 0 {
		return mcp.NewToolResultText(noISOsMessage), nil
	}
	return mcp.NewToolResultText(strings.Join(isoInfo, "\n\n")), nil
}
