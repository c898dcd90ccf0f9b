package host

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
	"github.com/openshift-assisted/assisted-service-mcp/internal/server"
)

type hostEventsArgs struct {
	ClusterID string `json:"cluster_id"`
	HostID    string `json:"host_id"`
}

func (a *hostEventsArgs) validate() error {
	if a.ClusterID == "" {
		return fmt.Errorf("cluster_id is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.HostID == "" {
		return fmt.Errorf("host_id is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

type setHostRoleArgs struct {
	HostID     string `json:"host_id"`
	InfraEnvID string `json:"infraenv_id"`
	Role       string `json:"role"`
}

func (a *setHostRoleArgs) validate() error {
	if a.HostID == "" {
		return fmt.Errorf("host_id is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.InfraEnvID == "" {
		return fmt.Errorf("infraenv_id is required: %w", errdefs.ErrInvalidArgument)
	}
	if a.Role == "" {
		return fmt.Errorf("role is required: %w", errdefs.ErrInvalidArgument)
	}
	return nil
}

func handleHostEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args hostEventsArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().HostEvents(ctx, args.ClusterID, args.HostID)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func handleSetHostRole(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	var args setHostRoleArgs
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("binding arguments: %w", errdefs.ErrInvalidArgument)
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	raw, err := sc.InventoryClient().UpdateHostRole(ctx, args.InfraEnvID, args.HostID, installer.HostRole(args.Role))
	if err != nil {
		return nil, err
	}
	sc.Logger().Info("host role updated",
		logging.HostID(args.HostID), logging.InfraEnvID(args.InfraEnvID), "role", args.Role)
	return mcp.NewToolResultText(string(raw)), nil
}
