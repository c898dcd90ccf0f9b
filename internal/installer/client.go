package installer

import (
	"context"
	"encoding/json"
)

// Client is the typed facade over the Assisted Installer REST API.
//
// Every method resolves the invocation's credential from ctx, so handlers
// never touch tokens directly. Methods returning json.RawMessage pass the
// backend resource through unmodified; the remaining methods shape the
// response into the small result types the tools declare.
type Client interface {
	// ListClusters returns a summary of every cluster visible to the caller.
	ListClusters(ctx context.Context) ([]ClusterSummary, error)

	// GetCluster returns the full cluster resource.
	GetCluster(ctx context.Context, clusterID string) (json.RawMessage, error)

	// CreateCluster registers a cluster and its paired infra-env.
	CreateCluster(ctx context.Context, params CreateClusterParams) (*ClusterCreateResult, error)

	// SetClusterVIPs sets the API and ingress virtual IPs. Both are
	// required together.
	SetClusterVIPs(ctx context.Context, clusterID, apiVIP, ingressVIP string) (json.RawMessage, error)

	// InstallCluster triggers installation of a prepared cluster.
	InstallCluster(ctx context.Context, clusterID string) (json.RawMessage, error)

	// ClusterEvents returns user-category events for a cluster.
	ClusterEvents(ctx context.Context, clusterID string) (json.RawMessage, error)

	// HostEvents returns user-category events for one host of a cluster.
	HostEvents(ctx context.Context, clusterID, hostID string) (json.RawMessage, error)

	// GetInfraEnv returns the full infra-env resource.
	GetInfraEnv(ctx context.Context, infraEnvID string) (json.RawMessage, error)

	// ListInfraEnvs returns the infra-envs attached to a cluster.
	ListInfraEnvs(ctx context.Context, clusterID string) ([]InfraEnv, error)

	// InfraEnvDownloadURL returns a presigned discovery-ISO URL.
	InfraEnvDownloadURL(ctx context.Context, infraEnvID string) (*PresignedURL, error)

	// UpdateHostRole assigns a role to a discovered host.
	UpdateHostRole(ctx context.Context, infraEnvID, hostID string, role HostRole) (json.RawMessage, error)

	// ListVersions returns the latest supported OpenShift versions.
	ListVersions(ctx context.Context) (json.RawMessage, error)

	// ListOperatorBundles returns the available operator bundles.
	ListOperatorBundles(ctx context.Context) (json.RawMessage, error)

	// AddOperatorBundle expands a bundle into its operators and attaches
	// them to the cluster.
	AddOperatorBundle(ctx context.Context, clusterID, bundleName string) (json.RawMessage, error)

	// ClusterCredentialsDownloadURL returns a presigned URL for one of the
	// cluster credential files.
	ClusterCredentialsDownloadURL(ctx context.Context, clusterID string, fileName CredentialFileName) (*PresignedURL, error)
}
