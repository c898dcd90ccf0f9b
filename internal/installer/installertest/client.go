// Package installertest provides a mock inventory client for tests.
package installertest

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/openshift-assisted/assisted-service-mcp/internal/installer"
)

// MockClient implements installer.Client with per-method function fields.
// Unset methods return nil results. Calls counts every method invocation,
// letting tests assert that validation failures never reach the client.
type MockClient struct {
	Calls atomic.Int64

	ListClustersFunc                  func(ctx context.Context) ([]installer.ClusterSummary, error)
	GetClusterFunc                    func(ctx context.Context, clusterID string) (json.RawMessage, error)
	CreateClusterFunc                 func(ctx context.Context, params installer.CreateClusterParams) (*installer.ClusterCreateResult, error)
	SetClusterVIPsFunc                func(ctx context.Context, clusterID, apiVIP, ingressVIP string) (json.RawMessage, error)
	InstallClusterFunc                func(ctx context.Context, clusterID string) (json.RawMessage, error)
	ClusterEventsFunc                 func(ctx context.Context, clusterID string) (json.RawMessage, error)
	HostEventsFunc                    func(ctx context.Context, clusterID, hostID string) (json.RawMessage, error)
	GetInfraEnvFunc                   func(ctx context.Context, infraEnvID string) (json.RawMessage, error)
	ListInfraEnvsFunc                 func(ctx context.Context, clusterID string) ([]installer.InfraEnv, error)
	InfraEnvDownloadURLFunc           func(ctx context.Context, infraEnvID string) (*installer.PresignedURL, error)
	UpdateHostRoleFunc                func(ctx context.Context, infraEnvID, hostID string, role installer.HostRole) (json.RawMessage, error)
	ListVersionsFunc                  func(ctx context.Context) (json.RawMessage, error)
	ListOperatorBundlesFunc           func(ctx context.Context) (json.RawMessage, error)
	AddOperatorBundleFunc             func(ctx context.Context, clusterID, bundleName string) (json.RawMessage, error)
	ClusterCredentialsDownloadURLFunc func(ctx context.Context, clusterID string, fileName installer.CredentialFileName) (*installer.PresignedURL, error)
}

var _ installer.Client = (*MockClient)(nil)

func (m *MockClient) ListClusters(ctx context.Context) ([]installer.ClusterSummary, error) {
	m.Calls.Add(1)
	if m.ListClustersFunc == nil {
		return nil, nil
	}
	return m.ListClustersFunc(ctx)
}

func (m *MockClient) GetCluster(ctx context.Context, clusterID string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.GetClusterFunc == nil {
		return nil, nil
	}
	return m.GetClusterFunc(ctx, clusterID)
}

func (m *MockClient) CreateCluster(ctx context.Context, params installer.CreateClusterParams) (*installer.ClusterCreateResult, error) {
	m.Calls.Add(1)
	if m.CreateClusterFunc == nil {
		return nil, nil
	}
	return m.CreateClusterFunc(ctx, params)
}

func (m *MockClient) SetClusterVIPs(ctx context.Context, clusterID, apiVIP, ingressVIP string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.SetClusterVIPsFunc == nil {
		return nil, nil
	}
	return m.SetClusterVIPsFunc(ctx, clusterID, apiVIP, ingressVIP)
}

func (m *MockClient) InstallCluster(ctx context.Context, clusterID string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.InstallClusterFunc == nil {
		return nil, nil
	}
	return m.InstallClusterFunc(ctx, clusterID)
}

func (m *MockClient) ClusterEvents(ctx context.Context, clusterID string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.ClusterEventsFunc == nil {
		return nil, nil
	}
	return m.ClusterEventsFunc(ctx, clusterID)
}

func (m *MockClient) HostEvents(ctx context.Context, clusterID, hostID string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.HostEventsFunc == nil {
		return nil, nil
	}
	return m.HostEventsFunc(ctx, clusterID, hostID)
}

func (m *MockClient) GetInfraEnv(ctx context.Context, infraEnvID string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.GetInfraEnvFunc == nil {
		return nil, nil
	}
	return m.GetInfraEnvFunc(ctx, infraEnvID)
}

func (m *MockClient) ListInfraEnvs(ctx context.Context, clusterID string) ([]installer.InfraEnv, error) {
	m.Calls.Add(1)
	if m.ListInfraEnvsFunc == nil {
		return nil, nil
	}
	return m.ListInfraEnvsFunc(ctx, clusterID)
}

func (m *MockClient) InfraEnvDownloadURL(ctx context.Context, infraEnvID string) (*installer.PresignedURL, error) {
	m.Calls.Add(1)
	if m.InfraEnvDownloadURLFunc == nil {
		return nil, nil
	}
	return m.InfraEnvDownloadURLFunc(ctx, infraEnvID)
}

func (m *MockClient) UpdateHostRole(ctx context.Context, infraEnvID, hostID string, role installer.HostRole) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.UpdateHostRoleFunc == nil {
		return nil, nil
	}
	return m.UpdateHostRoleFunc(ctx, infraEnvID, hostID, role)
}

func (m *MockClient) ListVersions(ctx context.Context) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.ListVersionsFunc == nil {
		return nil, nil
	}
	return m.ListVersionsFunc(ctx)
}

func (m *MockClient) ListOperatorBundles(ctx context.Context) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.ListOperatorBundlesFunc == nil {
		return nil, nil
	}
	return m.ListOperatorBundlesFunc(ctx)
}

func (m *MockClient) AddOperatorBundle(ctx context.Context, clusterID, bundleName string) (json.RawMessage, error) {
	m.Calls.Add(1)
	if m.AddOperatorBundleFunc == nil {
		return nil, nil
	}
	return m.AddOperatorBundleFunc(ctx, clusterID, bundleName)
}

func (m *MockClient) ClusterCredentialsDownloadURL(ctx context.Context, clusterID string, fileName installer.CredentialFileName) (*installer.PresignedURL, error) {
	m.Calls.Add(1)
	if m.ClusterCredentialsDownloadURLFunc == nil {
		return nil, nil
	}
	return m.ClusterCredentialsDownloadURLFunc(ctx, clusterID, fileName)
}
