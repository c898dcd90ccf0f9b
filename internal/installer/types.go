package installer

import "encoding/json"

// HostRole is a role assignable to a discovered host.
type HostRole string

// Roles accepted by the backend for v2_update_host.
const (
	HostRoleAutoAssign HostRole = "auto-assign"
	HostRoleMaster     HostRole = "master"
	HostRoleArbiter    HostRole = "arbiter"
	HostRoleWorker     HostRole = "worker"
)

// ValidHostRoles lists every accepted host role, in the order they are
// presented to callers.
var ValidHostRoles = []HostRole{HostRoleAutoAssign, HostRoleMaster, HostRoleArbiter, HostRoleWorker}

// CredentialFileName is a downloadable cluster credential artifact.
type CredentialFileName string

// Credential files exposed by the credentials-presigned endpoint.
const (
	CredentialKubeconfig          CredentialFileName = "kubeconfig"
	CredentialKubeconfigNoIngress CredentialFileName = "kubeconfig-noingress"
	CredentialKubeadminPassword   CredentialFileName = "kubeadmin-password"
)

// ValidCredentialFileNames lists every downloadable credential file.
var ValidCredentialFileNames = []CredentialFileName{
	CredentialKubeconfig, CredentialKubeconfigNoIngress, CredentialKubeadminPassword,
}

// ClusterSummary is the trimmed cluster representation returned by
// list_clusters. Everything else about a cluster is passed through raw.
type ClusterSummary struct {
	Name             string `json:"name"`
	ID               string `json:"id"`
	OpenshiftVersion string `json:"openshift_version"`
	Status           string `json:"status"`
}

// CreateClusterParams are the caller-facing parameters for cluster creation.
type CreateClusterParams struct {
	Name       string
	Version    string
	BaseDomain string
	SingleNode bool
}

// ClusterCreateResult pairs the new cluster with the infra-env registered
// alongside it. Hosts boot from the infra-env's discovery image, so callers
// need both identifiers.
type ClusterCreateResult struct {
	ClusterID  string `json:"cluster_id"`
	InfraEnvID string `json:"infraenv_id"`
}

// InfraEnv is the subset of an infra-env resource the server interprets.
type InfraEnv struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClusterID string `json:"cluster_id"`
}

// PresignedURL is a time-limited download URL returned by the backend.
type PresignedURL struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// cluster is the subset of the backend cluster resource the client reads
// when shaping results; the raw body is preserved for passthrough.
type cluster struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OpenshiftVersion string `json:"openshift_version"`
	Status           string `json:"status"`
}

// apiError is the assisted-service error body shape.
type apiError struct {
	Code    string `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// clusterCreateRequest is the v2_register_cluster request body.
type clusterCreateRequest struct {
	Name                  string `json:"name"`
	OpenshiftVersion      string `json:"openshift_version"`
	PullSecret            string `json:"pull_secret"`
	BaseDNSDomain         string `json:"base_dns_domain,omitempty"`
	Tags                  string `json:"tags,omitempty"`
	ControlPlaneCount     *int   `json:"control_plane_count,omitempty"`
	HighAvailabilityMode  string `json:"high_availability_mode,omitempty"`
	UserManagedNetworking *bool  `json:"user_managed_networking,omitempty"`
}

// infraEnvCreateRequest is the register_infra_env request body.
type infraEnvCreateRequest struct {
	Name             string `json:"name"`
	ClusterID        string `json:"cluster_id,omitempty"`
	OpenshiftVersion string `json:"openshift_version,omitempty"`
	PullSecret       string `json:"pull_secret"`
}

// vip is one entry of the api_vips / ingress_vips update lists.
type vip struct {
	ClusterID string `json:"cluster_id"`
	IP        string `json:"ip"`
}

// clusterUpdateRequest is the v2_update_cluster request body. Only the
// fields the tools set are modeled; absent fields stay untouched backend-side.
type clusterUpdateRequest struct {
	APIVIPs      []vip         `json:"api_vips,omitempty"`
	IngressVIPs  []vip         `json:"ingress_vips,omitempty"`
	OLMOperators []olmOperator `json:"olm_operators,omitempty"`
}

// olmOperator names one operator to install with the cluster.
type olmOperator struct {
	Name string `json:"name"`
}

// operatorBundle is the subset of a bundle resource read when expanding a
// bundle into its member operators.
type operatorBundle struct {
	ID        string   `json:"id"`
	Operators []string `json:"operators"`
}

// hostUpdateRequest is the v2_update_host request body.
type hostUpdateRequest struct {
	HostRole string `json:"host_role,omitempty"`
}

// rawOrEmpty guards against backends returning an empty body where the
// tools expect a JSON document.
func rawOrEmpty(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("{}")
	}
	return json.RawMessage(body)
}
