package installer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/containerd/errdefs"

	"github.com/openshift-assisted/assisted-service-mcp/internal/auth"
	"github.com/openshift-assisted/assisted-service-mcp/internal/logging"
)

// DefaultInventoryURL is the hosted Assisted Installer API. Override with
// INVENTORY_URL.
const DefaultInventoryURL = "https://api.openshift.com/api/assisted-install/v2"

// DefaultPullSecretURL is the OCM accounts endpoint returning the caller's
// image pull secret. Override with PULL_SECRET_URL.
const DefaultPullSecretURL = "https://api.openshift.com/api/accounts_mgmt/v1/access_token"

// DefaultRequestTimeout bounds every backend call.
const DefaultRequestTimeout = 30 * time.Second

// defaultRetryMaxTries caps attempts of a read-only call, the first try
// included. Mutating calls are never auto-retried.
const defaultRetryMaxTries = 3

// maxErrorBodyLen caps how much of an unparseable error body is surfaced.
const maxErrorBodyLen = 512

// OperationMetrics is an optional callback for recording backend-call
// metrics without a direct instrumentation dependency.
type OperationMetrics interface {
	OnBackendOperation(operation, status string, duration time.Duration)
}

// ClientConfig holds configuration for the inventory client.
type ClientConfig struct {
	// InventoryURL is the API base URL. Defaults to DefaultInventoryURL.
	InventoryURL string
	// PullSecretURL is the pull-secret endpoint. Defaults to DefaultPullSecretURL.
	PullSecretURL string
	// Timeout bounds each backend call. Defaults to DefaultRequestTimeout.
	Timeout time.Duration
	// RetryMaxTries caps read-only attempts. Defaults to defaultRetryMaxTries.
	RetryMaxTries uint
	// HTTPClient performs the requests. Defaults to a client with Timeout.
	HTTPClient *http.Client
	// Logger receives debug/warn output. Defaults to slog.Default().
	Logger *slog.Logger
	// Resolver resolves the per-invocation credential. Required.
	Resolver *auth.Resolver
	// TokenManager exchanges and caches access tokens. Required.
	TokenManager *auth.TokenManager
	// Metrics is an optional metrics callback.
	Metrics OperationMetrics
}

// inventoryClient implements Client against the REST API.
type inventoryClient struct {
	baseURL       string
	pullSecretURL string
	timeout       time.Duration
	retryMaxTries uint
	http          *http.Client
	logger        *slog.Logger
	resolver      *auth.Resolver
	tokens        *auth.TokenManager
	metrics       OperationMetrics
}

// NewClient creates an inventory client from the given configuration.
func NewClient(config ClientConfig) (Client, error) {
	if config.Resolver == nil {
		return nil, fmt.Errorf("installer: resolver is required")
	}
	if config.TokenManager == nil {
		return nil, fmt.Errorf("installer: token manager is required")
	}
	if config.InventoryURL == "" {
		config.InventoryURL = DefaultInventoryURL
	}
	if config.PullSecretURL == "" {
		config.PullSecretURL = DefaultPullSecretURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultRequestTimeout
	}
	if config.RetryMaxTries == 0 {
		config.RetryMaxTries = defaultRetryMaxTries
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &inventoryClient{
		baseURL:       strings.TrimRight(config.InventoryURL, "/"),
		pullSecretURL: config.PullSecretURL,
		timeout:       config.Timeout,
		retryMaxTries: config.RetryMaxTries,
		http:          config.HTTPClient,
		logger:        config.Logger,
		resolver:      config.Resolver,
		tokens:        config.TokenManager,
		metrics:       config.Metrics,
	}, nil
}

func (c *inventoryClient) apiURL(path string) string {
	return c.baseURL + path
}

// get performs a read-only call, retrying transient failures with
// exponential backoff. Reads have no side effects so internal retries are
// safe; every other classification aborts immediately.
func (c *inventoryClient) get(ctx context.Context, operation, path string, query url.Values) (json.RawMessage, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 250 * time.Millisecond

	return backoff.Retry(ctx, func() (json.RawMessage, error) {
		raw, err := c.do(ctx, operation, http.MethodGet, c.apiURL(path), query, nil)
		if err != nil && !errdefs.IsUnavailable(err) {
			return nil, backoff.Permanent(err)
		}
		return raw, err
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(c.retryMaxTries))
}

// do performs one authenticated call with the single forced-refresh retry
// and records metrics.
func (c *inventoryClient) do(ctx context.Context, operation, method, fullURL string, query url.Values, body any) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.doAuthenticated(ctx, method, fullURL, query, body)
	if c.metrics != nil {
		status := logging.StatusSuccess
		if err != nil {
			status = logging.StatusError
		}
		c.metrics.OnBackendOperation(operation, status, time.Since(start))
	}
	if err != nil {
		c.logger.Debug("backend call failed",
			logging.Operation(operation), logging.Err(err))
	}
	return raw, err
}

func (c *inventoryClient) doAuthenticated(ctx context.Context, method, fullURL string, query url.Values, body any) (json.RawMessage, error) {
	session, err := c.resolver.Session(ctx)
	if err != nil {
		return nil, err
	}
	token, err := c.tokens.TokenForSession(ctx, session)
	if err != nil {
		return nil, err
	}

	status, respBody, err := c.send(ctx, method, fullURL, query, body, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if session.HasDirectAccessToken() {
			// Caller-supplied token: nothing to exchange, nothing to retry.
			return nil, authRejected(respBody)
		}

		// Cached token rejected: force one refresh and retry once. A
		// second rejection is final; the credential itself is bad.
		token, err = c.tokens.ForceRefresh(ctx, session.OfflineToken())
		if err != nil {
			return nil, err
		}
		status, respBody, err = c.send(ctx, method, fullURL, query, body, token)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, authRejected(respBody)
		}
	}

	if status >= 200 && status < 300 {
		return rawOrEmpty(respBody), nil
	}
	return nil, classifyStatus(status, respBody)
}

// send issues a single HTTP request and returns the status and body.
// Network-level failures come back classified as unavailable.
func (c *inventoryClient) send(ctx context.Context, method, fullURL string, query url.Values, body any, token string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := fullURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("backend unreachable: %v: %w", err, errdefs.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %v: %w", err, errdefs.ErrUnavailable)
	}
	return resp.StatusCode, respBody, nil
}

// fetchPullSecret retrieves the caller's image pull secret, needed by the
// cluster and infra-env registration bodies.
func (c *inventoryClient) fetchPullSecret(ctx context.Context) (string, error) {
	raw, err := c.do(ctx, "fetch_pull_secret", http.MethodPost, c.pullSecretURL, nil, nil)
	if err != nil {
		return "", fmt.Errorf("fetching pull secret: %w", err)
	}
	return string(raw), nil
}

func authRejected(body []byte) error {
	message := backendMessage(body)
	if message == "" {
		message = "access token rejected by backend"
	}
	return fmt.Errorf("%s: %w", message, errdefs.ErrUnauthenticated)
}

// classifyStatus maps a non-2xx backend response onto the error taxonomy.
func classifyStatus(status int, body []byte) error {
	message := backendMessage(body)
	switch {
	case status == http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return fmt.Errorf("%s: %w", message, errdefs.ErrNotFound)
	case status >= 400 && status < 500:
		if message == "" {
			message = fmt.Sprintf("backend rejected the request with status %d", status)
		}
		return fmt.Errorf("%s: %w", message, errdefs.ErrInvalidArgument)
	default:
		if message == "" {
			message = fmt.Sprintf("backend returned status %d", status)
		}
		return fmt.Errorf("%s: %w", message, errdefs.ErrUnavailable)
	}
}

// backendMessage extracts a human-readable message from an assisted-service
// error body.
func backendMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Reason != "" {
			return parsed.Reason
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyLen {
		text = text[:maxErrorBodyLen]
	}
	return text
}

func (c *inventoryClient) ListClusters(ctx context.Context) ([]ClusterSummary, error) {
	raw, err := c.get(ctx, "list_clusters", "/clusters", nil)
	if err != nil {
		return nil, err
	}
	var clusters []cluster
	if err := json.Unmarshal(raw, &clusters); err != nil {
		return nil, fmt.Errorf("decoding cluster list: %w", err)
	}
	summaries := make([]ClusterSummary, 0, len(clusters))
	for _, cl := range clusters {
		summaries = append(summaries, ClusterSummary{
			Name:             cl.Name,
			ID:               cl.ID,
			OpenshiftVersion: cl.OpenshiftVersion,
			Status:           cl.Status,
		})
	}
	return summaries, nil
}

func (c *inventoryClient) GetCluster(ctx context.Context, clusterID string) (json.RawMessage, error) {
	return c.get(ctx, "cluster_info", "/clusters/"+url.PathEscape(clusterID), nil)
}

func (c *inventoryClient) CreateCluster(ctx context.Context, params CreateClusterParams) (*ClusterCreateResult, error) {
	pullSecret, err := c.fetchPullSecret(ctx)
	if err != nil {
		return nil, err
	}

	request := clusterCreateRequest{
		Name:             params.Name,
		OpenshiftVersion: params.Version,
		PullSecret:       pullSecret,
		BaseDNSDomain:    params.BaseDomain,
		Tags:             "chatbot",
	}
	if params.SingleNode {
		one := 1
		managed := true
		request.ControlPlaneCount = &one
		request.HighAvailabilityMode = "None"
		request.UserManagedNetworking = &managed
	}

	raw, err := c.do(ctx, "create_cluster", http.MethodPost, c.apiURL("/clusters"), nil, request)
	if err != nil {
		return nil, err
	}
	var created cluster
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("decoding created cluster: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("backend did not return a cluster ID: %w", errdefs.ErrUnknown)
	}
	c.logger.Info("cluster registered", logging.ClusterID(created.ID))

	infraEnvRequest := infraEnvCreateRequest{
		Name:             params.Name,
		ClusterID:        created.ID,
		OpenshiftVersion: created.OpenshiftVersion,
		PullSecret:       pullSecret,
	}
	rawInfraEnv, err := c.do(ctx, "create_infra_env", http.MethodPost, c.apiURL("/infra-envs"), nil, infraEnvRequest)
	if err != nil {
		return nil, fmt.Errorf("cluster %s registered but infra-env creation failed: %w", created.ID, err)
	}
	var infraEnv InfraEnv
	if err := json.Unmarshal(rawInfraEnv, &infraEnv); err != nil {
		return nil, fmt.Errorf("decoding created infra-env: %w", err)
	}
	c.logger.Info("infra-env registered",
		logging.ClusterID(created.ID), logging.InfraEnvID(infraEnv.ID))

	return &ClusterCreateResult{ClusterID: created.ID, InfraEnvID: infraEnv.ID}, nil
}

func (c *inventoryClient) SetClusterVIPs(ctx context.Context, clusterID, apiVIP, ingressVIP string) (json.RawMessage, error) {
	if apiVIP == "" {
		return nil, fmt.Errorf("api_vip is required: %w", errdefs.ErrInvalidArgument)
	}
	if ingressVIP == "" {
		return nil, fmt.Errorf("ingress_vip is required: %w", errdefs.ErrInvalidArgument)
	}
	request := clusterUpdateRequest{
		APIVIPs:     []vip{{ClusterID: clusterID, IP: apiVIP}},
		IngressVIPs: []vip{{ClusterID: clusterID, IP: ingressVIP}},
	}
	return c.do(ctx, "set_cluster_vips", http.MethodPatch, c.apiURL("/clusters/"+url.PathEscape(clusterID)), nil, request)
}

func (c *inventoryClient) InstallCluster(ctx context.Context, clusterID string) (json.RawMessage, error) {
	return c.do(ctx, "install_cluster", http.MethodPost,
		c.apiURL("/clusters/"+url.PathEscape(clusterID)+"/actions/install"), nil, nil)
}

func (c *inventoryClient) ClusterEvents(ctx context.Context, clusterID string) (json.RawMessage, error) {
	return c.get(ctx, "cluster_events", "/events", url.Values{
		"cluster_id": {clusterID},
		"categories": {"user"},
	})
}

func (c *inventoryClient) HostEvents(ctx context.Context, clusterID, hostID string) (json.RawMessage, error) {
	return c.get(ctx, "host_events", "/events", url.Values{
		"cluster_id": {clusterID},
		"host_id":    {hostID},
		"categories": {"user"},
	})
}

func (c *inventoryClient) GetInfraEnv(ctx context.Context, infraEnvID string) (json.RawMessage, error) {
	return c.get(ctx, "infraenv_info", "/infra-envs/"+url.PathEscape(infraEnvID), nil)
}

func (c *inventoryClient) ListInfraEnvs(ctx context.Context, clusterID string) ([]InfraEnv, error) {
	raw, err := c.get(ctx, "list_infra_envs", "/infra-envs", url.Values{"cluster_id": {clusterID}})
	if err != nil {
		return nil, err
	}
	var infraEnvs []InfraEnv
	if err := json.Unmarshal(raw, &infraEnvs); err != nil {
		return nil, fmt.Errorf("decoding infra-env list: %w", err)
	}
	return infraEnvs, nil
}

func (c *inventoryClient) InfraEnvDownloadURL(ctx context.Context, infraEnvID string) (*PresignedURL, error) {
	raw, err := c.get(ctx, "infraenv_download_url",
		"/infra-envs/"+url.PathEscape(infraEnvID)+"/downloads/image-url", nil)
	if err != nil {
		return nil, err
	}
	var presigned PresignedURL
	if err := json.Unmarshal(raw, &presigned); err != nil {
		return nil, fmt.Errorf("decoding presigned URL: %w", err)
	}
	return &presigned, nil
}

func (c *inventoryClient) UpdateHostRole(ctx context.Context, infraEnvID, hostID string, role HostRole) (json.RawMessage, error) {
	if err := validateHostRole(role); err != nil {
		return nil, err
	}
	request := hostUpdateRequest{HostRole: string(role)}
	return c.do(ctx, "set_host_role", http.MethodPatch,
		c.apiURL("/infra-envs/"+url.PathEscape(infraEnvID)+"/hosts/"+url.PathEscape(hostID)), nil, request)
}

func (c *inventoryClient) ListVersions(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "list_versions", "/openshift-versions", url.Values{"only_latest": {"true"}})
}

func (c *inventoryClient) ListOperatorBundles(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "list_operator_bundles", "/operators/bundles", nil)
}

func (c *inventoryClient) AddOperatorBundle(ctx context.Context, clusterID, bundleName string) (json.RawMessage, error) {
	raw, err := c.get(ctx, "get_operator_bundle", "/operators/bundles/"+url.PathEscape(bundleName), nil)
	if err != nil {
		return nil, err
	}
	var bundle operatorBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decoding operator bundle: %w", err)
	}
	operators := make([]olmOperator, 0, len(bundle.Operators))
	for _, name := range bundle.Operators {
		operators = append(operators, olmOperator{Name: name})
	}
	request := clusterUpdateRequest{OLMOperators: operators}
	return c.do(ctx, "add_operator_bundle", http.MethodPatch,
		c.apiURL("/clusters/"+url.PathEscape(clusterID)), nil, request)
}

func (c *inventoryClient) ClusterCredentialsDownloadURL(ctx context.Context, clusterID string, fileName CredentialFileName) (*PresignedURL, error) {
	if err := validateCredentialFileName(fileName); err != nil {
		return nil, err
	}
	raw, err := c.get(ctx, "cluster_credentials_download_url",
		"/clusters/"+url.PathEscape(clusterID)+"/downloads/credentials-presigned",
		url.Values{"file_name": {string(fileName)}})
	if err != nil {
		return nil, err
	}
	var presigned PresignedURL
	if err := json.Unmarshal(raw, &presigned); err != nil {
		return nil, fmt.Errorf("decoding presigned URL: %w", err)
	}
	return &presigned, nil
}

// validateHostRole rejects out-of-set roles before any network call.
func validateHostRole(role HostRole) error {
	for _, valid := range ValidHostRoles {
		if role == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid role %q, valid roles are: %s: %w",
		role, joinHostRoles(), errdefs.ErrInvalidArgument)
}

// validateCredentialFileName rejects unknown file names before any network call.
func validateCredentialFileName(fileName CredentialFileName) error {
	for _, valid := range ValidCredentialFileNames {
		if fileName == valid {
			return nil
		}
	}
	names := make([]string, 0, len(ValidCredentialFileNames))
	for _, valid := range ValidCredentialFileNames {
		names = append(names, string(valid))
	}
	return fmt.Errorf("invalid file_name %q, valid names are: %s: %w",
		fileName, strings.Join(names, ", "), errdefs.ErrInvalidArgument)
}

func joinHostRoles() string {
	roles := make([]string, 0, len(ValidHostRoles))
	for _, role := range ValidHostRoles {
		roles = append(roles, string(role))
	}
	return strings.Join(roles, ", ")
}
