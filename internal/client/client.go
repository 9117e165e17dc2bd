package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/mgmt-client/internal/auth"
	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/internal/http"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// Client implements the mgmt.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string

	jobs *JobsClient
}

// New creates a client from config, choosing a token manager from the
// credentials it carries.
func New(config *mgmt.Config) (*Client, error) {
	if config == nil {
		return nil, mgmt.ErrConfigRequired
	}

	origin, err := NormalizeDomain(config.Domain)
	if err != nil {
		return nil, err
	}

	tokenManager, err := createTokenManager(config, origin)
	if err != nil {
		return nil, err
	}

	return newClient(config, origin, tokenManager)
}

// NewWithTokenManager creates a client that authenticates with tokenManager.
func NewWithTokenManager(config *mgmt.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, mgmt.ErrConfigRequired
	}

	origin, err := NormalizeDomain(config.Domain)
	if err != nil {
		return nil, err
	}

	return newClient(config, origin, tokenManager)
}

func newClient(config *mgmt.Config, origin string, tokenManager auth.TokenManager) (*Client, error) {
	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	baseURL := origin + constants.APIBasePath
	httpClient := http.NewClient(baseURL, tokenManager, httpOpts...)

	return &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      baseURL,
		jobs:         NewJobsClient(httpClient),
	}, nil
}

// NormalizeDomain turns a tenant domain or URL into an origin such as
// "https://tenant.example.com". A missing scheme defaults to https; a trailing
// slash or API base path is dropped.
func NormalizeDomain(domain string) (string, error) {
	origin := strings.TrimSpace(domain)
	if origin == "" {
		return "", mgmt.ErrDomainRequired
	}

	if !strings.Contains(origin, "://") {
		origin = "https://" + origin
	}

	origin = strings.TrimRight(origin, "/")
	origin = strings.TrimSuffix(origin, constants.APIBasePath)

	return origin, nil
}

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *mgmt.Config, origin string) (auth.TokenManager, error) {
	if config.APIToken != "" {
		return auth.NewStaticTokenManager(config.APIToken), nil
	}

	if config.ClientID != "" {
		if config.ClientSecret == "" {
			return nil, mgmt.ErrClientSecretMissing
		}

		return auth.NewClientCredentialsTokenManager(&auth.ClientCredentialsConfig{
			TokenURL:     valueOr(config.TokenURL, origin+"/oauth/token"),
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Audience:     valueOr(config.Audience, origin+constants.APIBasePath+"/"),
		}, constants.ShortHTTPTimeout), nil
	}

	return nil, nil // No authentication
}

func valueOr[T comparable](value, fallback T) T {
	var zero T
	if value != zero {
		return value
	}

	return fallback
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *mgmt.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := valueOr(config.RetryWaitMin, constants.DefaultRetryWaitMin)
		retryWaitMax := valueOr(config.RetryWaitMax, constants.DefaultRetryWaitMax)

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	chain, err := createInterceptorChain(config)
	if err != nil {
		return nil, err
	}

	if chain != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(chain))
	}

	return httpOpts, nil
}

// createInterceptorChain assembles the interceptors config asks for, in order:
// headers, logging, caller interceptors, metrics. It returns nil when there
// is nothing to install.
func createInterceptorChain(config *mgmt.Config) (*mgmt.InterceptorChain, error) {
	logging := config.Logger != nil && config.Debug

	if len(config.Headers) == 0 && !logging && config.Registerer == nil &&
		len(config.RequestInterceptors) == 0 && len(config.ResponseInterceptors) == 0 {
		return nil, nil
	}

	chain := mgmt.NewInterceptorChain()

	if len(config.Headers) > 0 {
		chain.AddRequestInterceptor(mgmt.HeaderInterceptor(config.Headers))
	}

	if logging {
		chain.AddRequestInterceptor(mgmt.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(mgmt.LoggingResponseInterceptor(config.Logger))
	}

	for _, interceptor := range config.RequestInterceptors {
		chain.AddRequestInterceptor(interceptor)
	}

	for _, interceptor := range config.ResponseInterceptors {
		chain.AddResponseInterceptor(interceptor)
	}

	if config.Registerer != nil {
		collector, err := mgmt.NewMetricsCollector(config.Registerer)
		if err != nil {
			return nil, fmt.Errorf("creating metrics collector: %w", err)
		}

		collector.Attach(chain)
	}

	return chain, nil
}

// Jobs implements mgmt.Client.Jobs.
func (c *Client) Jobs() mgmt.JobsClient {
	return c.jobs
}

// GetToken implements mgmt.Client.GetToken.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", mgmt.ErrNoTokenManager
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// BaseURL returns the versioned API base every request path is joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
