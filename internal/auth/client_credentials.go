package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsConfig configures the OAuth2 client_credentials grant.
type ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	// Audience is sent as the "audience" form parameter.
	Audience string
	// HTTPClient is used for token requests; nil uses a client with a short timeout.
	HTTPClient *http.Client
}

// ClientCredentialsTokenManager exchanges client credentials for access
// tokens and caches them until shortly before they expire.
type ClientCredentialsTokenManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client

	mu     sync.Mutex
	source oauth2.TokenSource
}

// NewClientCredentialsTokenManager creates a token manager for config.
func NewClientCredentialsTokenManager(config *ClientCredentialsConfig, defaultTimeout time.Duration) *ClientCredentialsTokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	ccConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if config.Audience != "" {
		ccConfig.EndpointParams = map[string][]string{"audience": {config.Audience}}
	}

	return &ClientCredentialsTokenManager{
		config:     ccConfig,
		httpClient: httpClient,
	}
}

// GetToken returns a valid access token, requesting a new one when needed.
func (m *ClientCredentialsTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.source == nil {
		m.source = oauth2.ReuseTokenSource(nil, m.config.TokenSource(m.tokenContext(ctx)))
	}

	token, err := m.source.Token()
	if err != nil {
		return "", fmt.Errorf("requesting client credentials token: %w", err)
	}

	return token.AccessToken, nil
}

// RefreshToken discards the cached token and requests a new one.
func (m *ClientCredentialsTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	m.source = nil
	m.mu.Unlock()

	_, err := m.GetToken(ctx)

	return err
}

// SetToken seeds the cache with a token obtained elsewhere.
func (m *ClientCredentialsTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seed := &oauth2.Token{AccessToken: token, TokenType: "Bearer", Expiry: expiresAt}
	m.source = oauth2.ReuseTokenSource(seed, m.config.TokenSource(m.tokenContext(context.Background())))
}

// tokenContext detaches ctx from cancellation: the source outlives the call
// that created it and uses the context for every later refresh.
func (m *ClientCredentialsTokenManager) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, m.httpClient)
}
