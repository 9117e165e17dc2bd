package mgmtclient

import (
	"fmt"

	"github.com/fivetwenty-io/mgmt-client/internal/client"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
)

// New creates a new management API client.
func New(config *mgmt.Config) (mgmt.Client, error) {
	if config == nil {
		return nil, mgmt.ErrConfigRequired
	}

	if config.Domain == "" {
		return nil, mgmt.ErrDomainRequired
	}

	c, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithToken creates a new client with a tenant domain and API token.
func NewWithToken(domain, token string) (mgmt.Client, error) {
	return New(&mgmt.Config{
		Domain:   domain,
		APIToken: token,
	})
}

// NewWithClientCredentials creates a new client using the OAuth2 client
// credentials grant.
func NewWithClientCredentials(domain, clientID, clientSecret string) (mgmt.Client, error) {
	return New(&mgmt.Config{
		Domain:       domain,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewFromEnv creates a new client from MGMT_* environment variables.
func NewFromEnv() (mgmt.Client, error) {
	config, err := mgmt.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	return New(config)
}
