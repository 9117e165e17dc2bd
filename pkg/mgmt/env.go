package mgmt

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every variable read by LoadConfigFromEnv.
const EnvPrefix = "MGMT_"

// LoadConfigFromEnv reads a Config from MGMT_* environment variables, e.g.
// MGMT_DOMAIN, MGMT_API_TOKEN, MGMT_CLIENT_ID and MGMT_HTTP_TIMEOUT.
func LoadConfigFromEnv() (*Config, error) {
	config := &Config{}

	err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return config, nil
}
