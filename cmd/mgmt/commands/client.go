package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmt"
	"github.com/fivetwenty-io/mgmt-client/pkg/mgmtclient"
)

// configFromViper maps the resolved flags, environment and config file
// settings onto a client config.
func configFromViper(v *viper.Viper) *mgmt.Config {
	return &mgmt.Config{
		Domain:       strings.TrimSpace(v.GetString("domain")),
		APIToken:     v.GetString("token"),
		ClientID:     v.GetString("client-id"),
		ClientSecret: v.GetString("client-secret"),
		Audience:     v.GetString("audience"),
		TokenURL:     v.GetString("token-url"),
		RetryMax:     v.GetInt("retries"),
		Debug:        v.GetBool("verbose"),
	}
}

// validateConfig rejects configurations the CLI cannot authenticate with.
func validateConfig(config *mgmt.Config) error {
	if config.Domain == "" {
		return constants.ErrNoDomainConfigured
	}

	if config.APIToken == "" && config.ClientID == "" {
		return constants.ErrNoCredentialsConfigured
	}

	return nil
}

// CreateClient creates a management API client from the global settings.
func CreateClient() (mgmt.Client, error) {
	config := configFromViper(viper.GetViper())

	err := validateConfig(config)
	if err != nil {
		return nil, err
	}

	if config.APIToken == "" && config.ClientSecret == "" {
		err = promptForClientSecret(config)
		if err != nil {
			return nil, err
		}
	}

	if config.Debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}

		config.Logger = mgmt.NewZapLogger(logger)
	}

	client, err := mgmtclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// promptForClientSecret asks for the secret when attached to a terminal. A
// non-interactive session leaves the secret empty, which the client rejects.
func promptForClientSecret(config *mgmt.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	_, err := os.Stderr.WriteString("Client Secret: ")
	if err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read client secret: %w", err)
	}

	_, _ = os.Stderr.WriteString("\n") // Add newline after password input

	config.ClientSecret = string(secretBytes)

	return nil
}
