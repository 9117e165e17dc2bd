package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/mgmt-client/internal/constants"
)

// configFs is where the config file is written.
var configFs = afero.NewOsFs() //nolint:gochecknoglobals

// settingKeys are the keys that can be persisted with config set.
var settingKeys = []string{ //nolint:gochecknoglobals
	"domain", "token", "client-id", "client-secret", "audience", "token-url", "retries", "output",
}

// Config represents the persisted CLI configuration.
type Config struct {
	Domain       string `json:"domain,omitempty"        yaml:"domain,omitempty"`
	Token        string `json:"token,omitempty"         yaml:"token,omitempty"`
	ClientID     string `json:"client-id,omitempty"     yaml:"client-id,omitempty"`
	ClientSecret string `json:"client-secret,omitempty" yaml:"client-secret,omitempty"`
	Audience     string `json:"audience,omitempty"      yaml:"audience,omitempty"`
	TokenURL     string `json:"token-url,omitempty"     yaml:"token-url,omitempty"`
	Retries      int    `json:"retries,omitempty"       yaml:"retries,omitempty"`
	Output       string `json:"output,omitempty"        yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the settings stored in ~/.mgmt/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig(viper.GetViper())
			config.Token = maskSecret(config.Token)
			config.ClientSecret = maskSecret(config.ClientSecret)

			return writeOutput(cmd.OutOrStdout(), outputFormat(), config, configTable(config))
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Persist a setting. Valid keys: domain, token, client-id, client-secret, audience, token-url, retries, output",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !slices.Contains(settingKeys, key) {
				return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
			}

			v := viper.GetViper()
			v.Set(key, value)

			path, err := configFilePath(v)
			if err != nil {
				return err
			}

			err = saveConfig(configFs, path, loadConfig(v))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)

			return nil
		},
	}
}

// loadConfig reads the persisted settings from v.
func loadConfig(v *viper.Viper) *Config {
	return &Config{
		Domain:       v.GetString("domain"),
		Token:        v.GetString("token"),
		ClientID:     v.GetString("client-id"),
		ClientSecret: v.GetString("client-secret"),
		Audience:     v.GetString("audience"),
		TokenURL:     v.GetString("token-url"),
		Retries:      v.GetInt("retries"),
		Output:       v.GetString("output"),
	}
}

// configFilePath returns the config file in use, or ~/.mgmt/config.yml.
func configFilePath(v *viper.Viper) (string, error) {
	configFile := v.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".mgmt", "config.yml"), nil
}

// saveConfig writes config as YAML, readable only by the owner.
func saveConfig(fs afero.Fs, path string, config *Config) error {
	err := fs.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = afero.WriteFile(fs, path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func configTable(config *Config) tableFunc {
	return func(table *tablewriter.Table) error {
		table.Header("Property", "Value")

		rows := [][]string{
			{"Domain", valueOrNA(config.Domain)},
			{"Token", valueOrNA(config.Token)},
			{"Client ID", valueOrNA(config.ClientID)},
			{"Client Secret", valueOrNA(config.ClientSecret)},
			{"Audience", valueOrNA(config.Audience)},
			{"Token URL", valueOrNA(config.TokenURL)},
			{"Retries", fmt.Sprint(config.Retries)},
			{"Output", valueOrNA(config.Output)},
		}

		for _, row := range rows {
			err := table.Append(row)
			if err != nil {
				return fmt.Errorf("appending row: %w", err)
			}
		}

		return nil
	}
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
