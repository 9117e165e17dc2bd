package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/mgmt-client/cmd/mgmt/commands"
	"github.com/fivetwenty-io/mgmt-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mgmt",
	Short: "Management API jobs CLI",
	Long: `A command-line interface for the management API jobs resource.

Export and import users, send verification emails and follow the
asynchronous jobs they create.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.mgmt/config.yml)")
	rootCmd.PersistentFlags().StringP("domain", "d", "", "tenant domain, e.g. tenant.example.com")
	rootCmd.PersistentFlags().StringP("token", "t", "", "management API token")
	rootCmd.PersistentFlags().String("client-id", "", "client ID for the client credentials grant")
	rootCmd.PersistentFlags().String("client-secret", "", "client secret for the client credentials grant")
	rootCmd.PersistentFlags().String("audience", "", "token audience (default is <domain>/api/v2/)")
	rootCmd.PersistentFlags().String("token-url", "", "token endpoint (default is <domain>/oauth/token)")
	rootCmd.PersistentFlags().Int("retries", 0, "retry failed requests up to this many times")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	for _, name := range []string{
		"config", "domain", "token", "client-id", "client-secret",
		"audience", "token-url", "retries", "output", "verbose",
	} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewJobsCommand())
}

func initConfig() {
	// A missing .env is fine; explicit environment variables win over it.
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".mgmt")
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		// Search config in ~/.mgmt/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match, e.g. MGMT_CLIENT_ID
	viper.SetEnvPrefix("MGMT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("token", "MGMT_API_TOKEN", "MGMT_TOKEN")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
