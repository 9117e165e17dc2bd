package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Built   string `json:"built"   yaml:"built"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the mgmt CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), versionInfo,
				func(table *tablewriter.Table) error {
					table.Header("Property", "Value")

					for _, row := range [][]string{
						{"Version", versionInfo.Version},
						{"Commit", versionInfo.Commit},
						{"Built", versionInfo.Built},
					} {
						err := table.Append(row)
						if err != nil {
							return fmt.Errorf("appending row: %w", err)
						}
					}

					return nil
				})
		},
	}
}
