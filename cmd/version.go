package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignitionstack/serverless-datadog/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the plugin version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Tag())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
