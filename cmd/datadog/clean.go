package datadog

import (
	"github.com/spf13/cobra"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/di"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
)

func NewCleanCommand(s Session) *cobra.Command {
	var (
		inPlace      bool
		reportFormat string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the handler wrappers and tag functions",
		Long: `Run the post-packaging pass without packaging the service.

The datadog_handlers directory is removed and functions are tagged. When a
compiled template exists the forwarder subscriptions and output links are
added to it as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bc, err := di.RunHook(cmd.Context(), globalConfig.Global, plugin.EventClean, s.Logger(), s.Tracer())
			if err != nil {
				return err
			}

			if err := writeService(bc, "-", inPlace, cmd.OutOrStdout()); err != nil {
				return err
			}
			if inPlace {
				ui.PrintSuccess("Removed handler wrappers")
			}
			return printReport(bc, reportFormat)
		},
	}

	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Overwrite the service definition file")
	cmd.Flags().StringVar(&reportFormat, "report", "", "Print a report of the changes (yaml, toml or json)")

	return cmd
}
