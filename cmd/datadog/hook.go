package datadog

import (
	"github.com/spf13/cobra"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/di"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
)

func NewHookCommand(s Session) *cobra.Command {
	var (
		out          string
		inPlace      bool
		reportFormat string
	)

	cmd := &cobra.Command{
		Use:   "hook <event>",
		Short: "Run the pass registered for a lifecycle event",
		Long: `Run the instrumentation pass the plugin registers for a serverless
lifecycle event.

The service definition is read from --service, changed by the pass, and
written to --out (standard output by default) or back in place. Logs and
progress go to standard error.

Registered events:
* after:package:initialize, before:deploy:function:packageFunction,
  before:offline:start:init, before:step-functions-offline:start and
  after:datadog:generate:init add layers, tracing and handler wrappers
* after:package:createDeploymentArtifacts,
  after:deploy:function:packageFunction and after:datadog:clean:init
  subscribe the forwarder, tag functions and add output links
* after:deploy:deploy prints the Datadog links of the deployed stack`,
		Example: `  # Instrument before packaging and update serverless.yml
  serverless-datadog hook after:package:initialize --in-place

  # Print what changed as YAML
  serverless-datadog hook after:package:createDeploymentArtifacts --report yaml --out /dev/null`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return plugin.New().Events(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			event := args[0]

			bc, err := di.RunHook(cmd.Context(), globalConfig.Global, event, s.Logger(), s.Tracer())
			if err != nil {
				return err
			}

			if event != plugin.EventDeploy {
				if err := writeService(bc, out, inPlace, cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return printReport(bc, reportFormat)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "Where to write the service definition (- for stdout)")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Overwrite the service definition file")
	cmd.Flags().StringVar(&reportFormat, "report", "", "Print a report of the changes (yaml, toml or json)")

	return cmd
}
