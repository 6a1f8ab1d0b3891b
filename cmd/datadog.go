package cmd

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ignitionstack/serverless-datadog/cmd/datadog"
)

// session hands the root command's logger and tracer to sub-commands.
type session struct{}

func (session) Logger() *zap.Logger { return logger }
func (session) Tracer() trace.Tracer { return tracer }

var datadogCmd = &cobra.Command{
	Use:   "datadog",
	Short: "Run Datadog instrumentation steps by hand",
	Long: `Commands for running the instrumentation steps outside of a full package.

They are not necessary in most cases, since the lifecycle hooks run the same
steps during packaging:
* generate writes the handler wrappers and adds layers
* clean removes the handler wrappers and tags functions
* outputs prints the Datadog links of a deployed stack
* layers lists the layers available in a region
* init adds a custom.datadog block to the service`,
	Example: `  # Generate wrappers and show them
  serverless-datadog datadog generate --show

  # List layers for a region
  serverless-datadog datadog layers --region eu-west-1`,
	Aliases: []string{"dd"},
}

func init() {
	s := session{}

	rootCmd.AddCommand(datadog.NewHookCommand(s))

	datadogCmd.AddCommand(datadog.NewGenerateCommand(s))
	datadogCmd.AddCommand(datadog.NewCleanCommand(s))
	datadogCmd.AddCommand(datadog.NewOutputsCommand(s))
	datadogCmd.AddCommand(datadog.NewLayersCommand())
	datadogCmd.AddCommand(datadog.NewInitCommand())
	rootCmd.AddCommand(datadogCmd)
}
