package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/logging"
	"github.com/ignitionstack/serverless-datadog/internal/telemetry"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/pkg/version"
)

var (
	logger            *zap.Logger
	tracer            trace.Tracer
	shutdownTelemetry telemetry.ShutdownFunc
)

var rootCmd = &cobra.Command{
	Use:   "serverless-datadog",
	Short: "Instrument serverless functions with Datadog",
	Long: `serverless-datadog instruments the functions of a serverless service at
package time.

It runs as a plugin of the serverless framework lifecycle and:
* Adds the Datadog Lambda library and extension layers for the region
* Wraps handlers with the Datadog tracing wrapper
* Subscribes function log groups to the Datadog forwarder
* Tags functions with service, env and plugin version`,
	Example: `  # Run the pass registered for a lifecycle event
  serverless-datadog hook after:package:initialize --stage prod

  # Generate handler wrappers without packaging
  serverless-datadog datadog generate --show

  # Print the Datadog links of a deployed stack
  serverless-datadog datadog outputs --stage prod`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		// Any --plain in the command hierarchy disables styling.
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if f.Name == "plain" && f.Value.String() == "true" {
				globalConfig.Global.Plain = true
			}
		})
		ui.SetPlain(globalConfig.Global.Plain)

		verbose := logging.Verbose(globalConfig.Global.Verbose)
		globalConfig.Global.Verbose = verbose
		logger = logging.New(os.Stderr, verbose, globalConfig.Global.Plain)

		var err error
		tracer, shutdownTelemetry, err = telemetry.Init(globalConfig.Global.TracePasses, os.Stderr, version.Version)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		if shutdownTelemetry != nil {
			return shutdownTelemetry(context.Background())
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalConfig.Global.ServicePath, "service", "s", ".", "Service definition file or directory")
	flags.StringVar(&globalConfig.Global.SettingsFile, "settings", "", "YAML file with default plugin settings")
	flags.StringVar(&globalConfig.Global.Stage, "stage", "", "Stage (defaults to provider.stage, then dev)")
	flags.StringVarP(&globalConfig.Global.Region, "region", "r", "", "Region (defaults to provider.region, then us-east-1)")
	flags.StringVar(&globalConfig.Global.Profile, "aws-profile", "", "AWS shared configuration profile")
	flags.BoolVarP(&globalConfig.Global.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&globalConfig.Global.Plain, "plain", false, "Disable colors and spinners")
	flags.BoolVar(&globalConfig.Global.TracePasses, "trace-passes", false, "Print a trace of each pass to stderr")
}
