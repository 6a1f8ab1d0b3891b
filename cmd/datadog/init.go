package datadog

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/di"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/pkg/config"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

// initAnswers are the values collected by `datadog init`.
type initAnswers struct {
	Site         string
	AddExtension bool
	APIKey       string
	ForwarderArn string
	XRay         bool
	DDTrace      bool
}

func NewInitCommand() *cobra.Command {
	var (
		answers initAnswers
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Add a custom.datadog block to the service",
		Long: `Write a custom.datadog block to the service definition.

Without --yes the values are asked for interactively. An existing block is
updated, keys it already has and that are not asked for are kept.`,
		Example: `  # Ask for the values
  serverless-datadog datadog init

  # Use the extension without prompting
  serverless-datadog datadog init --yes --extension --site datadoghq.eu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := di.ServiceFile(globalConfig.Global)
			if err != nil {
				return err
			}
			svc, err := serverless.Load(path)
			if err != nil {
				return err
			}

			if !yes && !ui.IsPlain() {
				if err := askInit(&answers); err != nil {
					return err
				}
			}

			mergeCustomBlock(svc, answers.block())

			cfg, err := config.Load(svc, config.Options{})
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := svc.Save(path); err != nil {
				return err
			}
			ui.PrintSuccess(fmt.Sprintf("Updated %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not prompt, use the flag values")
	cmd.Flags().StringVar(&answers.Site, "site", config.DefaultSite, "Datadog site")
	cmd.Flags().BoolVar(&answers.AddExtension, "extension", false, "Send telemetry through the extension layer")
	cmd.Flags().StringVar(&answers.APIKey, "api-key", "", "Datadog API key")
	cmd.Flags().StringVar(&answers.ForwarderArn, "forwarder-arn", "", "ARN of the log forwarder function")
	cmd.Flags().BoolVar(&answers.XRay, "xray", false, "Enable X-Ray tracing")
	cmd.Flags().BoolVar(&answers.DDTrace, "dd-trace", true, "Enable Datadog tracing")

	return cmd
}

func askInit(answers *initAnswers) error {
	baseStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ui.InfoColor))
	theme := huh.ThemeBase()
	theme.Focused.Title = baseStyle.Bold(true)
	theme.Focused.SelectSelector = baseStyle

	sites := make([]huh.Option[string], 0, len(config.Sites))
	for _, site := range config.Sites {
		sites = append(sites, huh.NewOption(site, site))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Datadog site").
				Options(sites...).
				Value(&answers.Site),
			huh.NewConfirm().
				Title("Send telemetry through the Datadog extension?").
				Value(&answers.AddExtension),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Datadog API key").
				Description("Leave empty to read DD_API_KEY at deploy time").
				EchoMode(huh.EchoModePassword).
				Value(&answers.APIKey),
		).WithHideFunc(func() bool { return !answers.AddExtension }),
		huh.NewGroup(
			huh.NewInput().
				Title("Forwarder ARN").
				Description("Leave empty to skip log subscriptions").
				Value(&answers.ForwarderArn),
		).WithHideFunc(func() bool { return answers.AddExtension }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable X-Ray tracing?").
				Value(&answers.XRay),
			huh.NewConfirm().
				Title("Enable Datadog tracing?").
				Value(&answers.DDTrace),
		),
	)

	if err := form.WithTheme(theme).Run(); err != nil {
		return fmt.Errorf("error during configuration: %w", err)
	}
	return nil
}

// block renders the answers as a custom.datadog block.
func (a initAnswers) block() map[string]interface{} {
	block := map[string]interface{}{
		"site":              a.Site,
		"addExtension":      a.AddExtension,
		"enableXrayTracing": a.XRay,
		"enableDDTracing":   a.DDTrace,
	}
	if a.AddExtension {
		if a.APIKey != "" {
			block["apiKey"] = a.APIKey
		}
	} else if a.ForwarderArn != "" {
		block["forwarderArn"] = a.ForwarderArn
	}
	return block
}

// mergeCustomBlock writes block over the existing custom.datadog entries.
func mergeCustomBlock(svc *serverless.Service, block map[string]interface{}) {
	if svc.Custom == nil {
		svc.Custom = map[string]interface{}{}
	}
	existing, _ := svc.Custom[config.CustomKey].(map[string]interface{})
	if existing == nil {
		existing = map[string]interface{}{}
	}
	for key, value := range block {
		existing[key] = value
	}
	if _, ok := block["forwarderArn"]; !ok {
		if block["addExtension"] == true {
			delete(existing, "forwarderArn")
			delete(existing, "forwarder")
		}
	}
	svc.Custom[config.CustomKey] = existing
}
