package datadog

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/di"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/internal/ui/operations"
	pluginErrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/output"
)

func NewOutputsCommand(s Session) *cobra.Command {
	var copyLinks bool

	cmd := &cobra.Command{
		Use:     "outputs",
		Aliases: []string{"links"},
		Short:   "Print the Datadog links of the deployed stack",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := di.BuildContainer(globalConfig.Global, s.Logger(), s.Tracer())
			if err != nil {
				return err
			}
			bc, err := di.GetBuildContext(container)
			if err != nil {
				return err
			}
			if bc.Clients == nil {
				return pluginErrors.ErrNoProviderClients
			}

			stackName := bc.Service.StackName(bc.Stage)
			result, err := operations.WithSpinner(cmd.Context(), "Describing "+stackName, func(ctx context.Context) (interface{}, error) {
				return output.FetchLinks(ctx, bc.Clients.Stacks, stackName, bc.Logger), nil
			})
			if err != nil {
				return err
			}

			links, ok := result.([]output.StackLink)
			if !ok {
				return fmt.Errorf("unexpected result type")
			}
			if len(links) == 0 {
				ui.PrintWarning(fmt.Sprintf("No Datadog outputs found on stack %s", stackName))
				return nil
			}

			ui.PrintTitle("Datadog Monitoring")
			urls := make([]string, 0, len(links))
			for _, link := range links {
				ui.PrintLink(link.Description, link.URL)
				urls = append(urls, link.URL)
			}

			if copyLinks {
				if err := clipboard.WriteAll(strings.Join(urls, "\n")); err != nil {
					return fmt.Errorf("failed to copy links: %w", err)
				}
				ui.PrintSuccess("Copied links to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyLinks, "copy", false, "Copy the links to the clipboard")

	return cmd
}
