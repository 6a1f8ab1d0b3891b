package plugin

import (
	"context"

	"github.com/ignitionstack/serverless-datadog/pkg/output"
)

// AfterDeploy prints the monitor links of the deployed stack.
func AfterDeploy(ctx context.Context, bc *BuildContext) error {
	if !bc.Config.Enabled {
		return nil
	}
	if bc.Clients == nil {
		bc.Logger.Debug("no provider clients, skipping outputs")
		return nil
	}

	links := output.FetchLinks(ctx, bc.Clients.Stacks, bc.Service.StackName(bc.Stage), bc.Logger)
	for _, link := range links {
		bc.Report.Outputs = append(bc.Report.Outputs, link.URL)
	}
	return output.Print(bc.Output, links)
}
