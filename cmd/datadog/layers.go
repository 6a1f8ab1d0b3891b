package datadog

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/pkg/layer"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

func NewLayersCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "layers",
		Short: "List the layers available in a region",
		Long: `List the library and extension layers the plugin attaches in a region.

The region comes from --region, or defaults to us-east-1. Use --all to list
the regions the layer tables cover.`,
		Example: `  serverless-datadog datadog layers --region eu-west-1
  serverless-datadog datadog layers --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := layer.Load()
			if err != nil {
				return err
			}

			if all {
				t := ui.NewTable([]string{"REGION", "LAYERS"})
				for _, region := range table.RegionNames() {
					t.AddRow(region, strconv.Itoa(len(table.Regions[region])))
				}
				ui.PrintTable(t)
				return nil
			}

			region := globalConfig.Global.Region
			if region == "" {
				region = serverless.DefaultRegion
			}
			return printRegion(table, region)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every covered region")

	return cmd
}

func printRegion(table *layer.Table, region string) error {
	runtimes, ok := table.Regions[region]
	if !ok {
		return fmt.Errorf("no layers published in region %s", region)
	}

	keys := make([]string, 0, len(runtimes))
	for key := range runtimes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ui.PrintTitle(fmt.Sprintf("Layers in %s", region))
	t := ui.NewTable([]string{"RUNTIME", "ARN"})
	for _, key := range keys {
		t.AddRow(key, runtimes[key])
	}
	ui.PrintTable(t)
	return nil
}
