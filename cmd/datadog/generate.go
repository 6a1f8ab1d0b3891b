package datadog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/di"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
)

func NewGenerateCommand(s Session) *cobra.Command {
	var (
		show         bool
		inPlace      bool
		reportFormat string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Add layers and write the handler wrappers",
		Long: `Run the pre-packaging pass without packaging the service.

The handler wrappers are written to the datadog_handlers directory of the
service and the changed definition is printed, unless --in-place is set.`,
		Example: `  # Generate wrappers and print them
  serverless-datadog datadog generate --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bc, err := di.RunHook(cmd.Context(), globalConfig.Global, plugin.EventGenerate, s.Logger(), s.Tracer())
			if err != nil {
				return err
			}

			if show {
				if err := showShims(bc.Service.Dir); err != nil {
					return err
				}
			}

			if inPlace || !show {
				if err := writeService(bc, "-", inPlace, cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return printReport(bc, reportFormat)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the generated wrappers instead of the service definition")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Overwrite the service definition file")
	cmd.Flags().StringVar(&reportFormat, "report", "", "Print a report of the changes (yaml, toml or json)")

	return cmd
}

var shimLanguages = map[string]string{
	".js": "javascript",
	".py": "python",
}

func showShims(serviceDir string) error {
	dir := filepath.Join(serviceDir, runtime.WrapperDirectory)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			ui.PrintWarning("No handlers were wrapped")
			return nil
		}
		return fmt.Errorf("failed to list wrappers: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		source, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read wrapper %s: %w", name, err)
		}
		ui.PrintTitle(filepath.ToSlash(filepath.Join(runtime.WrapperDirectory, name)))
		language := shimLanguages[strings.ToLower(filepath.Ext(name))]
		fmt.Fprintln(ui.Output(), ui.Highlight(string(source), language))
	}
	return nil
}
