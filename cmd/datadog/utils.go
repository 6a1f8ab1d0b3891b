package datadog

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/internal/di"
	"github.com/ignitionstack/serverless-datadog/internal/ui"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
	"github.com/ignitionstack/serverless-datadog/pkg/report"
)

// Session exposes the logger and tracer configured by the root command.
type Session interface {
	Logger() *zap.Logger
	Tracer() trace.Tracer
}

// writeService writes the mutated service definition. "-" is standard
// output; inPlace overwrites the file it was read from.
func writeService(bc *plugin.BuildContext, out string, inPlace bool, stdout io.Writer) error {
	if inPlace {
		path, err := di.ServiceFile(globalConfig.Global)
		if err != nil {
			return err
		}
		return bc.Service.Save(path)
	}

	if out == "" || out == "-" {
		data, err := bc.Service.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}
	return bc.Service.Save(out)
}

// printReport writes the invocation report to the UI writer.
func printReport(bc *plugin.BuildContext, format string) error {
	if format == "" || bc == nil || bc.Report == nil {
		return nil
	}
	data, err := bc.Report.Marshal(report.Format(format))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ui.Output(), "%s", data)
	return err
}
