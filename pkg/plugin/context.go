package plugin

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/ignitionstack/serverless-datadog/pkg/config"
	"github.com/ignitionstack/serverless-datadog/pkg/layer"
	"github.com/ignitionstack/serverless-datadog/pkg/provider"
	"github.com/ignitionstack/serverless-datadog/pkg/report"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
	"github.com/ignitionstack/serverless-datadog/pkg/version"
)

// BuildContext is everything a pass reads or mutates during one invocation.
type BuildContext struct {
	Service *serverless.Service
	Config  *config.Configuration
	Stage   string
	Region  string
	Layers  *layer.Table

	// Template is the compiled CloudFormation template. It is nil until the
	// host has packaged the service.
	Template *serverless.CompiledTemplate

	Clients *provider.Clients
	Logger  *zap.Logger
	Tracer  trace.Tracer

	// Output receives human-facing text such as deployed monitor links.
	Output io.Writer

	InvocationID string
	Report       *report.Report
	Verbose      bool
}

func (bc *BuildContext) init(event string) {
	if bc.Logger == nil {
		bc.Logger = zap.NewNop()
	}
	if bc.Tracer == nil {
		bc.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if bc.Output == nil {
		bc.Output = io.Discard
	}
	if bc.InvocationID == "" {
		bc.InvocationID = uuid.NewString()
		bc.Logger = bc.Logger.With(zap.String("invocation", bc.InvocationID))
	}
	if bc.Report == nil {
		bc.Report = report.New(bc.InvocationID, event, version.Tag())
	}
	bc.Report.Event = event
	bc.Report.Stage = bc.Stage
	bc.Report.Region = bc.Region
}

// functions classifies every function that is not excluded.
func (bc *BuildContext) functions() []runtime.FunctionInfo {
	return runtime.FindHandlers(bc.Service, bc.Config.Exclude, bc.Service.Provider.Runtime)
}

// step runs fn inside a child span named name.
func (bc *BuildContext) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := bc.Tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (bc *BuildContext) validate() error {
	return bc.Config.Validate()
}
