package di

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
)

// Module provides the plugin and its BuildContext to an fx app.
var Module = fx.Module("datadog",
	fx.Provide(constructors...),
)

// RunHook runs the pass registered for event in a short-lived fx app and
// returns the BuildContext it mutated.
func RunHook(ctx context.Context, flags globalConfig.Flags, event string, logger *zap.Logger, tracer trace.Tracer) (*plugin.BuildContext, error) {
	var bc *plugin.BuildContext

	app := fx.New(
		fx.Supply(flags),
		fx.Supply(logger),
		fx.Provide(func() trace.Tracer { return tracer }),
		Module,
		fx.Populate(&bc),
		fx.Invoke(func(lc fx.Lifecycle, p *plugin.Plugin, b *plugin.BuildContext) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return p.Run(ctx, event, b)
				},
			})
		}),
		fx.WithLogger(func() fxevent.Logger {
			if flags.Verbose {
				return &fxevent.ZapLogger{Logger: logger.Named("fx")}
			}
			return fxevent.NopLogger
		}),
		fx.StartTimeout(5*time.Minute),
		fx.StopTimeout(30*time.Second),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	if err := app.Start(ctx); err != nil {
		return bc, err
	}
	if err := app.Stop(ctx); err != nil {
		return bc, err
	}
	return bc, nil
}
