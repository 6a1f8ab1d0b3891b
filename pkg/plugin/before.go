package plugin

import (
	"context"

	"go.uber.org/zap"

	"github.com/ignitionstack/serverless-datadog/pkg/handler"
	"github.com/ignitionstack/serverless-datadog/pkg/layer"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/sourcecode"
	"github.com/ignitionstack/serverless-datadog/pkg/tracing"
)

// BeforePackage adds layers, environment and tracing settings, and wraps
// handlers, before the host packages the service.
func BeforePackage(ctx context.Context, bc *BuildContext) error {
	cfg := bc.Config
	if !cfg.Enabled {
		bc.Logger.Debug("plugin disabled, skipping")
		return nil
	}

	bc.Logger.Info("Auto instrumenting functions with Datadog")
	if err := bc.validate(); err != nil {
		return err
	}

	set := cfg.ApplyEnvironment(bc.Service)
	bc.Logger.Debug("provider environment updated", zap.Strings("variables", set))

	infos := bc.functions()
	for _, info := range infos {
		bc.Report.Function(info.Name, info.Runtime)
	}

	if cfg.AddLayers {
		bc.Logger.Info("Adding Lambda Library Layers to functions")
		bc.logUnsupported(infos)
		bc.recordLayers(layer.ApplyLibraryLayers(bc.Region, infos, bc.Layers))
		if bc.Service.HasPlugin(WebpackPlugin) {
			forceExcludeDepsFromWebpack(bc.Service)
		}
	} else {
		bc.Logger.Info("Skipping adding Lambda Library Layers, make sure you are packaging them yourself")
	}

	if cfg.AddExtension {
		bc.Logger.Info("Adding Datadog Lambda Extension Layer to functions")
		bc.logUnsupported(infos)
		bc.recordLayers(layer.ApplyExtensionLayer(bc.Region, infos, bc.Layers))
	} else {
		bc.Logger.Info("Skipping adding Lambda Extension Layer")
	}

	mode := tracing.ModeFromFlags(cfg.EnableXrayTracing, cfg.EnableDDTracing)
	bc.Logger.Debug("enabling tracing", zap.Stringer("mode", mode))
	tracing.Enable(bc.Service, infos, mode)

	if cfg.EnableSourceCodeIntegration {
		bc.addSourceCodeMetadata(infos)
	}

	if !cfg.AddLayers {
		return nil
	}
	return bc.step(ctx, "handlers", func(context.Context) error {
		rewrites, err := handler.NewRewriter(bc.Service.Dir, bc.Logger).Apply(infos)
		for _, rw := range rewrites {
			fn := bc.Report.Function(rw.Function, "")
			fn.Handler = rw.Handler
			fn.Original = rw.Original
		}
		return err
	})
}

func (bc *BuildContext) recordLayers(attached []layer.Attachment) {
	for _, a := range attached {
		fn := bc.Report.Function(a.Function, "")
		fn.Layers = append(fn.Layers, a.ARN)
	}
}

func (bc *BuildContext) logUnsupported(infos []runtime.FunctionInfo) {
	for _, info := range infos {
		if info.Type.Supported() {
			continue
		}
		bc.Report.Function(info.Name, info.Runtime).Skipped = "unsupported runtime"
		if !bc.Verbose {
			continue
		}
		if info.Runtime == "" {
			bc.Logger.Info("Unable to determine runtime for function", zap.String("function", info.Name))
		} else {
			bc.Logger.Info("Unable to add Lambda Layers to function",
				zap.String("function", info.Name), zap.String("runtime", info.Runtime))
		}
	}
}

func (bc *BuildContext) addSourceCodeMetadata(infos []runtime.FunctionInfo) {
	meta, err := sourcecode.Resolve(bc.Service.Dir)
	if err != nil {
		bc.Logger.Debug("skipping source code integration", zap.Error(err))
		return
	}
	changed := sourcecode.Apply(infos, meta)
	bc.Logger.Debug("added source code metadata",
		zap.String("commit", meta.CommitSHA), zap.Int("functions", changed))
}
