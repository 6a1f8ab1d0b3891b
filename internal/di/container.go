package di

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/dig"
	"go.uber.org/zap"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	"github.com/ignitionstack/serverless-datadog/pkg/config"
	"github.com/ignitionstack/serverless-datadog/pkg/layer"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
	"github.com/ignitionstack/serverless-datadog/pkg/provider"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

// BuildContainer registers everything a hook invocation needs.
func BuildContainer(flags globalConfig.Flags, logger *zap.Logger, tracer trace.Tracer) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() globalConfig.Flags { return flags }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *zap.Logger { return logger }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() trace.Tracer { return tracer }); err != nil {
		return nil, err
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}
	return container, nil
}

// GetBuildContext retrieves the BuildContext from the container.
func GetBuildContext(container *dig.Container) (*plugin.BuildContext, error) {
	var bc *plugin.BuildContext
	if err := container.Invoke(func(b *plugin.BuildContext) {
		bc = b
	}); err != nil {
		return nil, err
	}
	return bc, nil
}

// constructors are shared by the dig container and the fx module.
var constructors = []interface{}{
	ProvideService,
	ProvideConfiguration,
	ProvideLayers,
	ProvideClients,
	ProvideTemplate,
	ProvideBuildContext,
	plugin.New,
}

// ServiceFile resolves the service definition named by the flags: the file
// itself, or the default definition inside a directory.
func ServiceFile(flags globalConfig.Flags) (string, error) {
	path := flags.ServicePath
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return path, nil
	}
	return serverless.Find(path)
}

// ProvideService loads the service definition named by the flags.
func ProvideService(flags globalConfig.Flags) (*serverless.Service, error) {
	path, err := ServiceFile(flags)
	if err != nil {
		return nil, err
	}
	return serverless.Load(path)
}

// ProvideConfiguration loads the plugin configuration of the service.
func ProvideConfiguration(flags globalConfig.Flags, svc *serverless.Service, logger *zap.Logger) (*config.Configuration, error) {
	settings := flags.SettingsFile
	if settings == "" {
		settings = globalConfig.DefaultSettingsFile()
	}
	return config.Load(svc, config.Options{SettingsFile: settings, Logger: logger})
}

// ProvideLayers loads the embedded layer tables.
func ProvideLayers() (*layer.Table, error) {
	return layer.Load()
}

// ProvideClients builds the AWS clients for the resolved region. A broken
// AWS configuration only matters to passes that call AWS, so it yields nil
// clients instead of failing the invocation.
func ProvideClients(flags globalConfig.Flags, svc *serverless.Service, logger *zap.Logger) *provider.Clients {
	profile := flags.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	clients, err := provider.NewClients(context.Background(), svc.ResolveRegion(flags.Region), profile)
	if err != nil {
		logger.Debug("AWS clients unavailable", zap.Error(err))
		return nil
	}
	return clients
}

// ProvideTemplate loads the compiled template, nil before packaging.
func ProvideTemplate(svc *serverless.Service) (*serverless.CompiledTemplate, error) {
	tmpl, err := serverless.LoadCompiledTemplate(svc.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load compiled template: %w", err)
	}
	return tmpl, nil
}

// BuildContextParams groups the BuildContext dependencies.
type BuildContextParams struct {
	dig.In

	Flags    globalConfig.Flags
	Service  *serverless.Service
	Config   *config.Configuration
	Layers   *layer.Table
	Clients  *provider.Clients
	Template *serverless.CompiledTemplate
	Logger   *zap.Logger
	Tracer   trace.Tracer
}

// ProvideBuildContext assembles the state of one invocation.
func ProvideBuildContext(p BuildContextParams) *plugin.BuildContext {
	return &plugin.BuildContext{
		Service:  p.Service,
		Config:   p.Config,
		Stage:    p.Service.ResolveStage(p.Flags.Stage),
		Region:   p.Service.ResolveRegion(p.Flags.Region),
		Layers:   p.Layers,
		Template: p.Template,
		Clients:  p.Clients,
		Logger:   p.Logger,
		Tracer:   p.Tracer,
		Output:   os.Stderr,
		Verbose:  p.Flags.Verbose,
	}
}
