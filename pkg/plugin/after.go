package plugin

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/forwarder"
	"github.com/ignitionstack/serverless-datadog/pkg/handler"
	"github.com/ignitionstack/serverless-datadog/pkg/output"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/tags"
	"github.com/ignitionstack/serverless-datadog/pkg/version"
)

// AfterPackage subscribes log groups, tags functions, removes generated
// shims and adds monitor links once the service has been packaged.
func AfterPackage(ctx context.Context, bc *BuildContext) error {
	cfg := bc.Config
	if !cfg.Enabled {
		bc.Logger.Debug("plugin disabled, skipping")
		return nil
	}
	if err := bc.validate(); err != nil {
		return err
	}

	infos := bc.functions()

	if !cfg.AddExtension && cfg.HasForwarder() {
		if err := bc.step(ctx, "forwarder", func(ctx context.Context) error {
			return bc.subscribeForwarder(ctx, infos)
		}); err != nil {
			return err
		}
	}

	tag := version.Tag()
	bc.Logger.Info("Adding Plugin Version " + tag)
	bc.recordTags(tags.AddPluginVersion(infos, tag))

	if cfg.EnableTags {
		bc.Logger.Info("Adding service and environment tags to functions")
		bc.recordTags(tags.AddServiceAndEnv(bc.Service, infos, bc.Stage))
	}

	if err := handler.Clean(bc.Service.Dir); err != nil {
		return dderrors.Wrap(dderrors.DomainHandler, dderrors.CodeWriteFailed, "failed to clean handler shims", err)
	}

	if bc.Template == nil {
		bc.Logger.Debug("no compiled template, skipping output links")
		return nil
	}

	links := output.AddLinks(bc.Template, bc.Service, infos, bc.Stage, cfg.Site)
	for _, link := range links {
		bc.Report.Outputs = append(bc.Report.Outputs, link.URL)
	}

	if bc.Template.Path() == "" {
		return nil
	}
	if err := bc.Template.Save(); err != nil {
		return dderrors.Wrap(dderrors.DomainOutput, dderrors.CodeWriteFailed, "failed to save compiled template", err)
	}
	return nil
}

func (bc *BuildContext) subscribeForwarder(ctx context.Context, infos []runtime.FunctionInfo) error {
	target, err := forwarder.Resolve(bc.Config.Forwarder, bc.Config.ForwarderArn)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}

	if bc.Template == nil {
		bc.Logger.Info(dderrors.ErrNoCompiledTemplate.Error())
		return nil
	}
	if bc.Clients == nil {
		return dderrors.ErrNoProviderClients
	}

	sub := forwarder.NewSubscriber(bc.Clients.Logs, bc.Clients.Functions, bc.Logger)
	result, err := sub.Subscribe(ctx, bc.Template, bc.Service, infos, bc.Stage, target)
	if err != nil {
		return err
	}

	bc.Report.Subscribed = append(bc.Report.Subscribed, result.Subscribed...)
	for _, failure := range multierr.Errors(result.Failures) {
		bc.Logger.Warn(failure.Error())
		bc.Report.AddError(failure)
	}
	bc.Logger.Debug("forwarder subscriptions added", zap.Strings("functions", result.Subscribed))
	return nil
}

func (bc *BuildContext) recordTags(changes []tags.Change) {
	for _, c := range changes {
		fn := bc.Report.Function(c.Function, "")
		fn.Tags = append(fn.Tags, fmt.Sprintf("%s:%s", c.Key, c.Value))
	}
}
