// Package plugin wires the instrumentation passes to the host's lifecycle
// events.
package plugin

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
)

// HookFunc is one lifecycle pass.
type HookFunc func(ctx context.Context, bc *BuildContext) error

// Lifecycle events the plugin registers for.
const (
	EventPackageInitialize           = "after:package:initialize"
	EventBeforeDeployFunctionPackage = "before:deploy:function:packageFunction"
	EventOfflineStart                = "before:offline:start:init"
	EventStepFunctionsOfflineStart   = "before:step-functions-offline:start"
	EventGenerate                    = "after:datadog:generate:init"
	EventCreateDeploymentArtifacts   = "after:package:createDeploymentArtifacts"
	EventAfterDeployFunctionPackage  = "after:deploy:function:packageFunction"
	EventClean                       = "after:datadog:clean:init"
	EventDeploy                      = "after:deploy:deploy"
)

// Plugin dispatches lifecycle events to passes.
type Plugin struct {
	hooks map[string]HookFunc
}

// New returns the plugin with its hook table registered.
func New() *Plugin {
	return &Plugin{hooks: map[string]HookFunc{
		EventPackageInitialize:           BeforePackage,
		EventBeforeDeployFunctionPackage: BeforePackage,
		EventOfflineStart:                BeforePackage,
		EventStepFunctionsOfflineStart:   BeforePackage,
		EventGenerate:                    BeforePackage,
		EventCreateDeploymentArtifacts:   AfterPackage,
		EventAfterDeployFunctionPackage:  AfterPackage,
		EventClean:                       AfterPackage,
		EventDeploy:                      AfterDeploy,
	}}
}

// Events lists the registered events, sorted.
func (p *Plugin) Events() []string {
	events := make([]string, 0, len(p.hooks))
	for event := range p.hooks {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}

// Handles reports whether event is registered.
func (p *Plugin) Handles(event string) bool {
	_, ok := p.hooks[event]
	return ok
}

// Run executes the pass registered for event.
func (p *Plugin) Run(ctx context.Context, event string, bc *BuildContext) error {
	hook, ok := p.hooks[event]
	if !ok {
		return fmt.Errorf("%w: %s", dderrors.ErrUnknownHook, event)
	}

	bc.init(event)

	ctx, span := bc.Tracer.Start(ctx, event)
	defer span.End()
	span.SetAttributes(
		attribute.String("invocation.id", bc.InvocationID),
		attribute.String("stage", bc.Stage),
		attribute.String("region", bc.Region),
	)

	if err := hook(ctx, bc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
