// Package forwarder subscribes function log groups to the log forwarder.
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ignitionstack/serverless-datadog/pkg/config"
	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/provider"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

const (
	LogGroupType           = "AWS::Logs::LogGroup"
	SubscriptionFilterType = "AWS::Logs::SubscriptionFilter"

	// MaxSubscriptionFilters is the CloudWatch Logs limit per log group.
	MaxSubscriptionFilters = 2
)

// Resolve returns the configured forwarder, rejecting configurations that
// set both forms. Empty strings count as unset; nil means no forwarder.
func Resolve(forwarder, forwarderArn interface{}) (interface{}, error) {
	switch {
	case config.IsSet(forwarder) && config.IsSet(forwarderArn):
		return nil, dderrors.ErrConflictingForwarder
	case config.IsSet(forwarderArn):
		return forwarderArn, nil
	case config.IsSet(forwarder):
		return forwarder, nil
	default:
		return nil, nil
	}
}

// Result is the outcome of a subscription pass.
type Result struct {
	Subscribed []string
	// Failures accumulates per-function errors; nil when every function
	// could be handled.
	Failures error
}

// Subscriber adds subscription filter resources to a compiled template.
type Subscriber struct {
	logs      provider.LogsAPI
	functions provider.FunctionsAPI
	logger    *zap.Logger
}

// NewSubscriber creates a Subscriber backed by the given APIs.
func NewSubscriber(logs provider.LogsAPI, functions provider.FunctionsAPI, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{logs: logs, functions: functions, logger: logger}
}

// Subscribe adds a `<LogGroup>Subscription` resource for every function
// whose log group is in tmpl. Per-function problems are collected in
// Result.Failures; the returned error is reserved for a forwarder that
// cannot be validated.
func (s *Subscriber) Subscribe(ctx context.Context, tmpl *serverless.CompiledTemplate, svc *serverless.Service, infos []runtime.FunctionInfo, stage string, target interface{}) (Result, error) {
	var result Result

	if tmpl == nil {
		s.logger.Info(dderrors.ErrNoCompiledTemplate.Error())
		return result, nil
	}

	if arn, ok := target.(string); ok {
		if err := s.validate(ctx, arn); err != nil {
			return result, err
		}
	} else {
		s.logger.Info("Skipping forwarder ARN validation because forwarder string defined with CloudFormation function")
	}

	stackName := svc.StackName(stage)
	for _, info := range infos {
		logGroupID := serverless.LogGroupLogicalID(info.Name)
		if _, kind, ok := tmpl.Resource(logGroupID); !ok || kind != LogGroupType {
			continue
		}

		logGroupName := serverless.LogGroupName(svc.DeployedFunctionName(info.Name, stage))
		filters := s.existingFilters(ctx, logGroupName)

		subscriptionID := logGroupID + "Subscription"
		if !canSubscribe(filters, stackName+"-"+subscriptionID+"-") {
			err := dderrors.Wrap(dderrors.DomainForwarder, dderrors.CodeSubscriptionFailed,
				fmt.Sprintf("could not subscribe %s", logGroupName),
				dderrors.ErrTooManySubscriptions).WithFunction(info.Name)
			result.Failures = multierr.Append(result.Failures, err)
			continue
		}

		tmpl.SetResource(subscriptionID, map[string]interface{}{
			"Type": SubscriptionFilterType,
			"Properties": map[string]interface{}{
				"DestinationArn": target,
				"FilterPattern":  "",
				"LogGroupName":   map[string]interface{}{"Ref": logGroupID},
			},
		})
		result.Subscribed = append(result.Subscribed, info.Name)
	}

	return result, nil
}

func (s *Subscriber) validate(ctx context.Context, arn string) error {
	if s.functions == nil {
		return dderrors.ErrNoProviderClients
	}
	if _, err := s.functions.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(arn)}); err != nil {
		return dderrors.Wrap(dderrors.DomainForwarder, dderrors.CodeValidationFailed,
			dderrors.ErrForwarderValidation.Error(), errors.Join(dderrors.ErrForwarderValidation, err))
	}
	return nil
}

// existingFilters lists filter names on a log group. A log group that does
// not exist yet, or any other describe failure, counts as having none.
func (s *Subscriber) existingFilters(ctx context.Context, logGroupName string) []string {
	if s.logs == nil {
		return nil
	}
	out, err := s.logs.DescribeSubscriptionFilters(ctx, &cloudwatchlogs.DescribeSubscriptionFiltersInput{
		LogGroupName: aws.String(logGroupName),
	})
	if err != nil {
		s.logger.Debug("could not describe subscription filters",
			zap.String("logGroup", logGroupName), zap.Error(err))
		return nil
	}

	names := make([]string, 0, len(out.SubscriptionFilters))
	for _, f := range out.SubscriptionFilters {
		names = append(names, aws.ToString(f.FilterName))
	}
	return names
}

func canSubscribe(filters []string, expectedPrefix string) bool {
	for _, name := range filters {
		if strings.HasPrefix(name, expectedPrefix) {
			return true
		}
	}
	return len(filters) < MaxSubscriptionFilters
}
