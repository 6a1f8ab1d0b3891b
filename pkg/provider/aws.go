// Package provider exposes the narrow slices of the AWS SDK the plugin uses.
package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// LogsAPI is the CloudWatch Logs call used to inspect existing subscriptions.
type LogsAPI interface {
	DescribeSubscriptionFilters(ctx context.Context, params *cloudwatchlogs.DescribeSubscriptionFiltersInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeSubscriptionFiltersOutput, error)
}

// FunctionsAPI is the Lambda call used to validate the forwarder.
type FunctionsAPI interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// StacksAPI is the CloudFormation call used to read stack outputs.
type StacksAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// Clients bundles the provider APIs. Any field may be replaced in tests.
type Clients struct {
	Logs      LogsAPI
	Functions FunctionsAPI
	Stacks    StacksAPI
}

// newClients is overwritten in tests.
var newClients = func(cfg aws.Config) *Clients {
	return &Clients{
		Logs:      cloudwatchlogs.NewFromConfig(cfg),
		Functions: lambda.NewFromConfig(cfg),
		Stacks:    cloudformation.NewFromConfig(cfg),
	}
}

// NewClients loads the shared AWS configuration for region and profile and
// builds the clients. An empty profile uses the default credential chain.
func NewClients(ctx context.Context, region, profile string) (*Clients, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return newClients(cfg), nil
}
