package forwarder

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

type mockLogs struct {
	mock.Mock
}

func (m *mockLogs) DescribeSubscriptionFilters(ctx context.Context, params *cloudwatchlogs.DescribeSubscriptionFiltersInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeSubscriptionFiltersOutput, error) {
	args := m.Called(ctx, aws.ToString(params.LogGroupName))
	out, _ := args.Get(0).(*cloudwatchlogs.DescribeSubscriptionFiltersOutput)
	return out, args.Error(1)
}

type mockFunctions struct {
	mock.Mock
}

func (m *mockFunctions) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, _ ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	args := m.Called(ctx, aws.ToString(params.FunctionName))
	out, _ := args.Get(0).(*lambda.GetFunctionOutput)
	return out, args.Error(1)
}

func filters(names ...string) *cloudwatchlogs.DescribeSubscriptionFiltersOutput {
	out := &cloudwatchlogs.DescribeSubscriptionFiltersOutput{}
	for _, name := range names {
		out.SubscriptionFilters = append(out.SubscriptionFilters, types.SubscriptionFilter{FilterName: aws.String(name)})
	}
	return out
}

func fixture() (*serverless.Service, []runtime.FunctionInfo, *serverless.CompiledTemplate) {
	svc := &serverless.Service{
		Service: serverless.ServiceName{Name: "app"},
		Functions: map[string]*serverless.FunctionDefinition{
			"first":    {Handler: "h.first"},
			"second":   {Handler: "h.second"},
			"no-group": {Handler: "h.none"},
		},
	}
	tmpl := serverless.NewCompiledTemplate(map[string]interface{}{
		"Resources": map[string]interface{}{
			"FirstLogGroup":       map[string]interface{}{"Type": LogGroupType},
			"SecondLogGroup":      map[string]interface{}{"Type": LogGroupType},
			"NoDashgroupLogGroup": map[string]interface{}{"Type": "AWS::S3::Bucket"},
		},
	})
	return svc, runtime.FindHandlers(svc, nil, "nodejs18.x"), tmpl
}

func TestResolve(t *testing.T) {
	_, err := Resolve("a", "b")
	assert.ErrorIs(t, err, dderrors.ErrConflictingForwarder)

	target, err := Resolve(nil, "arn")
	require.NoError(t, err)
	assert.Equal(t, "arn", target)

	target, err = Resolve("fwd", nil)
	require.NoError(t, err)
	assert.Equal(t, "fwd", target)

	target, err = Resolve("", "arn")
	require.NoError(t, err)
	assert.Equal(t, "arn", target)

	target, err = Resolve("", nil)
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	svc, infos, tmpl := fixture()

	functions := &mockFunctions{}
	functions.On("GetFunction", ctx, "arn:fwd").Return(&lambda.GetFunctionOutput{}, nil).Once()

	logs := &mockLogs{}
	logs.On("DescribeSubscriptionFilters", ctx, "/aws/lambda/app-dev-first").
		Return(filters("app-dev-FirstLogGroupSubscription-ABC", "other"), nil)
	logs.On("DescribeSubscriptionFilters", ctx, "/aws/lambda/app-dev-second").
		Return(filters("one", "two"), nil)

	result, err := NewSubscriber(logs, functions, zaptest.NewLogger(t)).
		Subscribe(ctx, tmpl, svc, infos, "dev", "arn:fwd")
	require.NoError(t, err)

	assert.Equal(t, []string{"first"}, result.Subscribed)
	require.Len(t, multierr.Errors(result.Failures), 1)
	assert.True(t, dderrors.Is(result.Failures, dderrors.DomainForwarder, dderrors.CodeSubscriptionFailed))
	assert.ErrorIs(t, result.Failures, dderrors.ErrTooManySubscriptions)

	resource, kind, ok := tmpl.Resource("FirstLogGroupSubscription")
	require.True(t, ok)
	assert.Equal(t, SubscriptionFilterType, kind)
	assert.Equal(t, map[string]interface{}{
		"DestinationArn": "arn:fwd",
		"FilterPattern":  "",
		"LogGroupName":   map[string]interface{}{"Ref": "FirstLogGroup"},
	}, resource["Properties"])

	_, _, ok = tmpl.Resource("SecondLogGroupSubscription")
	assert.False(t, ok)

	functions.AssertExpectations(t)
	logs.AssertExpectations(t)
}

func TestSubscribeDescribeFailureCountsAsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, infos, tmpl := fixture()

	logs := &mockLogs{}
	logs.On("DescribeSubscriptionFilters", ctx, mock.Anything).
		Return(nil, errors.New("ResourceNotFoundException"))

	functions := &mockFunctions{}
	functions.On("GetFunction", ctx, "arn:fwd").Return(&lambda.GetFunctionOutput{}, nil)

	result, err := NewSubscriber(logs, functions, nil).Subscribe(ctx, tmpl, svc, infos, "dev", "arn:fwd")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, result.Subscribed)
	assert.NoError(t, result.Failures)
}

func TestSubscribeInvalidForwarder(t *testing.T) {
	ctx := context.Background()
	svc, infos, tmpl := fixture()

	functions := &mockFunctions{}
	functions.On("GetFunction", ctx, "arn:missing").Return(nil, errors.New("not found"))
	logs := &mockLogs{}

	_, err := NewSubscriber(logs, functions, nil).Subscribe(ctx, tmpl, svc, infos, "dev", "arn:missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, dderrors.ErrForwarderValidation)

	_, _, ok := tmpl.Resource("FirstLogGroupSubscription")
	assert.False(t, ok)
	logs.AssertNotCalled(t, "DescribeSubscriptionFilters", mock.Anything, mock.Anything)
}

func TestSubscribeIntrinsicForwarder(t *testing.T) {
	ctx := context.Background()
	svc, infos, tmpl := fixture()
	target := map[string]interface{}{"Fn::ImportValue": "Forwarder"}

	logs := &mockLogs{}
	logs.On("DescribeSubscriptionFilters", ctx, mock.Anything).Return(filters(), nil)
	functions := &mockFunctions{}

	result, err := NewSubscriber(logs, functions, nil).Subscribe(ctx, tmpl, svc, infos, "dev", target)
	require.NoError(t, err)
	assert.Len(t, result.Subscribed, 2)
	functions.AssertNotCalled(t, "GetFunction", mock.Anything, mock.Anything)

	resource, _, _ := tmpl.Resource("SecondLogGroupSubscription")
	assert.Equal(t, target, resource["Properties"].(map[string]interface{})["DestinationArn"])
}

func TestSubscribeNoTemplate(t *testing.T) {
	svc, infos, _ := fixture()
	result, err := NewSubscriber(nil, nil, nil).Subscribe(context.Background(), nil, svc, infos, "dev", "arn")
	require.NoError(t, err)
	assert.Empty(t, result.Subscribed)
}

func TestSubscribeIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, infos, tmpl := fixture()

	logs := &mockLogs{}
	logs.On("DescribeSubscriptionFilters", ctx, mock.Anything).Return(filters(), nil)
	functions := &mockFunctions{}
	functions.On("GetFunction", ctx, "arn:fwd").Return(&lambda.GetFunctionOutput{}, nil)

	sub := NewSubscriber(logs, functions, nil)
	_, err := sub.Subscribe(ctx, tmpl, svc, infos, "dev", "arn:fwd")
	require.NoError(t, err)
	first := len(tmpl.Resources())

	_, err = sub.Subscribe(ctx, tmpl, svc, infos, "dev", "arn:fwd")
	require.NoError(t, err)
	assert.Equal(t, first, len(tmpl.Resources()))
}
