package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"

	globalConfig "github.com/ignitionstack/serverless-datadog/internal/config"
	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/plugin"
)

func TestRunHook(t *testing.T) {
	dir := writeService(t)
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	flags := globalConfig.Flags{ServicePath: dir, Region: "us-east-1"}
	bc, err := RunHook(context.Background(), flags, plugin.EventGenerate, zaptest.NewLogger(t), noop.NewTracerProvider().Tracer(""))
	require.NoError(t, err)

	cart := bc.Service.Functions["cart"]
	assert.Equal(t, "datadog_handlers/cart.handler", cart.Handler)
	assert.NotEmpty(t, cart.Layers)
	_, err = os.Stat(filepath.Join(dir, "datadog_handlers", "cart.js"))
	assert.NoError(t, err)
}

func TestRunHookUnknownEvent(t *testing.T) {
	dir := writeService(t)
	flags := globalConfig.Flags{ServicePath: dir}

	_, err := RunHook(context.Background(), flags, "before:remove:remove", zaptest.NewLogger(t), noop.NewTracerProvider().Tracer(""))
	assert.ErrorIs(t, err, dderrors.ErrUnknownHook)
}
