package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "info", verbose: false, wantDebug: false},
		{name: "debug", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.verbose, true)
			logger.Debug("debug line")
			logger.Info("info line")
			_ = logger.Sync()

			out := buf.String()
			assert.Contains(t, out, "INFO")
			assert.Contains(t, out, "datadog")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestVerbose(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	assert.False(t, Verbose(false))
	assert.True(t, Verbose(true))

	t.Setenv(DebugEnvVar, "*")
	assert.True(t, Verbose(false))
}
