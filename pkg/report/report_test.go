package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func sample() *Report {
	r := New("1234", "after:package:initialize", "v2.18.0")
	r.Stage = "dev"
	r.Region = "us-east-1"
	r.Function("b", "python3.9").Layers = []string{"arn:py"}
	fn := r.Function("a", "nodejs18.x")
	fn.Handler = "datadog_handlers/a.run"
	fn.Original = "a.run"
	r.AddError(errors.New("could not subscribe"))
	r.AddError(nil)
	return r
}

func TestFunctionOrderAndReuse(t *testing.T) {
	r := sample()
	require.Len(t, r.Functions, 2)
	assert.Equal(t, "a", r.Functions[0].Name)
	assert.Same(t, r.Functions[1], r.Function("b", ""))
	assert.Equal(t, []string{"could not subscribe"}, r.Errors)
}

func TestMarshal(t *testing.T) {
	r := sample()

	tests := []struct {
		format Format
		decode func(data []byte) (map[string]interface{}, error)
	}{
		{FormatYAML, func(data []byte) (map[string]interface{}, error) {
			var out map[string]interface{}
			return out, yaml.Unmarshal(data, &out)
		}},
		{FormatTOML, func(data []byte) (map[string]interface{}, error) {
			var out map[string]interface{}
			_, err := toml.Decode(string(data), &out)
			return out, err
		}},
		{FormatJSON, func(data []byte) (map[string]interface{}, error) {
			var out map[string]interface{}
			return out, json.Unmarshal(data, &out)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			data, err := r.Marshal(tt.format)
			require.NoError(t, err)
			out, err := tt.decode(data)
			require.NoError(t, err)
			assert.Equal(t, "dev", out["stage"])
			assert.Contains(t, string(data), "datadog_handlers/a.run")
		})
	}

	_, err := r.Marshal("xml")
	assert.Error(t, err)
}
