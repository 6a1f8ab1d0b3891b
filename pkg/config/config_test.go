package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

func serviceWith(t *testing.T, custom map[string]interface{}) *serverless.Service {
	t.Helper()
	s := &serverless.Service{Custom: map[string]interface{}{}}
	if custom != nil {
		s.Custom[CustomKey] = custom
	}
	return s
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(serviceWith(t, nil), Options{Environ: []string{}})
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.AddLayers)
	assert.False(t, cfg.AddExtension)
	assert.True(t, cfg.FlushMetricsToLogs)
	assert.True(t, cfg.EnableDDTracing)
	assert.False(t, cfg.EnableXrayTracing)
	assert.True(t, cfg.EnableTags)
	assert.True(t, cfg.InjectLogContext)
	assert.Equal(t, DefaultSite, cfg.Site)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Exclude)
	assert.Nil(t, cfg.Forwarder)
	assert.Nil(t, cfg.ForwarderArn)
}

func TestLoadLayers(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(settings, []byte("site: datadoghq.eu\nlogLevel: debug\n"), 0o644))

	tests := []struct {
		name     string
		custom   map[string]interface{}
		settings string
		environ  []string
		check    func(t *testing.T, cfg *Configuration)
	}{
		{
			name:   "service block",
			custom: map[string]interface{}{"addLayers": false, "apiKey": "abc", "exclude": []interface{}{"a", "b"}},
			check: func(t *testing.T, cfg *Configuration) {
				assert.False(t, cfg.AddLayers)
				assert.Equal(t, "abc", cfg.APIKey)
				assert.Equal(t, []string{"a", "b"}, cfg.Exclude)
				assert.True(t, cfg.EnableTags)
			},
		},
		{
			name:     "settings file below service block",
			custom:   map[string]interface{}{"site": "us3.datadoghq.com"},
			settings: settings,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "us3.datadoghq.com", cfg.Site)
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name:    "environment overrides",
			custom:  map[string]interface{}{"addLayers": true},
			environ: []string{"DD_SLS_ADD_LAYERS=false", "DD_SLS_EXCLUDE=x,y", "DD_SLS_SITE=ddog-gov.com", "OTHER=1"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.False(t, cfg.AddLayers)
				assert.Equal(t, []string{"x", "y"}, cfg.Exclude)
				assert.Equal(t, "ddog-gov.com", cfg.Site)
			},
		},
		{
			name:   "intrinsic forwarder",
			custom: map[string]interface{}{"forwarderArn": map[string]interface{}{"Fn::ImportValue": "ForwarderArn"}},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, map[string]interface{}{"Fn::ImportValue": "ForwarderArn"}, cfg.ForwarderArn)
				assert.Nil(t, cfg.Forwarder)
			},
		},
		{
			name:   "unknown keys ignored",
			custom: map[string]interface{}{"somethingElse": 1, "enableXrayTracing": "true"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.True(t, cfg.EnableXrayTracing)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := tt.environ
			if environ == nil {
				environ = []string{}
			}
			cfg, err := Load(serviceWith(t, tt.custom), Options{
				SettingsFile: tt.settings,
				Environ:      environ,
				Logger:       zaptest.NewLogger(t),
			})
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DD_SLS_ENABLE_TAGS=false\nUNRELATED=1\n"), 0o644))

	s := serviceWith(t, nil)
	s.Dir = dir
	s.UseDotenv = true

	cfg, err := Load(s, Options{Environ: []string{}})
	require.NoError(t, err)
	assert.False(t, cfg.EnableTags)
	_, set := os.LookupEnv("UNRELATED")
	assert.False(t, set)

	s.UseDotenv = false
	cfg, err = Load(s, Options{Environ: []string{}})
	require.NoError(t, err)
	assert.True(t, cfg.EnableTags)
}

func TestLoadMissingSettingsFile(t *testing.T) {
	_, err := Load(serviceWith(t, nil), Options{SettingsFile: "/does/not/exist.yml", Environ: []string{}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Configuration)
		expected error
	}{
		{name: "defaults", mutate: func(*Configuration) {}},
		{
			name:     "both api keys",
			mutate:   func(c *Configuration) { c.APIKey, c.APIKMSKey = "a", "b" },
			expected: dderrors.ErrConflictingAPIKeys,
		},
		{
			name:     "invalid site",
			mutate:   func(c *Configuration) { c.Site = "example.com" },
			expected: dderrors.ErrInvalidSite,
		},
		{
			name:   "site is case insensitive",
			mutate: func(c *Configuration) { c.Site = "DatadogHQ.EU" },
		},
		{
			name:     "extension with forwarder",
			mutate:   func(c *Configuration) { c.AddExtension, c.APIKey, c.Forwarder = true, "a", "arn" },
			expected: dderrors.ErrExtensionWithForwarder,
		},
		{
			name:     "extension without key",
			mutate:   func(c *Configuration) { c.AddExtension = true },
			expected: dderrors.ErrExtensionMissingAPIKey,
		},
		{
			name:   "extension with kms key",
			mutate: func(c *Configuration) { c.AddExtension, c.APIKMSKey = true, "k" },
		},
		{
			name:   "extension with empty forwarder",
			mutate: func(c *Configuration) { c.AddExtension, c.APIKey, c.Forwarder = true, "a", "" },
		},
		{
			name:   "empty forwarder and forwarderArn",
			mutate: func(c *Configuration) { c.Forwarder, c.ForwarderArn = "", "arn" },
		},
		{
			name:     "forwarder and forwarderArn",
			mutate:   func(c *Configuration) { c.Forwarder, c.ForwarderArn = "a", "b" },
			expected: dderrors.ErrConflictingForwarder,
		},
		{
			name:     "bad log level",
			mutate:   func(c *Configuration) { c.LogLevel = "loud" },
			expected: dderrors.ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfiguration()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
			assert.True(t, dderrors.IsConfigurationError(err))
		})
	}
}

func TestValidateIgnoresShellAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "from-shell")
	t.Setenv(KMSAPIKeyEnvVar, "from-shell")

	cfg := DefaultConfiguration()
	cfg.AddExtension = true
	assert.ErrorIs(t, cfg.Validate(), dderrors.ErrExtensionMissingAPIKey)
}

func TestHasForwarder(t *testing.T) {
	tests := []struct {
		name         string
		forwarder    interface{}
		forwarderArn interface{}
		expected     bool
		target       interface{}
	}{
		{name: "unset"},
		{name: "empty strings", forwarder: "", forwarderArn: "  "},
		{name: "forwarder", forwarder: "arn:fwd", expected: true, target: "arn:fwd"},
		{name: "arn wins over empty forwarder", forwarder: "", forwarderArn: "arn:fwd", expected: true, target: "arn:fwd"},
		{
			name:      "intrinsic",
			forwarder: map[string]interface{}{"Fn::ImportValue": "Forwarder"},
			expected:  true,
			target:    map[string]interface{}{"Fn::ImportValue": "Forwarder"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfiguration()
			cfg.Forwarder, cfg.ForwarderArn = tt.forwarder, tt.forwarderArn
			assert.Equal(t, tt.expected, cfg.HasForwarder())
			assert.Equal(t, tt.target, cfg.ForwarderTarget())
		})
	}
}

func TestApplyEnvironment(t *testing.T) {
	s := &serverless.Service{Provider: serverless.Provider{
		Environment: map[string]interface{}{SiteEnvVar: "datadoghq.eu"},
	}}
	cfg := DefaultConfiguration()
	cfg.APIKey = "secret"

	set := cfg.ApplyEnvironment(s)
	assert.ElementsMatch(t, []string{APIKeyEnvVar, LogLevelEnvVar, FlushToLogEnvVar, TraceEnvVar, LogsInjectEnvVar}, set)
	assert.Equal(t, map[string]interface{}{
		APIKeyEnvVar:     "secret",
		SiteEnvVar:       "datadoghq.eu",
		LogLevelEnvVar:   "info",
		FlushToLogEnvVar: "true",
		TraceEnvVar:      "true",
		LogsInjectEnvVar: "true",
	}, s.Provider.Environment)

	assert.Empty(t, cfg.ApplyEnvironment(s))
}

func TestForwarderTarget(t *testing.T) {
	cfg := DefaultConfiguration()
	assert.False(t, cfg.HasForwarder())
	assert.Nil(t, cfg.ForwarderTarget())

	cfg.Forwarder = "fwd"
	assert.Equal(t, "fwd", cfg.ForwarderTarget())

	cfg.ForwarderArn = "arn"
	assert.Equal(t, "arn", cfg.ForwarderTarget())
}

func TestCanonicalKey(t *testing.T) {
	tests := map[string]string{
		"ADD_LAYERS":   "addLayers",
		"addlayers":    "addLayers",
		"apiKMSKey":    "apiKMSKey",
		"API_KMS_KEY":  "apiKMSKey",
		"FORWARDERARN": "forwarderArn",
		"unknown_key":  "unknown_key",
	}
	for in, expected := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, canonicalKey(in))
		})
	}
}
