// Package config loads and validates the plugin configuration.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

const (
	// EnvPrefix is the prefix for environment variables overriding settings.
	EnvPrefix = "DD_SLS_"

	// CustomKey is the service's `custom` entry holding the plugin block.
	CustomKey = "datadog"

	DefaultSite     = "datadoghq.com"
	DefaultLogLevel = "info"
)

// Configuration is the `custom.datadog` block after defaults and overrides.
type Configuration struct {
	Enabled      bool   `koanf:"enabled" yaml:"enabled"`
	AddLayers    bool   `koanf:"addLayers" yaml:"addLayers"`
	AddExtension bool   `koanf:"addExtension" yaml:"addExtension"`
	APIKey       string `koanf:"apiKey" yaml:"apiKey,omitempty"`
	APIKMSKey    string `koanf:"apiKMSKey" yaml:"apiKMSKey,omitempty"`
	Site         string `koanf:"site" yaml:"site" validate:"required"`
	LogLevel     string `koanf:"logLevel" yaml:"logLevel" validate:"omitempty,oneof=trace debug info warn error critical off"`

	FlushMetricsToLogs bool `koanf:"flushMetricsToLogs" yaml:"flushMetricsToLogs"`
	EnableXrayTracing  bool `koanf:"enableXrayTracing" yaml:"enableXrayTracing"`
	EnableDDTracing    bool `koanf:"enableDDTracing" yaml:"enableDDTracing"`
	EnableTags         bool `koanf:"enableTags" yaml:"enableTags"`
	InjectLogContext   bool `koanf:"injectLogContext" yaml:"injectLogContext"`

	EnableSourceCodeIntegration bool `koanf:"enableSourceCodeIntegration" yaml:"enableSourceCodeIntegration"`

	Exclude []string `koanf:"exclude" yaml:"exclude,omitempty"`

	// Forwarder and ForwarderArn are either an ARN string or a CloudFormation
	// intrinsic such as {"Fn::ImportValue": "..."}.
	Forwarder    interface{} `koanf:"forwarder" yaml:"forwarder,omitempty"`
	ForwarderArn interface{} `koanf:"forwarderArn" yaml:"forwarderArn,omitempty"`
}

// DefaultConfiguration returns the configuration used when the service sets
// nothing.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Enabled:            true,
		AddLayers:          true,
		AddExtension:       false,
		Site:               DefaultSite,
		LogLevel:           DefaultLogLevel,
		FlushMetricsToLogs: true,
		EnableXrayTracing:  false,
		EnableDDTracing:    true,
		EnableTags:         true,
		InjectLogContext:   true,
		Exclude:            []string{},
	}
}

// Options controls where Load reads from.
type Options struct {
	// SettingsFile is an optional YAML file layered between defaults and the
	// service block.
	SettingsFile string

	// Environ replaces the process environment, mainly for tests. Entries are
	// KEY=VALUE.
	Environ []string

	Logger *zap.Logger
}

// Load builds the configuration for s: defaults, then the settings file,
// then custom.datadog, then .env (when the service opts in), then DD_SLS_*
// environment variables.
func Load(s *serverless.Service, opts Options) (*Configuration, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	k := koanf.New(".")

	if err := k.Load(newStructProvider(DefaultConfiguration()), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if opts.SettingsFile != "" {
		data, err := file.Provider(opts.SettingsFile).ReadBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		values, err := yaml.Parser().Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
		if err := k.Load(newMapProvider(values), nil); err != nil {
			return nil, fmt.Errorf("failed to load settings file: %w", err)
		}
	}

	if block, ok := customBlock(s); ok {
		if err := k.Load(newMapProvider(block), nil); err != nil {
			return nil, fmt.Errorf("failed to load custom.%s: %w", CustomKey, err)
		}
	}

	if s.UseDotenv && s.Dir != "" {
		dotenv, err := godotenv.Read(filepath.Join(s.Dir, ".env"))
		if err != nil {
			logger.Debug("no .env file loaded", zap.Error(err))
		} else if err := k.Load(newMapProvider(prefixed(dotenv)), nil); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	if opts.Environ != nil {
		if err := k.Load(newMapProvider(prefixed(environMap(opts.Environ))), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment variables: %w", err)
		}
	} else if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return canonicalKey(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Configuration
	var md mapstructure.Metadata
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
			Metadata:         &md,
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		logger.Debug("ignoring unknown configuration keys", zap.Strings("keys", md.Unused))
	}

	return &cfg, nil
}

func customBlock(s *serverless.Service) (map[string]interface{}, bool) {
	raw, ok := s.Custom[CustomKey]
	if !ok {
		return nil, false
	}
	block, ok := raw.(map[string]interface{})
	return block, ok
}

// prefixed keeps variables starting with EnvPrefix, stripped of it.
func prefixed(vars map[string]string) map[string]interface{} {
	out := make(map[string]interface{})
	for key, value := range vars {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		out[strings.TrimPrefix(key, EnvPrefix)] = value
	}
	return out
}

func environMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			out[key] = value
		}
	}
	return out
}

var canonicalKeys = func() map[string]string {
	keys := map[string]string{}
	t := reflect.TypeOf(Configuration{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		keys[foldKey(tag)] = tag
	}
	return keys
}()

func foldKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, "-", "")
}

// canonicalKey maps ADD_LAYERS, add_layers and addlayers to addLayers.
// Unknown keys are returned unchanged so they show up as unused.
func canonicalKey(key string) string {
	if tag, ok := canonicalKeys[foldKey(key)]; ok {
		return tag
	}
	return key
}
