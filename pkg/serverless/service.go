// Package serverless models the declarative service definition the host
// orchestration tool hands to the plugin, together with the CloudFormation
// template it compiles during packaging.
package serverless

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	pluginErrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultFiles lists the service definition names looked up when no path is given.
var DefaultFiles = []string{"serverless.yml", "serverless.yaml", "serverless.json"}

// Service represents the structure of a serverless.yml file
type Service struct {
	Service   ServiceName                    `yaml:"service"`
	UseDotenv bool                           `yaml:"useDotenv,omitempty"`
	Provider  Provider                       `yaml:"provider"`
	Plugins   interface{}                    `yaml:"plugins,omitempty"`
	Custom    map[string]interface{}         `yaml:"custom,omitempty"`
	Functions map[string]*FunctionDefinition `yaml:"functions,omitempty"`
	Extra     map[string]interface{}         `yaml:",inline"`

	// Dir is the directory holding the service definition.
	Dir string `yaml:"-"`
}

// Provider holds the provider block. Keys the plugin never reads are kept in Extra.
type Provider struct {
	Name        string                 `yaml:"name"`
	Runtime     string                 `yaml:"runtime,omitempty"`
	Region      string                 `yaml:"region,omitempty"`
	Stage       string                 `yaml:"stage,omitempty"`
	StackName   string                 `yaml:"stackName,omitempty"`
	Tags        map[string]string      `yaml:"tags,omitempty"`
	StackTags   map[string]string      `yaml:"stackTags,omitempty"`
	Environment map[string]interface{} `yaml:"environment,omitempty"`
	Tracing     interface{}            `yaml:"tracing,omitempty"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// FunctionDefinition is a single entry of the functions block.
type FunctionDefinition struct {
	Name        string                 `yaml:"name,omitempty"`
	Handler     string                 `yaml:"handler,omitempty"`
	Image       interface{}            `yaml:"image,omitempty"`
	Runtime     string                 `yaml:"runtime,omitempty"`
	Layers      []interface{}          `yaml:"layers,omitempty"`
	Tags        map[string]string      `yaml:"tags,omitempty"`
	Environment map[string]interface{} `yaml:"environment,omitempty"`
	Package     *Package               `yaml:"package,omitempty"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// Package holds per-function packaging patterns.
type Package struct {
	Patterns     []string               `yaml:"patterns,omitempty"`
	Include      []string               `yaml:"include,omitempty"`
	Exclude      []string               `yaml:"exclude,omitempty"`
	Individually bool                   `yaml:"individually,omitempty"`
	Artifact     string                 `yaml:"artifact,omitempty"`
	Extra        map[string]interface{} `yaml:",inline"`
}

// ServiceName accepts both `service: name` and `service: {name: name}`.
type ServiceName struct {
	Name   string
	object map[string]interface{}
}

func (n *ServiceName) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		n.Name = name
		return nil
	}

	var obj map[string]interface{}
	if err := unmarshal(&obj); err != nil {
		return err
	}
	n.object = normalizeMap(obj)
	n.Name, _ = n.object["name"].(string)
	return nil
}

func (n ServiceName) MarshalYAML() (interface{}, error) {
	if n.object == nil {
		return n.Name, nil
	}
	out := make(map[string]interface{}, len(n.object))
	for k, v := range n.object {
		out[k] = v
	}
	out["name"] = n.Name
	return out, nil
}

// Find returns the first default service definition present in dir.
func Find(dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: expected %s in %s", pluginErrors.ErrServiceNotFound, DefaultFiles[0], dir)
}

// Load reads and parses a service definition. JSON definitions go through the
// same decoder since JSON is valid YAML.
func Load(path string) (*Service, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", pluginErrors.ErrServiceNotFound, absPath)
		}
		return nil, fmt.Errorf("failed to read service definition: %w", err)
	}

	service, err := Parse(data)
	if err != nil {
		return nil, err
	}
	service.Dir = filepath.Dir(absPath)
	return service, nil
}

// Parse decodes a service definition held in memory.
func Parse(data []byte) (*Service, error) {
	var service Service
	if err := yaml.Unmarshal(data, &service); err != nil {
		return nil, fmt.Errorf("%w: %v", pluginErrors.ErrInvalidService, err)
	}
	if service.Service.Name == "" {
		return nil, fmt.Errorf("%w: missing service name", pluginErrors.ErrInvalidService)
	}

	service.Custom = normalizeMap(service.Custom)
	service.Plugins = normalize(service.Plugins)
	service.Extra = normalizeMap(service.Extra)
	service.Provider.Environment = normalizeMap(service.Provider.Environment)
	service.Provider.Tracing = normalize(service.Provider.Tracing)
	service.Provider.Extra = normalizeMap(service.Provider.Extra)

	for name, fn := range service.Functions {
		if fn == nil {
			fn = &FunctionDefinition{}
			service.Functions[name] = fn
		}
		fn.Image = normalize(fn.Image)
		fn.Environment = normalizeMap(fn.Environment)
		fn.Extra = normalizeMap(fn.Extra)
		for i, l := range fn.Layers {
			fn.Layers[i] = normalize(l)
		}
	}

	return &service, nil
}

// Marshal encodes the service back to YAML.
func (s *Service) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Save writes the service definition to path.
func (s *Service) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal service definition: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write service definition: %w", err)
	}
	return nil
}

// Name returns the declared service name.
func (s *Service) Name() string {
	return s.Service.Name
}

// FunctionNames returns every function key in a stable order.
func (s *Service) FunctionNames() []string {
	names := make([]string, 0, len(s.Functions))
	for name := range s.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Function returns the definition registered under name.
func (s *Service) Function(name string) (*FunctionDefinition, bool) {
	fn, ok := s.Functions[name]
	return fn, ok
}

// HasPlugin reports whether name is listed in the plugins block, which may be
// either a list or a {modules: [...]} map.
func (s *Service) HasPlugin(name string) bool {
	var modules interface{} = s.Plugins
	if m, ok := s.Plugins.(map[string]interface{}); ok {
		modules = m["modules"]
	}
	list, ok := modules.([]interface{})
	if !ok {
		return false
	}
	for _, p := range list {
		if p == name {
			return true
		}
	}
	return false
}

// Lookup walks nested maps along path.
func Lookup(m map[string]interface{}, path ...string) (interface{}, bool) {
	var current interface{} = m
	for _, key := range path {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// normalize converts the map[interface{}]interface{} values produced by yaml.v2
// into map[string]interface{} so the rest of the plugin can type-assert on them.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case map[string]interface{}:
		return normalizeMap(val)
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	for k, v := range m {
		m[k] = normalize(v)
	}
	return m
}
