// Package tags stamps service, env and plugin version tags on functions.
package tags

import (
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

const (
	Service = "service"
	Env     = "env"
	Plugin  = "dd_sls_plugin"
)

// Change is a tag written to a function.
type Change struct {
	Function string
	Key      string
	Value    string
}

// AddServiceAndEnv sets service and env on every function that lacks them,
// unless the provider already sets the tag for the whole service.
func AddServiceAndEnv(s *serverless.Service, infos []runtime.FunctionInfo, stage string) []Change {
	var changes []Change

	wanted := map[string]string{
		Service: s.Name(),
		Env:     stage,
	}
	for _, key := range []string{Service, Env} {
		if providerHas(s.Provider, key) || wanted[key] == "" {
			continue
		}
		for _, info := range infos {
			def := info.Definition
			if def.Tags[key] != "" {
				continue
			}
			if def.Tags == nil {
				def.Tags = map[string]string{}
			}
			def.Tags[key] = wanted[key]
			changes = append(changes, Change{Function: info.Name, Key: key, Value: wanted[key]})
		}
	}
	return changes
}

// AddPluginVersion sets dd_sls_plugin on every function, overwriting.
func AddPluginVersion(infos []runtime.FunctionInfo, tag string) []Change {
	changes := make([]Change, 0, len(infos))
	for _, info := range infos {
		def := info.Definition
		if def.Tags == nil {
			def.Tags = map[string]string{}
		}
		if def.Tags[Plugin] == tag {
			continue
		}
		def.Tags[Plugin] = tag
		changes = append(changes, Change{Function: info.Name, Key: Plugin, Value: tag})
	}
	return changes
}

func providerHas(p serverless.Provider, key string) bool {
	if _, ok := p.Tags[key]; ok {
		return true
	}
	_, ok := p.StackTags[key]
	return ok
}
