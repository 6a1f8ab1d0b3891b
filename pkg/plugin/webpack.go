package plugin

import (
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

// WebpackPlugin is the bundler plugin whose module list must leave the
// layer-provided libraries out.
const WebpackPlugin = "serverless-webpack"

// layerModules ship in the library layers and must not be bundled.
var layerModules = []string{"datadog-lambda-js", "dd-trace"}

// forceExcludeDepsFromWebpack adds layerModules to
// custom.webpack.includeModules.forceExclude. Services that do not set
// includeModules are left alone.
func forceExcludeDepsFromWebpack(s *serverless.Service) {
	raw, ok := serverless.Lookup(s.Custom, "webpack", "includeModules")
	if !ok {
		return
	}

	var includeModules map[string]interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		includeModules = v
	case bool:
		if !v {
			return
		}
		includeModules = map[string]interface{}{}
		s.Custom["webpack"].(map[string]interface{})["includeModules"] = includeModules
	default:
		return
	}

	var forceExclude []interface{}
	switch v := includeModules["forceExclude"].(type) {
	case []interface{}:
		forceExclude = v
	case []string:
		for _, module := range v {
			forceExclude = append(forceExclude, module)
		}
	}
	for _, module := range layerModules {
		if !contains(forceExclude, module) {
			forceExclude = append(forceExclude, module)
		}
	}
	includeModules["forceExclude"] = forceExclude
}

func contains(list []interface{}, value string) bool {
	for _, item := range list {
		if s, ok := item.(string); ok && s == value {
			return true
		}
	}
	return false
}
