// Package runtime classifies functions by the language family they execute in.
package runtime

import (
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

// Type is the runtime category used to select layers and handler templates.
type Type int

const (
	Node Type = iota
	Python
	Unsupported
)

func (t Type) String() string {
	switch t {
	case Node:
		return "node"
	case Python:
		return "python"
	default:
		return "unsupported"
	}
}

// Supported reports whether the plugin can instrument this category.
func (t Type) Supported() bool {
	return t == Node || t == Python
}

var lookup = map[string]Type{
	"nodejs8.10": Node,
	"nodejs10.x": Node,
	"nodejs12.x": Node,
	"nodejs14.x": Node,
	"nodejs16.x": Node,
	"nodejs18.x": Node,
	"nodejs20.x": Node,
	"python2.7":  Python,
	"python3.6":  Python,
	"python3.7":  Python,
	"python3.8":  Python,
	"python3.9":  Python,
	"python3.10": Python,
	"python3.11": Python,
	"python3.12": Python,
}

// Classify maps a declared runtime identifier onto its category.
func Classify(runtime string) Type {
	if t, ok := lookup[runtime]; ok {
		return t
	}
	return Unsupported
}

// FunctionInfo describes one function for the duration of a single invocation.
type FunctionInfo struct {
	Name       string
	Type       Type
	Runtime    string
	Handler    HandlerRef
	Definition *serverless.FunctionDefinition
}

// FindHandlers classifies every function of service that is not excluded.
// Functions without a runtime inherit defaultRuntime. Results are ordered by name.
func FindHandlers(service *serverless.Service, exclude []string, defaultRuntime string) []FunctionInfo {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	infos := make([]FunctionInfo, 0, len(service.Functions))
	for _, name := range service.FunctionNames() {
		if _, skip := excluded[name]; skip {
			continue
		}
		def := service.Functions[name]

		runtime := def.Runtime
		if runtime == "" {
			runtime = defaultRuntime
		}

		infos = append(infos, FunctionInfo{
			Name:       name,
			Type:       Classify(runtime),
			Runtime:    runtime,
			Handler:    ParseHandler(def),
			Definition: def,
		})
	}
	return infos
}
