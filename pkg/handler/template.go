package handler

import (
	"fmt"
	"path"
	"strings"

	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
)

// Template renders the instrumentation shim for one runtime family.
type Template interface {
	// Extension is the shim file extension, without the dot.
	Extension() string
	// Render returns the shim source wrapping methods exported by file.
	// file is relative to the service directory, without extension.
	Render(file string, methods []string) string
}

type nodeTemplate struct{}

func (nodeTemplate) Extension() string { return "js" }

func (nodeTemplate) Render(file string, methods []string) string {
	var b strings.Builder
	b.WriteString("/* eslint-disable */\n")
	b.WriteString("const { datadog } = require(\"datadog-lambda-js\");\n")
	fmt.Fprintf(&b, "const original = require(\"../%s\");\n", path.Clean(file))
	for _, method := range methods {
		fmt.Fprintf(&b, "module.exports.%s = datadog(original.%s);\n", method, method)
	}
	return b.String()
}

type pythonTemplate struct{}

func (pythonTemplate) Extension() string { return "py" }

func (pythonTemplate) Render(file string, methods []string) string {
	module := strings.ReplaceAll(path.Clean(file), "/", ".")

	var b strings.Builder
	b.WriteString("from datadog_lambda.wrapper import datadog_lambda_wrapper\n")
	for _, method := range methods {
		fmt.Fprintf(&b, "from %s import %s as %s_impl\n", module, method, method)
		fmt.Fprintf(&b, "%s = datadog_lambda_wrapper(%s_impl)\n", method, method)
	}
	return b.String()
}

// TemplateFor returns the shim template for a runtime family.
func TemplateFor(t runtime.Type) (Template, error) {
	switch t {
	case runtime.Node:
		return nodeTemplate{}, nil
	case runtime.Python:
		return pythonTemplate{}, nil
	default:
		return nil, fmt.Errorf("no handler template for runtime %s", t)
	}
}
