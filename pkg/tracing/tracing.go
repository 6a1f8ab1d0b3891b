// Package tracing turns the tracing flags into provider and function
// settings.
package tracing

import (
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

// Mode is the tracing setup derived from the two tracing flags.
type Mode int

const (
	None Mode = iota
	XRay
	DDTrace
	Hybrid
)

const (
	TraceEnabledEnvVar = "DD_TRACE_ENABLED"
	MergeXRayEnvVar    = "DD_MERGE_XRAY_TRACES"
)

func (m Mode) String() string {
	switch m {
	case XRay:
		return "xray"
	case DDTrace:
		return "dd-trace"
	case Hybrid:
		return "hybrid"
	default:
		return "none"
	}
}

// ModeFromFlags maps enableXrayTracing and enableDDTracing to a mode.
func ModeFromFlags(xray, dd bool) Mode {
	switch {
	case xray && dd:
		return Hybrid
	case dd:
		return DDTrace
	case xray:
		return XRay
	default:
		return None
	}
}

// Enable applies mode to the provider and the given functions. Values the
// user already set are kept.
func Enable(s *serverless.Service, infos []runtime.FunctionInfo, mode Mode) {
	if mode == XRay || mode == Hybrid {
		enablePlatformTracing(&s.Provider)
	}
	if mode == None || mode == XRay {
		return
	}

	for _, info := range infos {
		def := info.Definition
		if def.Environment == nil {
			def.Environment = map[string]interface{}{}
		}
		setIfAbsent(def.Environment, TraceEnabledEnvVar, "true")
		if mode == Hybrid {
			setIfAbsent(def.Environment, MergeXRayEnvVar, "true")
		}
	}
}

func enablePlatformTracing(p *serverless.Provider) {
	switch tracing := p.Tracing.(type) {
	case nil:
		p.Tracing = map[string]interface{}{"apiGateway": true, "lambda": true}
	case map[string]interface{}:
		setIfAbsent(tracing, "apiGateway", true)
		setIfAbsent(tracing, "lambda", true)
	}
}

func setIfAbsent(m map[string]interface{}, key string, value interface{}) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}
