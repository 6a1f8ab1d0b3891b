package runtime

import (
	"strings"

	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

const (
	// WrapperDirectory holds the generated instrumentation shims, relative to
	// the service directory.
	WrapperDirectory = "datadog_handlers"

	// OriginalHandlerEnvVar records the handler a shim wraps.
	OriginalHandlerEnvVar = "DD_LAMBDA_HANDLER"
)

// HandlerRef is how a function declares its entry point. It is either a
// PathHandler or an OtherHandler.
type HandlerRef interface {
	isHandlerRef()
}

// PathHandler is a plain `path/to/file.method` handler.
type PathHandler struct {
	File   string
	Method string

	// Wrapped is set when the declared handler already points at a generated
	// shim and File/Method were recovered from OriginalHandlerEnvVar.
	Wrapped bool
}

func (PathHandler) isHandlerRef() {}

// String returns the handler in the host's notation.
func (h PathHandler) String() string {
	return h.File + "." + h.Method
}

// OtherHandler covers entry points the plugin cannot rewrite: container
// images, missing handlers, or handlers without a method separator.
type OtherHandler struct {
	Reason string
}

func (OtherHandler) isHandlerRef() {}

// ParseHandler decides once which kind of handler def declares.
func ParseHandler(def *serverless.FunctionDefinition) HandlerRef {
	if def.Image != nil {
		return OtherHandler{Reason: "image"}
	}

	handler := def.Handler
	wrapped := false
	if strings.HasPrefix(handler, WrapperDirectory+"/") {
		original, ok := def.Environment[OriginalHandlerEnvVar].(string)
		if !ok {
			return OtherHandler{Reason: "wrapped handler without original"}
		}
		handler = original
		wrapped = true
	}

	if handler == "" {
		return OtherHandler{Reason: "no handler"}
	}

	idx := strings.LastIndex(handler, ".")
	if idx <= 0 || idx == len(handler)-1 {
		return OtherHandler{Reason: "no method"}
	}

	return PathHandler{
		File:    handler[:idx],
		Method:  handler[idx+1:],
		Wrapped: wrapped,
	}
}
