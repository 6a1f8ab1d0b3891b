// Package handler generates instrumentation shims and points function
// handlers at them.
package handler

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"go.uber.org/zap"
)

// Rewrite describes one function whose handler now points at a shim.
type Rewrite struct {
	Function string
	Original string
	Handler  string
	Shim     string
	Source   string
}

// Rewriter writes shims below a service directory.
type Rewriter struct {
	serviceDir string
	logger     *zap.Logger
}

// NewRewriter returns a rewriter for the service rooted at serviceDir.
func NewRewriter(serviceDir string, logger *zap.Logger) *Rewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{serviceDir: serviceDir, logger: logger}
}

// ShimPath is the shim location for a function, relative to the service
// directory, using forward slashes.
func ShimPath(function string, tmpl Template) string {
	return path.Join(runtime.WrapperDirectory, function+"."+tmpl.Extension())
}

// Apply wraps every supported function that has a path handler. Functions
// already pointing at a shim are regenerated from their recorded original.
func (r *Rewriter) Apply(infos []runtime.FunctionInfo) ([]Rewrite, error) {
	var rewrites []Rewrite
	for _, info := range infos {
		if !info.Type.Supported() {
			r.logger.Debug("skipping handler for unsupported runtime",
				zap.String("function", info.Name),
				zap.String("runtime", info.Runtime))
			continue
		}

		ref, ok := info.Handler.(runtime.PathHandler)
		if !ok {
			other, _ := info.Handler.(runtime.OtherHandler)
			r.logger.Debug("skipping handler",
				zap.String("function", info.Name),
				zap.String("reason", other.Reason))
			continue
		}

		rw, err := r.rewrite(info, ref)
		if err != nil {
			return rewrites, err
		}
		rewrites = append(rewrites, rw)
	}
	return rewrites, nil
}

func (r *Rewriter) rewrite(info runtime.FunctionInfo, ref runtime.PathHandler) (Rewrite, error) {
	tmpl, err := TemplateFor(info.Type)
	if err != nil {
		return Rewrite{}, dderrors.Wrap(dderrors.DomainHandler, dderrors.CodeWriteFailed,
			"no template", err).WithFunction(info.Name)
	}

	shim := ShimPath(info.Name, tmpl)
	source := tmpl.Render(ref.File, []string{ref.Method})

	target := filepath.Join(r.serviceDir, filepath.FromSlash(shim))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Rewrite{}, dderrors.Wrap(dderrors.DomainHandler, dderrors.CodeWriteFailed,
			"failed to create shim directory", err).WithFunction(info.Name)
	}
	if err := os.WriteFile(target, []byte(source), 0o644); err != nil {
		return Rewrite{}, dderrors.Wrap(dderrors.DomainHandler, dderrors.CodeWriteFailed,
			"failed to write shim", err).WithFunction(info.Name)
	}

	def := info.Definition
	original := ref.String()
	handler := path.Join(runtime.WrapperDirectory, info.Name) + "." + ref.Method
	def.Handler = handler

	if def.Environment == nil {
		def.Environment = map[string]interface{}{}
	}
	// The declared handler replaces any recorded value unless it already
	// points at a shim.
	if !ref.Wrapped {
		def.Environment[runtime.OriginalHandlerEnvVar] = original
	}

	if def.Package != nil {
		if len(def.Package.Include) > 0 {
			def.Package.Include = appendUnique(def.Package.Include, shim)
		} else {
			def.Package.Patterns = appendUnique(def.Package.Patterns, shim)
		}
	}

	r.logger.Debug("wrapped handler",
		zap.String("function", info.Name),
		zap.String("original", original),
		zap.String("handler", handler))

	return Rewrite{
		Function: info.Name,
		Original: original,
		Handler:  handler,
		Shim:     shim,
		Source:   source,
	}, nil
}

// Clean removes the generated shim directory.
func Clean(serviceDir string) error {
	dir := filepath.Join(serviceDir, runtime.WrapperDirectory)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
