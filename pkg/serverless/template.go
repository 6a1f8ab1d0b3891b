package serverless

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// BuildDirectory is where the host writes packaging artifacts.
	BuildDirectory = ".serverless"

	// CompiledTemplateFile is the packaged update-stack template.
	CompiledTemplateFile = "cloudformation-template-update-stack.json"
)

// CompiledTemplate is the CloudFormation document produced by packaging. The
// raw document is kept so keys the plugin does not touch survive a rewrite.
type CompiledTemplate struct {
	path string
	doc  map[string]interface{}
}

// NewCompiledTemplate wraps an in-memory document.
func NewCompiledTemplate(doc map[string]interface{}) *CompiledTemplate {
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return &CompiledTemplate{doc: doc}
}

// CompiledTemplatePath returns the template location for a service directory.
func CompiledTemplatePath(serviceDir string) string {
	return filepath.Join(serviceDir, BuildDirectory, CompiledTemplateFile)
}

// LoadCompiledTemplate reads the packaged template. A missing file is not an
// error: it returns a nil template.
func LoadCompiledTemplate(serviceDir string) (*CompiledTemplate, error) {
	path := CompiledTemplatePath(serviceDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read compiled template: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var doc map[string]interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse compiled template: %w", err)
	}

	tmpl := NewCompiledTemplate(doc)
	tmpl.path = path
	return tmpl, nil
}

// Path is the file the template was loaded from, empty for in-memory templates.
func (t *CompiledTemplate) Path() string {
	return t.path
}

// Document exposes the raw template.
func (t *CompiledTemplate) Document() map[string]interface{} {
	return t.doc
}

// Resources returns the Resources section, or nil when absent.
func (t *CompiledTemplate) Resources() map[string]interface{} {
	resources, _ := t.doc["Resources"].(map[string]interface{})
	return resources
}

// Resource returns the resource with logical id and its Type.
func (t *CompiledTemplate) Resource(id string) (map[string]interface{}, string, bool) {
	resource, ok := t.Resources()[id].(map[string]interface{})
	if !ok {
		return nil, "", false
	}
	resourceType, _ := resource["Type"].(string)
	return resource, resourceType, true
}

// SetResource adds or replaces the resource with logical id.
func (t *CompiledTemplate) SetResource(id string, resource map[string]interface{}) {
	resources := t.Resources()
	if resources == nil {
		resources = map[string]interface{}{}
		t.doc["Resources"] = resources
	}
	resources[id] = resource
}

// Outputs returns the Outputs section and whether it exists.
func (t *CompiledTemplate) Outputs() (map[string]interface{}, bool) {
	outputs, ok := t.doc["Outputs"].(map[string]interface{})
	return outputs, ok
}

// Save writes the template back to the file it was loaded from.
func (t *CompiledTemplate) Save() error {
	if t.path == "" {
		return fmt.Errorf("compiled template has no backing file")
	}
	data, err := json.MarshalIndent(t.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal compiled template: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write compiled template: %w", err)
	}
	return nil
}
