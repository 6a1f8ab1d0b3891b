// Package layer resolves region specific layer ARNs and merges them into
// function definitions.
package layer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
)

// ExtensionKey is the table key of the telemetry extension layer.
const ExtensionKey = "extension"

//go:embed layers.json
var layersJSON []byte

//go:embed layers-gov.json
var govLayersJSON []byte

// Table maps region -> runtime (or ExtensionKey) -> layer ARN.
type Table struct {
	Regions map[string]map[string]string `json:"regions"`
}

// Attachment records a layer appended to a function.
type Attachment struct {
	Function string
	ARN      string
}

// Load parses the embedded commercial and government partition tables.
func Load() (*Table, error) {
	return Parse(layersJSON, govLayersJSON)
}

// Parse decodes and merges layer documents. Region sets are disjoint across
// partitions, so merge order only matters for duplicated documents.
func Parse(documents ...[]byte) (*Table, error) {
	table := &Table{Regions: map[string]map[string]string{}}
	for i, data := range documents {
		var doc Table
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse layer document %d: %w", i, err)
		}
		for region, runtimes := range doc.Regions {
			table.Regions[region] = runtimes
		}
	}
	return table, nil
}

// Lookup returns the ARN stored for region and key.
func (t *Table) Lookup(region, key string) (string, bool) {
	runtimes, ok := t.Regions[region]
	if !ok {
		return "", false
	}
	arn, ok := runtimes[key]
	return arn, ok && arn != ""
}

// RegionNames returns the regions covered by the table, sorted.
func (t *Table) RegionNames() []string {
	regions := make([]string, 0, len(t.Regions))
	for region := range t.Regions {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// libraryLayer finds the library layer for a function: the exact runtime
// string first, then its category.
func (t *Table) libraryLayer(region string, info runtime.FunctionInfo) (string, bool) {
	if arn, ok := t.Lookup(region, info.Runtime); ok {
		return arn, true
	}
	return t.Lookup(region, info.Type.String())
}

// ApplyLibraryLayers appends the language library layer to every supported
// function. Regions without coverage are left untouched.
func ApplyLibraryLayers(region string, infos []runtime.FunctionInfo, table *Table) []Attachment {
	return apply(infos, func(info runtime.FunctionInfo) (string, bool) {
		return table.libraryLayer(region, info)
	})
}

// ApplyExtensionLayer appends the extension layer to every supported function.
func ApplyExtensionLayer(region string, infos []runtime.FunctionInfo, table *Table) []Attachment {
	return apply(infos, func(runtime.FunctionInfo) (string, bool) {
		return table.Lookup(region, ExtensionKey)
	})
}

func apply(infos []runtime.FunctionInfo, resolve func(runtime.FunctionInfo) (string, bool)) []Attachment {
	var attached []Attachment
	for _, info := range infos {
		if !info.Type.Supported() {
			continue
		}
		arn, ok := resolve(info)
		if !ok {
			continue
		}

		before := len(info.Definition.Layers)
		info.Definition.Layers = PushLayerARNs(info.Definition.Layers, arn)
		if len(info.Definition.Layers) > before {
			attached = append(attached, Attachment{Function: info.Name, ARN: arn})
		}
	}
	return attached
}

// PushLayerARNs appends each arn not already present, keeping the original
// order. Non-string entries (CloudFormation references) are preserved.
func PushLayerARNs(current []interface{}, arns ...string) []interface{} {
	present := make(map[string]struct{}, len(current))
	for _, l := range current {
		if s, ok := l.(string); ok {
			present[s] = struct{}{}
		}
	}
	for _, arn := range arns {
		if _, ok := present[arn]; ok {
			continue
		}
		present[arn] = struct{}{}
		current = append(current, arn)
	}
	return current
}
