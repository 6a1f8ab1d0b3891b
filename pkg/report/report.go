// Package report summarizes what a hook invocation changed.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Format is an output encoding for a Report.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Function is the per-function part of a report.
type Function struct {
	Name     string   `yaml:"name" toml:"name" json:"name"`
	Runtime  string   `yaml:"runtime" toml:"runtime" json:"runtime"`
	Layers   []string `yaml:"layers,omitempty" toml:"layers,omitempty" json:"layers,omitempty"`
	Handler  string   `yaml:"handler,omitempty" toml:"handler,omitempty" json:"handler,omitempty"`
	Original string   `yaml:"original,omitempty" toml:"original,omitempty" json:"original,omitempty"`
	Tags     []string `yaml:"tags,omitempty" toml:"tags,omitempty" json:"tags,omitempty"`
	Skipped  string   `yaml:"skipped,omitempty" toml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Report is filled in by the lifecycle passes.
type Report struct {
	InvocationID string      `yaml:"invocationId" toml:"invocation_id" json:"invocationId"`
	Event        string      `yaml:"event" toml:"event" json:"event"`
	Version      string      `yaml:"version" toml:"version" json:"version"`
	Stage        string      `yaml:"stage" toml:"stage" json:"stage"`
	Region       string      `yaml:"region" toml:"region" json:"region"`
	Functions    []*Function `yaml:"functions" toml:"functions" json:"functions"`
	Subscribed   []string    `yaml:"subscribed,omitempty" toml:"subscribed,omitempty" json:"subscribed,omitempty"`
	Errors       []string    `yaml:"errors,omitempty" toml:"errors,omitempty" json:"errors,omitempty"`
	Outputs      []string    `yaml:"outputs,omitempty" toml:"outputs,omitempty" json:"outputs,omitempty"`
}

// New returns an empty report for one invocation.
func New(invocationID, event, version string) *Report {
	return &Report{InvocationID: invocationID, Event: event, Version: version}
}

// Function returns the entry for name, creating it on first use.
func (r *Report) Function(name, runtime string) *Function {
	for _, fn := range r.Functions {
		if fn.Name == name {
			if fn.Runtime == "" {
				fn.Runtime = runtime
			}
			return fn
		}
	}
	fn := &Function{Name: name, Runtime: runtime}
	r.Functions = append(r.Functions, fn)
	sort.Slice(r.Functions, func(i, j int) bool { return r.Functions[i].Name < r.Functions[j].Name })
	return fn
}

// AddError records a non fatal error.
func (r *Report) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// Marshal encodes the report in format.
func (r *Report) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		return yaml.Marshal(r)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}
