package layer

import (
	"testing"

	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *Table {
	return &Table{Regions: map[string]map[string]string{
		"us-east-1": {
			"nodejs12.x": "node:12",
			"python3.8":  "python:38",
			"python":     "python:any",
			ExtensionKey: "extension:1",
		},
		"eu-south-1": {
			"nodejs12.x": "node:12-eu",
		},
	}}
}

func info(name string, t runtime.Type, rt string, def *serverless.FunctionDefinition) runtime.FunctionInfo {
	return runtime.FunctionInfo{Name: name, Type: t, Runtime: rt, Definition: def}
}

func TestPushLayerARNs(t *testing.T) {
	tests := []struct {
		name     string
		current  []interface{}
		arns     []string
		expected []interface{}
	}{
		{
			name:     "empty list",
			current:  nil,
			arns:     []string{"a"},
			expected: []interface{}{"a"},
		},
		{
			name:     "appends after existing",
			current:  []interface{}{"x", "y"},
			arns:     []string{"a"},
			expected: []interface{}{"x", "y", "a"},
		},
		{
			name:     "already present",
			current:  []interface{}{"a", "x"},
			arns:     []string{"a"},
			expected: []interface{}{"a", "x"},
		},
		{
			name:     "duplicates in input",
			current:  []interface{}{},
			arns:     []string{"a", "a", "b"},
			expected: []interface{}{"a", "b"},
		},
		{
			name:     "keeps references",
			current:  []interface{}{map[string]interface{}{"Ref": "Local"}},
			arns:     []string{"a"},
			expected: []interface{}{map[string]interface{}{"Ref": "Local"}, "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PushLayerARNs(tt.current, tt.arns...))
		})
	}
}

func TestApplyLibraryLayers(t *testing.T) {
	nodeDef := &serverless.FunctionDefinition{Layers: []interface{}{"existing"}}
	pythonDef := &serverless.FunctionDefinition{}
	python39Def := &serverless.FunctionDefinition{}
	goDef := &serverless.FunctionDefinition{}

	infos := []runtime.FunctionInfo{
		info("node", runtime.Node, "nodejs12.x", nodeDef),
		info("python", runtime.Python, "python3.8", pythonDef),
		info("python39", runtime.Python, "python3.9", python39Def),
		info("go", runtime.Unsupported, "go1.x", goDef),
	}

	attached := ApplyLibraryLayers("us-east-1", infos, testTable())

	assert.Equal(t, []interface{}{"existing", "node:12"}, nodeDef.Layers)
	assert.Equal(t, []interface{}{"python:38"}, pythonDef.Layers)
	assert.Equal(t, []interface{}{"python:any"}, python39Def.Layers)
	assert.Nil(t, goDef.Layers)
	assert.Equal(t, []Attachment{
		{Function: "node", ARN: "node:12"},
		{Function: "python", ARN: "python:38"},
		{Function: "python39", ARN: "python:any"},
	}, attached)
}

func TestApplyLibraryLayersIdempotent(t *testing.T) {
	def := &serverless.FunctionDefinition{}
	infos := []runtime.FunctionInfo{info("node", runtime.Node, "nodejs12.x", def)}

	ApplyLibraryLayers("us-east-1", infos, testTable())
	attached := ApplyLibraryLayers("us-east-1", infos, testTable())

	assert.Equal(t, []interface{}{"node:12"}, def.Layers)
	assert.Empty(t, attached)
}

func TestApplyLibraryLayersUnknownRegion(t *testing.T) {
	def := &serverless.FunctionDefinition{Layers: []interface{}{"existing"}}
	infos := []runtime.FunctionInfo{info("node", runtime.Node, "nodejs12.x", def)}

	attached := ApplyLibraryLayers("mars-1", infos, testTable())

	assert.Empty(t, attached)
	assert.Equal(t, []interface{}{"existing"}, def.Layers)
}

func TestApplyExtensionLayer(t *testing.T) {
	nodeDef := &serverless.FunctionDefinition{}
	goDef := &serverless.FunctionDefinition{}
	infos := []runtime.FunctionInfo{
		info("node", runtime.Node, "nodejs12.x", nodeDef),
		info("go", runtime.Unsupported, "go1.x", goDef),
	}

	ApplyExtensionLayer("us-east-1", infos, testTable())
	ApplyExtensionLayer("us-east-1", infos, testTable())
	assert.Equal(t, []interface{}{"extension:1"}, nodeDef.Layers)
	assert.Nil(t, goDef.Layers)

	euDef := &serverless.FunctionDefinition{}
	attached := ApplyExtensionLayer("eu-south-1", []runtime.FunctionInfo{info("node", runtime.Node, "nodejs12.x", euDef)}, testTable())
	assert.Empty(t, attached)
	assert.Nil(t, euDef.Layers)
}

func TestLoadEmbeddedTables(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	arn, ok := table.Lookup("us-east-1", "nodejs14.x")
	require.True(t, ok)
	assert.Contains(t, arn, "arn:aws:lambda:us-east-1:")

	arn, ok = table.Lookup("us-gov-west-1", "python3.8")
	require.True(t, ok)
	assert.Contains(t, arn, "arn:aws-us-gov:lambda:us-gov-west-1:")

	_, ok = table.Lookup("us-east-1", ExtensionKey)
	assert.True(t, ok)

	_, ok = table.Lookup("us-east-1", "ruby2.7")
	assert.False(t, ok)

	assert.Contains(t, table.RegionNames(), "us-gov-east-1")
	assert.Contains(t, table.RegionNames(), "eu-west-1")
}

func TestParseMergesDocuments(t *testing.T) {
	table, err := Parse(
		[]byte(`{"regions":{"us-east-1":{"nodejs12.x":"a"}}}`),
		[]byte(`{"regions":{"us-gov-west-1":{"nodejs12.x":"b"}}}`),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "us-gov-west-1"}, table.RegionNames())

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}
