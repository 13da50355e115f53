package export_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mindmap/diagram"
	"mindmap/export"
	"mindmap/geometry"
)

// sampleMap builds Root -> (Plan (draft), Ship) with Plan -> Tasks.
func sampleMap(t *testing.T) *diagram.Tree {
	t.Helper()
	tree := diagram.NewTree(geometry.DefaultMetrics().Width)
	root := tree.AddRoot("Root", 200, 300)
	plan, err := tree.InsertChild(root.ID, -1, "Plan (draft)")
	require.NoError(t, err)
	ship, err := tree.InsertChild(root.ID, -1, "Ship")
	require.NoError(t, err)
	_, err = tree.InsertChild(plan.ID, -1, "Tasks")
	require.NoError(t, err)

	tree.Translate(plan.ID, 200, -30)
	tree.Translate(ship.ID, 200, 30)
	tree.Node(plan.ID + 2).X += 160
	tree.ClearEphemeral()
	return tree
}

func fixedOptions() export.Options {
	opts := export.DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return opts
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    export.Format
		wantErr bool
	}{
		{"json", export.FormatJSON, false},
		{"YML", export.FormatYAML, false},
		{"mmd", export.FormatMermaid, false},
		{"puml", export.FormatPlantUML, false},
		{"graphviz", export.FormatDOT, false},
		{".svg", export.FormatSVG, false},
		{"txt", export.FormatASCII, false},
		{"d2", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewExporter_AllFormats(t *testing.T) {
	descriptions := export.GetFormatDescriptions()
	tree := sampleMap(t)
	for _, f := range export.GetAvailableFormats() {
		t.Run(string(f), func(t *testing.T) {
			e, err := export.NewExporter(f, fixedOptions())
			require.NoError(t, err)
			assert.NotEmpty(t, e.GetFormatName())
			assert.True(t, strings.HasPrefix(e.GetFileExtension(), "."))
			assert.NotEmpty(t, descriptions[f])

			out, err := e.Export(tree)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	_, err := export.NewExporter("d2", fixedOptions())
	assert.Error(t, err)
}

func TestExport_NilTree(t *testing.T) {
	for _, f := range export.GetAvailableFormats() {
		e, err := export.NewExporter(f, fixedOptions())
		require.NoError(t, err)
		_, err = e.Export(nil)
		assert.Error(t, err, "format %s", f)
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := export.NewJSONExporter(fixedOptions()).Export(sampleMap(t))
	require.NoError(t, err)

	doc, err := diagram.DecodeDocument([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, diagram.DocumentVersion, doc.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", doc.CreatedAt)
	assert.Equal(t, diagram.Metadata{Title: "Root", NodeCount: 4, MaxLevel: 2}, doc.Metadata)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	first := raw["nodes"].([]any)[0].(map[string]any)
	assert.NotContains(t, first, "isSelected")
	assert.NotContains(t, first, "parentId")
}

func TestYAMLExporter(t *testing.T) {
	opts := fixedOptions()
	opts.Title = "Launch"
	out, err := export.NewYAMLExporter(opts).Export(sampleMap(t))
	require.NoError(t, err)

	var doc diagram.Document
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Launch", doc.Metadata.Title)
	require.Len(t, doc.Nodes, 4)
	require.NotNil(t, doc.Nodes[1].ParentID)
	assert.Equal(t, 1, *doc.Nodes[1].ParentID)
	assert.Equal(t, []int{4}, doc.Nodes[1].Children)
}

func TestMermaidExporter(t *testing.T) {
	out, err := export.NewMermaidExporter().Export(sampleMap(t))
	require.NoError(t, err)

	want := strings.Join([]string{
		"mindmap",
		"  n1((Root))",
		"    n2[Plan draft]",
		"      n4[Tasks]",
		"    n3[Ship]",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestMermaidExporter_MultipleRootsAndEmpty(t *testing.T) {
	tree := sampleMap(t)
	other := tree.AddRoot("", 200, 600)

	out, err := export.NewMermaidExporter().Export(tree)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "mindmap\n"))
	assert.Contains(t, out, "  n5\n")
	assert.Equal(t, 5, other.ID)
}

func TestPlantUMLExporter(t *testing.T) {
	tree := sampleMap(t)
	tree.Node(2).IsCollapsed = true
	tree.Node(3).Content = "Ship\nit"

	out, err := export.NewPlantUMLExporter().Export(tree)
	require.NoError(t, err)

	want := strings.Join([]string{
		"@startmindmap",
		"* Root",
		"**_ Plan (draft)",
		"*** Tasks",
		"** Ship it",
		"@endmindmap",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestGraphvizExporter(t *testing.T) {
	tree := sampleMap(t)
	tree.Node(3).Content = `Say "hi"`

	out, err := export.NewGraphvizExporter().Export(tree)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "digraph mindmap {\n  rankdir=LR;\n"))
	assert.Contains(t, out, `n1 [label="Root", pos="200,-300!", penwidth=2];`)
	assert.Contains(t, out, `n3 [label="Say \"hi\""`)
	assert.Contains(t, out, "  n1 -> n2;\n")
	assert.Contains(t, out, "  n1 -> n3;\n")
	assert.Contains(t, out, "  n2 -> n4;\n")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestSVGExporter(t *testing.T) {
	tree := sampleMap(t)
	tree.Node(3).Content = "R&D <core>"
	tree.Node(2).IsCollapsed = true

	out, err := export.NewSVGExporter(fixedOptions()).Export(tree)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<svg xmlns=\"http://www.w3.org/2000/svg\""))
	assert.Contains(t, out, "R&amp;D &lt;core&gt;")
	assert.Contains(t, out, `<g id="n1">`)
	assert.NotContains(t, out, `<g id="n4">`, "hidden nodes are not drawn")
	assert.Equal(t, 2, strings.Count(out, "<path "))
}

func TestASCIIExporter(t *testing.T) {
	out, err := export.NewASCIIExporter(fixedOptions()).Export(sampleMap(t))
	require.NoError(t, err)

	assert.Contains(t, out, "[ Root")
	assert.Contains(t, out, "[ Plan (draft)")
	assert.Contains(t, out, "[ Tasks")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestExport_EmptyTree(t *testing.T) {
	tree := diagram.NewTree(nil)

	_, err := export.NewMermaidExporter().Export(tree)
	assert.Error(t, err)

	out, err := export.NewJSONExporter(fixedOptions()).Export(tree)
	require.NoError(t, err)
	assert.Contains(t, out, `"nodes": []`)
}
