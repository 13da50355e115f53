package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/diagram"
)

const validDoc = `{
  "version": "1.0.0",
  "createdAt": "2026-01-02T03:04:05Z",
  "nodes": [
    {"id": 1, "x": 200, "y": 300, "content": "Root", "children": [2, 3], "level": 0, "width": 120},
    {"id": 2, "x": 400, "y": 270, "content": "A", "parentId": 1, "children": [], "level": 1, "width": 80},
    {"id": 3, "x": 400, "y": 330, "content": "B", "parentId": 1, "children": [], "level": 1, "width": 80}
  ],
  "metadata": {"title": "Root", "nodeCount": 3, "maxLevel": 1}
}`

func TestValidate_Valid(t *testing.T) {
	rep, err := Validate([]byte(validDoc))
	require.NoError(t, err)
	assert.True(t, rep.Valid())
	assert.Empty(t, rep.Issues)
}

func TestValidate_Schema(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not json", `{nodes`, "(root)"},
		{"missing nodes", `{"version": "1.0.0"}`, "(root)"},
		{"nodes not array", `{"nodes": {}}`, "nodes"},
		{"content not string", `{"nodes": [{"id": 1, "x": 0, "y": 0, "content": 5, "children": []}]}`, "nodes.0.content"},
		{"fractional id", `{"nodes": [{"id": 1.5, "x": 0, "y": 0, "content": "", "children": []}]}`, "nodes.0.id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Validate([]byte(tt.input))
			require.NoError(t, err)
			require.False(t, rep.Valid())
			assert.Equal(t, tt.field, rep.Errors()[0].Field)
		})
	}
}

func TestValidate_Relationships(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		contains string
	}{
		{
			name:     "missing parent",
			input:    `{"nodes": [{"id": 2, "x": 0, "y": 0, "content": "", "parentId": 9, "children": [], "level": 1}]}`,
			contains: "parent 9 does not exist",
		},
		{
			name: "duplicate id",
			input: `{"nodes": [{"id": 1, "x": 0, "y": 0, "content": "", "children": []},
				{"id": 1, "x": 0, "y": 0, "content": "", "children": []}]}`,
			contains: "duplicate node id 1",
		},
		{
			name: "cycle",
			input: `{"nodes": [{"id": 1, "x": 0, "y": 0, "content": "", "parentId": 2, "children": [2], "level": 1},
				{"id": 2, "x": 0, "y": 0, "content": "", "parentId": 1, "children": [1], "level": 2}]}`,
			contains: "parent cycle",
		},
		{
			name:     "dangling child",
			input:    `{"nodes": [{"id": 1, "x": 0, "y": 0, "content": "", "children": [99]}]}`,
			valid:    true,
			contains: "child 99 does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Validate([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, rep.Valid())

			var messages []string
			for _, i := range rep.Issues {
				messages = append(messages, i.String())
			}
			assert.Contains(t, strings.Join(messages, "\n"), tt.contains)
		})
	}
}

func TestCheckDocument_Warnings(t *testing.T) {
	pid := 1
	doc := &diagram.Document{
		Nodes: []diagram.Node{
			{ID: 1, Children: []int{2}},
			{ID: 2, ParentID: &pid, Children: []int{}, Level: 3},
		},
		Metadata: diagram.Metadata{NodeCount: 5},
	}
	rep := CheckDocument(doc)
	assert.True(t, rep.Valid())
	require.Len(t, rep.Warnings(), 2)
	assert.Equal(t, "nodes.1", rep.Warnings()[0].Field)
	assert.Equal(t, "metadata.nodeCount", rep.Warnings()[1].Field)
}

func TestLineValidator(t *testing.T) {
	tests := []struct {
		name     string
		rendered string
		errors   int
	}{
		{
			name: "rendered fork",
			rendered: strings.Join([]string{
				"                  ╭────[ A    ]",
				" [ Root      ]────┤",
				"                  │",
				"                  ╰────[ B    ]",
			}, "\n"),
		},
		{
			name:     "text inside labels is ignored",
			rendered: "[ a-b | c ]",
		},
		{
			name:     "run ending in space",
			rendered: "[ Root ]──── ",
			errors:   1,
		},
		{
			name: "corner without a vertical",
			rendered: strings.Join([]string{
				"[ Root ]──╮",
				"          ",
				"          ╰──[ A ]",
			}, "\n"),
			errors: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewLineValidator().Validate(tt.rendered)
			assert.Len(t, errs, tt.errors, "%v", errs)
		})
	}
}

func TestLineValidator_ASCII(t *testing.T) {
	v := NewLineValidator()
	assert.Empty(t, v.Validate("[ a ]--[ b ]"))

	v.SetASCII(false)
	assert.Empty(t, v.Validate("x--"))
}
