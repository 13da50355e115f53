package importer

import (
	"fmt"
	"strings"

	"mindmap/diagram"
)

// mermaidShapes are the node delimiters of a Mermaid mindmap, longest first.
var mermaidShapes = [][2]string{
	{"((", "))"},
	{"))", "(("},
	{"{{", "}}"},
	{"(", ")"},
	{")", "("},
	{"[", "]"},
}

// MermaidImporter imports Mermaid mindmap diagrams. Every mindmap block
// becomes one root.
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks if the content is a Mermaid mindmap
func (m *MermaidImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "mindmap")
}

// Import converts Mermaid content to a document
func (m *MermaidImporter) Import(content string) (*diagram.Document, error) {
	if !m.CanImport(content) {
		return nil, fmt.Errorf("unsupported Mermaid diagram type")
	}

	var entries []outlineEntry
	newRoot := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "%%"):
			continue
		case trimmed == "mindmap":
			newRoot = true
			continue
		case strings.HasPrefix(trimmed, "::icon(") || strings.HasPrefix(trimmed, ":::"):
			// Decorations of the previous node
			continue
		}
		entries = append(entries, outlineEntry{
			depth:   indentWidth(line),
			text:    m.parseNode(trimmed),
			newRoot: newRoot,
		})
		newRoot = false
	}
	return buildOutline(entries)
}

// parseNode extracts the label of "id((text))", "id[text]" and the other
// shapes. A line without a shape is its own label.
func (m *MermaidImporter) parseNode(s string) string {
	for _, shape := range mermaidShapes {
		start, end := shape[0], shape[1]
		i := strings.Index(s, start)
		if i < 0 || strings.ContainsAny(s[:i], " \t") || !strings.HasSuffix(s, end) {
			continue
		}
		if i+len(start) > len(s)-len(end) {
			continue
		}
		return unquote(strings.TrimSpace(s[i+len(start) : len(s)-len(end)]))
	}
	return unquote(s)
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}

// Positioned returns false; Mermaid mindmaps carry no positions
func (m *MermaidImporter) Positioned() bool {
	return false
}

// indentWidth counts leading whitespace, a tab as four spaces.
func indentWidth(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '`' && s[len(s)-1] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
