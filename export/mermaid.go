package export

import (
	"fmt"
	"strings"

	"mindmap/diagram"
)

// MermaidExporter exports mind maps to Mermaid mindmap syntax. Mermaid
// mindmaps have a single root, so every root gets its own block.
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the tree to Mermaid syntax
func (e *MermaidExporter) Export(t *diagram.Tree) (string, error) {
	if err := requireNodes(t); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, root := range t.Roots() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("mindmap\n")
		e.writeNode(&sb, t, root, 1)
	}
	return sb.String(), nil
}

func (e *MermaidExporter) writeNode(sb *strings.Builder, t *diagram.Tree, id, depth int) {
	n := t.Node(id)
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(e.getNodeShape(n))
	sb.WriteString("\n")
	for _, c := range t.Children(id) {
		e.writeNode(sb, t, c, depth+1)
	}
}

// getNodeShape renders roots as circles and other nodes as squares
func (e *MermaidExporter) getNodeShape(n *diagram.Node) string {
	label := e.getNodeLabel(n)
	if label == "" {
		return fmt.Sprintf("n%d", n.ID)
	}
	if n.IsRoot() {
		return fmt.Sprintf("n%d((%s))", n.ID, label)
	}
	return fmt.Sprintf("n%d[%s]", n.ID, label)
}

// getNodeLabel strips characters Mermaid treats as shape delimiters
func (e *MermaidExporter) getNodeLabel(n *diagram.Node) string {
	label := singleLine(n.Content)
	return strings.NewReplacer("(", "", ")", "", "[", "", "]", "", "{", "", "}", "").Replace(label)
}

// GetFileExtension returns the file extension for Mermaid files
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
