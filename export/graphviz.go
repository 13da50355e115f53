package export

import (
	"fmt"
	"strings"

	"mindmap/diagram"
)

// GraphvizExporter exports mind maps to Graphviz DOT format. Node positions
// are carried as pos attributes so neato -n reproduces the layout.
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the tree to DOT syntax
func (e *GraphvizExporter) Export(t *diagram.Tree) (string, error) {
	if err := requireNodes(t); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("digraph mindmap {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")
	sb.WriteString("\n")

	nodes := t.NodeList()
	for _, n := range nodes {
		attrs := []string{
			fmt.Sprintf("label=%s", e.quote(singleLine(n.Content))),
			fmt.Sprintf("pos=\"%g,%g!\"", n.X, -n.Y),
		}
		if n.IsRoot() {
			attrs = append(attrs, "penwidth=2")
		}
		if n.IsCollapsed {
			attrs = append(attrs, "style=\"rounded,dashed\"")
		}
		sb.WriteString(fmt.Sprintf("  n%d [%s];\n", n.ID, strings.Join(attrs, ", ")))
	}

	edges := 0
	for _, n := range nodes {
		for _, c := range t.Children(n.ID) {
			if edges == 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("  n%d -> n%d;\n", n.ID, c))
			edges++
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// quote escapes a label for DOT syntax
func (e *GraphvizExporter) quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}

// GetFileExtension returns the file extension for DOT files
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz"
}
