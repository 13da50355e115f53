package export

import (
	"strings"

	"mindmap/diagram"
)

// PlantUMLExporter exports mind maps to PlantUML mindmap syntax, one
// @startmindmap block per root.
type PlantUMLExporter struct{}

// NewPlantUMLExporter creates a new PlantUML exporter
func NewPlantUMLExporter() *PlantUMLExporter {
	return &PlantUMLExporter{}
}

// Export converts the tree to PlantUML syntax
func (e *PlantUMLExporter) Export(t *diagram.Tree) (string, error) {
	if err := requireNodes(t); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, root := range t.Roots() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("@startmindmap\n")
		e.writeNode(&sb, t, root, 1)
		sb.WriteString("@endmindmap\n")
	}
	return sb.String(), nil
}

func (e *PlantUMLExporter) writeNode(sb *strings.Builder, t *diagram.Tree, id, depth int) {
	n := t.Node(id)
	sb.WriteString(strings.Repeat("*", depth))
	if n.IsCollapsed && len(t.Children(id)) > 0 {
		// Folded branches are written with the underscore box style.
		sb.WriteString("_")
	}
	if label := singleLine(n.Content); label != "" {
		sb.WriteString(" ")
		sb.WriteString(label)
	}
	sb.WriteString("\n")
	for _, c := range t.Children(id) {
		e.writeNode(sb, t, c, depth+1)
	}
}

// GetFileExtension returns the file extension for PlantUML files
func (e *PlantUMLExporter) GetFileExtension() string {
	return ".puml"
}

// GetFormatName returns the format name
func (e *PlantUMLExporter) GetFormatName() string {
	return "PlantUML"
}
