package importer

import (
	"fmt"
	"regexp"
	"strings"

	"mindmap/diagram"
)

// plantUMLNode matches "** text", "**_ text", "++[#red] text" and "--text".
var plantUMLNode = regexp.MustCompile(`^([*+-]+)(_?)(?:\[#[^\]]*\])?\s*(.*)$`)

// PlantUMLImporter imports PlantUML mindmap diagrams, one root per
// @startmindmap block.
type PlantUMLImporter struct{}

// NewPlantUMLImporter creates a new PlantUML importer
func NewPlantUMLImporter() *PlantUMLImporter {
	return &PlantUMLImporter{}
}

// CanImport checks if the content is a PlantUML mindmap
func (p *PlantUMLImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "@startmindmap")
}

// Import converts PlantUML content to a document. An underscore after the
// depth markers marks a collapsed branch.
func (p *PlantUMLImporter) Import(content string) (*diagram.Document, error) {
	if !p.CanImport(content) {
		return nil, fmt.Errorf("unsupported PlantUML diagram type")
	}

	var entries []outlineEntry
	newRoot := false
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "@startmindmap"):
			inBlock, newRoot = true, true
			continue
		case strings.HasPrefix(line, "@endmindmap"):
			inBlock = false
			continue
		case !inBlock || line == "" || strings.HasPrefix(line, "'"):
			continue
		}

		m := plantUMLNode.FindStringSubmatch(line)
		if m == nil {
			// title, caption, skinparam and friends
			continue
		}
		entries = append(entries, outlineEntry{
			depth:     len(m[1]),
			text:      strings.TrimSpace(m[3]),
			collapsed: m[2] == "_",
			newRoot:   newRoot,
		})
		newRoot = false
	}
	return buildOutline(entries)
}

// GetFormatName returns the format name
func (p *PlantUMLImporter) GetFormatName() string {
	return "PlantUML"
}

// GetFileExtensions returns common file extensions
func (p *PlantUMLImporter) GetFileExtensions() []string {
	return []string{".puml", ".plantuml", ".pu"}
}

// Positioned returns false; PlantUML mindmaps carry no positions
func (p *PlantUMLImporter) Positioned() bool {
	return false
}
