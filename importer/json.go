package importer

import (
	"strings"

	"mindmap/diagram"
)

// JSONImporter imports the native document format
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport checks if the content is a JSON document with a nodes member
func (j *JSONImporter) CanImport(content string) bool {
	content = strings.TrimSpace(content)
	return strings.HasPrefix(content, "{") && strings.Contains(content, `"nodes"`)
}

// Import decodes the document
func (j *JSONImporter) Import(content string) (*diagram.Document, error) {
	return diagram.DecodeDocument([]byte(content))
}

// Positioned returns true; documents carry their layout
func (j *JSONImporter) Positioned() bool {
	return true
}

// GetFormatName returns the format name
func (j *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns common file extensions
func (j *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}
