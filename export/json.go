package export

import (
	"encoding/json"
	"fmt"

	"mindmap/diagram"
)

// JSONExporter exports mind maps to the document format
type JSONExporter struct {
	opts Options
}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter(opts Options) *JSONExporter {
	return &JSONExporter{opts: opts}
}

// Export converts a tree to an indented JSON document
func (e *JSONExporter) Export(t *diagram.Tree) (string, error) {
	if t == nil {
		return "", fmt.Errorf("tree is nil")
	}
	doc := t.ToDocument(e.opts.Title, e.opts.Now())
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
