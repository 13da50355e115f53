package export

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"mindmap/diagram"
)

// YAMLExporter exports mind maps to the document format encoded as YAML
type YAMLExporter struct {
	opts Options
}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter(opts Options) *YAMLExporter {
	return &YAMLExporter{opts: opts}
}

// Export converts a tree to a YAML document
func (e *YAMLExporter) Export(t *diagram.Tree) (string, error) {
	if t == nil {
		return "", fmt.Errorf("tree is nil")
	}
	doc := t.ToDocument(e.opts.Title, e.opts.Now())

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

// GetFileExtension returns the file extension for YAML
func (e *YAMLExporter) GetFileExtension() string {
	return ".yaml"
}

// GetFormatName returns the format name
func (e *YAMLExporter) GetFormatName() string {
	return "YAML"
}
