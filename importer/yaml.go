package importer

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mindmap/diagram"
)

// YAMLImporter imports documents written by the YAML exporter
type YAMLImporter struct{}

// NewYAMLImporter creates a new YAML importer
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport checks if the content is a YAML mapping with a nodes sequence
func (y *YAMLImporter) CanImport(content string) bool {
	return y.probe(content) == nil
}

// Import decodes the document. The nodes member must be a sequence.
func (y *YAMLImporter) Import(content string) (*diagram.Document, error) {
	if err := y.probe(content); err != nil {
		return nil, err
	}
	var doc diagram.Document
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", diagram.ErrInvalidDocument, err)
	}
	return &doc, nil
}

func (y *YAMLImporter) probe(content string) error {
	var root map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return fmt.Errorf("%w: %v", diagram.ErrInvalidDocument, err)
	}
	nodes, ok := root["nodes"]
	if !ok {
		return fmt.Errorf("%w: missing nodes", diagram.ErrInvalidDocument)
	}
	if nodes.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: nodes is not a sequence", diagram.ErrInvalidDocument)
	}
	return nil
}

// Positioned returns true; documents carry their layout
func (y *YAMLImporter) Positioned() bool {
	return true
}

// GetFormatName returns the format name
func (y *YAMLImporter) GetFormatName() string {
	return "YAML"
}

// GetFileExtensions returns common file extensions
func (y *YAMLImporter) GetFileExtensions() []string {
	return []string{".yaml", ".yml"}
}
