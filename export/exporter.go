// Package export provides functionality to export mind maps to various
// text-based formats
package export

import (
	"fmt"
	"strings"
	"time"

	"mindmap/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatJSON exports the persisted document format
	FormatJSON Format = "json"
	// FormatYAML exports the persisted document as YAML
	FormatYAML Format = "yaml"
	// FormatMermaid exports to Mermaid mindmap syntax
	FormatMermaid Format = "mermaid"
	// FormatPlantUML exports to PlantUML mindmap syntax
	FormatPlantUML Format = "plantuml"
	// FormatDOT exports to Graphviz DOT syntax
	FormatDOT Format = "dot"
	// FormatSVG exports a positioned SVG drawing
	FormatSVG Format = "svg"
	// FormatASCII exports to Unicode text art
	FormatASCII Format = "ascii"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a tree to the target format
	Export(t *diagram.Tree) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// Options carries settings shared by exporters.
type Options struct {
	Title      string           // Document title; derived from the first root when empty
	NodeHeight float64          // Height of every node
	Now        func() time.Time // Timestamp source for documents
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{NodeHeight: 40, Now: time.Now}
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = DefaultOptions().NodeHeight
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	switch format {
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatYAML:
		return NewYAMLExporter(opts), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatPlantUML:
		return NewPlantUMLExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatSVG:
		return NewSVGExporter(opts), nil
	case FormatASCII:
		return NewASCIIExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "plantuml", "puml":
		return FormatPlantUML, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "svg":
		return FormatSVG, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatYAML,
		FormatMermaid,
		FormatPlantUML,
		FormatDOT,
		FormatSVG,
		FormatASCII,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:     "Mind map document (native format)",
		FormatYAML:     "Mind map document as YAML",
		FormatMermaid:  "Mermaid mindmap syntax (for Markdown)",
		FormatPlantUML: "PlantUML mindmap syntax",
		FormatDOT:      "Graphviz DOT syntax",
		FormatSVG:      "SVG drawing with the current layout",
		FormatASCII:    "Unicode text art",
	}
}

// singleLine flattens content for line-oriented formats.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func requireNodes(t *diagram.Tree) error {
	if t == nil {
		return fmt.Errorf("tree is nil")
	}
	if t.Len() == 0 {
		return fmt.Errorf("mind map has no nodes")
	}
	return nil
}
