// Package importer reads mind maps from other formats into documents.
package importer

import (
	"fmt"
	"strings"
	"time"

	"mindmap/diagram"
)

// Importer interface defines methods for importing mind maps from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import converts the input content into a document
	Import(content string) (*diagram.Document, error)

	// Positioned reports whether imported nodes carry usable positions.
	// Outline formats return false and need a fresh layout.
	Positioned() bool

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// Result is an imported document with the importer that produced it.
type Result struct {
	Document   *diagram.Document
	Format     string
	Positioned bool
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a new importer registry. JSON is tried before
// YAML since every JSON document is also YAML.
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewJSONImporter(),
			NewMermaidImporter(),
			NewPlantUMLImporter(),
			NewYAMLImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*Result, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return run(importer, content)
}

// ImportWithFormat imports content using a specific format, matched against
// the format names and file extensions.
func (r *ImporterRegistry) ImportWithFormat(content, format string) (*Result, error) {
	format = strings.ToLower(format)
	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return run(imp, content)
		}
		for _, ext := range imp.GetFileExtensions() {
			if strings.TrimPrefix(ext, ".") == strings.TrimPrefix(format, ".") {
				return run(imp, content)
			}
		}
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}

func run(imp Importer, content string) (*Result, error) {
	doc, err := imp.Import(content)
	if err != nil {
		return nil, fmt.Errorf("%s import: %w", imp.GetFormatName(), err)
	}
	return &Result{Document: doc, Format: imp.GetFormatName(), Positioned: imp.Positioned()}, nil
}

// outlineEntry is one node of an indented outline. Depth only needs to grow
// with nesting; it is compared, not counted.
type outlineEntry struct {
	depth     int
	text      string
	collapsed bool
	newRoot   bool
}

// buildOutline turns outline entries into a document. Each entry becomes a
// child of the closest earlier entry with a smaller depth, or a new root
// when there is none.
func buildOutline(entries []outlineEntry) (*diagram.Document, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no nodes found", diagram.ErrInvalidDocument)
	}
	type frame struct{ depth, id int }

	t := diagram.NewTree(nil)
	var stack []frame
	for _, e := range entries {
		if e.newRoot {
			stack = stack[:0]
		}
		for len(stack) > 0 && stack[len(stack)-1].depth >= e.depth {
			stack = stack[:len(stack)-1]
		}
		var n *diagram.Node
		if len(stack) == 0 {
			n = t.AddRoot(e.text, 0, 0)
		} else {
			var err error
			if n, err = t.InsertChild(stack[len(stack)-1].id, -1, e.text); err != nil {
				return nil, err
			}
		}
		n.IsCollapsed = e.collapsed
		stack = append(stack, frame{e.depth, n.ID})
	}
	doc := t.ToDocument("", time.Now())
	return &doc, nil
}
