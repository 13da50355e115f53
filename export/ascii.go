package export

import (
	"mindmap/connections"
	"mindmap/diagram"
	"mindmap/render"
)

// ASCIIExporter exports the visible map as box-drawing text
type ASCIIExporter struct {
	opts Options
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter(opts Options) *ASCIIExporter {
	return &ASCIIExporter{opts: opts}
}

// Export renders the tree to text
func (e *ASCIIExporter) Export(t *diagram.Tree) (string, error) {
	if err := requireNodes(t); err != nil {
		return "", err
	}
	r := render.NewRenderer(e.opts.NodeHeight, render.PlainTheme())
	out, err := r.Capture(t, connections.NewBuilder(e.opts.NodeHeight).Build(t), 1)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

// GetFileExtension returns the file extension for text files
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII"
}
