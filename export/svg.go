package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"mindmap/connections"
	"mindmap/diagram"
	"mindmap/navigation"
)

const svgMargin = 20

// SVGExporter draws the visible part of the map with its current layout.
type SVGExporter struct {
	opts Options
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter(opts Options) *SVGExporter {
	return &SVGExporter{opts: opts}
}

// Export converts the tree to an SVG document
func (e *SVGExporter) Export(t *diagram.Tree) (string, error) {
	if err := requireNodes(t); err != nil {
		return "", err
	}
	h := e.opts.NodeHeight
	nodes := navigation.VisibleNodes(t)

	b := diagram.Bounds{Min: diagram.Point{X: nodes[0].X, Y: nodes[0].Y}, Max: diagram.Point{X: nodes[0].X, Y: nodes[0].Y}}
	for _, n := range nodes {
		b = b.Union(diagram.Bounds{
			Min: diagram.Point{X: n.X, Y: n.Y},
			Max: diagram.Point{X: n.X + n.Width, Y: n.Y + h},
		})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%g %g %g %g\">\n",
		b.Min.X-svgMargin, b.Min.Y-svgMargin, b.Width()+2*svgMargin, b.Height()+2*svgMargin))

	sb.WriteString("  <g fill=\"none\" stroke=\"#888\" stroke-width=\"2\">\n")
	for _, c := range connections.NewBuilder(h).Build(t) {
		sb.WriteString(fmt.Sprintf("    <path d=\"%s\"/>\n", c.SVGPath()))
	}
	sb.WriteString("  </g>\n")

	for _, n := range nodes {
		fill := "#fff"
		if n.IsRoot() {
			fill = "#e8f0fe"
		}
		sb.WriteString(fmt.Sprintf("  <g id=\"n%d\">\n", n.ID))
		sb.WriteString(fmt.Sprintf("    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"8\" fill=\"%s\" stroke=\"#333\"/>\n",
			n.X, n.Y, n.Width, h, fill))
		sb.WriteString(fmt.Sprintf("    <text x=\"%g\" y=\"%g\" text-anchor=\"middle\" dominant-baseline=\"middle\">%s</text>\n",
			n.X+n.Width/2, n.Y+h/2, escapeXML(singleLine(n.Content))))
		sb.WriteString("  </g>\n")
	}
	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// GetFileExtension returns the file extension for SVG files
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
