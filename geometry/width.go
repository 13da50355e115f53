package geometry

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Metrics describes how content maps to node size.
type Metrics struct {
	NodeHeight     float64 // Fixed height of every node
	RootCharWidth  float64 // Width per display column for roots
	ChildCharWidth float64 // Width per display column for non-roots
	Padding        float64 // Added to the text width
	RootMinWidth   float64
	ChildMinWidth  float64
}

// DefaultMetrics returns the sizing used by the editor.
func DefaultMetrics() Metrics {
	return Metrics{
		NodeHeight:     40,
		RootCharWidth:  12,
		ChildCharWidth: 9,
		Padding:        40,
		RootMinWidth:   120,
		ChildMinWidth:  80,
	}
}

// Width returns the display width for content. Roots use a larger
// multiplier and floor than other nodes.
func (m Metrics) Width(content string, isRoot bool) float64 {
	cols := float64(runewidth.StringWidth(strings.TrimSpace(content)))
	perChar, floor := m.ChildCharWidth, m.ChildMinWidth
	if isRoot {
		perChar, floor = m.RootCharWidth, m.RootMinWidth
	}
	w := cols*perChar + m.Padding
	if w < floor {
		return floor
	}
	return w
}

// MinWidth returns the floor for the given role.
func (m Metrics) MinWidth(isRoot bool) float64 {
	if isRoot {
		return m.RootMinWidth
	}
	return m.ChildMinWidth
}

// NodeWidth computes a width with the default metrics.
func NodeWidth(content string, isRoot bool) float64 {
	return DefaultMetrics().Width(content, isRoot)
}
