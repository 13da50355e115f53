// Package connections derives the connector geometry between nodes and their
// visible children.
package connections

import (
	"mindmap/diagram"
	"mindmap/geometry"
	"mindmap/navigation"
)

// DefaultTolerance is the vertical offset below which a connector is drawn
// straight.
const DefaultTolerance = 5

// Builder computes connectors for a tree.
type Builder struct {
	NodeHeight float64
	Tolerance  float64
}

// NewBuilder creates a Builder for nodes of the given height.
func NewBuilder(nodeHeight float64) *Builder {
	return &Builder{NodeHeight: nodeHeight, Tolerance: DefaultTolerance}
}

// Build returns one connection per visible parent/child pair, in visible
// order. Collapsed nodes produce no connections.
func (b *Builder) Build(t *diagram.Tree) []diagram.Connection {
	var out []diagram.Connection
	for _, n := range navigation.VisibleNodes(t) {
		if n.IsCollapsed {
			continue
		}
		kids := t.Children(n.ID)
		for _, c := range kids {
			out = append(out, b.Connect(n, t.Node(c), len(kids)))
		}
	}
	return out
}

// Connect builds the connector from parent to child. siblings is the number
// of visible children of parent; an only child always gets a straight line.
func (b *Builder) Connect(parent, child *diagram.Node, siblings int) diagram.Connection {
	start := diagram.Point{X: parent.X + parent.Width, Y: parent.Y + b.NodeHeight/2}
	end := diagram.Point{X: child.X, Y: child.Y + b.NodeHeight/2}
	conn := diagram.Connection{
		From:  parent.ID,
		To:    child.ID,
		Shape: diagram.Straight,
		Start: start,
		End:   end,
	}
	if siblings == 1 || geometry.Abs(end.Y-start.Y) <= b.Tolerance {
		return conn
	}

	midX := (start.X + end.X) / 2
	conn.Shape = diagram.Composite
	conn.Mid = diagram.Point{X: midX, Y: start.Y}
	conn.Control = diagram.Point{X: midX, Y: end.Y}
	return conn
}

// ByParent groups connections by their parent id, keeping order.
func ByParent(conns []diagram.Connection) map[int][]diagram.Connection {
	out := make(map[int][]diagram.Connection)
	for _, c := range conns {
		out[c.From] = append(out[c.From], c)
	}
	return out
}
