package navigation

import (
	"fmt"
	"math"

	"mindmap/diagram"
	"mindmap/geometry"
)

// DefaultThreshold is how far past the current node a candidate's centre
// must lie to count as being in the requested direction.
const DefaultThreshold = 10

// Finder answers nearest-node queries.
type Finder struct {
	NodeHeight float64
	Threshold  float64
}

// NewFinder creates a Finder for nodes of the given height.
func NewFinder(nodeHeight float64) *Finder {
	return &Finder{NodeHeight: nodeHeight, Threshold: DefaultThreshold}
}

// Center returns the centre point of n.
func (f *Finder) Center(n *diagram.Node) diagram.Point {
	return diagram.Point{X: n.X + n.Width/2, Y: n.Y + f.NodeHeight/2}
}

// Nearest returns the visible node closest to id in direction dir, measured
// centre to centre. Candidates must lie more than Threshold past id on the
// requested axis. Ties go to the earliest node in visible order. It returns
// nil when nothing qualifies.
func (f *Finder) Nearest(t *diagram.Tree, id int, dir diagram.Direction) (*diagram.Node, error) {
	cur := t.Node(id)
	if cur == nil {
		return nil, fmt.Errorf("nearest from %d: %w", id, diagram.ErrNodeNotFound)
	}
	from := f.Center(cur)

	var best *diagram.Node
	bestDist := math.Inf(1)
	for _, n := range VisibleNodes(t) {
		if n.ID == id {
			continue
		}
		to := f.Center(n)
		if !f.inDirection(from, to, dir) {
			continue
		}
		if d := geometry.Distance(from.X, from.Y, to.X, to.Y); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, nil
}

func (f *Finder) inDirection(from, to diagram.Point, dir diagram.Direction) bool {
	switch dir {
	case diagram.North:
		return to.Y < from.Y-f.Threshold
	case diagram.South:
		return to.Y > from.Y+f.Threshold
	case diagram.West:
		return to.X < from.X-f.Threshold
	case diagram.East:
		return to.X > from.X+f.Threshold
	default:
		return false
	}
}
