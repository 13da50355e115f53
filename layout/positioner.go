package layout

import (
	"mindmap/diagram"
	"mindmap/geometry"
)

// Positioner computes target positions for the children of a node. Children
// are spread symmetrically around the parent's Y in one column to the right
// of the parent.
type Positioner struct {
	cfg Config
}

// NewPositioner creates a Positioner.
func NewPositioner(cfg Config) *Positioner {
	return &Positioner{cfg: cfg}
}

// Spacing returns the anchor-to-anchor distance for a group of n children.
// It shrinks slightly as the group grows but never below the floor, and is
// widened when the column is already crowded by unrelated nodes.
func (p *Positioner) Spacing(n int, crowded bool) float64 {
	s := p.cfg.SpacingBase
	if n > 2 {
		s -= p.cfg.SpacingShrink * float64(n-2)
	}
	if s < p.cfg.SpacingFloor {
		s = p.cfg.SpacingFloor
	}
	if crowded {
		s += p.cfg.CrowdedBonus
	}
	return s
}

// ChildX returns the column children of parent are placed in.
func (p *Positioner) ChildX(parent *diagram.Node) float64 {
	return parent.X + parent.Width + p.cfg.HorizontalGap
}

// Place returns one position per child, in order. The children list may
// contain ids that are not yet committed to the tree; they are treated as
// leaves of minimum width.
func (p *Positioner) Place(t *diagram.Tree, parentID int, children []int) []diagram.Point {
	parent := t.Node(parentID)
	if parent == nil || len(children) == 0 {
		return nil
	}
	x := p.ChildX(parent)
	if len(children) == 1 {
		return []diagram.Point{{X: x, Y: parent.Y}}
	}

	occupied := p.occupiedBand(t, parentID, x, p.bandWidth(t, children))
	spacing := p.Spacing(len(children), len(occupied) > 0)

	h := p.cfg.nodeHeight()
	first := parent.Y - spacing*float64(len(children)-1)/2
	want := geometry.Interval{Lo: first, Hi: first + spacing*float64(len(children)-1) + h}
	got := geometry.FreeSpan(want, occupied, p.cfg.Buffer)
	shift := got.Lo - want.Lo

	out := make([]diagram.Point, len(children))
	for i := range children {
		out[i] = diagram.Point{X: x, Y: first + shift + spacing*float64(i)}
	}
	return out
}

// Apply moves every child subtree of parentID to its placed position.
func (p *Positioner) Apply(t *diagram.Tree, parentID int) {
	kids := t.Children(parentID)
	for i, pos := range p.Place(t, parentID, kids) {
		n := t.Node(kids[i])
		t.Translate(n.ID, pos.X-n.X, pos.Y-n.Y)
	}
}

func (p *Positioner) bandWidth(t *diagram.Tree, children []int) float64 {
	w := p.cfg.Metrics.ChildMinWidth
	for _, id := range children {
		if n := t.Node(id); n != nil && n.Width > w {
			w = n.Width
		}
	}
	return w
}

// occupiedBand returns the Y intervals of nodes outside parentID's subtree
// whose horizontal extent crosses [x, x+width).
func (p *Positioner) occupiedBand(t *diagram.Tree, parentID int, x, width float64) []geometry.Interval {
	own := make(map[int]bool)
	for _, id := range t.SubtreeIDs(parentID) {
		own[id] = true
	}
	h := p.cfg.nodeHeight()
	var out []geometry.Interval
	for _, n := range t.NodeList() {
		if own[n.ID] {
			continue
		}
		if n.X < x+width && n.X+n.Width > x {
			out = append(out, geometry.Interval{Lo: n.Y, Hi: n.Y + h})
		}
	}
	return out
}
