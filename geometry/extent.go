package geometry

import "mindmap/diagram"

// Extent is the vertical span of a subtree.
type Extent struct {
	MinY   float64
	MaxY   float64
	Height float64
}

// Center returns the vertical midpoint.
func (e Extent) Center() float64 {
	return (e.MinY + e.MaxY) / 2
}

// Overlap returns how far e and o overlap vertically; zero or negative
// means they are apart.
func (e Extent) Overlap(o Extent) float64 {
	return min(e.MaxY, o.MaxY) - max(e.MinY, o.MinY)
}

// Shift returns the extent moved by dy.
func (e Extent) Shift(dy float64) Extent {
	return Extent{MinY: e.MinY + dy, MaxY: e.MaxY + dy, Height: e.Height}
}

// Box is the full bounding box of a subtree including node widths.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Extent returns the vertical part of the box.
func (b Box) Extent() Extent {
	return Extent{MinY: b.MinY, MaxY: b.MaxY, Height: b.MaxY - b.MinY}
}

// CenterY returns the vertical midpoint.
func (b Box) CenterY() float64 {
	return (b.MinY + b.MaxY) / 2
}

// OverlapsX reports whether the horizontal ranges intersect.
func (b Box) OverlapsX(o Box) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX
}

// SubtreeExtent returns the vertical span of id and its descendants, each
// occupying nodeHeight. Height is never below one node height.
func SubtreeExtent(t *diagram.Tree, id int, nodeHeight float64) Extent {
	return SubtreeBox(t, id, nodeHeight).Extent()
}

// SubtreeBox returns the bounding box of id and its descendants.
func SubtreeBox(t *diagram.Tree, id int, nodeHeight float64) Box {
	ids := t.SubtreeIDs(id)
	if len(ids) == 0 {
		return Box{}
	}
	first := t.Node(ids[0])
	b := Box{MinX: first.X, MinY: first.Y, MaxX: first.X + first.Width, MaxY: first.Y + nodeHeight}
	for _, s := range ids[1:] {
		n := t.Node(s)
		b.MinX = min(b.MinX, n.X)
		b.MinY = min(b.MinY, n.Y)
		b.MaxX = max(b.MaxX, n.X+n.Width)
		b.MaxY = max(b.MaxY, n.Y+nodeHeight)
	}
	if b.MaxY-b.MinY < nodeHeight {
		b.MaxY = b.MinY + nodeHeight
	}
	return b
}

// GroupExtent returns the union of the subtree extents of ids.
func GroupExtent(t *diagram.Tree, ids []int, nodeHeight float64) (Extent, bool) {
	var out Extent
	found := false
	for _, id := range ids {
		if !t.Has(id) {
			continue
		}
		e := SubtreeExtent(t, id, nodeHeight)
		if !found {
			out = e
			found = true
			continue
		}
		out.MinY = min(out.MinY, e.MinY)
		out.MaxY = max(out.MaxY, e.MaxY)
	}
	out.Height = out.MaxY - out.MinY
	return out, found
}
