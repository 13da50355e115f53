package layout

import (
	"sort"

	"mindmap/diagram"
	"mindmap/geometry"
)

// PropagationReport describes one upward walk.
type PropagationReport struct {
	Levels int  // Ancestor levels visited
	Forced int  // Levels respaced only because of residual overlap
	Capped bool // Walk stopped at the depth cap
}

// Propagator keeps ancestors centred on their children and spaces sibling
// groups apart as subtrees grow and shrink.
type Propagator struct {
	cfg Config
}

// NewPropagator creates a Propagator.
func NewPropagator(cfg Config) *Propagator {
	return &Propagator{cfg: cfg}
}

// RecenterParent moves the parent node (not its subtree) so that its centre
// lines up with the centre of its children's combined extent. It returns the
// applied delta, or 0 when the parent was already within tolerance.
func (p *Propagator) RecenterParent(t *diagram.Tree, parentID int) float64 {
	parent := t.Node(parentID)
	if parent == nil {
		return 0
	}
	h := p.cfg.nodeHeight()
	ext, ok := geometry.GroupExtent(t, t.Children(parentID), h)
	if !ok {
		return 0
	}
	delta := ext.Center() - h/2 - parent.Y
	if geometry.Abs(delta) <= p.cfg.CenterTolerance {
		return 0
	}
	parent.Y += delta
	return delta
}

// MinGap returns the required gap between two adjacent sibling subtrees. It
// grows with the taller of the two, measured in node heights and capped.
func (p *Propagator) MinGap(a, b geometry.Extent) float64 {
	h := p.cfg.nodeHeight()
	units := max(a.Height, b.Height) / h
	complexity := geometry.Clamp(units-1, 0, p.cfg.ComplexityCap)
	return p.cfg.SiblingGap + p.cfg.ComplexityGap*complexity
}

// RespaceSiblings re-spaces the sibling group of id after id moved by delta.
// id stays fixed; siblings below it are pushed down and siblings above it
// pushed up until every adjacent pair has at least MinGap between them.
// Gaps are only widened, never closed. Root groups are left alone. With
// force the group is respaced even when delta is negligible. It returns the
// number of subtrees moved.
func (p *Propagator) RespaceSiblings(t *diagram.Tree, id int, delta float64, force bool) int {
	if t.Parent(id) == nil {
		return 0
	}
	if !force && geometry.Abs(delta) <= p.cfg.CenterTolerance {
		return 0
	}
	order, exts := p.verticalOrder(t, t.Siblings(id))
	pivot := -1
	for i, s := range order {
		if s == id {
			pivot = i
			break
		}
	}
	if pivot < 0 {
		return 0
	}

	moved := 0
	for i := pivot + 1; i < len(order); i++ {
		need := exts[i-1].MaxY + p.MinGap(exts[i-1], exts[i]) - exts[i].MinY
		if need > 0 {
			t.Translate(order[i], 0, need)
			exts[i] = exts[i].Shift(need)
			moved++
		}
	}
	for i := pivot - 1; i >= 0; i-- {
		need := exts[i].MaxY + p.MinGap(exts[i], exts[i+1]) - exts[i+1].MinY
		if need > 0 {
			t.Translate(order[i], 0, -need)
			exts[i] = exts[i].Shift(-need)
			moved++
		}
	}
	return moved
}

// PropagateUpward walks from id's parent towards the root on a copy of t.
// Each level recentres the parent and respaces its sibling group. The walk
// stops once a level changes nothing significant and no sibling group on the
// remaining ancestor chain still overlaps, or at the depth cap.
func (p *Propagator) PropagateUpward(t *diagram.Tree, id int) (*diagram.Tree, PropagationReport) {
	out := t.Clone()
	var rep PropagationReport

	cur := id
	for {
		parent := out.Parent(cur)
		if parent == nil {
			break
		}
		if rep.Levels >= p.cfg.MaxDepth {
			rep.Capped = true
			break
		}
		rep.Levels++

		if delta := p.RecenterParent(out, parent.ID); delta != 0 {
			p.RespaceSiblings(out, parent.ID, delta, false)
		} else if p.ResidualOverlap(out, parent.ID) {
			p.RespaceSiblings(out, parent.ID, 0, true)
			rep.Forced++
		} else {
			break
		}
		cur = parent.ID
	}
	return out, rep
}

// ResidualOverlap reports whether the sibling group of id, or of any of its
// ancestors, still contains adjacent subtrees that overlap. Root groups are
// handled by the cross-group pass and are not inspected.
func (p *Propagator) ResidualOverlap(t *diagram.Tree, id int) bool {
	chain := append([]int{id}, t.Ancestors(id)...)
	for _, n := range chain {
		if t.Parent(n) == nil {
			continue
		}
		_, exts := p.verticalOrder(t, t.Siblings(n))
		for i := 1; i < len(exts); i++ {
			if exts[i-1].Overlap(exts[i]) > p.cfg.OverlapEpsilon {
				return true
			}
		}
	}
	return false
}

// verticalOrder returns ids sorted by the centre of their subtree extents,
// together with those extents.
func (p *Propagator) verticalOrder(t *diagram.Tree, ids []int) ([]int, []geometry.Extent) {
	h := p.cfg.nodeHeight()
	order := make([]int, len(ids))
	copy(order, ids)
	byID := make(map[int]geometry.Extent, len(ids))
	for _, id := range ids {
		byID[id] = geometry.SubtreeExtent(t, id, h)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return byID[order[i]].Center() < byID[order[j]].Center()
	})
	exts := make([]geometry.Extent, len(order))
	for i, id := range order {
		exts[i] = byID[id]
	}
	return order, exts
}
