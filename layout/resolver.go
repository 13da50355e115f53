package layout

import (
	"sort"

	"mindmap/diagram"
	"mindmap/geometry"
)

// Report summarises one bounded collision phase.
type Report struct {
	Passes   int  // Passes executed
	Shifts   int  // Subtrees moved
	Residual bool // Overlap still present when the budget ran out
}

// Resolver pushes overlapping subtrees apart. Resolution always moves the
// lower-centred subtree down, never the upper one up.
type Resolver struct {
	cfg Config
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// ResolveSiblings runs the sibling-subtree pass over every sibling group of
// the tree and returns the adjusted snapshot. Groups are handled deepest
// first so that a parent's extent is final before its own group is checked.
func (r *Resolver) ResolveSiblings(t *diagram.Tree) (*diagram.Tree, Report) {
	out := t.Clone()
	groups := r.siblingGroups(out)

	var rep Report
	for rep.Passes < r.cfg.MaxPasses {
		rep.Passes++
		moved := 0
		for _, g := range groups {
			moved += r.sweep(out, g)
		}
		rep.Shifts += moved
		if moved == 0 {
			return out, rep
		}
	}
	rep.Residual = r.SiblingOverlap(out)
	return out, rep
}

// ResolveGroups runs the coarser cross-group pass between root trees,
// comparing full bounding boxes (X and Y).
func (r *Resolver) ResolveGroups(t *diagram.Tree) (*diagram.Tree, Report) {
	out := t.Clone()
	h := r.cfg.nodeHeight()

	var rep Report
	for rep.Passes < r.cfg.MaxPasses {
		rep.Passes++
		roots := out.Roots()
		boxes := make(map[int]geometry.Box, len(roots))
		for _, id := range roots {
			boxes[id] = geometry.SubtreeBox(out, id, h)
		}
		sort.SliceStable(roots, func(i, j int) bool {
			return boxes[roots[i]].CenterY() < boxes[roots[j]].CenterY()
		})

		moved := 0
		for i := 0; i < len(roots); i++ {
			for j := i + 1; j < len(roots); j++ {
				a, b := boxes[roots[i]], boxes[roots[j]]
				if !a.OverlapsX(b) {
					continue
				}
				overlap := a.Extent().Overlap(b.Extent())
				if overlap <= r.cfg.OverlapEpsilon {
					continue
				}
				dy := overlap + r.cfg.Buffer
				out.Translate(roots[j], 0, dy)
				b.MinY += dy
				b.MaxY += dy
				boxes[roots[j]] = b
				moved++
			}
		}
		rep.Shifts += moved
		if moved == 0 {
			return out, rep
		}
	}
	rep.Residual = r.GroupOverlap(out)
	return out, rep
}

// SiblingOverlap reports whether any two sibling subtrees overlap vertically.
func (r *Resolver) SiblingOverlap(t *diagram.Tree) bool {
	for _, g := range r.siblingGroups(t) {
		if r.groupOverlaps(t, g) {
			return true
		}
	}
	return false
}

// GroupOverlap reports whether any two root trees' boxes intersect.
func (r *Resolver) GroupOverlap(t *diagram.Tree) bool {
	h := r.cfg.nodeHeight()
	roots := t.Roots()
	for i := 0; i < len(roots); i++ {
		a := geometry.SubtreeBox(t, roots[i], h)
		for j := i + 1; j < len(roots); j++ {
			b := geometry.SubtreeBox(t, roots[j], h)
			if a.OverlapsX(b) && a.Extent().Overlap(b.Extent()) > r.cfg.OverlapEpsilon {
				return true
			}
		}
	}
	return false
}

// sweep separates one sibling group, returning the number of moves.
func (r *Resolver) sweep(t *diagram.Tree, group []int) int {
	h := r.cfg.nodeHeight()
	type item struct {
		id  int
		ext geometry.Extent
	}
	items := make([]item, 0, len(group))
	for _, id := range group {
		items = append(items, item{id: id, ext: geometry.SubtreeExtent(t, id, h)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ext.Center() < items[j].ext.Center()
	})

	moved := 0
	bottom := items[0].ext.MaxY
	for _, it := range items[1:] {
		overlap := bottom - it.ext.MinY
		if overlap > r.cfg.OverlapEpsilon {
			dy := overlap + r.cfg.Buffer
			t.Translate(it.id, 0, dy)
			it.ext = it.ext.Shift(dy)
			moved++
		}
		bottom = max(bottom, it.ext.MaxY)
	}
	return moved
}

func (r *Resolver) groupOverlaps(t *diagram.Tree, group []int) bool {
	h := r.cfg.nodeHeight()
	exts := make([]geometry.Extent, len(group))
	for i, id := range group {
		exts[i] = geometry.SubtreeExtent(t, id, h)
	}
	for i := 0; i < len(exts); i++ {
		for j := i + 1; j < len(exts); j++ {
			if exts[i].Overlap(exts[j]) > r.cfg.OverlapEpsilon {
				return true
			}
		}
	}
	return false
}

// siblingGroups returns every children list with at least two members,
// deepest parents first.
func (r *Resolver) siblingGroups(t *diagram.Tree) [][]int {
	type group struct {
		level, parent int
		ids           []int
	}
	var groups []group
	for _, n := range t.NodeList() {
		kids := t.Children(n.ID)
		if len(kids) < 2 {
			continue
		}
		groups = append(groups, group{level: n.Level, parent: n.ID, ids: kids})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].level != groups[j].level {
			return groups[i].level > groups[j].level
		}
		return groups[i].parent < groups[j].parent
	})
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = g.ids
	}
	return out
}
