package layout

import (
	"sort"

	"mindmap/diagram"
	"mindmap/geometry"
)

// SiblingClass groups sibling counts that share a contraction rule.
type SiblingClass int

const (
	ClassOnly   SiblingClass = iota // The removed node had no siblings
	ClassPair                       // One survivor
	ClassTriple                     // Two survivors
	ClassMany                       // Three or more survivors
)

// String returns the string representation of a SiblingClass.
func (c SiblingClass) String() string {
	switch c {
	case ClassOnly:
		return "only"
	case ClassPair:
		return "pair"
	case ClassTriple:
		return "triple"
	case ClassMany:
		return "many"
	default:
		return "unknown"
	}
}

// Classify maps a sibling group size, counting the removed node, to its class.
func Classify(k int) SiblingClass {
	switch {
	case k <= 1:
		return ClassOnly
	case k == 2:
		return ClassPair
	case k == 3:
		return ClassTriple
	default:
		return ClassMany
	}
}

// Removal records what a deletion took out of a sibling group. It is
// captured before the subtree is removed from the tree.
type Removal struct {
	ParentID  int
	Index     int             // Former position in the parent's children
	GroupSize int             // Sibling count including the removed node
	Extent    geometry.Extent // Extent of the removed subtree
}

// Class returns the contraction rule for the removal.
func (r Removal) Class() SiblingClass {
	return Classify(r.GroupSize)
}

// Rebalancer contracts a sibling group after one of its members was removed.
type Rebalancer struct {
	cfg        Config
	positioner *Positioner
}

// NewRebalancer creates a Rebalancer.
func NewRebalancer(cfg Config) *Rebalancer {
	return &Rebalancer{cfg: cfg, positioner: NewPositioner(cfg)}
}

// CaptureRemoval records the group position and extent of id so that the
// group can be contracted once id is gone.
func (r *Rebalancer) CaptureRemoval(t *diagram.Tree, id int) (Removal, bool) {
	parent := t.Parent(id)
	if parent == nil {
		return Removal{}, false
	}
	kids := t.Children(parent.ID)
	rm := Removal{
		ParentID:  parent.ID,
		Index:     -1,
		GroupSize: len(kids),
		Extent:    geometry.SubtreeExtent(t, id, r.cfg.nodeHeight()),
	}
	for i, k := range kids {
		if k == id {
			rm.Index = i
			break
		}
	}
	return rm, rm.Index >= 0
}

// Rebalance applies the contraction rule for rm to a copy of t, which must
// already have the subtree removed.
func (r *Rebalancer) Rebalance(t *diagram.Tree, rm Removal) *diagram.Tree {
	out := t.Clone()
	if !out.Has(rm.ParentID) {
		return out
	}
	switch rm.Class() {
	case ClassMany:
		r.contractMany(out, rm)
	case ClassTriple:
		r.contractTriple(out, rm)
	case ClassPair:
		r.contractPair(out, rm)
	case ClassOnly:
	}
	return out
}

// contractMany closes the hole by shifting later survivors, and the later
// siblings at every ancestor level, up by the removed height.
func (r *Rebalancer) contractMany(t *diagram.Tree, rm Removal) {
	dy := -rm.Extent.Height
	kids := t.Children(rm.ParentID)
	for i := rm.Index; i < len(kids); i++ {
		t.Translate(kids[i], 0, dy)
	}
	r.shiftLaterAncestorSiblings(t, rm.ParentID, dy)
}

func (r *Rebalancer) shiftLaterAncestorSiblings(t *diagram.Tree, id int, dy float64) {
	for cur := id; t.Parent(cur) != nil; cur = t.Parent(cur).ID {
		sibs := t.Siblings(cur)
		idx := t.IndexInParent(cur)
		for i := idx + 1; i < len(sibs); i++ {
			t.Translate(sibs[i], 0, dy)
		}
	}
}

// contractTriple recentres the parent between the two survivors and stacks
// them directly above and below that midpoint, one slot each. A slot is the
// survivor's own height or the group spacing, whichever is larger.
func (r *Rebalancer) contractTriple(t *diagram.Tree, rm Removal) {
	h := r.cfg.nodeHeight()
	kids := t.Children(rm.ParentID)
	if len(kids) != 2 {
		return
	}
	union, _ := geometry.GroupExtent(t, kids, h)
	mid := union.Center()

	parent := t.Node(rm.ParentID)
	pdelta := mid - h/2 - parent.Y
	parent.Y += pdelta

	exts := map[int]geometry.Extent{
		kids[0]: geometry.SubtreeExtent(t, kids[0], h),
		kids[1]: geometry.SubtreeExtent(t, kids[1], h),
	}
	sort.SliceStable(kids, func(i, j int) bool {
		return exts[kids[i]].Center() < exts[kids[j]].Center()
	})
	spacing := r.positioner.Spacing(rm.GroupSize, false)
	upper, lower := exts[kids[0]], exts[kids[1]]
	t.Translate(kids[0], 0, mid-max(upper.Height, spacing)/2-upper.Center())
	t.Translate(kids[1], 0, mid+max(lower.Height, spacing)/2-lower.Center())

	if pdelta == 0 {
		return
	}
	for cur := rm.ParentID; t.Parent(cur) != nil; cur = t.Parent(cur).ID {
		for _, s := range t.Siblings(cur) {
			if s != cur {
				t.Translate(s, 0, pdelta)
			}
		}
	}
}

// contractPair snaps the survivor level with the parent.
func (r *Rebalancer) contractPair(t *diagram.Tree, rm Removal) {
	kids := t.Children(rm.ParentID)
	if len(kids) != 1 {
		return
	}
	parent := t.Node(rm.ParentID)
	child := t.Node(kids[0])
	t.Translate(child.ID, 0, parent.Y-child.Y)
}
