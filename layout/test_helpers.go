package layout

import (
	"fmt"
	"math/rand"
	"testing"

	"mindmap/diagram"
	"mindmap/geometry"
)

// TestValidator provides layout validation for tests.
type TestValidator struct {
	t   *testing.T
	cfg Config
}

// NewTestValidator creates a validator for the given test.
func NewTestValidator(t *testing.T, cfg Config) *TestValidator {
	return &TestValidator{t: t, cfg: cfg}
}

// ValidateSiblingSeparation ensures no two sibling subtrees overlap
// vertically beyond the overlap tolerance.
func (v *TestValidator) ValidateSiblingSeparation(tree *diagram.Tree) {
	v.t.Helper()
	h := v.cfg.nodeHeight()
	for _, n := range tree.NodeList() {
		kids := tree.Children(n.ID)
		for i := 0; i < len(kids); i++ {
			a := geometry.SubtreeExtent(tree, kids[i], h)
			for j := i + 1; j < len(kids); j++ {
				b := geometry.SubtreeExtent(tree, kids[j], h)
				if a.Overlap(b) > v.cfg.OverlapEpsilon {
					v.t.Errorf("Subtrees %d and %d under %d overlap: %s and %s",
						kids[i], kids[j], n.ID, extentString(a), extentString(b))
				}
			}
		}
	}
}

// ValidateTreeInvariants ensures the forest shape is intact and widths
// respect their floors.
func (v *TestValidator) ValidateTreeInvariants(tree *diagram.Tree) {
	v.t.Helper()
	if err := tree.CheckInvariants(); err != nil {
		v.t.Errorf("Tree invariant broken: %v", err)
	}
	for _, n := range tree.NodeList() {
		if n.Width < v.cfg.Metrics.MinWidth(n.IsRoot()) {
			v.t.Errorf("Node %d width %g below minimum %g",
				n.ID, n.Width, v.cfg.Metrics.MinWidth(n.IsRoot()))
		}
	}
}

// ValidateChildColumn ensures every child sits in its parent's child column.
func (v *TestValidator) ValidateChildColumn(tree *diagram.Tree, parentID int) {
	v.t.Helper()
	p := tree.Node(parentID)
	want := p.X + p.Width + v.cfg.HorizontalGap
	for _, c := range tree.Children(parentID) {
		if got := tree.Node(c).X; !geometry.NearlyEqual(got, want, 1e-9) {
			v.t.Errorf("Child %d at x=%g, expected %g", c, got, want)
		}
	}
}

// ValidateDeterminism ensures a build produces the same layout every run.
func (v *TestValidator) ValidateDeterminism(build func() *diagram.Tree, runs int) {
	v.t.Helper()
	first := build()
	for i := 1; i < runs; i++ {
		if !layoutsEqual(first, build()) {
			v.t.Errorf("Layout not deterministic: run %d differs from run 0", i)
		}
	}
}

func extentString(e geometry.Extent) string {
	return fmt.Sprintf("[%g - %g]", e.MinY, e.MaxY)
}

func layoutsEqual(a, b *diagram.Tree) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, an := range a.NodeList() {
		bn := b.Node(an.ID)
		if bn == nil || an.X != bn.X || an.Y != bn.Y || an.Width != bn.Width {
			return false
		}
	}
	return true
}

// Tree generators for stress testing

// GenerateTree builds a tree of the given depth and branching factor through
// the engine, the way an editor would create it one child at a time.
func GenerateTree(e *Engine, depth, branchingFactor int) (*diagram.Tree, error) {
	tree := diagram.NewTree(e.Measure())
	root := tree.AddRoot("Root", 200, 300)

	var grow func(parentID, level int) error
	grow = func(parentID, level int) error {
		if level >= depth {
			return nil
		}
		for i := 0; i < branchingFactor; i++ {
			child, err := tree.InsertChild(parentID, -1, fmt.Sprintf("N%d", tree.NextID()))
			if err != nil {
				return err
			}
			if tree, err = e.ApplyCreate(tree, parentID, child.ID); err != nil {
				return err
			}
			if err := grow(child.ID, level+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := grow(root.ID, 0); err != nil {
		return nil, err
	}
	return tree, nil
}

// GenerateRandomEdits applies a seeded random sequence of child creations,
// sibling creations and deletions.
func GenerateRandomEdits(e *Engine, seed int64, steps int) (*diagram.Tree, error) {
	rng := rand.New(rand.NewSource(seed))
	tree := diagram.NewTree(e.Measure())
	tree.AddRoot("Root", 200, 300)

	for i := 0; i < steps; i++ {
		nodes := tree.NodeList()
		target := nodes[rng.Intn(len(nodes))]
		var err error
		switch op := rng.Intn(10); {
		case op < 5 || target.IsRoot() && op < 8:
			var child *diagram.Node
			if child, err = tree.InsertChild(target.ID, -1, fmt.Sprintf("Idea %d", i)); err == nil {
				tree, err = e.ApplyCreate(tree, target.ID, child.ID)
			}
		case op < 8:
			parent := tree.Parent(target.ID)
			var sib *diagram.Node
			if sib, err = tree.InsertChild(parent.ID, tree.IndexInParent(target.ID)+1, fmt.Sprintf("Idea %d", i)); err == nil {
				tree, err = e.ApplyCreate(tree, parent.ID, sib.ID)
			}
		default:
			if target.IsRoot() {
				continue
			}
			rm, _ := e.CaptureRemoval(tree, target.ID)
			next := tree.Clone()
			if _, err = next.RemoveSubtree(target.ID); err == nil {
				tree, err = e.ApplyDelete(next, rm)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return tree, nil
}
