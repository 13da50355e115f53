package layout

import (
	"testing"
)

// TestResolver_Siblings tests the sibling-subtree pass.
func TestResolver_Siblings(t *testing.T) {
	cfg := DefaultConfig()
	r := NewResolver(cfg)

	t.Run("Pushes the lower subtree down", func(t *testing.T) {
		tree := newTestTree()
		root := tree.AddRoot("Root", 0, 0)
		a, _ := tree.InsertChild(root.ID, -1, "A")
		b, _ := tree.InsertChild(root.ID, -1, "B")

		out, rep := r.ResolveSiblings(tree)

		if got := out.Node(b.ID).Y; got != 50 {
			t.Errorf("Expected b at y=50, got %g", got)
		}
		if got := out.Node(a.ID).Y; got != 0 {
			t.Errorf("Expected a to stay at y=0, got %g", got)
		}
		if rep.Shifts != 1 || rep.Passes != 2 || rep.Residual {
			t.Errorf("Unexpected report: %+v", rep)
		}
		if tree.Node(b.ID).Y != 0 {
			t.Error("Input snapshot was modified")
		}
		NewTestValidator(t, cfg).ValidateSiblingSeparation(out)
	})

	t.Run("Moves whole subtrees", func(t *testing.T) {
		tree := newTestTree()
		root := tree.AddRoot("Root", 0, 0)
		a, _ := tree.InsertChild(root.ID, -1, "A")
		b, _ := tree.InsertChild(root.ID, -1, "B")
		bc, _ := tree.InsertChild(b.ID, -1, "B child")
		tree.Translate(bc.ID, 200, 0)

		out, _ := r.ResolveSiblings(tree)

		if dy := out.Node(bc.ID).Y - out.Node(b.ID).Y; dy != 0 {
			t.Errorf("Expected grandchild to move with its parent, offset %g", dy)
		}
		if out.Node(a.ID).Y != 0 {
			t.Errorf("Expected upper sibling to stay, got %g", out.Node(a.ID).Y)
		}
		NewTestValidator(t, cfg).ValidateSiblingSeparation(out)
	})

	t.Run("Separated groups untouched", func(t *testing.T) {
		tree := newTestTree()
		root := tree.AddRoot("Root", 0, 0)
		_, _ = tree.InsertChild(root.ID, -1, "A")
		b, _ := tree.InsertChild(root.ID, -1, "B")
		tree.Translate(b.ID, 0, 100)

		_, rep := r.ResolveSiblings(tree)
		if rep.Shifts != 0 || rep.Passes != 1 {
			t.Errorf("Expected no work, got %+v", rep)
		}
	})
}

// TestResolver_Groups tests the cross-group pass between roots.
func TestResolver_Groups(t *testing.T) {
	r := NewResolver(DefaultConfig())

	t.Run("Overlapping roots", func(t *testing.T) {
		tree := newTestTree()
		_ = tree.AddRoot("One", 0, 0)
		two := tree.AddRoot("Two", 50, 20)

		out, rep := r.ResolveGroups(tree)
		if got := out.Node(two.ID).Y; got != 50 {
			t.Errorf("Expected second root at y=50, got %g", got)
		}
		if rep.Residual {
			t.Error("Expected overlap to be resolved")
		}
		if r.GroupOverlap(out) {
			t.Error("Groups still overlap")
		}
	})

	t.Run("Horizontally apart", func(t *testing.T) {
		tree := newTestTree()
		_ = tree.AddRoot("One", 0, 0)
		two := tree.AddRoot("Two", 500, 20)

		out, rep := r.ResolveGroups(tree)
		if out.Node(two.ID).Y != 20 || rep.Shifts != 0 {
			t.Errorf("Expected no move, got y=%g report %+v", out.Node(two.ID).Y, rep)
		}
	})
}
