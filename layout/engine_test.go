package layout

import (
	"errors"
	"testing"

	"mindmap/diagram"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

// createChildren adds n children under parentID through the engine.
func createChildren(t *testing.T, e *Engine, tree *diagram.Tree, parentID, n int) (*diagram.Tree, []int) {
	t.Helper()
	var ids []int
	for i := 0; i < n; i++ {
		c, err := tree.InsertChild(parentID, -1, "")
		if err != nil {
			t.Fatalf("InsertChild failed: %v", err)
		}
		if tree, err = e.ApplyCreate(tree, parentID, c.ID); err != nil {
			t.Fatalf("ApplyCreate failed: %v", err)
		}
		ids = append(ids, c.ID)
	}
	return tree, ids
}

func deleteNode(t *testing.T, e *Engine, tree *diagram.Tree, id int) *diagram.Tree {
	t.Helper()
	rm, ok := e.CaptureRemoval(tree, id)
	if !ok {
		t.Fatalf("Node %d has no parent", id)
	}
	next := tree.Clone()
	if _, err := next.RemoveSubtree(id); err != nil {
		t.Fatalf("RemoveSubtree failed: %v", err)
	}
	out, err := e.ApplyDelete(next, rm)
	if err != nil {
		t.Fatalf("ApplyDelete failed: %v", err)
	}
	return out
}

func expectYs(t *testing.T, tree *diagram.Tree, ids []int, want []float64) {
	t.Helper()
	for i, id := range ids {
		if got := tree.Node(id).Y; got != want[i] {
			t.Errorf("Node %d: expected y=%g, got %g", id, want[i], got)
		}
	}
}

// TestEngine_Scenarios tests the documented create and delete scenarios.
func TestEngine_Scenarios(t *testing.T) {
	e := newTestEngine(t)
	validator := NewTestValidator(t, e.Config())
	spacing := e.Positioner().Spacing(3, false)

	tree := newTestTree()
	root := tree.AddRoot("Root", 200, 300)
	tree, kids := createChildren(t, e, tree, root.ID, 3)

	t.Run("Three children around the root", func(t *testing.T) {
		expectYs(t, tree, kids, []float64{300 - spacing, 300, 300 + spacing})
		validator.ValidateChildColumn(tree, root.ID)
		validator.ValidateSiblingSeparation(tree)
		if got := tree.Node(root.ID).Y; got != 300 {
			t.Errorf("Expected root to stay at 300, got %g", got)
		}
	})

	t.Run("Delete the middle child", func(t *testing.T) {
		out := deleteNode(t, e, tree, kids[1])
		expectYs(t, out, []int{kids[0], kids[2]}, []float64{300 - spacing/2, 300 + spacing/2})
		if got := out.Node(root.ID).Y; got != 300 {
			t.Errorf("Expected root to stay at 300, got %g", got)
		}
		if got := out.Node(root.ID).Children; len(got) != 2 || got[0] != kids[0] || got[1] != kids[2] {
			t.Errorf("Survivor order changed: %v", got)
		}
		validator.ValidateTreeInvariants(out)
	})
}

func TestEngine_DeleteClasses(t *testing.T) {
	e := newTestEngine(t)

	t.Run("Pair snaps the survivor to the parent", func(t *testing.T) {
		tree := newTestTree()
		root := tree.AddRoot("Root", 200, 300)
		tree, kids := createChildren(t, e, tree, root.ID, 2)

		out := deleteNode(t, e, tree, kids[1])
		expectYs(t, out, []int{kids[0]}, []float64{300})
	})

	t.Run("Many closes the gap", func(t *testing.T) {
		tree := newTestTree()
		root := tree.AddRoot("Root", 200, 300)
		tree, kids := createChildren(t, e, tree, root.ID, 4)
		expectYs(t, tree, kids, []float64{216, 272, 328, 384})

		out := deleteNode(t, e, tree, kids[1])
		expectYs(t, out, []int{kids[0], kids[2], kids[3]}, []float64{216, 288, 344})
		if got := out.Node(root.ID).Y; got != 280 {
			t.Errorf("Expected root recentred to 280, got %g", got)
		}
	})

	t.Run("Only child", func(t *testing.T) {
		tree := newTestTree()
		root := tree.AddRoot("Root", 200, 300)
		tree, kids := createChildren(t, e, tree, root.ID, 1)

		out := deleteNode(t, e, tree, kids[0])
		if out.Len() != 1 || out.Node(root.ID).Y != 300 {
			t.Errorf("Expected a lone root at 300, got %d nodes, y=%g", out.Len(), out.Node(root.ID).Y)
		}
	})
}

func TestEngine_ApplyResize(t *testing.T) {
	e := newTestEngine(t)
	tree := newTestTree()
	root := tree.AddRoot("Root", 200, 300)
	tree, kids := createChildren(t, e, tree, root.ID, 1)

	t.Run("Small change keeps children", func(t *testing.T) {
		next := tree.Clone()
		old, _, _ := next.SetContent(root.ID, "Roots")
		out, err := e.ApplyResize(next, root.ID, old)
		if err != nil {
			t.Fatalf("ApplyResize failed: %v", err)
		}
		if got := out.Node(kids[0]).X; got != 400 {
			t.Errorf("Expected child to stay at x=400, got %g", got)
		}
	})

	t.Run("Wider parent pushes children right", func(t *testing.T) {
		next := tree.Clone()
		old, width, _ := next.SetContent(root.ID, "A much longer root title")
		out, err := e.ApplyResize(next, root.ID, old)
		if err != nil {
			t.Fatalf("ApplyResize failed: %v", err)
		}
		if got, want := out.Node(kids[0]).X, 200+width+80; got != want {
			t.Errorf("Expected child at x=%g, got %g", want, got)
		}
		NewTestValidator(t, e.Config()).ValidateChildColumn(out, root.ID)
	})
}

func TestEngine_ApplyMove(t *testing.T) {
	e := newTestEngine(t)
	tree := newTestTree()
	root := tree.AddRoot("Root", 200, 300)
	tree, kids := createChildren(t, e, tree, root.ID, 2)

	out, err := e.ApplyMove(tree, kids[0], 0, 80)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	expectYs(t, out, kids, []float64{380, 330})
	if got := out.Node(root.ID).Y; got != 355 {
		t.Errorf("Expected root recentred to 355, got %g", got)
	}
	NewTestValidator(t, e.Config()).ValidateSiblingSeparation(out)
}

func TestEngine_PlaceRootBelow(t *testing.T) {
	e := newTestEngine(t)
	tree := newTestTree()
	root := tree.AddRoot("Root", 200, 300)
	tree, _ = createChildren(t, e, tree, root.ID, 3)

	p, err := e.PlaceRootBelow(tree, root.ID)
	if err != nil {
		t.Fatalf("PlaceRootBelow failed: %v", err)
	}
	if p.X != 200 || p.Y != 358+40+60 {
		t.Errorf("Expected (200, 458), got (%g, %g)", p.X, p.Y)
	}
}

func TestEngine_UnknownNode(t *testing.T) {
	e := newTestEngine(t)
	tree := newTestTree()
	if _, err := e.FullLayoutAdjustment(tree, 7); !errors.Is(err, diagram.ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}
}

func TestEngine_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPasses = 0
	if _, err := NewEngine(cfg); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}

// TestEngine_Stress tests separation and determinism over generated trees.
func TestEngine_Stress(t *testing.T) {
	e := newTestEngine(t)
	validator := NewTestValidator(t, e.Config())

	t.Run("Balanced trees", func(t *testing.T) {
		for _, shape := range [][2]int{{2, 3}, {3, 3}, {4, 2}} {
			tree, err := GenerateTree(e, shape[0], shape[1])
			if err != nil {
				t.Fatalf("GenerateTree%v failed: %v", shape, err)
			}
			validator.ValidateSiblingSeparation(tree)
			validator.ValidateTreeInvariants(tree)
		}
	})

	t.Run("Random edits", func(t *testing.T) {
		for seed := int64(1); seed <= 5; seed++ {
			tree, err := GenerateRandomEdits(e, seed, 30)
			if err != nil {
				t.Fatalf("Seed %d failed: %v", seed, err)
			}
			validator.ValidateSiblingSeparation(tree)
			validator.ValidateTreeInvariants(tree)
		}
	})

	t.Run("Determinism", func(t *testing.T) {
		validator.ValidateDeterminism(func() *diagram.Tree {
			tree, err := GenerateRandomEdits(e, 42, 25)
			if err != nil {
				t.Fatalf("GenerateRandomEdits failed: %v", err)
			}
			return tree
		}, 3)
	})
}
