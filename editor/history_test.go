package editor

import (
	"context"
	"errors"
	"testing"

	"mindmap/diagram"
)

func treeWithRoot(content string) *diagram.Tree {
	t := diagram.NewTree(nil)
	t.AddRoot(content, 0, 0)
	return t
}

func firstContent(t *diagram.Tree) string {
	return t.Node(t.Roots()[0]).Content
}

func TestStructHistory(t *testing.T) {
	h := NewStructHistory(5) // Small capacity for testing

	for _, name := range []string{"one", "two", "three"} {
		h.SaveState(treeWithRoot(name))
	}

	current, total := h.Stats()
	if total != 3 {
		t.Errorf("Expected 3 states, got %d", total)
	}
	if current != 3 {
		t.Errorf("Expected current position 3, got %d", current)
	}

	if !h.CanUndo() {
		t.Error("Should be able to undo")
	}
	undone, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := firstContent(undone); got != "two" {
		t.Errorf("Undo returned %q", got)
	}

	if !h.CanRedo() {
		t.Error("Should be able to redo after undo")
	}
	redone, err := h.Redo()
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if got := firstContent(redone); got != "three" {
		t.Errorf("Redo returned %q", got)
	}

	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Expected ErrNothingToRedo, got %v", err)
	}
}

func TestStructHistory_SaveDropsRedo(t *testing.T) {
	h := NewStructHistory(5)
	h.SaveState(treeWithRoot("one"))
	h.SaveState(treeWithRoot("two"))
	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	h.SaveState(treeWithRoot("other"))

	if h.CanRedo() {
		t.Error("Redo should not work after a new state")
	}
	if _, total := h.Stats(); total != 2 {
		t.Errorf("Expected 2 states, got %d", total)
	}
}

func TestStructHistory_Overflow(t *testing.T) {
	h := NewStructHistory(3) // Very small capacity

	for _, name := range []string{"1", "2", "3", "4", "5"} {
		h.SaveState(treeWithRoot(name))
	}

	// Should only have last 3 states
	if _, total := h.Stats(); total != 3 {
		t.Errorf("Expected 3 states after overflow, got %d", total)
	}

	h.Undo()
	state, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := firstContent(state); got != "3" {
		t.Errorf("Expected oldest state 3, got %q", got)
	}
	if h.CanUndo() {
		t.Error("Should not be able to undo past buffer start")
	}
	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Expected ErrNothingToUndo, got %v", err)
	}
}

func TestStructHistory_SnapshotsAreIsolated(t *testing.T) {
	h := NewStructHistory(5)
	tree := treeWithRoot("before")
	h.SaveState(tree)
	h.SaveState(treeWithRoot("next"))

	tree.Node(1).Content = "mutated"

	state, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := firstContent(state); got != "before" {
		t.Errorf("History leaked a later mutation: %q", got)
	}
	state.Node(1).Content = "changed again"
	again, _ := h.Redo()
	if got := firstContent(again); got != "next" {
		t.Errorf("Redo returned %q", got)
	}
}

func TestStructHistory_Clear(t *testing.T) {
	h := NewStructHistory(0)
	h.SaveState(treeWithRoot("one"))
	h.Clear()
	if current, total := h.Stats(); current != 0 || total != 0 {
		t.Errorf("Expected empty history, got %d/%d", current, total)
	}
	if h.max != DefaultHistorySize {
		t.Errorf("Expected default capacity, got %d", h.max)
	}
}

func TestUndoRedoIntegration(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	root, kids := newRootWithChildren(t, ed, 2)

	// initial + root + two children
	if _, total := ed.HistoryStats(); total != 4 {
		t.Errorf("Expected 4 history states, got %d", total)
	}

	if err := ed.DeleteNode(ctx, kids[0]); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if err := ed.Undo(ctx); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := len(ed.Nodes()); got != 3 {
		t.Errorf("Deleted node should be restored, got %d nodes", got)
	}

	if err := ed.Undo(ctx); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := len(ed.Nodes()); got != 2 {
		t.Errorf("Second child should be undone, got %d nodes", got)
	}

	// A new command clears the redo states
	if _, err := ed.CreateChild(ctx, root); err != nil {
		t.Fatalf("CreateChild failed: %v", err)
	}
	if err := ed.Redo(ctx); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Expected ErrNothingToRedo, got %v", err)
	}
}
