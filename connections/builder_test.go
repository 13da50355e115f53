package connections

import (
	"testing"

	"mindmap/diagram"
)

func fixedWidth(string, bool) float64 { return 100 }

func TestBuilder_SingleChildIsStraight(t *testing.T) {
	tree := diagram.NewTree(fixedWidth)
	root := tree.AddRoot("Root", 0, 0)
	c, _ := tree.InsertChild(root.ID, -1, "Child")
	tree.Translate(c.ID, 180, 200)

	conns := NewBuilder(40).Build(tree)
	if len(conns) != 1 {
		t.Fatalf("Expected 1 connection, got %d", len(conns))
	}
	got := conns[0]
	if got.Shape != diagram.Straight {
		t.Errorf("Expected straight connector for an only child, got %v", got.Shape)
	}
	if got.Start != (diagram.Point{X: 100, Y: 20}) {
		t.Errorf("Expected start at parent right-centre, got %+v", got.Start)
	}
	if got.End != (diagram.Point{X: 180, Y: 220}) {
		t.Errorf("Expected end at child left-centre, got %+v", got.End)
	}
}

func TestBuilder_Composite(t *testing.T) {
	tree := diagram.NewTree(fixedWidth)
	root := tree.AddRoot("Root", 0, 100)
	level, _ := tree.InsertChild(root.ID, -1, "Level")
	low, _ := tree.InsertChild(root.ID, -1, "Low")
	tree.Translate(level.ID, 180, 3)
	tree.Translate(low.ID, 180, 60)

	conns := NewBuilder(40).Build(tree)
	if len(conns) != 2 {
		t.Fatalf("Expected 2 connections, got %d", len(conns))
	}

	if conns[0].Shape != diagram.Straight {
		t.Errorf("Expected straight connector within tolerance, got %v", conns[0].Shape)
	}

	c := conns[1]
	if c.Shape != diagram.Composite {
		t.Fatalf("Expected composite connector, got %v", c.Shape)
	}
	if c.Mid != (diagram.Point{X: 140, Y: 120}) {
		t.Errorf("Expected horizontal segment to (140, 120), got %+v", c.Mid)
	}
	if c.Control != (diagram.Point{X: 140, Y: 180}) {
		t.Errorf("Expected control point (140, 180), got %+v", c.Control)
	}
	if want := "M 100 120 L 140 120 Q 140 180 180 180"; c.SVGPath() != want {
		t.Errorf("Expected path %q, got %q", want, c.SVGPath())
	}
}

func TestBuilder_CollapsedParent(t *testing.T) {
	tree := diagram.NewTree(fixedWidth)
	root := tree.AddRoot("Root", 0, 0)
	a, _ := tree.InsertChild(root.ID, -1, "A")
	_, _ = tree.InsertChild(a.ID, -1, "A1")
	_, _ = tree.InsertChild(root.ID, -1, "B")

	b := NewBuilder(40)
	if got := len(b.Build(tree)); got != 3 {
		t.Fatalf("Expected 3 connections, got %d", got)
	}

	tree.Node(a.ID).IsCollapsed = true
	conns := b.Build(tree)
	if len(conns) != 2 {
		t.Fatalf("Expected 2 connections with a collapsed, got %d", len(conns))
	}
	for _, c := range conns {
		if c.From == a.ID {
			t.Errorf("Collapsed node %d produced a connection to %d", a.ID, c.To)
		}
	}

	tree.Node(root.ID).IsCollapsed = true
	if got := len(b.Build(tree)); got != 0 {
		t.Errorf("Expected no connections under a collapsed root, got %d", got)
	}
}

func TestByParent(t *testing.T) {
	conns := []diagram.Connection{{From: 1, To: 2}, {From: 2, To: 3}, {From: 1, To: 4}}
	groups := ByParent(conns)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if got := groups[1]; len(got) != 2 || got[0].To != 2 || got[1].To != 4 {
		t.Errorf("Unexpected group for 1: %+v", got)
	}
}
