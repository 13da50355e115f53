package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/diagram"
)

func TestMetrics_Width(t *testing.T) {
	tests := []struct {
		name    string
		content string
		isRoot  bool
		want    float64
	}{
		{"empty root uses the floor", "", true, 120},
		{"short root uses the floor", "Root", true, 120},
		{"long root", "Quarterly plan", true, 14*12 + 40},
		{"empty child uses the floor", "", false, 80},
		{"long child", "Write the launch notes", false, 22*9 + 40},
		{"surrounding spaces ignored", "  Plan  ", false, 80},
		{"wide runes count two columns", "日本語の計画", false, 12*9 + 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeWidth(tt.content, tt.isRoot))
		})
	}
	assert.Equal(t, 120.0, DefaultMetrics().MinWidth(true))
	assert.Equal(t, 80.0, DefaultMetrics().MinWidth(false))
}

func TestExtent(t *testing.T) {
	a := Extent{MinY: 0, MaxY: 100, Height: 100}
	b := Extent{MinY: 80, MaxY: 140, Height: 60}

	assert.Equal(t, 50.0, a.Center())
	assert.Equal(t, 20.0, a.Overlap(b))
	assert.Equal(t, -20.0, a.Overlap(b.Shift(40)))
	assert.Equal(t, Extent{MinY: 90, MaxY: 150, Height: 60}, b.Shift(10))
}

func TestSubtreeBox(t *testing.T) {
	tree := diagram.NewTree(NodeWidth)
	root := tree.AddRoot("Root", 100, 200)
	a, err := tree.InsertChild(root.ID, -1, "A")
	require.NoError(t, err)
	b, err := tree.InsertChild(root.ID, -1, "B")
	require.NoError(t, err)
	tree.Translate(a.ID, 200, -60)
	tree.Translate(b.ID, 200, 60)

	box := SubtreeBox(tree, root.ID, 40)
	assert.Equal(t, Box{MinX: 100, MinY: 140, MaxX: 380, MaxY: 300}, box)
	assert.Equal(t, 220.0, box.CenterY())
	assert.Equal(t, Extent{MinY: 140, MaxY: 300, Height: 160}, SubtreeExtent(tree, root.ID, 40))

	leaf := SubtreeExtent(tree, a.ID, 40)
	assert.Equal(t, 40.0, leaf.Height)

	group, ok := GroupExtent(tree, []int{a.ID, b.ID}, 40)
	require.True(t, ok)
	assert.Equal(t, 140.0, group.MinY)
	assert.Equal(t, 300.0, group.MaxY)

	_, ok = GroupExtent(tree, nil, 40)
	assert.False(t, ok)

	assert.True(t, box.OverlapsX(Box{MinX: 370, MaxX: 400}))
	assert.False(t, box.OverlapsX(Box{MinX: 380, MaxX: 400}))
}

func TestMergeIntervals(t *testing.T) {
	got := MergeIntervals([]Interval{{50, 60}, {0, 10}, {10, 20}, {55, 70}})
	assert.Equal(t, []Interval{{0, 20}, {50, 70}}, got)
	assert.Nil(t, MergeIntervals(nil))
}

func TestFreeSpan(t *testing.T) {
	occupied := []Interval{{0, 40}, {100, 140}}

	tests := []struct {
		name string
		want Interval
		gap  float64
		out  Interval
	}{
		{"free position kept", Interval{50, 90}, 0, Interval{50, 90}},
		{"pushed below the closer edge", Interval{30, 70}, 10, Interval{50, 90}},
		{"gap too small between blocks", Interval{40, 80}, 20, Interval{-60, -20}},
		{"nothing occupied", Interval{0, 40}, 10, Interval{0, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := occupied
			if tt.name == "nothing occupied" {
				occ = nil
			}
			assert.Equal(t, tt.out, FreeSpan(tt.want, occ, tt.gap))
		})
	}
}

func TestInterval_Intersects(t *testing.T) {
	a := Interval{0, 40}
	assert.True(t, a.Intersects(Interval{30, 60}, 1))
	assert.False(t, a.Intersects(Interval{39.5, 60}, 1))
	assert.False(t, a.Intersects(Interval{40, 60}, 0))
}

func TestMath(t *testing.T) {
	assert.Equal(t, 3.0, Abs(-3))
	assert.Equal(t, 5.0, Clamp(9, 0, 5))
	assert.Equal(t, 0.0, Clamp(-1, 0, 5))
	assert.Equal(t, 5.0, Distance(0, 0, 3, 4))
	assert.Equal(t, 7.0, ManhattanDistance(0, 0, 3, 4))
	assert.True(t, NearlyEqual(1, 1.4, 0.5))
	assert.False(t, NearlyEqual(1, 2, 0.5))
	assert.True(t, IsHorizontal(0, 0, 10, 2))
	assert.False(t, IsHorizontal(0, 0, 2, 10))
}
