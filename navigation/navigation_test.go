package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/diagram"
)

// buildMap returns Root(200,300) with children A(400,270) and B(400,330),
// and A1 under A at (560,270).
func buildMap(t *testing.T) (*diagram.Tree, map[string]int) {
	t.Helper()
	tree := diagram.NewTree(func(string, bool) float64 { return 100 })
	root := tree.AddRoot("Root", 200, 300)
	a, err := tree.InsertChild(root.ID, -1, "A")
	require.NoError(t, err)
	b, err := tree.InsertChild(root.ID, -1, "B")
	require.NoError(t, err)
	a1, err := tree.InsertChild(a.ID, -1, "A1")
	require.NoError(t, err)

	tree.Translate(a.ID, 200, -30)
	tree.Translate(b.ID, 200, 30)
	tree.Translate(a1.ID, 160, 0)

	return tree, map[string]int{"root": root.ID, "a": a.ID, "b": b.ID, "a1": a1.ID}
}

func TestVisibleNodes(t *testing.T) {
	tree, ids := buildMap(t)

	assert.Equal(t, []int{ids["root"], ids["a"], ids["a1"], ids["b"]}, VisibleIDs(tree))

	tree.Node(ids["a"]).IsCollapsed = true
	assert.Equal(t, []int{ids["root"], ids["a"], ids["b"]}, VisibleIDs(tree))
	assert.False(t, IsVisible(tree, ids["a1"]))
	assert.True(t, IsVisible(tree, ids["a"]))
	assert.False(t, IsVisible(tree, 99))
}

func TestVisibleNodes_MultipleRoots(t *testing.T) {
	tree, ids := buildMap(t)
	other := tree.AddRoot("Other", 0, 600)

	got := VisibleIDs(tree)
	require.Len(t, got, 5)
	assert.Equal(t, ids["root"], got[0])
	assert.Equal(t, other.ID, got[4])
}

func TestFinder_Nearest(t *testing.T) {
	tree, ids := buildMap(t)
	f := NewFinder(40)

	tests := []struct {
		name string
		from string
		dir  diagram.Direction
		want string
	}{
		{"right of root ties go to the first child", "root", diagram.East, "a"},
		{"down from a", "a", diagram.South, "b"},
		{"up from b", "b", diagram.North, "a"},
		{"left from a1", "a1", diagram.West, "a"},
		{"right from a", "a", diagram.East, "a1"},
		{"nothing above a", "a", diagram.North, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Nearest(tree, ids[tt.from], tt.dir)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, ids[tt.want], got.ID)
		})
	}
}

func TestFinder_NearestSkipsHidden(t *testing.T) {
	tree, ids := buildMap(t)
	tree.Node(ids["a"]).IsCollapsed = true

	got, err := NewFinder(40).Nearest(tree, ids["a"], diagram.East)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFinder_NearestThreshold(t *testing.T) {
	tree := diagram.NewTree(func(string, bool) float64 { return 100 })
	root := tree.AddRoot("Root", 0, 0)
	near := tree.AddRoot("Near", 0, 8)

	f := NewFinder(40)
	got, err := f.Nearest(tree, root.ID, diagram.South)
	require.NoError(t, err)
	assert.Nil(t, got, "a node within the threshold is not below")

	tree.Node(near.ID).Y = 11
	got, err = f.Nearest(tree, root.ID, diagram.South)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, near.ID, got.ID)
}

func TestFinder_NearestTieBreak(t *testing.T) {
	tree := diagram.NewTree(func(string, bool) float64 { return 100 })
	root := tree.AddRoot("Root", 0, 100)
	up := tree.AddRoot("Up", 200, 0)
	_ = tree.AddRoot("Down", 200, 200)

	got, err := NewFinder(40).Nearest(tree, root.ID, diagram.East)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, up.ID, got.ID, "equal distances resolve to the first visible node")
}

func TestFinder_UnknownNode(t *testing.T) {
	tree, _ := buildMap(t)
	_, err := NewFinder(40).Nearest(tree, 404, diagram.North)
	assert.ErrorIs(t, err, diagram.ErrNodeNotFound)
}
