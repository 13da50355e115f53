package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/connections"
	"mindmap/diagram"
	"mindmap/geometry"
)

// smallMap returns Root(200,300) with children A(400,270) and B(400,330).
func smallMap(t *testing.T) (*diagram.Tree, int) {
	t.Helper()
	tree := diagram.NewTree(geometry.DefaultMetrics().Width)
	root := tree.AddRoot("Root", 200, 300)
	a, err := tree.InsertChild(root.ID, -1, "A")
	require.NoError(t, err)
	b, err := tree.InsertChild(root.ID, -1, "B")
	require.NoError(t, err)
	tree.Translate(a.ID, 200, -30)
	tree.Translate(b.ID, 200, 30)
	tree.ClearEphemeral()
	return tree, root.ID
}

func TestRenderer_Capture(t *testing.T) {
	tree, _ := smallMap(t)
	r := NewRenderer(40, PlainTheme())

	got, err := r.Capture(tree, connections.NewBuilder(40).Build(tree), 1)
	require.NoError(t, err)

	want := strings.Join([]string{
		"",
		"",
		strings.Repeat(" ", 18) + "╭────[ A    ]",
		" [ Root      ]────┤",
		strings.Repeat(" ", 18) + "│",
		strings.Repeat(" ", 18) + "╰────[ B    ]",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderer_CollapsedMarker(t *testing.T) {
	tree, root := smallMap(t)
	tree.Node(root).IsCollapsed = true
	r := NewRenderer(40, PlainTheme())

	got, err := r.Capture(tree, connections.NewBuilder(40).Build(tree), 0)
	require.NoError(t, err)
	assert.Equal(t, "\n[ Root     +]", got)
}

func TestRenderer_Styles(t *testing.T) {
	tree, root := smallMap(t)
	tree.Node(root).IsSelected = true
	theme := DefaultTheme()
	r := NewRenderer(40, theme)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 10)

	v, _, _ := r.Fit(tree, DefaultViewport(), 1)
	r.Draw(screen, tree, nil, v)
	r.DrawStatus(screen, "ready")

	_, _, style, _ := screen.GetContent(1, 3)
	assert.Equal(t, theme.Selected, style)
	_, _, style, _ = screen.GetContent(23, 2)
	assert.Equal(t, theme.Node, style)

	ch, _, style, _ := screen.GetContent(0, 9)
	assert.Equal(t, 'r', ch)
	assert.Equal(t, theme.Status, style)
}

func TestLineStyle_Rune(t *testing.T) {
	ls := DefaultLineStyle
	assert.Equal(t, '┤', ls.Rune(up|down|left))
	assert.Equal(t, '┼', ls.Rune(up|down|left|right))
	assert.Equal(t, '╭', ls.Rune(down|right))
	assert.Equal(t, '+', SimpleLineStyle.Rune(up|left))
}

func TestViewport(t *testing.T) {
	v := DefaultViewport()
	assert.Equal(t, 2, v.Col(18))
	assert.Equal(t, -1, v.Row(-1))
	p := v.Pan(2, 1)
	assert.Equal(t, 0, p.Col(18))
	assert.Equal(t, 0, p.Row(20))
}
