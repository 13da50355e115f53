// Package render draws a mind map onto a tcell screen. The terminal view
// and the ascii exporter share it.
package render

import (
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mindmap/diagram"
	"mindmap/navigation"
)

// Surface is the part of tcell.Screen drawing needs.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Viewport maps canvas coordinates to terminal cells.
type Viewport struct {
	OriginX, OriginY float64 // Canvas point drawn at cell (0, 0)
	ScaleX, ScaleY   float64 // Canvas units per cell
}

// DefaultViewport returns a viewport with one column per child character.
func DefaultViewport() Viewport {
	return Viewport{ScaleX: 9, ScaleY: 20}
}

// Col returns the column of canvas x.
func (v Viewport) Col(x float64) int {
	return int(math.Floor((x - v.OriginX) / v.ScaleX))
}

// Row returns the row of canvas y.
func (v Viewport) Row(y float64) int {
	return int(math.Floor((y - v.OriginY) / v.ScaleY))
}

// Pan moves the viewport by whole cells.
func (v Viewport) Pan(cols, rows int) Viewport {
	v.OriginX += float64(cols) * v.ScaleX
	v.OriginY += float64(rows) * v.ScaleY
	return v
}

// Renderer draws trees with a theme.
type Renderer struct {
	NodeHeight float64
	Theme      Theme
}

// NewRenderer creates a renderer for nodes of the given height.
func NewRenderer(nodeHeight float64, theme Theme) *Renderer {
	return &Renderer{NodeHeight: nodeHeight, Theme: theme}
}

// Fit returns a viewport that puts the visible map margin cells from the
// top-left corner, and the number of columns and rows needed to show it.
func (r *Renderer) Fit(t *diagram.Tree, base Viewport, margin int) (Viewport, int, int) {
	nodes := navigation.VisibleNodes(t)
	if len(nodes) == 0 {
		return base, 2 * margin, 2 * margin
	}
	b := r.bounds(nodes)
	v := base
	v.OriginX = b.Min.X - float64(margin)*v.ScaleX
	v.OriginY = b.Min.Y - float64(margin)*v.ScaleY

	cols := v.Col(b.Max.X) + margin + 1
	for _, n := range nodes {
		cols = max(cols, v.Col(n.X)+r.labelWidth(n, v)+margin)
	}
	rows := v.Row(b.Max.Y) + margin + 1
	return v, cols, rows
}

// Draw paints connectors then nodes.
func (r *Renderer) Draw(s Surface, t *diagram.Tree, conns []diagram.Connection, v Viewport) {
	grid := make(map[cell]uint8)
	for _, c := range conns {
		trace(grid, c, v)
	}
	for c, mask := range grid {
		setCell(s, c.x, c.y, r.Theme.Lines.Rune(mask), r.Theme.Line)
	}
	for _, n := range navigation.VisibleNodes(t) {
		r.drawNode(s, t, n, v)
	}
}

// DrawStatus writes text across the bottom row.
func (r *Renderer) DrawStatus(s Surface, text string) {
	w, h := s.Size()
	if h == 0 {
		return
	}
	for x := 0; x < w; x++ {
		s.SetContent(x, h-1, ' ', nil, r.Theme.Status)
	}
	drawText(s, 0, h-1, text, r.Theme.Status)
}

func (r *Renderer) drawNode(s Surface, t *diagram.Tree, n *diagram.Node, v Viewport) {
	style := r.Theme.Node
	switch {
	case n.IsEditing:
		style = r.Theme.Editing
	case n.IsSelected:
		style = r.Theme.Selected
	case n.IsCollapsed && len(t.Children(n.ID)) > 0:
		style = r.Theme.Collapsed
	case n.IsRoot():
		style = r.Theme.Root
	}
	col := v.Col(n.X)
	row := v.Row(n.Y + r.NodeHeight/2)
	drawText(s, col, row, r.label(t, n, v), style)
}

// label renders a node as "[ content ]", padded to the node's width. A
// collapsed node with children ends in "+]".
func (r *Renderer) label(t *diagram.Tree, n *diagram.Node, v Viewport) string {
	text := strings.ReplaceAll(n.Content, "\n", " ")
	closing := " ]"
	if n.IsCollapsed && len(t.Children(n.ID)) > 0 {
		closing = " +]"
	}
	pad := r.labelWidth(n, v) - runewidth.StringWidth(text) - 2 - len(closing)
	return "[ " + text + strings.Repeat(" ", max(pad, 0)) + closing
}

func (r *Renderer) labelWidth(n *diagram.Node, v Viewport) int {
	text := runewidth.StringWidth(strings.ReplaceAll(n.Content, "\n", " "))
	return max(int(n.Width/v.ScaleX), text+5)
}

type cell struct{ x, y int }

// trace adds the cells of one connector to the junction grid. The path runs
// right from the start, turns at the midpoint column and runs right into
// the child.
func trace(grid map[cell]uint8, c diagram.Connection, v Viewport) {
	sc, sr := v.Col(c.Start.X), v.Row(c.Start.Y)
	ec, er := v.Col(c.End.X), v.Row(c.End.Y)
	horizontal := func(y, x0, x1 int) {
		for x := x0; x <= x1; x++ {
			grid[cell{x, y}] |= left | right
		}
	}

	if sr == er {
		horizontal(sr, sc, ec-1)
		return
	}
	mc := v.Col((c.Start.X + c.End.X) / 2)
	horizontal(sr, sc, mc-1)
	toward, from := down, up
	lo, hi := sr+1, er-1
	if er < sr {
		toward, from = up, down
		lo, hi = er+1, sr-1
	}
	grid[cell{mc, sr}] |= left | toward
	for y := lo; y <= hi; y++ {
		grid[cell{mc, y}] |= up | down
	}
	grid[cell{mc, er}] |= from | right
	horizontal(er, mc+1, ec-1)
}

func (r *Renderer) bounds(nodes []*diagram.Node) diagram.Bounds {
	b := diagram.Bounds{
		Min: diagram.Point{X: nodes[0].X, Y: nodes[0].Y},
		Max: diagram.Point{X: nodes[0].X + nodes[0].Width, Y: nodes[0].Y + r.NodeHeight},
	}
	for _, n := range nodes[1:] {
		b = b.Union(diagram.Bounds{
			Min: diagram.Point{X: n.X, Y: n.Y},
			Max: diagram.Point{X: n.X + n.Width, Y: n.Y + r.NodeHeight},
		})
	}
	return b
}

func setCell(s Surface, x, y int, ch rune, style tcell.Style) {
	w, h := s.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.SetContent(x, y, ch, nil, style)
}

// drawText writes text starting at (x, y), advancing by display width.
func drawText(s Surface, x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		setCell(s, x, y, ch, style)
		x += w
	}
}
