package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"mindmap/diagram"
)

// Capture draws the visible map on an off-screen simulation screen sized to
// fit it and returns the screen contents as text, one line per row with
// trailing blanks removed.
func (r *Renderer) Capture(t *diagram.Tree, conns []diagram.Connection, margin int) (string, error) {
	v, cols, rows := r.Fit(t, DefaultViewport(), margin)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("init simulation screen: %w", err)
	}
	defer screen.Fini()
	screen.SetSize(cols, rows)
	screen.Clear()

	r.Draw(screen, t, conns, v)
	return ScreenText(screen), nil
}

// ScreenText reads a screen's cells back as text.
func ScreenText(screen tcell.Screen) string {
	w, h := screen.Size()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			ch, _, _, width := screen.GetContent(x, y)
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
			if width > 1 {
				x += width - 1
			}
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
