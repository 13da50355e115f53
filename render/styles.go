package render

import "github.com/gdamore/tcell/v2"

// LineStyle defines the characters used to draw connectors.
type LineStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Cross       rune
	TeeUp       rune
	TeeDown     rune
	TeeLeft     rune
	TeeRight    rune
}

// Predefined line styles
var (
	// DefaultLineStyle uses rounded Unicode box-drawing characters
	DefaultLineStyle = LineStyle{
		Horizontal:  '─',
		Vertical:    '│',
		TopLeft:     '╭',
		TopRight:    '╮',
		BottomLeft:  '╰',
		BottomRight: '╯',
		Cross:       '┼',
		TeeUp:       '┴',
		TeeDown:     '┬',
		TeeLeft:     '┤',
		TeeRight:    '├',
	}

	// SimpleLineStyle uses ASCII characters
	SimpleLineStyle = LineStyle{
		Horizontal:  '-',
		Vertical:    '|',
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Cross:       '+',
		TeeUp:       '+',
		TeeDown:     '+',
		TeeLeft:     '+',
		TeeRight:    '+',
	}
)

// Junction directions a line cell connects to.
const (
	up uint8 = 1 << iota
	down
	left
	right
)

// Rune returns the character joining the given directions.
func (ls LineStyle) Rune(mask uint8) rune {
	switch mask {
	case left | right, left, right:
		return ls.Horizontal
	case up | down, up, down:
		return ls.Vertical
	case down | right:
		return ls.TopLeft
	case down | left:
		return ls.TopRight
	case up | right:
		return ls.BottomLeft
	case up | left:
		return ls.BottomRight
	case up | down | left:
		return ls.TeeLeft
	case up | down | right:
		return ls.TeeRight
	case left | right | down:
		return ls.TeeDown
	case left | right | up:
		return ls.TeeUp
	case up | down | left | right:
		return ls.Cross
	default:
		return ' '
	}
}

// Theme holds the cell styles used when drawing a map.
type Theme struct {
	Lines     LineStyle
	Root      tcell.Style
	Node      tcell.Style
	Selected  tcell.Style
	Editing   tcell.Style
	Collapsed tcell.Style
	Line      tcell.Style
	Status    tcell.Style
}

// DefaultTheme returns the colored theme used by the terminal view.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Lines:     DefaultLineStyle,
		Root:      base.Foreground(tcell.ColorYellow).Bold(true),
		Node:      base.Foreground(tcell.ColorWhite),
		Selected:  base.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua),
		Editing:   base.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
		Collapsed: base.Foreground(tcell.ColorGray),
		Line:      base.Foreground(tcell.ColorTeal),
		Status:    base.Reverse(true),
	}
}

// PlainTheme returns an uncolored theme for text output.
func PlainTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Lines:     DefaultLineStyle,
		Root:      base,
		Node:      base,
		Selected:  base,
		Editing:   base,
		Collapsed: base,
		Line:      base,
		Status:    base,
	}
}
