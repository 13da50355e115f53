package validation

import (
	"fmt"
	"strings"
)

// Connector arms.
const (
	armUp uint8 = 1 << iota
	armDown
	armLeft
	armRight
)

var arms = map[rune]uint8{
	'─': armLeft | armRight,
	'-': armLeft | armRight,
	'│': armUp | armDown,
	'|': armUp | armDown,
	'╭': armDown | armRight,
	'┌': armDown | armRight,
	'╮': armDown | armLeft,
	'┐': armDown | armLeft,
	'╰': armUp | armRight,
	'└': armUp | armRight,
	'╯': armUp | armLeft,
	'┘': armUp | armLeft,
	'├': armUp | armDown | armRight,
	'┤': armUp | armDown | armLeft,
	'┬': armLeft | armRight | armDown,
	'┴': armLeft | armRight | armUp,
	'┼': armUp | armDown | armLeft | armRight,
}

// LineError is a connector cell whose arm has nothing to join.
type LineError struct {
	X, Y    int
	Char    rune
	Message string
}

// String formats the error with its location.
func (e LineError) String() string {
	return fmt.Sprintf("(%d,%d) '%c': %s", e.X, e.Y, e.Char, e.Message)
}

// LineValidator checks rendered maps: every arm of a connector character
// must meet a character with the opposite arm, or a node label bracket at
// the ends of a horizontal run.
type LineValidator struct {
	allowASCII bool
}

// NewLineValidator creates a validator that accepts box-drawing characters
// and the plain '-' and '|'.
func NewLineValidator() *LineValidator {
	return &LineValidator{allowASCII: true}
}

// SetASCII enables or disables the plain '-' and '|' characters.
func (v *LineValidator) SetASCII(allow bool) {
	v.allowASCII = allow
}

// Validate returns the broken connector cells of a rendered map.
func (v *LineValidator) Validate(rendered string) []LineError {
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		grid[i] = []rune(line)
	}

	var errs []LineError
	for y := range grid {
		for x, ch := range grid[y] {
			mask, ok := v.arms(ch)
			if !ok {
				continue
			}
			// Labels are "[ text ]"; runs inside them are text.
			if insideLabel(grid[y], x) {
				continue
			}
			errs = append(errs, v.check(grid, x, y, ch, mask)...)
		}
	}
	return errs
}

func (v *LineValidator) check(grid [][]rune, x, y int, ch rune, mask uint8) []LineError {
	var errs []LineError
	need := func(arm uint8, nx, ny int, opposite uint8, bracket rune, side string) {
		if mask&arm == 0 {
			return
		}
		n := at(grid, nx, ny)
		if m, ok := v.arms(n); ok && m&opposite != 0 {
			return
		}
		if bracket != 0 && n == bracket {
			return
		}
		errs = append(errs, LineError{X: x, Y: y, Char: ch,
			Message: fmt.Sprintf("open to the %s, found %q", side, n)})
	}
	need(armUp, x, y-1, armDown, 0, "north")
	need(armDown, x, y+1, armUp, 0, "south")
	need(armLeft, x-1, y, armRight, ']', "west")
	need(armRight, x+1, y, armLeft, '[', "east")
	return errs
}

func (v *LineValidator) arms(ch rune) (uint8, bool) {
	if !v.allowASCII && (ch == '-' || ch == '|') {
		return 0, false
	}
	m, ok := arms[ch]
	return m, ok
}

// insideLabel reports whether column x of row sits between a '[' and the
// next ']'.
func insideLabel(row []rune, x int) bool {
	open := -1
	for i := 0; i < x; i++ {
		switch row[i] {
		case '[':
			open = i
		case ']':
			open = -1
		}
	}
	if open < 0 {
		return false
	}
	for i := x + 1; i < len(row); i++ {
		if row[i] == ']' {
			return true
		}
	}
	return false
}

func at(grid [][]rune, x, y int) rune {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return ' '
	}
	return grid[y][x]
}
