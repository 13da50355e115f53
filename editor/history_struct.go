package editor

import (
	"mindmap/diagram"
)

// DefaultHistorySize is the number of snapshots kept for undo.
const DefaultHistorySize = 500

// StructHistory manages undo/redo over tree snapshots. Snapshots are stored
// as clones, so later mutations cannot reach back into history.
type StructHistory struct {
	states  []*diagram.Tree
	current int // Current position in history
	max     int // Maximum number of states to keep
}

// NewStructHistory creates a new history manager
func NewStructHistory(max int) *StructHistory {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &StructHistory{
		states:  make([]*diagram.Tree, 0, min(max, 64)),
		current: -1,
		max:     max,
	}
}

// SaveState records a snapshot, dropping any redo states.
func (sh *StructHistory) SaveState(t *diagram.Tree) {
	clone := t.Clone()

	if sh.current < len(sh.states)-1 {
		sh.states = sh.states[:sh.current+1]
	}
	sh.states = append(sh.states, clone)

	// If we exceed max, remove oldest
	if len(sh.states) > sh.max {
		sh.states = sh.states[1:]
	} else {
		sh.current++
	}
}

// CanUndo returns true if we can undo
func (sh *StructHistory) CanUndo() bool {
	return sh.current > 0
}

// CanRedo returns true if we can redo
func (sh *StructHistory) CanRedo() bool {
	return sh.current < len(sh.states)-1
}

// Undo goes back one state
func (sh *StructHistory) Undo() (*diagram.Tree, error) {
	if !sh.CanUndo() {
		return nil, ErrNothingToUndo
	}
	sh.current--
	return sh.states[sh.current].Clone(), nil
}

// Redo goes forward one state
func (sh *StructHistory) Redo() (*diagram.Tree, error) {
	if !sh.CanRedo() {
		return nil, ErrNothingToRedo
	}
	sh.current++
	return sh.states[sh.current].Clone(), nil
}

// Clear clears all history
func (sh *StructHistory) Clear() {
	sh.states = sh.states[:0]
	sh.current = -1
}

// Stats returns current position and total states
func (sh *StructHistory) Stats() (current, total int) {
	return sh.current + 1, len(sh.states)
}
