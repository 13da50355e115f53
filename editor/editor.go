// Package editor is the command surface of a mind map: it applies mutations
// one at a time, runs the layout pipeline after each and keeps undo history.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"mindmap/connections"
	"mindmap/diagram"
	"mindmap/layout"
	"mindmap/navigation"
)

var (
	// ErrBusy is returned when a command is issued from inside another
	// command, for example by a change listener.
	ErrBusy = errors.New("editor is applying another mutation")
	// ErrNothingToUndo is returned when the history has no earlier state.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when the history has no later state.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Recorder observes executed commands, e.g. for metrics.
type Recorder interface {
	ObserveCommand(name string, took time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCommand(string, time.Duration, error) {}

// Event describes a completed mutation.
type Event struct {
	Command string
	NodeID  int
	Tree    *diagram.Tree // Snapshot after the mutation; do not modify
}

// Listener is notified after every successful mutation. Commands issued with
// the listener's context are rejected with ErrBusy.
type Listener func(ctx context.Context, ev Event)

type mutationKey struct{}

// Editor owns the current tree snapshot. Mutations are serialized by a
// mutex; queries read the last published snapshot without locking.
type Editor struct {
	mu        sync.Mutex
	current   atomic.Pointer[diagram.Tree]
	history   *StructHistory
	listeners []Listener

	engine   *layout.Engine
	builder  *connections.Builder
	finder   *navigation.Finder
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRecorder sets the command recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Editor) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithHistorySize bounds the undo history.
func WithHistorySize(n int) Option {
	return func(e *Editor) {
		e.history = NewStructHistory(n)
	}
}

// WithClock overrides the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// New creates an editor with an empty map.
func New(engine *layout.Engine, opts ...Option) *Editor {
	h := engine.Config().Metrics.NodeHeight
	e := &Editor{
		history:  NewStructHistory(DefaultHistorySize),
		engine:   engine,
		builder:  connections.NewBuilder(h),
		finder:   navigation.NewFinder(h),
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	initial := diagram.NewTree(engine.Measure())
	e.current.Store(initial)
	e.history.SaveState(initial)
	return e
}

// Subscribe registers a change listener. It must not be called from inside
// a listener.
func (e *Editor) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// mutate runs fn against the current snapshot under the lock and publishes
// its result. Only recorded mutations enter the undo history.
func (e *Editor) mutate(ctx context.Context, name string, record bool, fn func(cur *diagram.Tree) (*diagram.Tree, int, error)) (id int, err error) {
	if owner, _ := ctx.Value(mutationKey{}).(*Editor); owner == e {
		return 0, ErrBusy
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer func() {
		e.recorder.ObserveCommand(name, time.Since(start), err)
	}()

	next, id, err := fn(e.current.Load())
	if err != nil {
		e.logger.Debug("Command rejected", zap.String("command", name), zap.Error(err))
		return 0, err
	}
	e.current.Store(next)
	if record {
		e.history.SaveState(next)
	}
	e.logger.Debug("Command applied",
		zap.String("command", name),
		zap.Int("node", id),
		zap.Int("nodes", next.Len()),
		zap.Duration("took", time.Since(start)))

	lctx := context.WithValue(ctx, mutationKey{}, e)
	for _, l := range e.listeners {
		l(lctx, Event{Command: name, NodeID: id, Tree: next})
	}
	return id, nil
}

// NewRoot adds a root node at (x, y).
func (e *Editor) NewRoot(ctx context.Context, content string, x, y float64) (int, error) {
	return e.mutate(ctx, "new_root", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		next := cur.Clone()
		n := next.AddRoot(content, x, y)
		out, err := e.engine.FullLayoutAdjustment(next, n.ID)
		return out, n.ID, err
	})
}

// CreateChild appends an empty child in editing state to parentID and lays
// out the parent's children.
func (e *Editor) CreateChild(ctx context.Context, parentID int) (int, error) {
	return e.mutate(ctx, "create_child", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		next := cur.Clone()
		n, err := next.InsertChild(parentID, -1, "")
		if err != nil {
			return nil, 0, err
		}
		out, err := e.engine.ApplyCreate(next, parentID, n.ID)
		if err != nil {
			return nil, 0, err
		}
		selectNode(out, n.ID)
		return out, n.ID, nil
	})
}

// CreateSibling inserts an empty node directly after nodeID in its sibling
// group. A sibling of a root becomes a new root below that root's tree.
func (e *Editor) CreateSibling(ctx context.Context, nodeID int) (int, error) {
	return e.mutate(ctx, "create_sibling", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		ref := cur.Node(nodeID)
		if ref == nil {
			return nil, 0, fmt.Errorf("create sibling of %d: %w", nodeID, diagram.ErrNodeNotFound)
		}
		next := cur.Clone()

		if ref.IsRoot() {
			at, err := e.engine.PlaceRootBelow(next, nodeID)
			if err != nil {
				return nil, 0, err
			}
			n := next.AddRoot("", at.X, at.Y)
			n.IsEditing = true
			out, err := e.engine.FullLayoutAdjustment(next, n.ID)
			if err != nil {
				return nil, 0, err
			}
			selectNode(out, n.ID)
			return out, n.ID, nil
		}

		parentID := *ref.ParentID
		n, err := next.InsertChild(parentID, next.IndexInParent(nodeID)+1, "")
		if err != nil {
			return nil, 0, err
		}
		out, err := e.engine.ApplyCreate(next, parentID, n.ID)
		if err != nil {
			return nil, 0, err
		}
		selectNode(out, n.ID)
		return out, n.ID, nil
	})
}

// DeleteNode removes nodeID and its subtree, then contracts the sibling
// group. Roots cannot be deleted.
func (e *Editor) DeleteNode(ctx context.Context, nodeID int) error {
	_, err := e.mutate(ctx, "delete_node", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		return e.deleteFrom(cur, nodeID)
	})
	if errors.Is(err, diagram.ErrRootDeletion) {
		e.logger.Info("Root deletion refused", zap.Int("node", nodeID))
	}
	return err
}

func (e *Editor) deleteFrom(cur *diagram.Tree, nodeID int) (*diagram.Tree, int, error) {
	n := cur.Node(nodeID)
	if n == nil {
		return nil, 0, fmt.Errorf("delete %d: %w", nodeID, diagram.ErrNodeNotFound)
	}
	if n.IsRoot() {
		return nil, 0, fmt.Errorf("delete %d: %w", nodeID, diagram.ErrRootDeletion)
	}
	rm, _ := e.engine.CaptureRemoval(cur, nodeID)
	next := cur.Clone()
	if _, err := next.RemoveSubtree(nodeID); err != nil {
		return nil, 0, err
	}
	out, err := e.engine.ApplyDelete(next, rm)
	if err != nil {
		return nil, 0, err
	}
	return out, rm.ParentID, nil
}

// CommitContent sets the content of nodeID and ends editing. Committing an
// empty text to a node that is still being edited deletes it, unless it is
// a root.
func (e *Editor) CommitContent(ctx context.Context, nodeID int, text string) error {
	_, err := e.mutate(ctx, "commit_content", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		n := cur.Node(nodeID)
		if n == nil {
			return nil, 0, fmt.Errorf("commit %d: %w", nodeID, diagram.ErrNodeNotFound)
		}
		if strings.TrimSpace(text) == "" && n.IsEditing && !n.IsRoot() {
			return e.deleteFrom(cur, nodeID)
		}
		next := cur.Clone()
		old, _, err := next.SetContent(nodeID, text)
		if err != nil {
			return nil, 0, err
		}
		next.Node(nodeID).IsEditing = false
		out, err := e.engine.ApplyResize(next, nodeID, old)
		return out, nodeID, err
	})
	return err
}

// Edit puts nodeID into editing state.
func (e *Editor) Edit(ctx context.Context, nodeID int) error {
	_, err := e.mutate(ctx, "edit", false, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		if !cur.Has(nodeID) {
			return nil, 0, fmt.Errorf("edit %d: %w", nodeID, diagram.ErrNodeNotFound)
		}
		next := cur.Clone()
		next.Node(nodeID).IsEditing = true
		return next, nodeID, nil
	})
	return err
}

// ToggleCollapse flips the collapsed flag of nodeID. Collapsing hides
// descendants but leaves positions unchanged.
func (e *Editor) ToggleCollapse(ctx context.Context, nodeID int) error {
	_, err := e.mutate(ctx, "toggle_collapse", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		if !cur.Has(nodeID) {
			return nil, 0, fmt.Errorf("toggle collapse of %d: %w", nodeID, diagram.ErrNodeNotFound)
		}
		next := cur.Clone()
		n := next.Node(nodeID)
		n.IsCollapsed = !n.IsCollapsed
		return next, nodeID, nil
	})
	return err
}

// MoveNode drags nodeID and its subtree by (dx, dy) and re-runs the layout
// adjustment from it.
func (e *Editor) MoveNode(ctx context.Context, nodeID int, dx, dy float64) error {
	_, err := e.mutate(ctx, "move_node", true, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		out, err := e.engine.ApplyMove(cur, nodeID, dx, dy)
		return out, nodeID, err
	})
	return err
}

// Select marks nodeID as the only selected node.
func (e *Editor) Select(ctx context.Context, nodeID int) error {
	_, err := e.mutate(ctx, "select", false, func(cur *diagram.Tree) (*diagram.Tree, int, error) {
		if !cur.Has(nodeID) {
			return nil, 0, fmt.Errorf("select %d: %w", nodeID, diagram.ErrNodeNotFound)
		}
		next := cur.Clone()
		selectNode(next, nodeID)
		return next, nodeID, nil
	})
	return err
}

// Undo restores the previous snapshot.
func (e *Editor) Undo(ctx context.Context) error {
	_, err := e.mutate(ctx, "undo", false, func(*diagram.Tree) (*diagram.Tree, int, error) {
		t, err := e.history.Undo()
		return t, 0, err
	})
	return err
}

// Redo re-applies the next snapshot.
func (e *Editor) Redo(ctx context.Context) error {
	_, err := e.mutate(ctx, "redo", false, func(*diagram.Tree) (*diagram.Tree, int, error) {
		t, err := e.history.Redo()
		return t, 0, err
	})
	return err
}

// HistoryStats returns the history position and size.
func (e *Editor) HistoryStats() (current, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Stats()
}

func selectNode(t *diagram.Tree, id int) {
	for _, n := range t.NodeList() {
		n.IsSelected = n.ID == id
	}
}
