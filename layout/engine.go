package layout

import (
	"fmt"

	"go.uber.org/zap"

	"mindmap/diagram"
	"mindmap/geometry"
)

// Engine ties the layout components together. Every operation takes a tree
// snapshot and returns a new, fully adjusted one; the input is never
// modified.
type Engine struct {
	cfg        Config
	positioner *Positioner
	resolver   *Resolver
	propagator *Propagator
	rebalancer *Rebalancer
	logger     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine for cfg.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        cfg,
		positioner: NewPositioner(cfg),
		resolver:   NewResolver(cfg),
		propagator: NewPropagator(cfg),
		rebalancer: NewRebalancer(cfg),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Positioner returns the child positioner.
func (e *Engine) Positioner() *Positioner {
	return e.positioner
}

// Resolver returns the collision resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Measure returns the width function for trees laid out by this engine.
func (e *Engine) Measure() diagram.Measure {
	return e.cfg.Metrics.Width
}

// FullLayoutAdjustment restores global consistency after a change at id.
// The phases run strictly in order, each on the previous phase's output:
// upward propagation, the sibling-subtree pass, the cross-group pass, and a
// corrective propagation when id has a parent.
func (e *Engine) FullLayoutAdjustment(t *diagram.Tree, id int) (*diagram.Tree, error) {
	if !t.Has(id) {
		return nil, fmt.Errorf("layout adjustment from %d: %w", id, diagram.ErrNodeNotFound)
	}

	cur, prop := e.propagator.PropagateUpward(t, id)
	e.logPropagation("propagate", id, prop)

	cur, sib := e.resolver.ResolveSiblings(cur)
	e.logReport("sibling pass", id, sib)

	cur, grp := e.resolver.ResolveGroups(cur)
	e.logReport("cross-group pass", id, grp)

	if cur.Parent(id) != nil {
		cur, prop = e.propagator.PropagateUpward(cur, id)
		e.logPropagation("corrective propagate", id, prop)
	}
	return cur, nil
}

// ApplyCreate lays out the children of parentID after a child was added:
// every child is re-placed by the positioner and the tree adjusted from
// childID.
func (e *Engine) ApplyCreate(t *diagram.Tree, parentID, childID int) (*diagram.Tree, error) {
	if !t.Has(parentID) {
		return nil, fmt.Errorf("layout create under %d: %w", parentID, diagram.ErrNodeNotFound)
	}
	out := t.Clone()
	e.positioner.Apply(out, parentID)
	return e.FullLayoutAdjustment(out, childID)
}

// PlaceRootBelow returns the anchor for a new root placed under the tree
// that contains rootID.
func (e *Engine) PlaceRootBelow(t *diagram.Tree, rootID int) (diagram.Point, error) {
	root := t.Node(rootID)
	if root == nil {
		return diagram.Point{}, fmt.Errorf("place root below %d: %w", rootID, diagram.ErrNodeNotFound)
	}
	box := geometry.SubtreeBox(t, rootID, e.cfg.nodeHeight())
	return diagram.Point{X: root.X, Y: box.MaxY + e.cfg.SpacingBase}, nil
}

// ApplyDelete contracts the sibling group described by rm and adjusts the
// tree from the first survivor, or from the parent when none is left.
func (e *Engine) ApplyDelete(t *diagram.Tree, rm Removal) (*diagram.Tree, error) {
	if !t.Has(rm.ParentID) {
		return nil, fmt.Errorf("layout delete under %d: %w", rm.ParentID, diagram.ErrNodeNotFound)
	}
	out := e.rebalancer.Rebalance(t, rm)
	e.logger.Debug("Sibling group contracted",
		zap.Int("parent", rm.ParentID),
		zap.Stringer("class", rm.Class()),
		zap.Float64("removed_height", rm.Extent.Height))

	from := rm.ParentID
	if kids := out.Children(rm.ParentID); len(kids) > 0 {
		from = kids[0]
	}
	return e.FullLayoutAdjustment(out, from)
}

// CaptureRemoval records the data ApplyDelete needs; call it before the
// subtree is removed.
func (e *Engine) CaptureRemoval(t *diagram.Tree, id int) (Removal, bool) {
	return e.rebalancer.CaptureRemoval(t, id)
}

// ApplyResize reacts to a width change of id. When the change exceeds the
// width tolerance the children move with the node's right edge.
func (e *Engine) ApplyResize(t *diagram.Tree, id int, oldWidth float64) (*diagram.Tree, error) {
	n := t.Node(id)
	if n == nil {
		return nil, fmt.Errorf("layout resize of %d: %w", id, diagram.ErrNodeNotFound)
	}
	dw := n.Width - oldWidth
	if geometry.Abs(dw) <= e.cfg.WidthTolerance {
		return t.Clone(), nil
	}
	out := t.Clone()
	for _, c := range out.Children(id) {
		out.Translate(c, dw, 0)
	}
	return e.FullLayoutAdjustment(out, id)
}

// ApplyMove translates the subtree of id by (dx, dy) and adjusts the tree.
func (e *Engine) ApplyMove(t *diagram.Tree, id int, dx, dy float64) (*diagram.Tree, error) {
	if !t.Has(id) {
		return nil, fmt.Errorf("layout move of %d: %w", id, diagram.ErrNodeNotFound)
	}
	out := t.Clone()
	out.Translate(id, dx, dy)
	return e.FullLayoutAdjustment(out, id)
}

// Arrange lays out a tree whose positions are unknown, such as one imported
// from an outline format. The first root keeps its position and later roots
// are stacked below it. Children are placed breadth first the way
// interactive creation places them.
func (e *Engine) Arrange(t *diagram.Tree) (*diagram.Tree, error) {
	out := t.Clone()
	roots := out.Roots()
	for i, r := range roots {
		if i > 0 {
			p, err := e.PlaceRootBelow(out, roots[i-1])
			if err != nil {
				return nil, err
			}
			out.Node(r).X, out.Node(r).Y = p.X, p.Y
		}
		root := out.Node(r)
		for _, d := range out.Descendants(r) {
			n := out.Node(d)
			n.X, n.Y = root.X, root.Y
		}

		queue := []int{r}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			kids := out.Children(id)
			if len(kids) == 0 {
				continue
			}
			e.positioner.Apply(out, id)
			next, err := e.FullLayoutAdjustment(out, kids[len(kids)-1])
			if err != nil {
				return nil, err
			}
			out = next
			queue = append(queue, kids...)
		}
	}
	e.logger.Debug("Tree arranged", zap.Int("nodes", out.Len()), zap.Int("roots", len(roots)))
	return out, nil
}

func (e *Engine) logPropagation(phase string, id int, rep PropagationReport) {
	if rep.Capped {
		e.logger.Warn("Propagation depth cap reached",
			zap.String("phase", phase),
			zap.Int("node", id),
			zap.Int("levels", rep.Levels))
		return
	}
	e.logger.Debug("Layout phase complete",
		zap.String("phase", phase),
		zap.Int("node", id),
		zap.Int("levels", rep.Levels),
		zap.Int("forced", rep.Forced))
}

func (e *Engine) logReport(phase string, id int, rep Report) {
	if rep.Residual {
		e.logger.Warn("Collision pass budget exhausted",
			zap.String("phase", phase),
			zap.Int("node", id),
			zap.Int("passes", rep.Passes))
		return
	}
	e.logger.Debug("Layout phase complete",
		zap.String("phase", phase),
		zap.Int("node", id),
		zap.Int("passes", rep.Passes),
		zap.Int("shifts", rep.Shifts))
}
