package editor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mindmap/diagram"
	"mindmap/layout"
	"mindmap/navigation"
)

// Config returns the layout configuration of the editor's engine.
func (e *Editor) Config() layout.Config {
	return e.engine.Config()
}

// Snapshot returns a copy of the current tree.
func (e *Editor) Snapshot() *diagram.Tree {
	return e.current.Load().Clone()
}

// Nodes returns copies of all nodes in id order.
func (e *Editor) Nodes() []diagram.Node {
	return copyNodes(e.current.Load().NodeList())
}

// Node returns a copy of one node.
func (e *Editor) Node(id int) (diagram.Node, error) {
	n := e.current.Load().Node(id)
	if n == nil {
		return diagram.Node{}, fmt.Errorf("node %d: %w", id, diagram.ErrNodeNotFound)
	}
	return *n.Clone(), nil
}

// Roots returns the root ids in order.
func (e *Editor) Roots() []int {
	return e.current.Load().Roots()
}

// Selected returns the selected node id, or false when nothing is selected.
func (e *Editor) Selected() (int, bool) {
	for _, n := range e.current.Load().NodeList() {
		if n.IsSelected {
			return n.ID, true
		}
	}
	return 0, false
}

// Connections returns the connectors between visible nodes.
func (e *Editor) Connections() []diagram.Connection {
	return e.builder.Build(e.current.Load())
}

// VisibleNodes returns copies of the visible nodes in traversal order.
func (e *Editor) VisibleNodes() []diagram.Node {
	return copyNodes(navigation.VisibleNodes(e.current.Load()))
}

// FindNearestNode returns the nearest visible node from id in direction dir.
// The boolean is false when no node lies in that direction.
func (e *Editor) FindNearestNode(id int, dir diagram.Direction) (diagram.Node, bool, error) {
	n, err := e.finder.Nearest(e.current.Load(), id, dir)
	if err != nil || n == nil {
		return diagram.Node{}, false, err
	}
	return *n.Clone(), true, nil
}

// Export returns the current map in the persisted format. An empty title
// is derived from the first root.
func (e *Editor) Export(title string) diagram.Document {
	return e.current.Load().ToDocument(title, e.now())
}

// Import replaces the map with a JSON document. Malformed documents are
// rejected and leave the current map untouched.
func (e *Editor) Import(ctx context.Context, data []byte) error {
	doc, err := diagram.DecodeDocument(data)
	if err != nil {
		e.logger.Info("Import rejected", zap.Error(err))
		return err
	}
	return e.ImportDocument(ctx, doc)
}

// ImportDocument replaces the map with an already decoded document.
func (e *Editor) ImportDocument(ctx context.Context, doc *diagram.Document) error {
	return e.importDocument(ctx, doc, false)
}

// ImportOutline replaces the map with a document that carries structure but
// no usable positions and lays every node out from scratch.
func (e *Editor) ImportOutline(ctx context.Context, doc *diagram.Document) error {
	return e.importDocument(ctx, doc, true)
}

func (e *Editor) importDocument(ctx context.Context, doc *diagram.Document, arrange bool) error {
	_, err := e.mutate(ctx, "import", true, func(*diagram.Tree) (*diagram.Tree, int, error) {
		t, err := diagram.FromDocument(doc, e.engine.Measure())
		if err != nil {
			return nil, 0, err
		}
		if skipped := danglingChildren(t); skipped > 0 {
			e.logger.Warn("Imported document references missing children",
				zap.Int("skipped", skipped))
		}
		if arrange {
			if t, err = e.engine.Arrange(t); err != nil {
				return nil, 0, err
			}
		}
		return t, 0, nil
	})
	if err != nil {
		e.logger.Info("Import rejected", zap.Error(err))
	}
	return err
}

func danglingChildren(t *diagram.Tree) int {
	n := 0
	for _, node := range t.NodeList() {
		n += len(node.Children) - len(t.Children(node.ID))
	}
	return n
}

func copyNodes(in []*diagram.Node) []diagram.Node {
	out := make([]diagram.Node, len(in))
	for i, n := range in {
		out[i] = *n.Clone()
	}
	return out
}
