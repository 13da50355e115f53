package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentVersion is written into every exported document.
const DocumentVersion = "1.0.0"

// Document is the persisted import/export format.
type Document struct {
	Version   string   `json:"version" yaml:"version"`
	CreatedAt string   `json:"createdAt" yaml:"createdAt"`
	Nodes     []Node   `json:"nodes" yaml:"nodes"`
	Metadata  Metadata `json:"metadata" yaml:"metadata"`
}

// Metadata contains derived document metadata.
type Metadata struct {
	Title     string `json:"title" yaml:"title"`
	NodeCount int    `json:"nodeCount" yaml:"nodeCount"`
	MaxLevel  int    `json:"maxLevel" yaml:"maxLevel"`
}

// ToDocument snapshots the tree into the persisted format. Nodes are written
// in id order; the title comes from the first root when none is given.
func (t *Tree) ToDocument(title string, createdAt time.Time) Document {
	nodes := t.NodeList()
	doc := Document{
		Version:   DocumentVersion,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
		Nodes:     make([]Node, 0, len(nodes)),
	}
	for _, n := range nodes {
		c := n.Clone()
		c.IsSelected = false
		c.IsEditing = false
		doc.Nodes = append(doc.Nodes, *c)
	}
	if title == "" {
		if roots := t.Roots(); len(roots) > 0 {
			title = t.Node(roots[0]).Content
		}
	}
	doc.Metadata = Metadata{
		Title:     title,
		NodeCount: len(nodes),
		MaxLevel:  t.MaxLevel(),
	}
	return doc
}

// DecodeDocument parses a JSON document. The nodes member must be present
// and be an array; anything else is rejected.
func DecodeDocument(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	raw, ok := probe["nodes"]
	if !ok {
		return nil, fmt.Errorf("%w: missing nodes", ErrInvalidDocument)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: nodes is not an array", ErrInvalidDocument)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// FromDocument builds a tree from a decoded document. Ephemeral flags are
// reset, widths recomputed with measure and the id counter set one past the
// largest id. Child ids without a node are kept in the children list but
// skipped by traversal.
func FromDocument(doc *Document, measure Measure) (*Tree, error) {
	if doc == nil || doc.Nodes == nil {
		return nil, fmt.Errorf("%w: missing nodes", ErrInvalidDocument)
	}
	t := NewTree(measure)
	maxID := 0
	for i := range doc.Nodes {
		n := doc.Nodes[i].Clone()
		if _, dup := t.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrInvalidDocument, n.ID)
		}
		if n.Children == nil {
			n.Children = []int{}
		}
		n.IsSelected = false
		n.IsEditing = false
		t.nodes[n.ID] = n
		if n.ParentID == nil {
			t.roots = append(t.roots, n.ID)
		}
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	for _, n := range t.nodes {
		if n.ParentID != nil && t.nodes[*n.ParentID] == nil {
			return nil, fmt.Errorf("%w: node %d references missing parent %d",
				ErrInvalidDocument, n.ID, *n.ParentID)
		}
	}
	if err := t.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	t.RecomputeWidths()
	t.nextID = maxID + 1
	return t, nil
}
