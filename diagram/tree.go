package diagram

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for tree operations.
var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrRootDeletion    = errors.New("root nodes cannot be deleted")
	ErrInvalidDocument = errors.New("invalid mindmap document")
)

// maxDepth bounds parent-chain walks so corrupt data cannot loop forever.
const maxDepth = 10000

// Measure computes a node's display width from its content and role.
type Measure func(content string, isRoot bool) float64

// Tree is the authoritative node store: an arena of nodes keyed by id plus the
// ordered list of roots. It is not safe for concurrent use; callers serialize
// mutations (see editor.Editor).
type Tree struct {
	nodes   map[int]*Node
	roots   []int
	nextID  int
	measure Measure
}

// NewTree creates an empty tree. A nil measure leaves widths at zero.
func NewTree(measure Measure) *Tree {
	return &Tree{
		nodes:   make(map[int]*Node),
		nextID:  1,
		measure: measure,
	}
}

// Len returns the number of nodes in the store.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id int) *Node {
	return t.nodes[id]
}

// Has reports whether id is present.
func (t *Tree) Has(id int) bool {
	_, ok := t.nodes[id]
	return ok
}

// NextID returns the id the next created node will receive.
func (t *Tree) NextID() int {
	return t.nextID
}

// SetNextID overrides the id counter.
func (t *Tree) SetNextID(id int) {
	t.nextID = id
}

// Measure returns the width function the tree was created with.
func (t *Tree) Measure() Measure {
	return t.measure
}

// Roots returns the root ids in order.
func (t *Tree) Roots() []int {
	out := make([]int, 0, len(t.roots))
	for _, id := range t.roots {
		if _, ok := t.nodes[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Children returns the ordered child ids of id. Ids with no matching node
// are skipped.
func (t *Tree) Children(id int) []int {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	out := make([]int, 0, len(n.Children))
	for _, c := range n.Children {
		if _, ok := t.nodes[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Parent returns the parent node of id, or nil for roots and unknown ids.
func (t *Tree) Parent(id int) *Node {
	n := t.nodes[id]
	if n == nil || n.ParentID == nil {
		return nil
	}
	return t.nodes[*n.ParentID]
}

// Siblings returns the sibling group id belongs to: the parent's children,
// or the root list for roots.
func (t *Tree) Siblings(id int) []int {
	if p := t.Parent(id); p != nil {
		return t.Children(p.ID)
	}
	return t.Roots()
}

// IndexInParent returns id's position within its sibling group, or -1.
func (t *Tree) IndexInParent(id int) int {
	for i, s := range t.Siblings(id) {
		if s == id {
			return i
		}
	}
	return -1
}

// SubtreeIDs returns id and all its descendants in pre-order.
func (t *Tree) SubtreeIDs(id int) []int {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	var out []int
	seen := make(map[int]bool)
	stack := []int{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		kids := t.Children(cur)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// Descendants returns all descendants of id in pre-order, excluding id.
func (t *Tree) Descendants(id int) []int {
	ids := t.SubtreeIDs(id)
	if len(ids) == 0 {
		return nil
	}
	return ids[1:]
}

// Ancestors returns the parent chain of id, nearest first.
func (t *Tree) Ancestors(id int) []int {
	var out []int
	cur := t.Parent(id)
	for steps := 0; cur != nil && steps < maxDepth; steps++ {
		out = append(out, cur.ID)
		cur = t.Parent(cur.ID)
	}
	return out
}

// RootOf returns the root id of the tree containing id.
func (t *Tree) RootOf(id int) int {
	anc := t.Ancestors(id)
	if len(anc) == 0 {
		return id
	}
	return anc[len(anc)-1]
}

// AddRoot creates a new root node at the given position.
func (t *Tree) AddRoot(content string, x, y float64) *Node {
	n := &Node{
		ID:       t.nextID,
		X:        x,
		Y:        y,
		Content:  content,
		Children: []int{},
	}
	n.Width = t.width(content, true)
	t.nextID++
	t.nodes[n.ID] = n
	t.roots = append(t.roots, n.ID)
	return n
}

// InsertChild creates a child of parentID at index within its children list.
// A negative or out of range index appends. The child starts at the parent's
// position in editing state; the layout engine places it.
func (t *Tree) InsertChild(parentID, index int, content string) (*Node, error) {
	p := t.nodes[parentID]
	if p == nil {
		return nil, fmt.Errorf("insert child of %d: %w", parentID, ErrNodeNotFound)
	}
	pid := p.ID
	n := &Node{
		ID:        t.nextID,
		X:         p.X,
		Y:         p.Y,
		Content:   content,
		ParentID:  &pid,
		Children:  []int{},
		Level:     p.Level + 1,
		IsEditing: true,
	}
	n.Width = t.width(content, false)
	t.nextID++
	t.nodes[n.ID] = n

	if index < 0 || index >= len(p.Children) {
		p.Children = append(p.Children, n.ID)
	} else {
		p.Children = append(p.Children, 0)
		copy(p.Children[index+1:], p.Children[index:])
		p.Children[index] = n.ID
	}
	return n, nil
}

// RemoveSubtree deletes id and every descendant. Roots cannot be removed.
func (t *Tree) RemoveSubtree(id int) ([]int, error) {
	n := t.nodes[id]
	if n == nil {
		return nil, fmt.Errorf("remove %d: %w", id, ErrNodeNotFound)
	}
	if n.IsRoot() {
		return nil, fmt.Errorf("remove %d: %w", id, ErrRootDeletion)
	}
	removed := t.SubtreeIDs(id)
	if p := t.Parent(id); p != nil {
		kept := p.Children[:0]
		for _, c := range p.Children {
			if c != id {
				kept = append(kept, c)
			}
		}
		p.Children = kept
	}
	for _, r := range removed {
		delete(t.nodes, r)
	}
	return removed, nil
}

// Translate moves id and its whole subtree by (dx, dy).
func (t *Tree) Translate(id int, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, s := range t.SubtreeIDs(id) {
		n := t.nodes[s]
		n.X += dx
		n.Y += dy
	}
}

// SetContent replaces a node's content and recomputes its width, returning
// the old and new widths.
func (t *Tree) SetContent(id int, content string) (oldWidth, newWidth float64, err error) {
	n := t.nodes[id]
	if n == nil {
		return 0, 0, fmt.Errorf("set content of %d: %w", id, ErrNodeNotFound)
	}
	oldWidth = n.Width
	n.Content = content
	n.Width = t.width(content, n.IsRoot())
	return oldWidth, n.Width, nil
}

// RecomputeWidths refreshes every cached width.
func (t *Tree) RecomputeWidths() {
	for _, n := range t.nodes {
		n.Width = t.width(n.Content, n.IsRoot())
	}
}

// ClearEphemeral resets selection and editing flags on every node.
func (t *Tree) ClearEphemeral() {
	for _, n := range t.nodes {
		n.IsSelected = false
		n.IsEditing = false
	}
}

// NodeList returns all nodes ordered by id.
func (t *Tree) NodeList() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MaxLevel returns the deepest level present.
func (t *Tree) MaxLevel() int {
	maxLevel := 0
	for _, n := range t.nodes {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}
	return maxLevel
}

// Clone creates a deep copy of the tree. Layout phases work on clones so
// each phase yields a new snapshot.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := &Tree{
		nodes:   make(map[int]*Node, len(t.nodes)),
		roots:   make([]int, len(t.roots)),
		nextID:  t.nextID,
		measure: t.measure,
	}
	copy(c.roots, t.roots)
	for id, n := range t.nodes {
		c.nodes[id] = n.Clone()
	}
	return c
}

// CheckInvariants verifies the forest shape: every node reaches a root
// without cycles, and parent/children links agree.
func (t *Tree) CheckInvariants() error {
	isRoot := make(map[int]bool)
	for _, r := range t.roots {
		isRoot[r] = true
	}
	for id, n := range t.nodes {
		if n.ParentID == nil {
			if !isRoot[id] {
				return fmt.Errorf("node %d has no parent but is not listed as a root", id)
			}
			continue
		}
		p := t.nodes[*n.ParentID]
		if p == nil {
			return fmt.Errorf("node %d references missing parent %d", id, *n.ParentID)
		}
		found := false
		for _, c := range p.Children {
			if c == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("node %d is not listed in children of parent %d", id, p.ID)
		}
		steps := 0
		for cur := n; cur.ParentID != nil; cur = t.nodes[*cur.ParentID] {
			steps++
			if steps > len(t.nodes) || t.nodes[*cur.ParentID] == nil {
				return fmt.Errorf("node %d does not reach a root", id)
			}
		}
	}
	for id, n := range t.nodes {
		for _, c := range n.Children {
			child := t.nodes[c]
			if child == nil {
				continue
			}
			if child.ParentID == nil || *child.ParentID != id {
				return fmt.Errorf("child %d of %d points at a different parent", c, id)
			}
		}
	}
	return nil
}

func (t *Tree) width(content string, isRoot bool) float64 {
	if t.measure == nil {
		return 0
	}
	return t.measure(content, isRoot)
}
