// Package navigation answers visibility and spatial traversal queries over a
// mind map.
package navigation

import "mindmap/diagram"

// VisibleNodes returns the nodes that are not hidden by a collapsed ancestor,
// in pre-order from each root. A node is emitted at most once.
func VisibleNodes(t *diagram.Tree) []*diagram.Node {
	var out []*diagram.Node
	seen := make(map[int]bool)

	var walk func(id int)
	walk = func(id int) {
		if seen[id] {
			return
		}
		n := t.Node(id)
		if n == nil {
			return
		}
		seen[id] = true
		out = append(out, n)
		if n.IsCollapsed {
			return
		}
		for _, c := range t.Children(id) {
			walk(c)
		}
	}
	for _, r := range t.Roots() {
		walk(r)
	}
	return out
}

// VisibleIDs returns the ids of VisibleNodes.
func VisibleIDs(t *diagram.Tree) []int {
	nodes := VisibleNodes(t)
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// IsVisible reports whether no ancestor of id is collapsed.
func IsVisible(t *diagram.Tree, id int) bool {
	if !t.Has(id) {
		return false
	}
	for _, a := range t.Ancestors(id) {
		if t.Node(a).IsCollapsed {
			return false
		}
	}
	return true
}
