package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"mindmap/diagram"
)

// Severity of a document issue.
type Severity int

const (
	// Error issues make the document unimportable.
	Error Severity = iota
	// Warning issues are tolerated on import.
	Warning
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Issue is one problem found in a document.
type Issue struct {
	Severity Severity
	Field    string // JSON field path, "(root)" for the document itself
	Message  string
}

// String formats the issue for display.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Field, i.Message)
}

// Report lists the issues of a document.
type Report struct {
	Issues []Issue
}

// Valid reports whether the document has no error issues.
func (r *Report) Valid() bool {
	return len(r.Errors()) == 0
}

// Errors returns the error issues.
func (r *Report) Errors() []Issue {
	return r.filter(Error)
}

// Warnings returns the warning issues.
func (r *Report) Warnings() []Issue {
	return r.filter(Warning)
}

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

func (r *Report) add(s Severity, field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: s, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks raw JSON against the document schema and, when the shape
// is right, checks the node relationships.
func Validate(data []byte) (*Report, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		rep.add(Error, "(root)", "not a JSON document: %v", err)
		return rep, nil
	}
	if !result.Valid() {
		for _, e := range result.Errors() {
			rep.add(Error, e.Field(), "%s", e.Description())
		}
		return rep, nil
	}

	var doc diagram.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		rep.add(Error, "(root)", "%v", err)
		return rep, nil
	}
	rep.Issues = append(rep.Issues, CheckDocument(&doc).Issues...)
	return rep, nil
}

// CheckDocument checks the relationships between the nodes of a decoded
// document: unique ids, existing parents, parent and child lists that agree,
// no cycles. Child ids without a node and stale levels or counts are
// warnings.
func CheckDocument(doc *diagram.Document) *Report {
	rep := &Report{}
	byID := make(map[int]*diagram.Node, len(doc.Nodes))
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if _, dup := byID[n.ID]; dup {
			rep.add(Error, nodeField(i), "duplicate node id %d", n.ID)
			continue
		}
		byID[n.ID] = n
	}

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if byID[n.ID] != n {
			continue
		}
		if pid, ok := n.Parent(); ok {
			p := byID[pid]
			switch {
			case p == nil:
				rep.add(Error, nodeField(i), "parent %d does not exist", pid)
			case !contains(p.Children, n.ID):
				rep.add(Error, nodeField(i), "not listed in the children of %d", pid)
			case n.Level != p.Level+1:
				rep.add(Warning, nodeField(i), "level %d, expected %d", n.Level, p.Level+1)
			}
		} else if n.Level != 0 {
			rep.add(Warning, nodeField(i), "root at level %d", n.Level)
		}

		for _, c := range n.Children {
			child := byID[c]
			switch {
			case child == nil:
				rep.add(Warning, nodeField(i), "child %d does not exist and is skipped", c)
			case child.ParentID == nil || *child.ParentID != n.ID:
				rep.add(Error, nodeField(i), "child %d names a different parent", c)
			}
		}
	}

	for _, id := range cycleMembers(byID) {
		rep.add(Error, "nodes", "node %d is part of a parent cycle", id)
	}

	if doc.Metadata.NodeCount != 0 && doc.Metadata.NodeCount != len(doc.Nodes) {
		rep.add(Warning, "metadata.nodeCount", "is %d, document has %d nodes",
			doc.Metadata.NodeCount, len(doc.Nodes))
	}
	return rep
}

// cycleMembers returns, in id order, the nodes whose parent chain never
// reaches a root.
func cycleMembers(byID map[int]*diagram.Node) []int {
	var out []int
	for id := range byID {
		cur := byID[id]
		for steps := 0; cur != nil && steps <= len(byID); steps++ {
			pid, ok := cur.Parent()
			if !ok {
				cur = nil
				break
			}
			cur = byID[pid]
		}
		if cur != nil {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func nodeField(i int) string {
	return fmt.Sprintf("nodes.%d", i)
}

func contains(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
