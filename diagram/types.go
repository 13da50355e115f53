// Package diagram contains the fundamental types used throughout the mindmap engine.
package diagram

import (
	"fmt"
	"strings"
)

// Point represents a 2D coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Direction represents a cardinal direction. North is up the canvas (smaller Y).
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Vector returns the unit step of the direction in canvas coordinates,
// where y grows downward.
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// ParseDirection accepts both cardinal and screen names (up/down/left/right).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "up", "n":
		return North, nil
	case "east", "right", "e":
		return East, nil
	case "south", "down", "s":
		return South, nil
	case "west", "left", "w":
		return West, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q", s)
	}
}

// Node represents a box in the mind map.
type Node struct {
	ID          int     `json:"id" yaml:"id"`
	X           float64 `json:"x" yaml:"x"` // Anchor (top-left), set by layout or drag
	Y           float64 `json:"y" yaml:"y"`
	Content     string  `json:"content" yaml:"content"`
	ParentID    *int    `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Children    []int   `json:"children" yaml:"children"`
	IsCollapsed bool    `json:"isCollapsed" yaml:"isCollapsed"`
	Level       int     `json:"level" yaml:"level"`
	Width       float64 `json:"width" yaml:"width"` // Derived from content

	IsSelected bool `json:"-" yaml:"-"`
	IsEditing  bool `json:"-" yaml:"-"`
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// Parent returns the parent id and whether one exists.
func (n *Node) Parent() (int, bool) {
	if n.ParentID == nil {
		return 0, false
	}
	return *n.ParentID, true
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	if n.ParentID != nil {
		p := *n.ParentID
		c.ParentID = &p
	}
	c.Children = make([]int, len(n.Children))
	copy(c.Children, n.Children)
	return &c
}

// PathShape classifies a connector.
type PathShape int

const (
	// Straight is a single segment from parent right-center to child left-center.
	Straight PathShape = iota
	// Composite is a horizontal segment followed by a quadratic curve.
	Composite
)

// String returns the string representation of a PathShape.
func (s PathShape) String() string {
	if s == Composite {
		return "composite"
	}
	return "straight"
}

// MarshalText implements encoding.TextMarshaler.
func (s PathShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Connection is a derived (parent, child) pair with its connector geometry.
// Mid and Control are only meaningful for Composite connections.
type Connection struct {
	From    int       `json:"from"`
	To      int       `json:"to"`
	Shape   PathShape `json:"shape"`
	Start   Point     `json:"start"`
	Mid     Point     `json:"mid"`
	Control Point     `json:"control"`
	End     Point     `json:"end"`
}

// SVGPath returns the connector as SVG path data.
func (c Connection) SVGPath() string {
	if c.Shape == Straight {
		return fmt.Sprintf("M %g %g L %g %g", c.Start.X, c.Start.Y, c.End.X, c.End.Y)
	}
	return fmt.Sprintf("M %g %g L %g %g Q %g %g %g %g",
		c.Start.X, c.Start.Y, c.Mid.X, c.Mid.Y,
		c.Control.X, c.Control.Y, c.End.X, c.End.Y)
}

// Bounds represents a rectangular area.
type Bounds struct {
	Min, Max Point
}

// Width returns the width of the bounds.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Union returns the smallest bounds covering both.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Point{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y)},
		Max: Point{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y)},
	}
}
