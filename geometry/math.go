// Package geometry holds the pure functions the layout engine is built on:
// node widths, subtree extents and interval arithmetic.
package geometry

import "math"

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(x1, y1, x2, y2 float64) float64 {
	return Abs(x2-x1) + Abs(y2-y1)
}

// NearlyEqual reports whether a and b differ by at most tol.
func NearlyEqual(a, b, tol float64) bool {
	return Abs(a-b) <= tol
}

// IsHorizontal returns true if the line from (x1,y1) to (x2,y2) is more horizontal than vertical.
func IsHorizontal(x1, y1, x2, y2 float64) bool {
	return Abs(x2-x1) > Abs(y2-y1)
}
