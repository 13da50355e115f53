package geometry

import (
	"math"
	"sort"
)

// Interval is a closed span [Lo, Hi] on one axis.
type Interval struct {
	Lo, Hi float64
}

// Intersects reports whether the spans overlap by more than tol.
func (iv Interval) Intersects(o Interval, tol float64) bool {
	return min(iv.Hi, o.Hi)-max(iv.Lo, o.Lo) > tol
}

// MergeIntervals unions overlapping or touching intervals and returns them
// sorted by Lo.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })

	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi {
			last.Hi = max(last.Hi, iv.Hi)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// FreeSpan finds where a span of the given position and length may sit
// without intersecting any occupied interval, keeping gap clearance. If
// the preferred position is free it is returned unchanged; otherwise the
// closest candidate above or below a conflicting interval is returned once
// it has been checked against every interval.
func FreeSpan(want Interval, occupied []Interval, gap float64) Interval {
	merged := MergeIntervals(occupied)
	if spanFree(want, merged, gap) {
		return want
	}
	length := want.Hi - want.Lo

	var candidates []Interval
	for _, iv := range merged {
		candidates = append(candidates,
			Interval{Lo: iv.Lo - gap - length, Hi: iv.Lo - gap},
			Interval{Lo: iv.Hi + gap, Hi: iv.Hi + gap + length},
		)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Lo-want.Lo) < math.Abs(candidates[j].Lo-want.Lo)
	})
	for _, c := range candidates {
		if spanFree(c, merged, gap) {
			return c
		}
	}
	last := merged[len(merged)-1]
	return Interval{Lo: last.Hi + gap, Hi: last.Hi + gap + length}
}

func spanFree(span Interval, merged []Interval, gap float64) bool {
	for _, iv := range merged {
		if span.Lo < iv.Hi+gap && iv.Lo-gap < span.Hi {
			return false
		}
	}
	return true
}
