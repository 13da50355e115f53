// Package layout positions mind map nodes: it places new children, resolves
// overlaps between subtrees, propagates changes up the ancestor chain and
// contracts sibling groups after deletion.
package layout

import (
	"errors"

	"mindmap/geometry"
)

// Config holds every tunable of the layout engine.
type Config struct {
	Metrics geometry.Metrics

	HorizontalGap float64 // Between a parent's right edge and its children
	Buffer        float64 // Clearance added when a collision is pushed apart

	SpacingBase   float64 // Anchor-to-anchor spacing of a small sibling group
	SpacingShrink float64 // Reduction per child beyond two
	SpacingFloor  float64 // Spacing never drops below this
	CrowdedBonus  float64 // Added when unrelated nodes share the X band

	SiblingGap    float64 // Minimum gap between adjacent sibling subtrees
	ComplexityGap float64 // Extra gap per unit of subtree complexity
	ComplexityCap float64 // Complexity (in node heights) is capped here

	CenterTolerance float64 // Recentering below this is ignored
	WidthTolerance  float64 // Width changes below this keep descendants in place
	OverlapEpsilon  float64 // Overlaps smaller than this are treated as touching

	MaxPasses int // Collision pass budget
	MaxDepth  int // Propagation depth cap
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Metrics:         geometry.DefaultMetrics(),
		HorizontalGap:   80,
		Buffer:          10,
		SpacingBase:     60,
		SpacingShrink:   2,
		SpacingFloor:    50,
		CrowdedBonus:    20,
		SiblingGap:      10,
		ComplexityGap:   6,
		ComplexityCap:   5,
		CenterTolerance: 1,
		WidthTolerance:  5,
		OverlapEpsilon:  0.5,
		MaxPasses:       5,
		MaxDepth:        10,
	}
}

// Validate rejects configurations the algorithms cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Metrics.NodeHeight <= 0:
		return errors.New("layout: node height must be positive")
	case c.SpacingFloor < c.Metrics.NodeHeight:
		return errors.New("layout: spacing floor must be at least one node height")
	case c.SpacingBase < c.SpacingFloor:
		return errors.New("layout: spacing base must not be below the floor")
	case c.MaxPasses <= 0:
		return errors.New("layout: pass budget must be positive")
	case c.MaxDepth <= 0:
		return errors.New("layout: depth cap must be positive")
	case c.Buffer < 0 || c.SiblingGap < 0 || c.HorizontalGap < 0:
		return errors.New("layout: gaps must not be negative")
	}
	return nil
}

func (c Config) nodeHeight() float64 {
	return c.Metrics.NodeHeight
}
