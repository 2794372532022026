// Package bounds computes the content bounding box used to frame an export.
package bounds

import (
	"math"

	"github.com/matzehuels/layerpaste/pkg/geom"
	"github.com/matzehuels/layerpaste/pkg/layer"
)

// Bounds is the minimal axis-aligned box enclosing a set of layers, in
// content space.
type Bounds struct {
	MinX, MinY    float64
	Width, Height float64
}

// Compute returns the box spanning every layer's rectangle in one pass. An
// empty slice yields the zero Bounds. The result is never cached; callers
// recompute it from the current layer set.
func Compute(layers []layer.Layer) Bounds {
	if len(layers) == 0 {
		return Bounds{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, l := range layers {
		minX = math.Min(minX, l.X)
		minY = math.Min(minY, l.Y)
		maxX = math.Max(maxX, l.X+l.Width)
		maxY = math.Max(maxY, l.Y+l.Height)
	}
	return Bounds{MinX: minX, MinY: minY, Width: maxX - minX, Height: maxY - minY}
}

// Empty reports whether the box has zero area.
func (b Bounds) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Rect converts the box to a [geom.Rect].
func (b Bounds) Rect() geom.Rect {
	return geom.Rect{X: b.MinX, Y: b.MinY, Width: b.Width, Height: b.Height}
}

// Pad grows the box by p on every side. Empty boxes are returned unchanged.
func (b Bounds) Pad(p float64) Bounds {
	if b.Empty() || p <= 0 {
		return b
	}
	return Bounds{MinX: b.MinX - p, MinY: b.MinY - p, Width: b.Width + 2*p, Height: b.Height + 2*p}
}
