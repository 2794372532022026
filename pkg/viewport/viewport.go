// Package viewport maps between screen space, where pointer and wheel events
// arrive, and content space, where layer positions are stored.
//
// The mapping is screen = content*Scale + Offset. It only affects display;
// stored layer coordinates never change when the user pans or zooms.
package viewport

import (
	"math"

	"github.com/matzehuels/layerpaste/pkg/geom"
)

// Defaults used when [Options] leaves a field at zero.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 5.0
	DefaultStep     = 0.1
)

// Zoom directions.
const (
	ZoomIn  = 1
	ZoomOut = -1
)

// scaleResolution is the number of steps per unit scale values are rounded
// to, so that a zoom step followed by its inverse lands exactly on the
// starting scale.
const scaleResolution = 1e9

// Options bounds and sizes zoom steps.
type Options struct {
	MinScale float64
	MaxScale float64
	Step     float64
}

func (o Options) withDefaults() Options {
	if o.MinScale <= 0 {
		o.MinScale = DefaultMinScale
	}
	if o.MaxScale <= 0 {
		o.MaxScale = DefaultMaxScale
	}
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	if o.MaxScale < o.MinScale {
		o.MinScale, o.MaxScale = o.MaxScale, o.MinScale
	}
	return o
}

// Viewport holds the current pan offset and scale factor.
type Viewport struct {
	scale  float64
	offset geom.Point
	opts   Options
}

// New returns an identity viewport (scale 1, no offset).
func New(opts Options) *Viewport {
	v := &Viewport{opts: opts.withDefaults()}
	v.Reset()
	return v
}

// Scale returns the current scale factor.
func (v *Viewport) Scale() float64 { return v.scale }

// Offset returns the current pan offset in screen space.
func (v *Viewport) Offset() geom.Point { return v.offset }

// Options returns the effective options.
func (v *Viewport) Options() Options { return v.opts }

// Reset restores scale 1 (clamped to the allowed range) and a zero offset.
func (v *Viewport) Reset() {
	v.scale = v.clamp(1)
	v.offset = geom.Point{}
}

// Zoom changes the scale by one step in dir (positive zooms in) while
// keeping the content point under focal fixed on screen. It reports whether
// anything changed; at the clamp limits it does nothing.
func (v *Viewport) Zoom(focal geom.Point, dir int) bool {
	if dir == 0 {
		return false
	}
	step := v.opts.Step
	if dir < 0 {
		step = -step
	}
	next := v.clamp(quantize(v.scale + step))
	if next == v.scale {
		return false
	}
	ratio := next / v.scale
	v.offset = v.offset.Sub(focal).Mul(ratio).Add(focal)
	v.scale = next
	return true
}

// Pan shifts the offset by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.offset = v.offset.Add(geom.Pt(dx, dy))
}

// ScreenToContent converts a screen point to content space.
func (v *Viewport) ScreenToContent(p geom.Point) geom.Point {
	return p.Sub(v.offset).Div(v.scale)
}

// ContentToScreen converts a content point to screen space.
func (v *Viewport) ContentToScreen(p geom.Point) geom.Point {
	return p.Mul(v.scale).Add(v.offset)
}

// ScreenDelta converts a screen-space movement to the equivalent
// content-space movement at the current scale.
func (v *Viewport) ScreenDelta(d geom.Point) geom.Point {
	return d.Div(v.scale)
}

func (v *Viewport) clamp(s float64) float64 {
	return math.Min(v.opts.MaxScale, math.Max(v.opts.MinScale, s))
}

func quantize(s float64) float64 {
	return math.Round(s*scaleResolution) / scaleResolution
}
