package export

import (
	"context"
	"image"

	"github.com/matzehuels/layerpaste/pkg/geom"
	"github.com/matzehuels/layerpaste/pkg/layer"
)

// Element is an on-screen decoration that is not part of the composed image
// unless asked for.
type Element int

const (
	// FocusRing is the outline drawn around the focused layer.
	FocusRing Element = iota
)

// Request describes what to rasterize.
type Request struct {
	// Region is the rectangle to capture, in content coordinates.
	Region geom.Rect

	// Layers is a snapshot of the canvas in paint order, bottom first.
	Layers []layer.Layer

	// Focused is the layer that carries the focus ring, or layer.None.
	Focused layer.ID

	// Exclude reports decorations to leave out. Nil keeps everything.
	Exclude func(Element) bool

	// Flatten draws with an identity viewport so the output is in content
	// pixels regardless of the current pan and zoom.
	Flatten bool
}

// Excludes reports whether e should be left out.
func (r Request) Excludes(e Element) bool {
	return r.Exclude != nil && r.Exclude(e)
}

// Rasterizer renders a region of the canvas.
type Rasterizer interface {
	Rasterize(ctx context.Context, req Request) (image.Image, error)
}

// Readier is implemented by rasterizers that can be temporarily
// unavailable.
type Readier interface {
	Ready() bool
}

// ExcludeDecorations is an Exclude predicate that drops every decoration.
func ExcludeDecorations(Element) bool { return true }
