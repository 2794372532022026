// Package raster composites layers into an image with fogleman/gg. Its
// [Compositor] is the rasterizer used by pkg/export.
package raster

import (
	"context"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/export"
	"github.com/matzehuels/layerpaste/pkg/layer"
	"github.com/matzehuels/layerpaste/pkg/viewport"
)

// Defaults for [Options].
const (
	DefaultBackground = "#ffffff"
	DefaultFocusColor = "#3b82f6"
	DefaultFocusWidth = 2
)

// MaxOutputSide bounds each side of a rasterized image in pixels.
const MaxOutputSide = 2 * errors.MaxImageDimension

// Images resolves layer image refs. *source.Library implements it.
type Images interface {
	Image(ref string) (image.Image, error)
	Tainted(ref string) bool
}

// Options styles the output.
type Options struct {
	Background string  // hex colour painted under all layers
	FocusColor string  // hex colour of the focus ring
	FocusWidth float64 // focus ring width in screen pixels
}

func (o Options) withDefaults() Options {
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.FocusColor == "" {
		o.FocusColor = DefaultFocusColor
	}
	if o.FocusWidth <= 0 {
		o.FocusWidth = DefaultFocusWidth
	}
	return o
}

// Compositor draws layer snapshots with their images.
type Compositor struct {
	view   *viewport.Viewport
	images Images
	opts   Options
}

// New creates a Compositor. view may be nil when only flattened requests
// are made.
func New(view *viewport.Viewport, images Images, opts Options) *Compositor {
	return &Compositor{view: view, images: images, opts: opts.withDefaults()}
}

// Ready reports whether the compositor has an image source.
func (c *Compositor) Ready() bool {
	return c != nil && c.images != nil
}

// Rasterize draws req.Layers clipped to req.Region. Without Flatten the
// region is drawn at the viewport's current scale.
func (c *Compositor) Rasterize(ctx context.Context, req export.Request) (image.Image, error) {
	if !c.Ready() {
		return nil, errors.New(errors.ErrCodeRasterizerUnavailable, "compositor is not configured")
	}
	region := req.Region
	if region.Area() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "region has no area")
	}

	scale := 1.0
	if !req.Flatten && c.view != nil {
		scale = c.view.Scale()
	}
	w := int(math.Ceil(region.Width * scale))
	h := int(math.Ceil(region.Height * scale))
	if w > MaxOutputSide || h > MaxOutputSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "output %dx%d exceeds %d pixels per side", w, h, MaxOutputSide)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(c.opts.Background)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(-region.X, -region.Y)

	var focused *layer.Layer
	for i, l := range req.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.images.Tainted(l.ImageRef) {
			return nil, errors.New(errors.ErrCodeTainted, "layer %d comes from a host that is not allowed", l.ID)
		}
		img, err := c.images.Image(l.ImageRef)
		if err != nil {
			return nil, err
		}
		drawLayer(dc, l, img)
		if l.ID == req.Focused && l.ID != layer.None {
			focused = &req.Layers[i]
		}
	}

	if focused != nil && !req.Excludes(export.FocusRing) {
		dc.SetHexColor(c.opts.FocusColor)
		dc.SetLineWidth(c.opts.FocusWidth)
		dc.DrawRectangle(focused.X, focused.Y, focused.Width, focused.Height)
		dc.Stroke()
	}

	return dc.Image(), nil
}

// drawLayer stretches img over the layer's rectangle.
func drawLayer(dc *gg.Context, l layer.Layer, img image.Image) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	dc.Push()
	dc.Translate(l.X, l.Y)
	dc.Scale(l.Width/float64(b.Dx()), l.Height/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.Pop()
}
