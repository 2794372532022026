package interaction

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/geom"
	"github.com/matzehuels/layerpaste/pkg/layer"
	"github.com/matzehuels/layerpaste/pkg/observability"
	"github.com/matzehuels/layerpaste/pkg/viewport"
)

// Default option values.
const (
	DefaultDragThreshold = 5
	DefaultKeyStep       = 1
	DefaultKeyStepLarge  = 10
)

// ImageSink stores pasted image bytes and returns the ref layers use to
// name them.
type ImageSink interface {
	Put(data []byte, origin string) (ref string, err error)
}

// Options tunes the controller. Non-positive distances select the
// defaults; a zero ReservedModifier reserves nothing.
type Options struct {
	// DragThreshold is the distance in screen pixels the pointer must
	// travel from the press point before a drag starts.
	DragThreshold float64

	// KeyStep and KeyStepLarge are the content-space distances moved per
	// arrow key press, without and with shift.
	KeyStep      float64
	KeyStepLarge float64

	// ReservedModifier disables wheel zoom while held.
	ReservedModifier Modifiers
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		DragThreshold:    DefaultDragThreshold,
		KeyStep:          DefaultKeyStep,
		KeyStepLarge:     DefaultKeyStepLarge,
		ReservedModifier: ModCtrl,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DragThreshold <= 0 {
		o.DragThreshold = d.DragThreshold
	}
	if o.KeyStep <= 0 {
		o.KeyStep = d.KeyStep
	}
	if o.KeyStepLarge <= 0 {
		o.KeyStepLarge = d.KeyStepLarge
	}
	return o
}

type gesture int

const (
	gestureIdle gesture = iota
	gestureCandidate
	gestureDragging
	gesturePanning
	gestureBackground
)

// Controller applies events to a layer store and a viewport.
type Controller struct {
	store  *layer.Store
	view   *viewport.Viewport
	images ImageSink
	opts   Options
	logger *log.Logger

	width, height float64

	gesture gesture
	target  layer.ID
	press   geom.Point
	last    geom.Point

	held map[Key]bool
}

// New creates a controller. A nil logger logs to [log.Default].
func New(store *layer.Store, view *viewport.Viewport, images ImageSink, opts Options, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		store:  store,
		view:   view,
		images: images,
		opts:   opts.withDefaults(),
		logger: logger,
		held:   make(map[Key]bool),
	}
}

// Store returns the controlled layer store.
func (c *Controller) Store() *layer.Store { return c.store }

// Viewport returns the controlled viewport.
func (c *Controller) Viewport() *viewport.Viewport { return c.view }

// SetViewportSize records the visible canvas size in screen pixels. Pasted
// layers are centred in it; until it is known they go to
// [layer.DefaultPosition].
func (c *Controller) SetViewportSize(width, height float64) {
	c.width, c.height = width, height
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool { return c.gesture == gestureDragging }

// Handle applies ev. Only pastes can fail; every other event is total.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case PasteEvent:
		_, err := c.paste(ctx, ev)
		return err
	case PointerEvent:
		c.pointer(ev)
	case KeyEvent:
		c.key(ctx, ev)
	case WheelEvent:
		c.wheel(ev)
	}
	return nil
}

// Paste adds ev as a new focused layer and returns its id.
func (c *Controller) Paste(ctx context.Context, ev PasteEvent) (layer.ID, error) {
	return c.paste(ctx, ev)
}

// PasteAt adds ev with its top-left corner at pos in content space.
func (c *Controller) PasteAt(ctx context.Context, ev PasteEvent, pos geom.Point) (layer.ID, error) {
	if err := errors.ValidateImageSize(ev.Width, ev.Height); err != nil {
		return layer.None, err
	}
	if c.images == nil {
		return layer.None, errors.New(errors.ErrCodeInternal, "no image sink configured")
	}
	ref, err := c.images.Put(ev.Data, ev.Origin)
	if err != nil {
		return layer.None, err
	}

	w, h := float64(ev.Width), float64(ev.Height)
	id := c.store.AddAt(ref, w, h, pos)
	c.logger.Debug("layer added", "id", id, "ref", ref, "x", pos.X, "y", pos.Y, "w", w, "h", h)
	observability.Editor().OnLayerAdded(ctx, int(id), w, h)
	return id, nil
}

func (c *Controller) paste(ctx context.Context, ev PasteEvent) (layer.ID, error) {
	pos := layer.DefaultPosition
	if c.width > 0 && c.height > 0 {
		center := c.view.ScreenToContent(geom.Rect{Width: c.width, Height: c.height}.Center())
		pos = center.Sub(geom.Pt(float64(ev.Width)/2, float64(ev.Height)/2))
	}
	return c.PasteAt(ctx, ev, pos)
}

func (c *Controller) pointer(ev PointerEvent) {
	p := geom.Pt(ev.X, ev.Y)

	switch ev.Kind {
	case PointerDown:
		c.pointerDown(ev, p)

	case PointerMove:
		if (c.gesture == gestureCandidate || c.gesture == gestureDragging) && !c.holdsTarget() {
			c.dropTarget()
			return
		}
		switch c.gesture {
		case gestureCandidate:
			if p.Sub(c.press).Len() <= c.opts.DragThreshold {
				return
			}
			c.gesture = gestureDragging
			c.store.SetDragging(c.target)
			c.moveBy(p.Sub(c.press))
		case gestureDragging:
			c.moveBy(p.Sub(c.last))
		case gesturePanning:
			d := p.Sub(c.last)
			c.view.Pan(d.X, d.Y)
		default:
			return
		}
		c.last = p

	case PointerUp:
		c.pointerUp(ev)
	}
}

func (c *Controller) pointerDown(ev PointerEvent, p geom.Point) {
	if c.gesture != gestureIdle {
		return
	}
	switch ev.Button {
	case ButtonPrimary:
		if _, ok := c.store.Get(ev.Target); ok {
			c.store.SetFocus(ev.Target)
			c.gesture = gestureCandidate
			c.target = ev.Target
		} else {
			c.gesture = gestureBackground
		}
	case ButtonMiddle:
		c.gesture = gesturePanning
	default:
		return
	}
	c.press, c.last = p, p
}

func (c *Controller) pointerUp(ev PointerEvent) {
	switch c.gesture {
	case gestureCandidate, gestureDragging, gestureBackground:
		if ev.Button != ButtonPrimary {
			return
		}
		if c.gesture == gestureBackground {
			c.store.SetFocus(layer.None)
		}
		if c.gesture == gestureDragging {
			c.logger.Debug("drag end", "id", c.target)
		}
		c.store.SetDragging(layer.None)
	case gesturePanning:
		if ev.Button != ButtonMiddle {
			return
		}
	default:
		return
	}
	c.gesture = gestureIdle
	c.target = layer.None
}

// holdsTarget reports whether the pressed layer still exists and is
// focused. Only the focused layer may be dragged.
func (c *Controller) holdsTarget() bool {
	_, ok := c.store.Get(c.target)
	return ok && c.store.Focused() == c.target
}

// dropTarget abandons a press or drag on a layer.
func (c *Controller) dropTarget() {
	if c.gesture != gestureCandidate && c.gesture != gestureDragging {
		return
	}
	c.store.SetDragging(layer.None)
	c.gesture = gestureIdle
	c.target = layer.None
}

// moveBy moves the dragged layer by a screen-space delta.
func (c *Controller) moveBy(screen geom.Point) {
	d := c.view.ScreenDelta(screen)
	c.store.UpdatePosition(c.target, d.X, d.Y)
}

func (c *Controller) wheel(ev WheelEvent) {
	if ev.Mods.Has(c.opts.ReservedModifier) {
		return
	}
	switch {
	case ev.DeltaY < 0:
		c.view.Zoom(geom.Pt(ev.X, ev.Y), viewport.ZoomIn)
	case ev.DeltaY > 0:
		c.view.Zoom(geom.Pt(ev.X, ev.Y), viewport.ZoomOut)
	}
}

func (c *Controller) key(ctx context.Context, ev KeyEvent) {
	if ev.Kind == KeyRelease {
		c.keyUp(ev)
		return
	}

	focused := c.store.Focused()
	switch ev.Key {
	case KeyDelete, KeyBackspace:
		if focused == layer.None {
			return
		}
		c.held = make(map[Key]bool)
		c.store.SetKeyboardMoving(false)
		c.store.Delete(focused)
		c.dropTarget()
		c.logger.Debug("layer removed", "id", focused)
		observability.Editor().OnLayerRemoved(ctx, int(focused))
		return
	case KeyEscape:
		c.store.SetFocus(layer.None)
		c.dropTarget()
		return
	}

	if ev.Reorders() {
		c.reorder(ctx, focused, reorderFor(ev))
		return
	}
	if !ev.Nudges() || focused == layer.None {
		return
	}

	c.held[ev.Key] = true
	c.store.SetKeyboardMoving(true)

	step := c.opts.KeyStep
	if ev.Mods.Has(ModShift) {
		step = c.opts.KeyStepLarge
	}
	var dx, dy float64
	switch ev.Key {
	case KeyArrowUp:
		dy = -step
	case KeyArrowDown:
		dy = step
	case KeyArrowLeft:
		dx = -step
	case KeyArrowRight:
		dx = step
	}
	c.store.UpdatePosition(focused, dx, dy)
}

func (c *Controller) keyUp(ev KeyEvent) {
	if !c.held[ev.Key] {
		return
	}
	delete(c.held, ev.Key)
	if len(c.held) == 0 {
		c.store.SetKeyboardMoving(false)
	}
}

// reorderOp is a stacking-order change.
type reorderOp int

const (
	toFront reorderOp = iota
	toBack
	stepUp
	stepDown
)

func (op reorderOp) String() string {
	switch op {
	case toFront:
		return "front"
	case toBack:
		return "back"
	case stepUp:
		return "up"
	case stepDown:
		return "down"
	}
	return "unknown"
}

// reorderFor maps a reordering key event to its operation. Alt takes
// precedence over ctrl.
func reorderFor(ev KeyEvent) reorderOp {
	up := ev.Key == KeyArrowUp || ev.Key == KeyPageUp
	switch {
	case ev.Key == KeyPageUp || ev.Key == KeyPageDown || ev.Mods.Has(ModAlt):
		if up {
			return toFront
		}
		return toBack
	case up:
		return stepUp
	}
	return stepDown
}

func (c *Controller) reorder(ctx context.Context, id layer.ID, op reorderOp) {
	if id == layer.None {
		return
	}
	switch op {
	case toFront:
		c.store.BringToFront(id)
	case toBack:
		c.store.SendToBack(id)
	case stepUp:
		c.store.MoveUp(id)
	case stepDown:
		c.store.MoveDown(id)
	}
	c.logger.Debug("reorder", "id", id, "op", op)
	observability.Editor().OnReorder(ctx, int(id), op.String())
}
