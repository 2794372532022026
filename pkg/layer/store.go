package layer

import (
	"sort"

	"github.com/matzehuels/layerpaste/pkg/geom"
)

// ID identifies a layer for the lifetime of a [Store].
type ID int

// None is the zero ID. It never names a layer and is used for "no focus" and
// "nothing being dragged".
const None ID = 0

// DefaultPosition is where [Store.Add] places a layer when the caller has no
// better position.
var DefaultPosition = geom.Pt(50, 50)

// Layer is one placed image. Position is the top-left corner in content
// space; Width and Height are the intrinsic pixel size of the image.
type Layer struct {
	ID       ID
	ImageRef string
	X, Y     float64
	Width    float64
	Height   float64
	ZIndex   int
}

// Rect returns the content-space rectangle covered by the layer.
func (l Layer) Rect() geom.Rect {
	return geom.Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// Store owns the layers of one editing session together with focus, drag
// and keyboard-movement state.
type Store struct {
	layers []*Layer
	lastID ID

	focused        ID
	dragging       ID
	keyboardMoving bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add places a new layer at [DefaultPosition]. See [Store.AddAt].
func (s *Store) Add(imageRef string, width, height float64) ID {
	return s.AddAt(imageRef, width, height, DefaultPosition)
}

// AddAt creates a layer with a fresh id at pos, above every existing layer,
// and focuses it.
func (s *Store) AddAt(imageRef string, width, height float64, pos geom.Point) ID {
	s.lastID++
	z := 1
	if len(s.layers) > 0 {
		z = s.MaxZ() + 1
	}
	s.layers = append(s.layers, &Layer{
		ID:       s.lastID,
		ImageRef: imageRef,
		X:        pos.X,
		Y:        pos.Y,
		Width:    width,
		Height:   height,
		ZIndex:   z,
	})
	s.focused = s.lastID
	return s.lastID
}

// UpdatePosition moves a layer by (dx, dy). The delta is added, so repeated
// calls accumulate regardless of how often they arrive.
func (s *Store) UpdatePosition(id ID, dx, dy float64) {
	if l := s.find(id); l != nil {
		l.X += dx
		l.Y += dy
	}
}

// Delete removes a layer. Focus and drag state pointing at it are cleared.
func (s *Store) Delete(id ID) {
	for i, l := range s.layers {
		if l.ID != id {
			continue
		}
		s.layers = append(s.layers[:i], s.layers[i+1:]...)
		if s.focused == id {
			s.focused = None
		}
		if s.dragging == id {
			s.dragging = None
		}
		return
	}
}

// SetFocus focuses id, or clears focus when id is [None].
func (s *Store) SetFocus(id ID) { s.focused = id }

// SetDragging records which layer is being dragged. The caller must only
// pass the focused layer or [None]; this is not checked.
func (s *Store) SetDragging(id ID) { s.dragging = id }

// SetKeyboardMoving records whether a movement key is held.
func (s *Store) SetKeyboardMoving(moving bool) { s.keyboardMoving = moving }

// Focused returns the focused layer id, or [None].
func (s *Store) Focused() ID { return s.focused }

// Dragging returns the id of the layer being dragged, or [None].
func (s *Store) Dragging() ID { return s.dragging }

// KeyboardMoving reports whether a movement key is held.
func (s *Store) KeyboardMoving() bool { return s.keyboardMoving }

// Len returns the number of layers.
func (s *Store) Len() int { return len(s.layers) }

// Get returns a copy of the layer with the given id.
func (s *Store) Get(id ID) (Layer, bool) {
	if l := s.find(id); l != nil {
		return *l, true
	}
	return Layer{}, false
}

// Layers returns copies of all layers in creation order.
func (s *Store) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = *l
	}
	return out
}

// Sorted returns copies of all layers in paint order: ascending ZIndex, ties
// broken by creation order.
func (s *Store) Sorted() []Layer {
	out := s.Layers()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// LayerAt returns the topmost layer whose rectangle contains the content
// point p.
func (s *Store) LayerAt(p geom.Point) (Layer, bool) {
	sorted := s.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Rect().Contains(p) {
			return sorted[i], true
		}
	}
	return Layer{}, false
}

// MaxZ returns the largest ZIndex, or 0 for an empty store.
func (s *Store) MaxZ() int {
	if len(s.layers) == 0 {
		return 0
	}
	m := s.layers[0].ZIndex
	for _, l := range s.layers[1:] {
		m = max(m, l.ZIndex)
	}
	return m
}

// MinZ returns the smallest ZIndex, or 0 for an empty store.
func (s *Store) MinZ() int {
	if len(s.layers) == 0 {
		return 0
	}
	m := s.layers[0].ZIndex
	for _, l := range s.layers[1:] {
		m = min(m, l.ZIndex)
	}
	return m
}

func (s *Store) find(id ID) *Layer {
	if id == None {
		return nil
	}
	for _, l := range s.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}
