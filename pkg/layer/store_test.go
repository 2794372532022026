package layer

import (
	"testing"

	"github.com/matzehuels/layerpaste/pkg/geom"
)

func TestAddAssignsUniqueIDsAndIncreasingZ(t *testing.T) {
	s := NewStore()
	seen := map[ID]bool{}
	prevMax := s.MaxZ()

	for i := 0; i < 20; i++ {
		id := s.Add("img", 10, 10)
		if id == None {
			t.Fatalf("Add() returned None")
		}
		if seen[id] {
			t.Fatalf("Add() returned duplicate id %d", id)
		}
		seen[id] = true

		l, _ := s.Get(id)
		if l.ZIndex <= prevMax {
			t.Errorf("ZIndex = %d, want > %d", l.ZIndex, prevMax)
		}
		prevMax = s.MaxZ()

		if s.Focused() != id {
			t.Errorf("Focused() = %d, want %d", s.Focused(), id)
		}
	}
}

func TestAddAfterReorderStaysOnTop(t *testing.T) {
	s := NewStore()
	a := s.Add("a", 1, 1)
	s.Add("b", 1, 1)
	s.BringToFront(a)
	s.BringToFront(a)

	c := s.Add("c", 1, 1)
	sorted := s.Sorted()
	if top := sorted[len(sorted)-1].ID; top != c {
		t.Errorf("top layer = %d, want %d", top, c)
	}
}

func TestIDsNeverReused(t *testing.T) {
	s := NewStore()
	a := s.Add("a", 1, 1)
	s.Delete(a)
	b := s.Add("b", 1, 1)
	if b == a {
		t.Errorf("Add() after Delete reused id %d", a)
	}
}

func TestAddDefaultPosition(t *testing.T) {
	s := NewStore()
	id := s.Add("a", 30, 40)
	l, ok := s.Get(id)
	if !ok {
		t.Fatal("Get() found nothing")
	}
	if l.X != 50 || l.Y != 50 {
		t.Errorf("position = (%v, %v), want (50, 50)", l.X, l.Y)
	}
	if l.Width != 30 || l.Height != 40 {
		t.Errorf("size = %vx%v, want 30x40", l.Width, l.Height)
	}

	id = s.AddAt("b", 1, 1, geom.Pt(-5, 7.5))
	l, _ = s.Get(id)
	if l.X != -5 || l.Y != 7.5 {
		t.Errorf("AddAt position = (%v, %v), want (-5, 7.5)", l.X, l.Y)
	}
}

func TestUpdatePositionAccumulates(t *testing.T) {
	s := NewStore()
	id := s.AddAt("a", 1, 1, geom.Pt(0, 0))
	for i := 0; i < 4; i++ {
		s.UpdatePosition(id, 1.5, -2)
	}
	l, _ := s.Get(id)
	if l.X != 6 || l.Y != -8 {
		t.Errorf("position = (%v, %v), want (6, -8)", l.X, l.Y)
	}

	// Unknown ids are ignored.
	s.UpdatePosition(999, 100, 100)
	if l2, _ := s.Get(id); l2 != l {
		t.Errorf("UpdatePosition(unknown) changed layer: %+v", l2)
	}
}

func TestDeleteFocus(t *testing.T) {
	tests := []struct {
		name        string
		deleteFirst bool
		wantFocus   func(a, b ID) ID
	}{
		{
			name:        "deleting focused clears focus",
			deleteFirst: false,
			wantFocus:   func(a, b ID) ID { return None },
		},
		{
			name:        "deleting other keeps focus",
			deleteFirst: true,
			wantFocus:   func(a, b ID) ID { return b },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			a := s.Add("a", 1, 1)
			b := s.Add("b", 1, 1) // focused
			if tt.deleteFirst {
				s.Delete(a)
			} else {
				s.Delete(b)
			}
			if got := s.Focused(); got != tt.wantFocus(a, b) {
				t.Errorf("Focused() = %d, want %d", got, tt.wantFocus(a, b))
			}
			if s.Len() != 1 {
				t.Errorf("Len() = %d, want 1", s.Len())
			}
		})
	}
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	s := NewStore()
	id := s.Add("a", 1, 1)
	s.Delete(id + 10)
	if s.Len() != 1 || s.Focused() != id {
		t.Errorf("Delete(unknown) changed store: len=%d focus=%d", s.Len(), s.Focused())
	}
}

func TestDeleteClearsDragging(t *testing.T) {
	s := NewStore()
	id := s.Add("a", 1, 1)
	s.SetDragging(id)
	s.Delete(id)
	if s.Dragging() != None {
		t.Errorf("Dragging() = %d, want None", s.Dragging())
	}
}

func TestSetters(t *testing.T) {
	s := NewStore()
	a := s.Add("a", 1, 1)
	s.SetFocus(None)
	if s.Focused() != None {
		t.Errorf("Focused() = %d, want None", s.Focused())
	}
	// SetDragging does not validate against focus.
	s.SetDragging(a)
	if s.Dragging() != a {
		t.Errorf("Dragging() = %d, want %d", s.Dragging(), a)
	}
	s.SetKeyboardMoving(true)
	if !s.KeyboardMoving() {
		t.Error("KeyboardMoving() = false, want true")
	}
}

func TestLayerAtReturnsTopmost(t *testing.T) {
	s := NewStore()
	bottom := s.AddAt("bottom", 100, 100, geom.Pt(0, 0))
	top := s.AddAt("top", 10, 10, geom.Pt(20, 20))

	if l, ok := s.LayerAt(geom.Pt(25, 25)); !ok || l.ID != top {
		t.Errorf("LayerAt(25,25) = %d, %v, want %d", l.ID, ok, top)
	}
	if l, ok := s.LayerAt(geom.Pt(5, 5)); !ok || l.ID != bottom {
		t.Errorf("LayerAt(5,5) = %d, %v, want %d", l.ID, ok, bottom)
	}

	s.SendToBack(top)
	s.BringToFront(bottom)
	if l, _ := s.LayerAt(geom.Pt(25, 25)); l.ID != bottom {
		t.Errorf("LayerAt after reorder = %d, want %d", l.ID, bottom)
	}
	if _, ok := s.LayerAt(geom.Pt(500, 500)); ok {
		t.Error("LayerAt(outside) found a layer")
	}
}

func TestSortedBreaksTiesByCreation(t *testing.T) {
	s := NewStore()
	a := s.Add("a", 1, 1)
	b := s.Add("b", 1, 1)
	s.layers[0].ZIndex = 3
	s.layers[1].ZIndex = 3

	sorted := s.Sorted()
	if sorted[0].ID != a || sorted[1].ID != b {
		t.Errorf("Sorted() = [%d %d], want [%d %d]", sorted[0].ID, sorted[1].ID, a, b)
	}
}
