package layer

import "sort"

// Direction selects the neighbour used by a single-step reorder.
type Direction int

const (
	// Down moves towards smaller ZIndex values (further back).
	Down Direction = -1
	// Up moves towards larger ZIndex values (further front).
	Up Direction = 1
)

// BringToFront gives the layer a ZIndex one above the current maximum.
func (s *Store) BringToFront(id ID) {
	if l := s.find(id); l != nil {
		l.ZIndex = s.MaxZ() + 1
	}
}

// SendToBack gives the layer a ZIndex one below the current minimum.
func (s *Store) SendToBack(id ID) {
	if l := s.find(id); l != nil {
		l.ZIndex = s.MinZ() - 1
	}
}

// MoveUp swaps the layer with the next larger distinct ZIndex value.
func (s *Store) MoveUp(id ID) { s.step(id, Up) }

// MoveDown swaps the layer with the next smaller distinct ZIndex value.
func (s *Store) MoveDown(id ID) { s.step(id, Down) }

// step exchanges the acting layer's value with the neighbouring distinct
// value. Every layer at the neighbour value takes the acting layer's old
// value.
func (s *Store) step(id ID, dir Direction) {
	acting := s.find(id)
	if acting == nil {
		return
	}
	values := make([]int, len(s.layers))
	for i, l := range s.layers {
		values[i] = l.ZIndex
	}
	target, ok := stepTarget(values, acting.ZIndex, dir)
	if !ok {
		return
	}

	old := acting.ZIndex
	for _, l := range s.layers {
		if l != acting && l.ZIndex == target {
			l.ZIndex = old
		}
	}
	acting.ZIndex = target
}

// stepTarget returns the distinct value adjacent to current in dir within
// values. ok is false when current is already the extreme in that direction
// or does not occur in values.
func stepTarget(values []int, current int, dir Direction) (target int, ok bool) {
	distinct := distinctSorted(values)
	i := sort.SearchInts(distinct, current)
	if i == len(distinct) || distinct[i] != current {
		return 0, false
	}
	j := i + int(dir)
	if j < 0 || j >= len(distinct) {
		return 0, false
	}
	return distinct[j], true
}

// distinctSorted returns the unique values in ascending order.
func distinctSorted(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}
