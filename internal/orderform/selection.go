package orderform

import "slices"

// Slots is the number of protein selections a complete form holds.
const Slots = 3

// selection is a protein selection policy.
type selection interface {
	values() []string // wire order; slots keeps empty positions
	count() int       // selections that are filled in
	reset()
}

// slotSelection is three independent choices; the same protein may fill
// several slots.
type slotSelection struct {
	slots [Slots]string
}

func (s *slotSelection) values() []string { return s.slots[:] }

func (s *slotSelection) count() int {
	n := 0
	for _, v := range s.slots {
		if v != "" {
			n++
		}
	}
	return n
}

func (s *slotSelection) reset() { s.slots = [Slots]string{} }

func (s *slotSelection) set(i int, value string) { s.slots[i] = value }

// setSelection is up to three distinct proteins in the order they were picked.
type setSelection struct {
	picked []string
}

func (s *setSelection) values() []string { return s.picked }

func (s *setSelection) count() int { return len(s.picked) }

func (s *setSelection) reset() { s.picked = nil }

// toggle removes value if present, else adds it when there is room.
// It reports whether value is selected afterwards. Empty values are ignored.
func (s *setSelection) toggle(value string) bool {
	if value == "" {
		return false
	}
	if i := slices.Index(s.picked, value); i >= 0 {
		s.picked = slices.Delete(s.picked, i, i+1)
		return false
	}
	if len(s.picked) >= Slots {
		return false
	}
	s.picked = append(s.picked, value)
	return true
}

func (s *setSelection) canToggle(value string) bool {
	if value == "" {
		return false
	}
	return slices.Contains(s.picked, value) || len(s.picked) < Slots
}
