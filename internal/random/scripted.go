package random

// DefaultScriptedFloat is returned once a Scripted source runs out of
// floats. It is above every incidence, mutation and transmission
// probability, so an exhausted script means "no event".
const DefaultScriptedFloat = 0.999

// Scripted replays fixed draws, for tests. Integer draws are clamped into the
// requested range; an exhausted integer script returns the lower bound.
type Scripted struct {
	ints   []int
	floats []float64

	IntCalls   int
	FloatCalls int
}

// NewScripted returns a source replaying ints and floats in order.
func NewScripted(ints []int, floats []float64) *Scripted {
	return &Scripted{ints: ints, floats: floats}
}

// IntRange returns the next scripted integer clamped to [lo, hi].
func (s *Scripted) IntRange(lo, hi int) int {
	s.IntCalls++
	if len(s.ints) == 0 {
		return lo
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Float64 returns the next scripted float.
func (s *Scripted) Float64() float64 {
	s.FloatCalls++
	if len(s.floats) == 0 {
		return DefaultScriptedFloat
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// PushFloats appends draws to the float script.
func (s *Scripted) PushFloats(v ...float64) {
	s.floats = append(s.floats, v...)
}

// PushInts appends draws to the integer script.
func (s *Scripted) PushInts(v ...int) {
	s.ints = append(s.ints, v...)
}
