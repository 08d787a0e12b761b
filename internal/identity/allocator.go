// Package identity issues family and individual identifiers.
//
// An Allocator is owned by a single goroutine. Parallel simulations give each
// trial its own scratch allocator and move the finished pedigree into the
// shared id space with Reserve, see service.Simulator.
package identity

// Allocator hands out increasing family and individual ids. Both counters
// start at zero and the first id issued is 1, so 0 can mean "no parent".
type Allocator struct {
	family     int
	individual int
}

// NewAllocator returns an allocator whose first ids are 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewAllocatorAt returns an allocator continuing after the given counters.
func NewAllocatorAt(family, individual int) *Allocator {
	return &Allocator{family: family, individual: individual}
}

// NextFamily returns a new family id.
func (a *Allocator) NextFamily() int {
	a.family++
	return a.family
}

// NextIndividual returns a new individual id.
func (a *Allocator) NextIndividual() int {
	a.individual++
	return a.individual
}

// Reserve claims n consecutive individual ids and returns the offset to add
// to ids 1..n of a scratch allocator to land in the reserved block.
func (a *Allocator) Reserve(n int) int {
	offset := a.individual
	a.individual += n
	return offset
}

// Families returns the number of family ids issued so far.
func (a *Allocator) Families() int {
	return a.family
}

// Individuals returns the number of individual ids issued so far.
func (a *Allocator) Individuals() int {
	return a.individual
}
