// Package random provides the uniform draws used by the pedigree simulation.
//
// Every engine takes a Source so tests can script the exact sequence of
// draws and simulations can be reproduced from a seed.
package random

import (
	"math/rand/v2"
	"time"
)

// Source supplies uniform random draws.
type Source interface {
	// IntRange returns a uniform integer in the closed range [lo, hi].
	IntRange(lo, hi int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// PCG is a Source backed by a PCG generator.
type PCG struct {
	r *rand.Rand
}

// NewSeeded returns a deterministic source for a seed and a stream number.
// Distinct streams of the same seed are independent, the simulator uses the
// trial number as the stream so results do not depend on worker scheduling.
func NewSeeded(seed int64, stream uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(uint64(seed), stream))}
}

// TimeSeed returns a seed derived from the wall clock.
func TimeSeed() int64 {
	seed := time.Now().UnixNano()
	if seed == 0 {
		seed = 1
	}
	return seed
}

// IntRange returns a uniform integer in [lo, hi]. If hi < lo, lo is returned.
func (p *PCG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.r.IntN(hi-lo+1)
}

// Float64 returns a uniform float in [0, 1).
func (p *PCG) Float64() float64 {
	return p.r.Float64()
}
