// Package incidence holds the age-banded cancer incidence and mutation
// prevalence tables of the simulation and the lookup shared by both.
package incidence

import (
	"fmt"

	"github.com/brca-pedigree-sim/internal/domain"
)

// Band lower bounds. Ages below 40 use the 30 band and ages of 70 and above
// use the 70 band.
var Bands = []int{30, 40, 50, 60, 70}

// Scale factors for SampleByAgeBand.
const (
	PerHundredPersonYears = 100.0
	Unscaled              = 1.0
)

// AgeBandTable maps a band lower bound (30, 40, 50, 60, 70) to a rate.
type AgeBandTable map[int]float64

// Band returns the lower bound of the band containing age.
func Band(age int) int {
	switch {
	case age < 40:
		return 30
	case age < 50:
		return 40
	case age < 60:
		return 50
	case age < 70:
		return 60
	default:
		return 70
	}
}

// SampleByAgeBand returns the table rate for the band containing age divided
// by scale. Band boundaries are inclusive on the lower end.
func SampleByAgeBand(table AgeBandTable, age int, scale float64) float64 {
	return table[Band(age)] / scale
}

// SampleRate returns the yearly probability from a per-100-person-years
// incidence table.
func SampleRate(table AgeBandTable, age int) float64 {
	return SampleByAgeBand(table, age, PerHundredPersonYears)
}

// SampleProbability returns the raw probability stored in a table.
func SampleProbability(table AgeBandTable, age int) float64 {
	return SampleByAgeBand(table, age, Unscaled)
}

// Validate checks that every band is present and that the scaled rates are
// probabilities.
func (t AgeBandTable) Validate(scale float64) error {
	for _, band := range Bands {
		rate, ok := t[band]
		if !ok {
			return domain.NewValidationError("band", fmt.Sprintf("missing band %d", band), band)
		}
		if p := rate / scale; p < 0 || p > 1 {
			return domain.NewValidationError("rate", fmt.Sprintf("band %d is not a probability after scaling", band), rate)
		}
	}
	if len(t) != len(Bands) {
		return domain.NewValidationError("band", "unexpected band keys", len(t))
	}
	return nil
}
