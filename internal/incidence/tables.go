package incidence

import (
	"fmt"

	"github.com/brca-pedigree-sim/internal/domain"
)

// Model is the full set of tables used by the cancer and mutation engines.
type Model struct {
	// Yearly incidence per 100 person-years (Antoniou et al. 2004, Table 1).
	BreastPopulation  AgeBandTable
	BreastBRCA1       AgeBandTable
	BreastBRCA2       AgeBandTable
	OvarianPopulation AgeBandTable
	OvarianBRCA1      AgeBandTable
	OvarianBRCA2      AgeBandTable

	// Probability of carrying a mutation given the age at diagnosis
	// (Antoniou et al. 2004, Table 2).
	BreastMutationBRCA1  AgeBandTable
	BreastMutationBRCA2  AgeBandTable
	OvarianMutationBRCA1 AgeBandTable
	OvarianMutationBRCA2 AgeBandTable
}

// DefaultModel returns the published tables.
func DefaultModel() *Model {
	return &Model{
		BreastPopulation:  AgeBandTable{30: 0.009, 40: 0.040, 50: 0.068, 60: 0.092, 70: 0.114},
		BreastBRCA1:       AgeBandTable{30: 0.538, 40: 1.021, 50: 0.677, 60: 0.450, 70: 0.481},
		BreastBRCA2:       AgeBandTable{30: 0.375, 40: 0.799, 50: 1.484, 60: 2.612, 70: 3.591},
		OvarianPopulation: AgeBandTable{30: 0.004, 40: 0.012, 50: 0.031, 60: 0.044, 70: 0.048},
		OvarianBRCA1:      AgeBandTable{30: 0.021, 40: 1.173, 50: 0.813, 60: 0.976, 70: 0.100},
		OvarianBRCA2:      AgeBandTable{30: 0.022, 40: 0.044, 50: 0.462, 60: 0.416, 70: 0.100},

		BreastMutationBRCA1:  AgeBandTable{30: 0.051, 40: 0.016, 50: 0.004, 60: 0.002, 70: 0.001},
		BreastMutationBRCA2:  AgeBandTable{30: 0.050, 40: 0.020, 50: 0.015, 60: 0.012, 70: 0.008},
		OvarianMutationBRCA1: AgeBandTable{30: 0.006, 40: 0.082, 50: 0.018, 60: 0.013, 70: 0.001},
		OvarianMutationBRCA2: AgeBandTable{30: 0.008, 40: 0.004, 50: 0.016, 60: 0.008, 70: 0.001},
	}
}

// BreastIncidence selects the breast cancer incidence table for a carrier
// state. Carriers of both mutations use the BRCA1 table.
func (m *Model) BreastIncidence(status domain.MutationStatus) AgeBandTable {
	switch status {
	case domain.MutationBRCA1, domain.MutationBoth:
		return m.BreastBRCA1
	case domain.MutationBRCA2:
		return m.BreastBRCA2
	default:
		return m.BreastPopulation
	}
}

// OvarianIncidence selects the ovarian cancer incidence table for a carrier
// state. Carriers of both mutations use the BRCA1 table.
func (m *Model) OvarianIncidence(status domain.MutationStatus) AgeBandTable {
	switch status {
	case domain.MutationBRCA1, domain.MutationBoth:
		return m.OvarianBRCA1
	case domain.MutationBRCA2:
		return m.OvarianBRCA2
	default:
		return m.OvarianPopulation
	}
}

// Validate checks every table of the model.
func (m *Model) Validate() error {
	incidence := map[string]AgeBandTable{
		"breast_population":  m.BreastPopulation,
		"breast_brca1":       m.BreastBRCA1,
		"breast_brca2":       m.BreastBRCA2,
		"ovarian_population": m.OvarianPopulation,
		"ovarian_brca1":      m.OvarianBRCA1,
		"ovarian_brca2":      m.OvarianBRCA2,
	}
	for name, table := range incidence {
		if err := table.Validate(PerHundredPersonYears); err != nil {
			return fmt.Errorf("incidence table %s: %w", name, err)
		}
	}
	prevalence := map[string]AgeBandTable{
		"breast_mutation_brca1":  m.BreastMutationBRCA1,
		"breast_mutation_brca2":  m.BreastMutationBRCA2,
		"ovarian_mutation_brca1": m.OvarianMutationBRCA1,
		"ovarian_mutation_brca2": m.OvarianMutationBRCA2,
	}
	for name, table := range prevalence {
		if err := table.Validate(Unscaled); err != nil {
			return fmt.Errorf("mutation table %s: %w", name, err)
		}
	}
	return nil
}
