// Package domain contains the core entities for synthetic hereditary breast and
// ovarian cancer pedigrees: individuals, three-generation pedigrees and the
// proband family-history summary consumed by BOADICEA-style risk calculators.
//
// Reference: Antoniou et al. (2004) The BOADICEA model of genetic susceptibility
// to breast and ovarian cancer. Br J Cancer. 91(8):1580-90.
package domain

import (
	"errors"
	"fmt"
)

// Sex of a pedigree member. Only male and female are modelled.
type Sex string

const (
	Male   Sex = "M"
	Female Sex = "F"
)

// IsValid reports whether the sex is one of the modelled values.
func (s Sex) IsValid() bool {
	return s == Male || s == Female
}

// Opposite returns the other sex.
func (s Sex) Opposite() Sex {
	if s == Male {
		return Female
	}
	return Male
}

// String returns the BOADICEA code for the sex.
func (s Sex) String() string {
	return string(s)
}

// MutationStatus is the BRCA1/BRCA2 carrier state of an individual.
//
// The numeric order is meaningful only for carriers: MutationBRCA1,
// MutationBRCA2 and MutationBoth are positive results. MutationNegative is a
// tested non-carrier and MutationUntested has no information at all.
type MutationStatus int

const (
	MutationUntested MutationStatus = 0
	MutationBRCA1    MutationStatus = 1
	MutationBRCA2    MutationStatus = 2
	MutationBoth     MutationStatus = 3
	MutationNegative MutationStatus = -1
)

// IsCarrier reports whether the status is a positive result for at least one gene.
func (m MutationStatus) IsCarrier() bool {
	return m == MutationBRCA1 || m == MutationBRCA2 || m == MutationBoth
}

// IsTested reports whether a genetic test result has been recorded.
func (m MutationStatus) IsTested() bool {
	return m != MutationUntested
}

// IsValid reports whether the status is a known value.
func (m MutationStatus) IsValid() bool {
	switch m {
	case MutationUntested, MutationNegative, MutationBRCA1, MutationBRCA2, MutationBoth:
		return true
	default:
		return false
	}
}

// HasBRCA1 reports whether the status includes a BRCA1 mutation.
func (m MutationStatus) HasBRCA1() bool {
	return m == MutationBRCA1 || m == MutationBoth
}

// HasBRCA2 reports whether the status includes a BRCA2 mutation.
func (m MutationStatus) HasBRCA2() bool {
	return m == MutationBRCA2 || m == MutationBoth
}

// CombineMutations folds two independent gene results into a single status.
func CombineMutations(brca1, brca2 bool) MutationStatus {
	switch {
	case brca1 && brca2:
		return MutationBoth
	case brca1:
		return MutationBRCA1
	case brca2:
		return MutationBRCA2
	default:
		return MutationNegative
	}
}

// String returns the BOADICEA "Mutn" column code.
func (m MutationStatus) String() string {
	switch m {
	case MutationUntested:
		return "0"
	case MutationNegative:
		return "N"
	case MutationBRCA1:
		return "1"
	case MutationBRCA2:
		return "2"
	case MutationBoth:
		return "3"
	default:
		return fmt.Sprintf("MutationStatus(%d)", int(m))
	}
}

// ParseMutationStatus parses a BOADICEA "Mutn" column code.
func ParseMutationStatus(s string) (MutationStatus, error) {
	switch s {
	case "0":
		return MutationUntested, nil
	case "N":
		return MutationNegative, nil
	case "1":
		return MutationBRCA1, nil
	case "2":
		return MutationBRCA2, nil
	case "3":
		return MutationBoth, nil
	default:
		return MutationUntested, fmt.Errorf("%w: %q", ErrInvalidMutationStatus, s)
	}
}

// GeneticTestType describes how a mutation status was obtained.
type GeneticTestType string

const (
	TestUntested       GeneticTestType = "0"
	TestMutationSearch GeneticTestType = "S"
	TestDirect         GeneticTestType = "T"
)

// IsValid reports whether the test type is a known value.
func (g GeneticTestType) IsValid() bool {
	switch g {
	case TestUntested, TestMutationSearch, TestDirect:
		return true
	default:
		return false
	}
}

// String returns the BOADICEA "Gtest" column code.
func (g GeneticTestType) String() string {
	return string(g)
}

// MarkerStatus is a tumour receptor or cytokeratin marker result. The
// simulation never populates markers, every individual carries MarkerUnknown.
type MarkerStatus string

const (
	MarkerUnknown  MarkerStatus = "0"
	MarkerNegative MarkerStatus = "N"
	MarkerPositive MarkerStatus = "P"
)

// Markers groups the pathology marker columns of the BOADICEA format.
type Markers struct {
	ER   MarkerStatus `json:"er"`
	PR   MarkerStatus `json:"pr"`
	HER2 MarkerStatus `json:"her2"`
	CK14 MarkerStatus `json:"ck14"`
	CK56 MarkerStatus `json:"ck56"`
}

// UnknownMarkers returns a marker set with every column untested.
func UnknownMarkers() Markers {
	return Markers{
		ER:   MarkerUnknown,
		PR:   MarkerUnknown,
		HER2: MarkerUnknown,
		CK14: MarkerUnknown,
		CK56: MarkerUnknown,
	}
}

// Validation errors for enum parsing
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidMutationStatus = errors.New("invalid mutation status")
	ErrInvalidSex            = errors.New("invalid sex")
)
