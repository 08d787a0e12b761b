package domain

// Ages above MaxRecordedAge are recorded as DeathAge with the individual
// marked dead.
const (
	MaxRecordedAge = 90
	DeathAge       = 91
)

// Individual is one pedigree member. FamilyID and ID never change after
// allocation; the clinical fields are filled in by the simulation engines.
type Individual struct {
	FamilyID  int  `json:"family_id"`
	ID        int  `json:"id"`
	IsProband bool `json:"is_proband"`
	FatherID  int  `json:"father_id"` // 0 for founders
	MotherID  int  `json:"mother_id"` // 0 for founders
	Sex       Sex  `json:"sex"`
	IsTwin    bool `json:"is_twin"`
	IsDead    bool `json:"is_dead"`
	Age       int  `json:"age"` // current age or age at death
	BirthYear int  `json:"birth_year"`

	// Ages at diagnosis, 0 when unaffected.
	BreastCancerAge1    int `json:"breast_cancer_age_1"`
	BreastCancerAge2    int `json:"breast_cancer_age_2"`
	OvarianCancerAge    int `json:"ovarian_cancer_age"`
	ProstateCancerAge   int `json:"prostate_cancer_age"`
	PancreaticCancerAge int `json:"pancreatic_cancer_age"`

	GeneticTest    GeneticTestType `json:"genetic_test"`
	MutationStatus MutationStatus  `json:"mutation_status"`
	Ashkenazi      bool            `json:"ashkenazi"`
	Markers        Markers         `json:"markers"`
}

// NewIndividual returns an unaffected, untested individual with no parents.
func NewIndividual(familyID, id int, sex Sex, age, currentYear int) *Individual {
	ind := &Individual{
		FamilyID:    familyID,
		ID:          id,
		Sex:         sex,
		Age:         age,
		BirthYear:   currentYear - age,
		GeneticTest: TestUntested,
		Markers:     UnknownMarkers(),
	}
	ind.capAge()
	return ind
}

// capAge records anyone older than MaxRecordedAge as dead at DeathAge. The
// birth year keeps the drawn age.
func (i *Individual) capAge() {
	if i.Age > MaxRecordedAge {
		i.Age = DeathAge
		i.IsDead = true
	}
}

// Name is the display name written to pedigree files; it is the individual id.
func (i *Individual) Name() int {
	return i.ID
}

// IsFounder reports whether the individual has no recorded parents.
func (i *Individual) IsFounder() bool {
	return i.FatherID == 0 && i.MotherID == 0
}

// HasParents reports whether both parents have been recorded.
func (i *Individual) HasParents() bool {
	return i.FatherID != 0 && i.MotherID != 0
}

// IsChildOf reports whether id is recorded as either parent.
func (i *Individual) IsChildOf(id int) bool {
	return id != 0 && (i.FatherID == id || i.MotherID == id)
}

// HasBreastCancer reports whether a first breast cancer diagnosis is recorded.
func (i *Individual) HasBreastCancer() bool {
	return i.BreastCancerAge1 > 0
}

// HasOvarianCancer reports whether an ovarian cancer diagnosis is recorded.
func (i *Individual) HasOvarianCancer() bool {
	return i.OvarianCancerAge > 0
}

// IsAffected reports whether any breast or ovarian diagnosis is recorded.
func (i *Individual) IsAffected() bool {
	return i.HasBreastCancer() || i.HasOvarianCancer()
}

// RecordBreastCancer stores a breast cancer diagnosis at age in the first
// free slot. A diagnosis earlier than the recorded first one takes the first
// slot and pushes the old first diagnosis into the second. Once both slots are
// filled further diagnoses are ignored. It reports whether a slot changed.
func (i *Individual) RecordBreastCancer(age int) bool {
	switch {
	case i.BreastCancerAge1 == 0:
		i.BreastCancerAge1 = age
	case i.BreastCancerAge2 != 0:
		return false
	case age < i.BreastCancerAge1:
		i.BreastCancerAge2 = i.BreastCancerAge1
		i.BreastCancerAge1 = age
	default:
		i.BreastCancerAge2 = age
	}
	return true
}

// RecordOvarianCancer stores an ovarian cancer diagnosis unless one is
// already recorded. It reports whether the field changed.
func (i *Individual) RecordOvarianCancer(age int) bool {
	if i.OvarianCancerAge != 0 {
		return false
	}
	i.OvarianCancerAge = age
	return true
}

// ClearFemaleCancers zeroes the breast and ovarian diagnoses.
func (i *Individual) ClearFemaleCancers() {
	i.BreastCancerAge1 = 0
	i.BreastCancerAge2 = 0
	i.OvarianCancerAge = 0
}

// Clone returns a copy of the individual.
func (i *Individual) Clone() *Individual {
	c := *i
	return &c
}

// Validate checks the record-level invariants.
func (i *Individual) Validate() error {
	if !i.Sex.IsValid() {
		return NewValidationError("sex", "must be M or F", i.Sex)
	}
	if i.Age < 0 {
		return NewValidationError("age", "must not be negative", i.Age)
	}
	if i.BreastCancerAge1 > 0 && i.BreastCancerAge2 > 0 && i.BreastCancerAge1 > i.BreastCancerAge2 {
		return NewValidationError("breast_cancer_age_2", "second diagnosis precedes the first", i.BreastCancerAge2)
	}
	if i.BreastCancerAge1 == 0 && i.BreastCancerAge2 != 0 {
		return NewValidationError("breast_cancer_age_1", "second diagnosis recorded without a first", i.BreastCancerAge2)
	}
	if i.Sex == Male && (i.BreastCancerAge1 != 0 || i.BreastCancerAge2 != 0 || i.OvarianCancerAge != 0) {
		return NewValidationError("sex", "male individual carries a breast or ovarian diagnosis", i.ID)
	}
	if (i.FatherID == 0) != (i.MotherID == 0) {
		return NewValidationError("parents", "exactly one parent recorded", i.ID)
	}
	if !i.MutationStatus.IsValid() {
		return NewValidationError("mutation_status", "unknown value", int(i.MutationStatus))
	}
	return nil
}
