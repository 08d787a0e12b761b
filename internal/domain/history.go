package domain

// FamilyHistoryKnown is the constant value of the FamHx column.
const FamilyHistoryKnown = 1

// FamilyHistorySummary is the twelve-column family history vector written for
// each proband. It is derived from a completed pedigree and never modified.
type FamilyHistorySummary struct {
	FamilyID     int `json:"family_id"`
	ProbandID    int `json:"proband_id"`
	HistoryKnown int `json:"history_known"`

	// First-degree relatives.
	FirstDegreeBreastUnder50 int `json:"first_degree_breast_under_50"`
	FirstDegreeBreast50Plus  int `json:"first_degree_breast_50_plus"`
	FirstDegreeOvarian       int `json:"first_degree_ovarian"`

	// Second-degree relatives by lineage.
	MaternalSecondDegreeBreast  int `json:"maternal_second_degree_breast"`
	PaternalSecondDegreeBreast  int `json:"paternal_second_degree_breast"`
	MaternalSecondDegreeOvarian int `json:"maternal_second_degree_ovarian"`
	PaternalSecondDegreeOvarian int `json:"paternal_second_degree_ovarian"`

	// Reserved, always zero in this simulation.
	MaleBreast int `json:"male_breast"`
	Pancreatic int `json:"pancreatic"`
}

// FamilyHistoryColumns is the number of values in Vector.
const FamilyHistoryColumns = 12

// Vector returns the summary in output column order: FamID, ProID, FamHx,
// ls1BrCa, gr1BrCa, 1OvCa, m2BrCa, p2BrCa, m2OvCa, p2OvCa, maleBr, PanCa.
func (s FamilyHistorySummary) Vector() [FamilyHistoryColumns]int {
	return [FamilyHistoryColumns]int{
		s.FamilyID,
		s.ProbandID,
		s.HistoryKnown,
		s.FirstDegreeBreastUnder50,
		s.FirstDegreeBreast50Plus,
		s.FirstDegreeOvarian,
		s.MaternalSecondDegreeBreast,
		s.PaternalSecondDegreeBreast,
		s.MaternalSecondDegreeOvarian,
		s.PaternalSecondDegreeOvarian,
		s.MaleBreast,
		s.Pancreatic,
	}
}

// AffectedRelatives returns the total number of counted relatives.
func (s FamilyHistorySummary) AffectedRelatives() int {
	return s.FirstDegreeBreastUnder50 + s.FirstDegreeBreast50Plus + s.FirstDegreeOvarian +
		s.MaternalSecondDegreeBreast + s.PaternalSecondDegreeBreast +
		s.MaternalSecondDegreeOvarian + s.PaternalSecondDegreeOvarian
}
