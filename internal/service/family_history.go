package service

import (
	"github.com/brca-pedigree-sim/internal/domain"
)

// EarlyBreastCancerAge splits first-degree breast cancer counts into under
// 50 and 50 or older.
const EarlyBreastCancerAge = 50

// SummarizeFamilyHistory counts the proband's affected first-degree relatives
// (parents and full siblings) and second-degree relatives (grandparents and
// parents' siblings, split into maternal and paternal lineage). Siblings are
// recognised by sharing the proband's father, parents' siblings by sharing
// the relevant grandfather. The pedigree is only read.
func SummarizeFamilyHistory(ped *domain.Pedigree) (domain.FamilyHistorySummary, error) {
	if ped.Len() < domain.MinPedigreeSize {
		return domain.FamilyHistorySummary{}, domain.NewValidationError("members", "pedigree lacks the fixed family roles", ped.Len())
	}

	proband := ped.Proband()
	relatives := ped.Members[:ped.Len()-1]
	father := relatives[domain.FatherIndex]
	mother := relatives[domain.MotherIndex]
	paternalGrandfather := relatives[domain.PaternalGrandfatherIndex]
	maternalGrandfather := relatives[domain.MaternalGrandfatherIndex]

	firstDegree := []*domain.Individual{father, mother}
	paternal := []*domain.Individual{paternalGrandfather, relatives[domain.PaternalGrandmotherIndex]}
	maternal := []*domain.Individual{maternalGrandfather, relatives[domain.MaternalGrandmotherIndex]}

	for _, person := range relatives {
		switch {
		case proband.FatherID != 0 && person.FatherID == proband.FatherID:
			firstDegree = append(firstDegree, person)
		case person.FatherID == paternalGrandfather.ID && person.ID != father.ID:
			paternal = append(paternal, person)
		case person.FatherID == maternalGrandfather.ID && person.ID != mother.ID:
			maternal = append(maternal, person)
		}
	}

	summary := domain.FamilyHistorySummary{
		FamilyID:     proband.FamilyID,
		ProbandID:    proband.ID,
		HistoryKnown: domain.FamilyHistoryKnown,
	}
	for _, person := range firstDegree {
		switch {
		case person.BreastCancerAge1 > 0 && person.BreastCancerAge1 < EarlyBreastCancerAge:
			summary.FirstDegreeBreastUnder50++
		case person.BreastCancerAge1 >= EarlyBreastCancerAge:
			summary.FirstDegreeBreast50Plus++
		}
		if person.HasOvarianCancer() {
			summary.FirstDegreeOvarian++
		}
	}
	summary.PaternalSecondDegreeBreast, summary.PaternalSecondDegreeOvarian = countAffected(paternal)
	summary.MaternalSecondDegreeBreast, summary.MaternalSecondDegreeOvarian = countAffected(maternal)

	return summary, nil
}

func countAffected(people []*domain.Individual) (breast, ovarian int) {
	for _, person := range people {
		if person.HasBreastCancer() {
			breast++
		}
		if person.HasOvarianCancer() {
			ovarian++
		}
	}
	return breast, ovarian
}
