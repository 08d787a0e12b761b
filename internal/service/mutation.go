package service

import (
	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/incidence"
	"github.com/brca-pedigree-sim/internal/random"
)

// TransmissionProbability is the Mendelian chance that a carrier passes the
// mutation to a child.
const TransmissionProbability = 0.5

// MutationEngine tests cancer-affected founders for BRCA1/BRCA2 mutations and
// passes founder mutations to their children.
type MutationEngine struct {
	model  *incidence.Model
	rng    random.Source
	logger *logrus.Logger
}

// NewMutationEngine creates a new mutation assignment and transmission engine
func NewMutationEngine(model *incidence.Model, rng random.Source, logger *logrus.Logger) *MutationEngine {
	return &MutationEngine{
		model:  model,
		rng:    rng,
		logger: logger,
	}
}

// AssignFromBreastCancer tests an individual with breast cancer using the
// mutation prevalence at the age of the first diagnosis. Unaffected
// individuals are left unchanged.
func (e *MutationEngine) AssignFromBreastCancer(person *domain.Individual) {
	if person.BreastCancerAge1 <= 0 {
		return
	}
	e.test(person, person.BreastCancerAge1, e.model.BreastMutationBRCA1, e.model.BreastMutationBRCA2)
}

// AssignFromOvarianCancer tests an individual with ovarian cancer using the
// mutation prevalence at the age of diagnosis. Unaffected individuals are
// left unchanged.
func (e *MutationEngine) AssignFromOvarianCancer(person *domain.Individual) {
	if person.OvarianCancerAge <= 0 {
		return
	}
	e.test(person, person.OvarianCancerAge, e.model.OvarianMutationBRCA1, e.model.OvarianMutationBRCA2)
}

// test draws the genes not yet known to be mutated. Without a positive
// result both genes are drawn independently; a single-gene carrier is tested
// for the other gene only; a double carrier stays a double carrier.
func (e *MutationEngine) test(person *domain.Individual, age int, brca1, brca2 incidence.AgeBandTable) {
	switch person.MutationStatus {
	case domain.MutationBRCA1:
		if e.rng.Float64() < incidence.SampleProbability(brca2, age) {
			e.record(person, domain.MutationBoth)
		}
	case domain.MutationBRCA2:
		if e.rng.Float64() < incidence.SampleProbability(brca1, age) {
			e.record(person, domain.MutationBoth)
		}
	case domain.MutationBoth:
		e.record(person, domain.MutationBoth)
	default:
		hasBRCA1 := e.rng.Float64() < incidence.SampleProbability(brca1, age)
		hasBRCA2 := e.rng.Float64() < incidence.SampleProbability(brca2, age)
		e.record(person, domain.CombineMutations(hasBRCA1, hasBRCA2))
	}
}

// record stores a test outcome. Positive results come from a direct gene
// test. A negative result is recorded as a mutation search so the output row
// carries a test type alongside the N status.
func (e *MutationEngine) record(person *domain.Individual, status domain.MutationStatus) {
	person.MutationStatus = status
	if status.IsCarrier() {
		person.GeneticTest = domain.TestDirect
		return
	}
	if person.GeneticTest == domain.TestUntested {
		person.GeneticTest = domain.TestMutationSearch
	}
}

// AssignFounderOutcomes tests the female founders, breast cancer first and
// then ovarian cancer. Male founders are never tested.
func (e *MutationEngine) AssignFounderOutcomes(ped *domain.Pedigree) {
	for _, founder := range ped.Founders() {
		if founder.Sex != domain.Female {
			continue
		}
		e.AssignFromBreastCancer(founder)
		e.AssignFromOvarianCancer(founder)

		if founder.MutationStatus.IsCarrier() {
			e.logger.WithFields(logrus.Fields{
				"family_id":       ped.FamilyID,
				"founder_id":      founder.ID,
				"mutation_status": founder.MutationStatus.String(),
			}).Debug("Founder carries a mutation")
		}
	}
}

// TransmitFounderMutation gives each direct child of founder the founder's
// mutation with probability one half. Grandchildren are not reached; callers
// wanting deeper spread invoke it again per generation. It returns the number
// of children that received the mutation and fails with a PreconditionError
// if the founder is not a carrier.
func (e *MutationEngine) TransmitFounderMutation(founder *domain.Individual, ped *domain.Pedigree) (int, error) {
	if !founder.MutationStatus.IsCarrier() {
		return 0, domain.NewPreconditionError(founder.ID, "founder does not carry a mutation")
	}

	transmitted := 0
	for _, person := range ped.Members {
		if !person.IsChildOf(founder.ID) {
			continue
		}
		if e.rng.Float64() < TransmissionProbability {
			person.MutationStatus = founder.MutationStatus
			person.GeneticTest = domain.TestDirect
			transmitted++
		}
	}

	e.logger.WithFields(logrus.Fields{
		"family_id":   ped.FamilyID,
		"founder_id":  founder.ID,
		"transmitted": transmitted,
	}).Debug("Founder mutation transmitted")

	return transmitted, nil
}
