package service

import (
	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/incidence"
	"github.com/brca-pedigree-sim/internal/random"
)

// FirstCancerScanAge is the first age at which yearly incidence is drawn.
const FirstCancerScanAge = 30

// CancerEngine assigns breast and ovarian cancer onset ages by drawing once
// per year of life against the incidence table for the individual's carrier
// state. Every call makes fresh draws, so each individual should be processed
// exactly once per simulation.
type CancerEngine struct {
	model  *incidence.Model
	rng    random.Source
	logger *logrus.Logger
}

// NewCancerEngine creates a new cancer assignment engine
func NewCancerEngine(model *incidence.Model, rng random.Source, logger *logrus.Logger) *CancerEngine {
	return &CancerEngine{
		model:  model,
		rng:    rng,
		logger: logger,
	}
}

// AssignBreastCancer scans ages 30 through the individual's age and records
// every yearly event in the two breast cancer slots. Males always end with
// both slots cleared.
func (e *CancerEngine) AssignBreastCancer(person *domain.Individual) {
	table := e.model.BreastIncidence(person.MutationStatus)
	for age := FirstCancerScanAge; age <= person.Age; age++ {
		if e.rng.Float64() < incidence.SampleRate(table, age) {
			person.RecordBreastCancer(age)
		}
	}
	if person.Sex == domain.Male {
		person.BreastCancerAge1 = 0
		person.BreastCancerAge2 = 0
	}
}

// AssignOvarianCancer scans ages 30 through the individual's age and records
// the first yearly event. Males always end unaffected.
func (e *CancerEngine) AssignOvarianCancer(person *domain.Individual) {
	table := e.model.OvarianIncidence(person.MutationStatus)
	for age := FirstCancerScanAge; age <= person.Age; age++ {
		if e.rng.Float64() < incidence.SampleRate(table, age) {
			person.RecordOvarianCancer(age)
		}
	}
	if person.Sex == domain.Male {
		person.OvarianCancerAge = 0
	}
}

// AssignFounderCancer applies breast then ovarian cancer assignment to the
// four founders.
func (e *CancerEngine) AssignFounderCancer(ped *domain.Pedigree) {
	for _, founder := range ped.Founders() {
		e.AssignBreastCancer(founder)
		e.AssignOvarianCancer(founder)
	}
}

// AssignRemainingCancer applies breast then ovarian cancer assignment to
// every female outside the founders. Males are skipped and keep zero
// breast and ovarian fields.
func (e *CancerEngine) AssignRemainingCancer(ped *domain.Pedigree) {
	affected := 0
	for _, person := range ped.NonFounders() {
		if person.Sex != domain.Female {
			continue
		}
		e.AssignBreastCancer(person)
		e.AssignOvarianCancer(person)
		if person.IsAffected() {
			affected++
		}
	}

	e.logger.WithFields(logrus.Fields{
		"family_id": ped.FamilyID,
		"affected":  affected,
	}).Debug("Cancer assigned to non-founders")
}
