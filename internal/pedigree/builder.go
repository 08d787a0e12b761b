// Package pedigree builds the fixed three-generation family template used by
// the simulation: four grandparents, both parents, up to four siblings for
// each parent, up to four siblings for the proband and the proband.
package pedigree

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/identity"
	"github.com/brca-pedigree-sim/internal/random"
)

// Age and family size draws.
const (
	ProbandMinAge = 20
	ProbandMaxAge = 65

	ParentMinGap = 20
	ParentMaxGap = 40

	PeerAgeSpread = 15 // partners and siblings

	MaxOffspring = 4
	MaxSiblings  = 4
	MinChildAge  = 1
)

// Builder creates pedigree members. It is not safe for concurrent use: it
// shares its allocator and random source with the caller.
type Builder struct {
	alloc  *identity.Allocator
	rng    random.Source
	year   int
	logger *logrus.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithCurrentYear fixes the year used to derive birth years.
func WithCurrentYear(year int) Option {
	return func(b *Builder) {
		b.year = year
	}
}

// NewBuilder creates a builder drawing ids from alloc and randomness from rng.
func NewBuilder(alloc *identity.Allocator, rng random.Source, logger *logrus.Logger, opts ...Option) *Builder {
	b := &Builder{
		alloc:  alloc,
		rng:    rng,
		year:   time.Now().Year(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CurrentYear returns the reference year for birth years.
func (b *Builder) CurrentYear() int {
	return b.year
}

func (b *Builder) randomSex() domain.Sex {
	if b.rng.IntRange(1, 2) == 1 {
		return domain.Male
	}
	return domain.Female
}

// InitProband starts a new family and returns its proband, aged 20 to 65,
// with no parents yet.
func (b *Builder) InitProband() *domain.Individual {
	familyID := b.alloc.NextFamily()
	id := b.alloc.NextIndividual()
	sex := b.randomSex()
	age := b.rng.IntRange(ProbandMinAge, ProbandMaxAge)

	proband := domain.NewIndividual(familyID, id, sex, age, b.year)
	proband.IsProband = true
	return proband
}

// AddParents creates a father and a mother for person, each 20 to 40 years
// older than the child, and links them to person. It fails with an
// InvalidStateError if person already has parents.
func (b *Builder) AddParents(person *domain.Individual) (father, mother *domain.Individual, err error) {
	if !person.IsFounder() {
		return nil, nil, domain.NewInvalidStateError(person.ID, "individual already has parents")
	}

	motherID := b.alloc.NextIndividual()
	fatherID := b.alloc.NextIndividual()
	motherAge := b.rng.IntRange(person.Age+ParentMinGap, person.Age+ParentMaxGap)
	fatherAge := b.rng.IntRange(person.Age+ParentMinGap, person.Age+ParentMaxGap)

	mother = domain.NewIndividual(person.FamilyID, motherID, domain.Female, motherAge, b.year)
	father = domain.NewIndividual(person.FamilyID, fatherID, domain.Male, fatherAge, b.year)

	person.FatherID = father.ID
	person.MotherID = mother.ID
	return father, mother, nil
}

// AddPartner creates an unrelated partner of the opposite sex within 15 years
// of person's age.
func (b *Builder) AddPartner(person *domain.Individual) *domain.Individual {
	id := b.alloc.NextIndividual()
	age := b.rng.IntRange(person.Age-PeerAgeSpread, person.Age+PeerAgeSpread)
	return domain.NewIndividual(person.FamilyID, id, person.Sex.Opposite(), age, b.year)
}

// AddOffspring creates zero to four children of two partners. Children are
// 20 to 40 years younger than the mother and at least one year old.
func (b *Builder) AddOffspring(parent1, parent2 *domain.Individual) []*domain.Individual {
	mother, father := parent1, parent2
	if parent1.Sex != domain.Female {
		mother, father = parent2, parent1
	}

	count := b.rng.IntRange(0, MaxOffspring)
	children := make([]*domain.Individual, 0, count)
	for i := 0; i < count; i++ {
		id := b.alloc.NextIndividual()
		sex := b.randomSex()
		age := b.rng.IntRange(mother.Age-ParentMaxGap, mother.Age-ParentMinGap)
		if age < MinChildAge {
			age = MinChildAge
		}
		child := domain.NewIndividual(parent1.FamilyID, id, sex, age, b.year)
		child.FatherID = father.ID
		child.MotherID = mother.ID
		children = append(children, child)
	}
	return children
}

// AddSiblings creates zero to four full siblings of person within 15 years of
// its age. It fails with a PreconditionError if person has no parents yet.
func (b *Builder) AddSiblings(person *domain.Individual) ([]*domain.Individual, error) {
	if person.IsFounder() {
		return nil, domain.NewPreconditionError(person.ID, "parents must be added before siblings")
	}

	count := b.rng.IntRange(0, MaxSiblings)
	siblings := make([]*domain.Individual, 0, count)
	for i := 0; i < count; i++ {
		id := b.alloc.NextIndividual()
		sex := b.randomSex()
		age := b.rng.IntRange(person.Age-PeerAgeSpread, person.Age+PeerAgeSpread)
		sib := domain.NewIndividual(person.FamilyID, id, sex, age, b.year)
		sib.FatherID = person.FatherID
		sib.MotherID = person.MotherID
		siblings = append(siblings, sib)
	}
	return siblings, nil
}

// BuildThreeGeneration assembles a complete pedigree ordered as paternal
// grandfather, paternal grandmother, maternal grandfather, maternal
// grandmother, father, mother, father's siblings, mother's siblings,
// proband's siblings and proband.
func (b *Builder) BuildThreeGeneration() (*domain.Pedigree, error) {
	proband := b.InitProband()

	father, mother, err := b.AddParents(proband)
	if err != nil {
		return nil, fmt.Errorf("adding proband parents: %w", err)
	}
	probandSibs, err := b.AddSiblings(proband)
	if err != nil {
		return nil, fmt.Errorf("adding proband siblings: %w", err)
	}
	patGrandfather, patGrandmother, err := b.AddParents(father)
	if err != nil {
		return nil, fmt.Errorf("adding paternal grandparents: %w", err)
	}
	matGrandfather, matGrandmother, err := b.AddParents(mother)
	if err != nil {
		return nil, fmt.Errorf("adding maternal grandparents: %w", err)
	}
	fatherSibs, err := b.AddSiblings(father)
	if err != nil {
		return nil, fmt.Errorf("adding father's siblings: %w", err)
	}
	motherSibs, err := b.AddSiblings(mother)
	if err != nil {
		return nil, fmt.Errorf("adding mother's siblings: %w", err)
	}

	members := make([]*domain.Individual, 0, domain.FixedRoleCount+len(fatherSibs)+len(motherSibs)+len(probandSibs)+1)
	members = append(members, patGrandfather, patGrandmother, matGrandfather, matGrandmother, father, mother)
	members = append(members, fatherSibs...)
	members = append(members, motherSibs...)
	members = append(members, probandSibs...)
	members = append(members, proband)

	ped := &domain.Pedigree{FamilyID: proband.FamilyID, Members: members}

	b.logger.WithFields(logrus.Fields{
		"family_id":    ped.FamilyID,
		"proband_id":   proband.ID,
		"members":      ped.Len(),
		"father_sibs":  len(fatherSibs),
		"mother_sibs":  len(motherSibs),
		"proband_sibs": len(probandSibs),
	}).Debug("Pedigree built")

	return ped, nil
}
