package pedigree

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/identity"
	"github.com/brca-pedigree-sim/internal/random"
)

const testYear = 2026

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func newScriptedBuilder(ints ...int) (*Builder, *random.Scripted) {
	src := random.NewScripted(ints, nil)
	return NewBuilder(identity.NewAllocator(), src, newTestLogger(), WithCurrentYear(testYear)), src
}

func TestInitProband(t *testing.T) {
	b, _ := newScriptedBuilder(2, 40)

	proband := b.InitProband()

	assert.Equal(t, 1, proband.FamilyID)
	assert.Equal(t, 1, proband.ID)
	assert.Equal(t, domain.Female, proband.Sex)
	assert.Equal(t, 40, proband.Age)
	assert.Equal(t, testYear-40, proband.BirthYear)
	assert.True(t, proband.IsProband)
	assert.True(t, proband.IsFounder())
}

func TestInitProband_AgeRange(t *testing.T) {
	b := NewBuilder(identity.NewAllocator(), random.NewSeeded(7, 0), newTestLogger())

	for i := 0; i < 500; i++ {
		p := b.InitProband()
		assert.GreaterOrEqual(t, p.Age, ProbandMinAge)
		assert.LessOrEqual(t, p.Age, ProbandMaxAge)
	}
	assert.Equal(t, 500, b.alloc.Families(), "every proband starts a new family")
}

func TestAddParents(t *testing.T) {
	b, _ := newScriptedBuilder(2, 40, 70, 95)
	proband := b.InitProband()

	father, mother, err := b.AddParents(proband)

	require.NoError(t, err)
	assert.Equal(t, domain.Male, father.Sex)
	assert.Equal(t, domain.Female, mother.Sex)
	assert.Equal(t, 2, mother.ID, "mother id is allocated first")
	assert.Equal(t, 3, father.ID)
	assert.Equal(t, 70, mother.Age)
	assert.False(t, mother.IsDead)
	assert.Equal(t, domain.DeathAge, father.Age, "ages above 90 are capped")
	assert.True(t, father.IsDead)
	assert.Equal(t, testYear-95, father.BirthYear)
	assert.True(t, father.IsFounder())
	assert.True(t, mother.IsFounder())
	assert.Equal(t, proband.FamilyID, father.FamilyID)

	assert.Equal(t, father.ID, proband.FatherID)
	assert.Equal(t, mother.ID, proband.MotherID)
}

func TestAddParents_AlreadyHasParents(t *testing.T) {
	b, _ := newScriptedBuilder()
	proband := b.InitProband()
	_, _, err := b.AddParents(proband)
	require.NoError(t, err)

	_, _, err = b.AddParents(proband)

	require.ErrorIs(t, err, domain.ErrInvalidState)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, proband.ID, stateErr.IndividualID)
}

func TestAddParents_AgeGap(t *testing.T) {
	b := NewBuilder(identity.NewAllocator(), random.NewSeeded(11, 0), newTestLogger())

	for i := 0; i < 300; i++ {
		child := b.InitProband()
		father, mother, err := b.AddParents(child)
		require.NoError(t, err)
		for _, parent := range []*domain.Individual{father, mother} {
			if parent.IsDead {
				assert.Equal(t, domain.DeathAge, parent.Age)
				continue
			}
			assert.GreaterOrEqual(t, parent.Age, child.Age+ParentMinGap)
			assert.LessOrEqual(t, parent.Age, child.Age+ParentMaxGap)
		}
	}
}

func TestAddPartner(t *testing.T) {
	b, _ := newScriptedBuilder(1, 50, 60)
	person := b.InitProband()

	partner := b.AddPartner(person)

	assert.Equal(t, domain.Female, partner.Sex)
	assert.Equal(t, 60, partner.Age)
	assert.Equal(t, person.FamilyID, partner.FamilyID)
	assert.True(t, partner.IsFounder())
	assert.False(t, partner.IsProband)
}

func TestAddPartner_OverNinety(t *testing.T) {
	b, _ := newScriptedBuilder(2, 65)
	person := b.InitProband()
	person.Age = 85

	partner := b.AddPartner(person)
	// scripted draws are exhausted, IntRange returns the low bound 70
	assert.Equal(t, 70, partner.Age)

	src := random.NewScripted([]int{100}, nil)
	b2 := NewBuilder(identity.NewAllocator(), src, newTestLogger(), WithCurrentYear(testYear))
	old := b2.AddPartner(person)
	assert.Equal(t, domain.DeathAge, old.Age)
	assert.True(t, old.IsDead)
}

func TestAddOffspring(t *testing.T) {
	b, _ := newScriptedBuilder(3, 1, 30, 2, 41, 1, 25)
	mother := domain.NewIndividual(1, 100, domain.Female, 60, testYear)
	father := domain.NewIndividual(1, 101, domain.Male, 62, testYear)

	children := b.AddOffspring(father, mother)

	require.Len(t, children, 3)
	for _, child := range children {
		assert.Equal(t, father.ID, child.FatherID)
		assert.Equal(t, mother.ID, child.MotherID)
		assert.GreaterOrEqual(t, child.Age, mother.Age-ParentMaxGap)
		assert.LessOrEqual(t, child.Age, mother.Age-ParentMinGap)
	}
	assert.Equal(t, domain.Male, children[0].Sex)
	assert.Equal(t, 30, children[0].Age)
	assert.Equal(t, domain.Female, children[1].Sex)
	assert.Equal(t, 40, children[1].Age)
}

func TestAddOffspring_YoungMotherFloorsAge(t *testing.T) {
	b, _ := newScriptedBuilder(1, 2, -10)
	mother := domain.NewIndividual(1, 100, domain.Female, 25, testYear)
	father := domain.NewIndividual(1, 101, domain.Male, 27, testYear)

	children := b.AddOffspring(mother, father)

	require.Len(t, children, 1)
	assert.Equal(t, MinChildAge, children[0].Age)
	assert.Equal(t, mother.ID, children[0].MotherID, "mother is chosen by sex, not argument order")
}

func TestAddOffspring_None(t *testing.T) {
	b, _ := newScriptedBuilder(0)
	mother := domain.NewIndividual(1, 100, domain.Female, 60, testYear)
	father := domain.NewIndividual(1, 101, domain.Male, 62, testYear)

	assert.Empty(t, b.AddOffspring(mother, father))
}

func TestAddSiblings(t *testing.T) {
	b, _ := newScriptedBuilder(2, 40, 70, 72, 2, 1, 30, 2, 50)
	proband := b.InitProband()
	_, _, err := b.AddParents(proband)
	require.NoError(t, err)

	sibs, err := b.AddSiblings(proband)

	require.NoError(t, err)
	require.Len(t, sibs, 2)
	assert.Equal(t, domain.Male, sibs[0].Sex)
	assert.Equal(t, 30, sibs[0].Age)
	assert.Equal(t, domain.Female, sibs[1].Sex)
	assert.Equal(t, 50, sibs[1].Age)
	for _, sib := range sibs {
		assert.Equal(t, proband.FatherID, sib.FatherID)
		assert.Equal(t, proband.MotherID, sib.MotherID)
		assert.False(t, sib.IsProband)
	}
}

func TestAddSiblings_WithoutParents(t *testing.T) {
	b, _ := newScriptedBuilder()
	proband := b.InitProband()

	sibs, err := b.AddSiblings(proband)

	assert.Nil(t, sibs)
	require.ErrorIs(t, err, domain.ErrPrecondition)
	var preErr *domain.PreconditionError
	assert.ErrorAs(t, err, &preErr)
}

func TestBuildThreeGeneration_Order(t *testing.T) {
	b, _ := newScriptedBuilder(1, 30, 55, 58, 0, 80, 85, 78, 95, 0, 0)

	ped, err := b.BuildThreeGeneration()

	require.NoError(t, err)
	require.Equal(t, domain.MinPedigreeSize, ped.Len())
	var ids []int
	for _, m := range ped.Members {
		ids = append(ids, m.ID)
	}
	// proband 1, mother 2, father 3, paternal grandmother 4, paternal
	// grandfather 5, maternal grandmother 6, maternal grandfather 7
	assert.Equal(t, []int{5, 4, 7, 6, 3, 2, 1}, ids)
	assert.Equal(t, 5, ped.Father().FatherID)
	assert.Equal(t, 4, ped.Father().MotherID)
	assert.Equal(t, 7, ped.Mother().FatherID)
	assert.Equal(t, 6, ped.Mother().MotherID)
	assert.True(t, ped.At(domain.MaternalGrandfatherIndex).IsDead)
	assert.True(t, ped.Proband().IsProband)
	require.NoError(t, ped.Validate())
}

func TestBuildThreeGeneration_SiblingGroups(t *testing.T) {
	// proband sibs 1, father sibs 2, mother sibs 1
	b, _ := newScriptedBuilder(
		2, 30, 55, 58, // proband, parents
		1, 1, 28, // one proband sibling
		80, 85, 78, 82, // grandparents
		2, 2, 60, 1, 50, // two father siblings
		1, 2, 54, // one mother sibling
	)

	ped, err := b.BuildThreeGeneration()

	require.NoError(t, err)
	require.Equal(t, 11, ped.Len())
	father, mother := ped.Father(), ped.Mother()
	assert.Equal(t, father.FatherID, ped.Members[6].FatherID)
	assert.Equal(t, father.FatherID, ped.Members[7].FatherID)
	assert.Equal(t, mother.FatherID, ped.Members[8].FatherID)
	assert.Equal(t, father.ID, ped.Members[9].FatherID)
	require.NoError(t, ped.Validate())
}

func TestBuildThreeGeneration_Properties(t *testing.T) {
	alloc := identity.NewAllocator()
	b := NewBuilder(alloc, random.NewSeeded(2024, 0), newTestLogger())
	seen := make(map[int]bool)

	for trial := 0; trial < 500; trial++ {
		ped, err := b.BuildThreeGeneration()
		require.NoError(t, err)

		assert.GreaterOrEqual(t, ped.Len(), domain.MinPedigreeSize)
		assert.LessOrEqual(t, ped.Len(), domain.MaxPedigreeSize)
		require.NoError(t, ped.Validate())

		for _, f := range ped.Founders() {
			assert.True(t, f.IsFounder())
		}
		assert.Equal(t, domain.Male, ped.At(domain.PaternalGrandfatherIndex).Sex)
		assert.Equal(t, domain.Female, ped.At(domain.PaternalGrandmotherIndex).Sex)
		assert.Equal(t, domain.Male, ped.Father().Sex)
		assert.Equal(t, domain.Female, ped.Mother().Sex)

		for _, m := range ped.Members {
			assert.False(t, seen[m.ID], "individual id %d reused", m.ID)
			seen[m.ID] = true
			assert.LessOrEqual(t, m.Age, domain.DeathAge)
		}
	}
	assert.Equal(t, 500, alloc.Families())
}
