package service

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// tenMemberFamily returns family 10 with grandparents 1-4, father 5, mother 6,
// a paternal aunt 7, a maternal uncle 8, a sister 9 and the proband 10.
func tenMemberFamily() *domain.Pedigree {
	member := func(id, father, mother int, sex domain.Sex, age int) *domain.Individual {
		ind := domain.NewIndividual(10, id, sex, age, 2026)
		ind.FatherID = father
		ind.MotherID = mother
		return ind
	}
	proband := member(10, 5, 6, domain.Female, 30)
	proband.IsProband = true
	return &domain.Pedigree{
		FamilyID: 10,
		Members: []*domain.Individual{
			member(1, 0, 0, domain.Male, 80),
			member(2, 0, 0, domain.Female, 78),
			member(3, 0, 0, domain.Male, 82),
			member(4, 0, 0, domain.Female, 79),
			member(5, 1, 2, domain.Male, 55),
			member(6, 3, 4, domain.Female, 52),
			member(7, 1, 2, domain.Female, 50),
			member(8, 3, 4, domain.Male, 49),
			member(9, 5, 6, domain.Female, 28),
			proband,
		},
	}
}
