package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brca-pedigree-sim/internal/domain"
)

func carrierFamily() *domain.Pedigree {
	const year = 2026
	grandfather := domain.NewIndividual(1, 1, domain.Male, 70, year)
	grandmother := domain.NewIndividual(1, 2, domain.Female, 68, year)
	grandmother.MutationStatus = domain.MutationBRCA1
	grandmother.GeneticTest = domain.TestDirect
	grandmother.BreastCancerAge1 = 44
	mother := domain.NewIndividual(1, 3, domain.Female, 45, year)
	mother.FatherID, mother.MotherID = 1, 2
	mother.MutationStatus = domain.MutationNegative
	mother.GeneticTest = domain.TestMutationSearch
	proband := domain.NewIndividual(1, 4, domain.Female, 20, year)
	proband.FatherID, proband.MotherID = 1, 2
	proband.IsProband = true
	return &domain.Pedigree{FamilyID: 1, Members: []*domain.Individual{grandfather, grandmother, mother, proband}}
}

func TestIndividualRows(t *testing.T) {
	runID := uuid.New()
	rows := individualRows(runID, []*domain.Pedigree{carrierFamily()})

	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Len(t, row, len(individualColumns))
		assert.Equal(t, runID, row[0])
	}
	assert.Equal(t, "F", rows[1][6])
	assert.Equal(t, int16(1), rows[1][15])
	assert.Equal(t, "S", rows[2][14])
	assert.Equal(t, int16(-1), rows[2][15])
	assert.Equal(t, true, rows[3][3])
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows(uuid.New(), []domain.FamilyHistorySummary{{FamilyID: 1, ProbandID: 4, HistoryKnown: 1, FirstDegreeBreastUnder50: 2}})

	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(historyColumns))
	assert.Equal(t, 2, rows[0][4])
}

func TestPedigreeRepository_InsertRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedigreeRepository(db.Pool, newTestLogger())
	ctx := context.Background()
	runID := uuid.New()
	summaries := []domain.FamilyHistorySummary{{FamilyID: 1, ProbandID: 4, HistoryKnown: 1, FirstDegreeBreastUnder50: 1}}

	copied, err := repo.InsertRun(ctx, runID, []*domain.Pedigree{carrierFamily()}, summaries)
	require.NoError(t, err)
	assert.Equal(t, int64(4), copied)

	carriers, err := repo.CountCarriers(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), carriers, "negative results are not carriers")

	got, err := repo.FamilyHistories(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, summaries, got)

	require.NoError(t, repo.DeleteRun(ctx, runID))
	carriers, err = repo.CountCarriers(ctx, runID)
	require.NoError(t, err)
	assert.Zero(t, carriers)

	assert.ErrorIs(t, repo.DeleteRun(ctx, runID), domain.ErrNotFound)
}

func TestPedigreeRepository_DuplicateRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPedigreeRepository(db.Pool, newTestLogger())
	ctx := context.Background()
	runID := uuid.New()

	_, err := repo.InsertRun(ctx, runID, []*domain.Pedigree{carrierFamily()}, nil)
	require.NoError(t, err)
	_, err = repo.InsertRun(ctx, runID, []*domain.Pedigree{carrierFamily()}, nil)
	assert.Error(t, err)

	carriers, err := repo.CountCarriers(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), carriers, "the failed insert rolled back")
}
