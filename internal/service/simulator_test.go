package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/identity"
	"github.com/brca-pedigree-sim/internal/random"
)

func newTestSimulator(t *testing.T, cfg SimulatorConfig) *Simulator {
	t.Helper()
	if cfg.CurrentYear == 0 {
		cfg.CurrentYear = 2026
	}
	sim, err := NewSimulator(cfg, nil, newTestLogger())
	require.NoError(t, err)
	return sim
}

func TestSimulator_Run(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 42, Workers: 2, Summarize: true})

	result, err := sim.Run(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, result.Pedigrees, 50)
	require.Len(t, result.Summaries, 50)
	assert.Equal(t, int64(42), result.Seed)
	assert.Equal(t, 50, result.Stats.Kept)
	assert.Equal(t, 50, result.Stats.Attempts)
	assert.Zero(t, result.Stats.DroppedTrials)

	seen := make(map[int]bool)
	individuals := 0
	for i, ped := range result.Pedigrees {
		require.NoError(t, ped.Validate())
		assert.Equal(t, i+1, ped.FamilyID, "family ids follow trial order")
		assert.Equal(t, ped.FamilyID, result.Summaries[i].FamilyID)
		assert.Equal(t, ped.Proband().ID, result.Summaries[i].ProbandID)

		for _, m := range ped.Members {
			assert.False(t, seen[m.ID], "individual id %d reused", m.ID)
			seen[m.ID] = true
			if m.Sex == domain.Male {
				assert.False(t, m.IsAffected())
			}
		}
		individuals += ped.Len()
	}
	assert.Equal(t, individuals, result.Stats.Individuals)
	assert.Equal(t, individuals, sim.Allocator().Individuals())
	assert.Equal(t, 50, sim.Allocator().Families())
}

func TestSimulator_DeterministicAcrossWorkers(t *testing.T) {
	single := newTestSimulator(t, SimulatorConfig{Seed: 7, Workers: 1, Summarize: true})
	parallel := newTestSimulator(t, SimulatorConfig{Seed: 7, Workers: 8, Summarize: true})

	a, err := single.Run(context.Background(), 40)
	require.NoError(t, err)
	b, err := parallel.Run(context.Background(), 40)
	require.NoError(t, err)

	assert.Equal(t, a.Pedigrees, b.Pedigrees)
	assert.Equal(t, a.Summaries, b.Summaries)
}

func TestSimulator_IdsContinueAcrossRuns(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 1, Workers: 1})

	first, err := sim.Run(context.Background(), 3)
	require.NoError(t, err)
	second, err := sim.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Empty(t, first.Summaries)
	assert.Equal(t, 4, second.Pedigrees[0].FamilyID)
	// the proband takes the first id of each reserved block
	assert.Equal(t, first.Stats.Individuals+1, second.Pedigrees[0].Proband().ID)
}

func TestSimulator_RunCarriers(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 2024, Workers: 4, MaxAttempts: 1000000, Summarize: true})

	result, err := sim.RunCarriers(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, result.Pedigrees, 3)
	assert.Equal(t, 3, result.Stats.MutatedFamilies)
	assert.GreaterOrEqual(t, result.Stats.Attempts, 3)
	for _, ped := range result.Pedigrees {
		assert.NotEmpty(t, ped.MutatedFounders())
		assert.NotEmpty(t, ped.Carriers())
	}
}

func TestSimulator_RunCarriersExhausted(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 5, Workers: 1, MaxAttempts: 2})

	result, err := sim.RunCarriers(context.Background(), 1000)

	require.ErrorIs(t, err, ErrAttemptsExhausted)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Stats.Attempts)
	assert.Less(t, result.Stats.Kept, 1000)
}

func TestSimulator_Cancelled(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 5, Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, 10)

	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_NegativeTrials(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 5})

	_, err := sim.Run(context.Background(), -1)

	require.Error(t, err)
}

func TestSimulator_ZeroSeedIsReplaced(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{})

	assert.NotZero(t, sim.Seed())
}

func TestSimulator_RunTrialScratchIds(t *testing.T) {
	sim := newTestSimulator(t, SimulatorConfig{Seed: 9})
	alloc := identity.NewAllocator()

	trial, err := sim.RunTrial(random.NewSeeded(9, 0), alloc)

	require.NoError(t, err)
	assert.Equal(t, 1, trial.Pedigree.FamilyID)
	assert.Equal(t, trial.Pedigree.Len(), alloc.Individuals(), "every allocated id belongs to a member")
	assert.Equal(t, len(trial.Pedigree.MutatedFounders()), trial.MutatedFounders)
}
