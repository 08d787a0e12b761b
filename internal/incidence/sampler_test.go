package incidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brca-pedigree-sim/internal/domain"
)

func TestBand(t *testing.T) {
	tests := []struct {
		age  int
		band int
	}{
		{0, 30}, {29, 30}, {30, 30}, {39, 30},
		{40, 40}, {49, 40},
		{50, 50}, {59, 50},
		{60, 60}, {69, 60},
		{70, 70}, {91, 70}, {120, 70},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.band, Band(tt.age), "age %d", tt.age)
	}
}

func TestSampleByAgeBand_Boundaries(t *testing.T) {
	table := DefaultModel().BreastBRCA2

	assert.InDelta(t, table[30]/100, SampleByAgeBand(table, 39, PerHundredPersonYears), 1e-12)
	assert.InDelta(t, table[40]/100, SampleByAgeBand(table, 40, PerHundredPersonYears), 1e-12)
	assert.InDelta(t, table[70]/100, SampleByAgeBand(table, 120, PerHundredPersonYears), 1e-12)
	assert.InDelta(t, table[30]/100, SampleByAgeBand(table, 12, PerHundredPersonYears), 1e-12)
}

func TestSampleRateAndProbability(t *testing.T) {
	m := DefaultModel()

	assert.InDelta(t, 0.01021, SampleRate(m.BreastBRCA1, 45), 1e-12)
	assert.InDelta(t, 0.016, SampleProbability(m.BreastMutationBRCA1, 45), 1e-12)
	assert.InDelta(t, 0.001, SampleProbability(m.OvarianMutationBRCA2, 75), 1e-12)
}

func TestModelTableSelection(t *testing.T) {
	m := DefaultModel()

	tests := []struct {
		status  domain.MutationStatus
		breast  AgeBandTable
		ovarian AgeBandTable
	}{
		{domain.MutationUntested, m.BreastPopulation, m.OvarianPopulation},
		{domain.MutationNegative, m.BreastPopulation, m.OvarianPopulation},
		{domain.MutationBRCA1, m.BreastBRCA1, m.OvarianBRCA1},
		{domain.MutationBRCA2, m.BreastBRCA2, m.OvarianBRCA2},
		{domain.MutationBoth, m.BreastBRCA1, m.OvarianBRCA1},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.breast, m.BreastIncidence(tt.status))
			assert.Equal(t, tt.ovarian, m.OvarianIncidence(tt.status))
		})
	}
}

func TestModelValidate(t *testing.T) {
	require.NoError(t, DefaultModel().Validate())

	m := DefaultModel()
	delete(m.OvarianBRCA2, 50)
	assert.Error(t, m.Validate())

	m = DefaultModel()
	m.BreastMutationBRCA1[30] = 1.5
	err := m.Validate()
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)

	extra := AgeBandTable{20: 0.1, 30: 0.1, 40: 0.1, 50: 0.1, 60: 0.1, 70: 0.1}
	assert.Error(t, extra.Validate(Unscaled))
}
