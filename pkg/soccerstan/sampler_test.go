package soccerstan

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplerTestData(t *testing.T) *Data {
	t.Helper()
	data, err := NewData(4,
		[]int{1, 2, 3, 4, 1, 2, 3, 4, 1, 3},
		[]int{2, 3, 4, 1, 3, 4, 1, 2, 4, 2},
		[]int{2, 1, 0, 3, 1, 2, 0, 1, 2, 1},
		[]int{0, 1, 2, 1, 1, 0, 3, 1, 0, 2})
	require.NoError(t, err)
	return data
}

func TestSample_DrawShapeAndFiniteness(t *testing.T) {
	data := samplerTestData(t)
	opts := SamplerOptions{
		Chains:     2,
		Iterations: 200,
		BurnIn:     50,
		Thin:       1,
		StepSize:   0.1,
		Seed:       42,
	}

	result, err := Sample(context.Background(), data, opts)
	require.NoError(t, err)
	require.Len(t, result.Chains, 2)

	draws := result.Draws()
	assert.Len(t, draws, 2*150)
	for _, draw := range draws {
		require.Len(t, draw, ParamDim(data.NTeams))
		for _, v := range draw {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}

	rate := result.AcceptanceRate()
	assert.Greater(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)
	for _, c := range result.Chains {
		assert.Equal(t, opts.Iterations, c.Proposed)
	}
}

func TestSample_SeedDeterminism(t *testing.T) {
	data := samplerTestData(t)
	opts := SamplerOptions{
		Chains:     2,
		Iterations: 100,
		BurnIn:     20,
		Thin:       2,
		StepSize:   0.1,
		Seed:       7,
	}

	first, err := Sample(context.Background(), data, opts)
	require.NoError(t, err)
	second, err := Sample(context.Background(), data, opts)
	require.NoError(t, err)

	for c := range first.Chains {
		assert.Equal(t, first.Chains[c].Draws, second.Chains[c].Draws)
		assert.Equal(t, first.Chains[c].Accepted, second.Chains[c].Accepted)
	}
}

func TestSample_ThinningKeepsEveryNth(t *testing.T) {
	data := samplerTestData(t)
	opts := SamplerOptions{
		Chains:     1,
		Iterations: 101,
		BurnIn:     1,
		Thin:       10,
		StepSize:   0.1,
		Seed:       3,
	}

	result, err := Sample(context.Background(), data, opts)
	require.NoError(t, err)
	assert.Len(t, result.Chains[0].Draws, 10)
}

func TestSample_DefaultsApplied(t *testing.T) {
	data := twoTeamData(t)

	result, err := Sample(context.Background(), data, SamplerOptions{})
	require.NoError(t, err)

	defaults := DefaultSamplerOptions()
	assert.Equal(t, defaults.Chains, result.Options.Chains)
	assert.Len(t, result.Chains, defaults.Chains)
}

func TestSample_CancelledContext(t *testing.T) {
	data := samplerTestData(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sample(ctx, data, DefaultSamplerOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSample_InvalidOptions(t *testing.T) {
	data := samplerTestData(t)

	cases := []struct {
		name string
		opts SamplerOptions
	}{
		{"zero chains", SamplerOptions{Chains: 0, Iterations: 100, BurnIn: 10, Thin: 1, StepSize: 0.1, Seed: 1}},
		{"burn-in past iterations", SamplerOptions{Chains: 1, Iterations: 100, BurnIn: 100, Thin: 1, StepSize: 0.1, Seed: 1}},
		{"zero thin", SamplerOptions{Chains: 1, Iterations: 100, BurnIn: 10, Thin: 0, StepSize: 0.1, Seed: 1}},
		{"negative step", SamplerOptions{Chains: 1, Iterations: 100, BurnIn: 10, Thin: 1, StepSize: -1, Seed: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Sample(context.Background(), data, tc.opts)
			require.Error(t, err)

			var verrs ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestSample_InvalidData(t *testing.T) {
	bad := &Data{
		NTeams:    2,
		NGames:    1,
		HomeTeam:  []int{3},
		AwayTeam:  []int{1},
		HomeGoals: []int{0},
		AwayGoals: []int{0},
	}
	_, err := Sample(context.Background(), bad, DefaultSamplerOptions())
	require.Error(t, err)
}

func TestAcceptProposal_RejectsNonFinite(t *testing.T) {
	data := twoTeamData(t)
	opts := SamplerOptions{
		Chains:     1,
		Iterations: 50,
		BurnIn:     0,
		Thin:       1,
		StepSize:   1e5, // proposals routinely overflow the rates
		Seed:       9,
	}

	result, err := Sample(context.Background(), data, opts)
	require.NoError(t, err)

	// The chain can only ever hold finite states
	for _, draw := range result.Chains[0].Draws {
		logDensity, _, err := EvaluateVector(data, draw)
		require.NoError(t, err)
		require.False(t, math.IsNaN(logDensity))
		require.False(t, math.IsInf(logDensity, -1))
	}
}
