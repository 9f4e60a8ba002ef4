package density_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/density"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

func TestOPTICSOrderingCoversAllPoints(t *testing.T) {
	o := density.NewOPTICSWithParams(density.OPTICSParams{MinPts: 1, ExtractThreshold: 2})
	result, err := o.Fit(twoPairs)
	require.NoError(t, err)

	require.Len(t, result.Ordering, len(twoPairs))
	seen := make(map[int]bool)
	for _, idx := range result.Ordering {
		assert.False(t, seen[idx], "point %d visited twice", idx)
		seen[idx] = true
	}
}

func TestOPTICSExtractsSeparatedPairs(t *testing.T) {
	o := density.NewOPTICSWithParams(density.OPTICSParams{MinPts: 1, ExtractThreshold: 2})
	result, err := o.Fit(twoPairs)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NumClusters)
	assert.Zero(t, result.NoiseCount)
	assert.Equal(t, result.Labels[0], result.Labels[1])
	assert.Equal(t, result.Labels[2], result.Labels[3])
	assert.NotEqual(t, result.Labels[0], result.Labels[2])

	// Every point in a tight pair has its nearest other point at distance 1.
	for i := range twoPairs {
		assert.InDelta(t, 1.0, result.CoreDistances[i], 1e-12)
	}
}

func TestOPTICSUnreachablePointsAreNoise(t *testing.T) {
	// MinPts above the neighbor count of every point: nothing is core.
	o := density.NewOPTICSWithParams(density.OPTICSParams{
		MinPts:           4,
		MaxEps:           2,
		ExtractThreshold: 2,
	})
	result, err := o.Fit(twoPairs)
	require.NoError(t, err)

	assert.Zero(t, result.NumClusters)
	assert.Equal(t, len(twoPairs), result.NoiseCount)
	for i := range twoPairs {
		assert.True(t, math.IsInf(result.CoreDistances[i], 1))
	}
}

func TestOPTICSDefaultThresholdApplied(t *testing.T) {
	o := density.NewOPTICSWithParams(density.OPTICSParams{MinPts: 1})
	result, err := o.Fit(twoPairs)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.AppliedExtractThreshold)
}

func TestOPTICSInvalidInputs(t *testing.T) {
	_, err := density.NewOPTICSWithParams(density.OPTICSParams{MinPts: 0}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidParameter))

	_, err = density.NewOPTICS().Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
