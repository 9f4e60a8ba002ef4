package mixture_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/mixture"
)

// blobs is two tight, well-separated groups of three points each.
var blobs = [][]float64{
	{0, 0}, {0.5, 0}, {0, 0.5},
	{20, 20}, {20.5, 20}, {20, 20.5},
}

func TestGMMStructuralInvariants(t *testing.T) {
	gmm := mixture.NewGMMWithParams(mixture.Params{K: 2, RandomSeed: 5})
	result, err := gmm.Fit(blobs)
	require.NoError(t, err)

	require.Len(t, result.Labels, len(blobs))
	for _, label := range result.Labels {
		assert.GreaterOrEqual(t, label, 0)
		assert.Less(t, label, 2)
	}

	require.Len(t, result.Weights, 2)
	weightSum := result.Weights[0] + result.Weights[1]
	assert.InDelta(t, 1.0, weightSum, 1e-9)

	require.Len(t, result.Responsibilities, len(blobs))
	for i, row := range result.Responsibilities {
		rowSum := 0.0
		for _, r := range row {
			assert.GreaterOrEqual(t, r, 0.0)
			rowSum += r
		}
		assert.InDelta(t, 1.0, rowSum, 1e-9, "responsibility row %d", i)
	}

	require.Len(t, result.Means, 2)
	require.Len(t, result.VarianceDiagonals, 2)
	assert.LessOrEqual(t, result.Iterations, 100)
}

func TestGMMHardLabelsFollowResponsibilities(t *testing.T) {
	gmm := mixture.NewGMMWithParams(mixture.Params{K: 2, RandomSeed: 5})
	result, err := gmm.Fit(blobs)
	require.NoError(t, err)

	// Labels are the arg-max component of the soft assignment.
	for i, row := range result.Responsibilities {
		best := 0
		if row[1] > row[0] {
			best = 1
		}
		assert.Equal(t, best, result.Labels[i], "point %d", i)
	}
}

func TestGMMSameSeedSameFit(t *testing.T) {
	params := mixture.Params{K: 2, RandomSeed: 11}
	first, err := mixture.NewGMMWithParams(params).Fit(blobs)
	require.NoError(t, err)
	second, err := mixture.NewGMMWithParams(params).Fit(blobs)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Means, second.Means)
	assert.Equal(t, first.LogLikelihood, second.LogLikelihood)
}

func TestGMMSingleComponent(t *testing.T) {
	gmm := mixture.NewGMMWithParams(mixture.Params{K: 1, RandomSeed: 1})
	result, err := gmm.Fit(blobs)
	require.NoError(t, err)

	for _, label := range result.Labels {
		assert.Equal(t, 0, label)
	}
	assert.InDelta(t, 1.0, result.Weights[0], 1e-12)

	// With one component the mean converges to the grand mean.
	grand := kernel.ColumnMean(blobs)
	assert.InDelta(t, grand[0], result.Means[0][0], 1e-6)
	assert.InDelta(t, grand[1], result.Means[0][1], 1e-6)
}

func TestGMMInvalidInputs(t *testing.T) {
	_, err := mixture.NewGMMWithParams(mixture.Params{K: 0}).Fit(blobs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = mixture.NewGMMWithParams(mixture.Params{K: 7}).Fit(blobs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = mixture.NewGMM().Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
