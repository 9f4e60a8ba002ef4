package partition_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/partition"
)

// twoPairs is two tight, well-separated clusters of two points each.
var twoPairs = [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}

func TestKMeansTwoSeparatedPairs(t *testing.T) {
	km := partition.NewKMeansWithParams(partition.Params{K: 2, RandomSeed: 1})
	result, err := km.Fit(twoPairs)
	require.NoError(t, err)

	assert.Len(t, result.Labels, 4)
	assert.True(t, result.Converged)

	// The pairs must land in distinct clusters of size two.
	assert.Equal(t, result.Labels[0], result.Labels[1])
	assert.Equal(t, result.Labels[2], result.Labels[3])
	assert.NotEqual(t, result.Labels[0], result.Labels[2])

	// Centroids are the pair means, in either order.
	lowFirst := result.Centroids[result.Labels[0]]
	highFirst := result.Centroids[result.Labels[2]]
	assert.InDelta(t, 0.0, lowFirst[0], 1e-9)
	assert.InDelta(t, 0.5, lowFirst[1], 1e-9)
	assert.InDelta(t, 10.0, highFirst[0], 1e-9)
	assert.InDelta(t, 10.5, highFirst[1], 1e-9)

	assert.InDelta(t, 1.0, result.Inertia, 1e-9)
}

func TestKMeansOneClusterPerPoint(t *testing.T) {
	km := partition.NewKMeansWithParams(partition.Params{K: 4, RandomSeed: 7})
	result, err := km.Fit(twoPairs)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.Inertia, 1e-12)

	seen := make(map[int]bool)
	for _, label := range result.Labels {
		seen[label] = true
	}
	assert.Len(t, seen, 4)
}

func TestKMeansInertiaMonotonicAcrossIterations(t *testing.T) {
	// With a fixed seed, a run capped at m iterations is the prefix of a
	// longer run, so reported inertia must never increase as the cap grows.
	data := [][]float64{
		{0, 0}, {1, 0}, {2, 0},
		{9, 0}, {10, 0}, {11, 0},
		{5, 5}, {6, 5},
	}

	prev := math.Inf(1)
	for maxIter := 1; maxIter <= 6; maxIter++ {
		km := partition.NewKMeansWithParams(partition.Params{
			K:             3,
			MaxIterations: maxIter,
			RandomSeed:    42,
		})
		result, err := km.Fit(data)
		require.NoError(t, err)

		assert.LessOrEqual(t, result.Inertia, prev+1e-12, "maxIterations=%d", maxIter)
		prev = result.Inertia
	}
}

func TestKMeansSameSeedSameLabels(t *testing.T) {
	params := partition.Params{K: 2, RandomSeed: 99}
	first, err := partition.NewKMeansWithParams(params).Fit(twoPairs)
	require.NoError(t, err)
	second, err := partition.NewKMeansWithParams(params).Fit(twoPairs)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Centroids, second.Centroids)
	assert.Equal(t, first.Inertia, second.Inertia)
}

func TestKMeansSingleCluster(t *testing.T) {
	km := partition.NewKMeansWithParams(partition.Params{K: 1, RandomSeed: 1})
	result, err := km.Fit(twoPairs)
	require.NoError(t, err)

	for _, label := range result.Labels {
		assert.Equal(t, 0, label)
	}
	// The lone centroid is the grand mean.
	assert.InDelta(t, 5.0, result.Centroids[0][0], 1e-9)
	assert.InDelta(t, 5.5, result.Centroids[0][1], 1e-9)
}

func TestKMeansRandomInit(t *testing.T) {
	km := partition.NewKMeansWithParams(partition.Params{
		K:          2,
		InitMethod: partition.InitRandom,
		RandomSeed: 3,
	})
	result, err := km.Fit(twoPairs)
	require.NoError(t, err)
	assert.Len(t, result.Labels, 4)
}

func TestKMeansInvalidInputs(t *testing.T) {
	_, err := partition.NewKMeansWithParams(partition.Params{K: 0}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = partition.NewKMeansWithParams(partition.Params{K: 5}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = partition.NewKMeans().Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
