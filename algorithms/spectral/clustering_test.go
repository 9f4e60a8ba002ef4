package spectral_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/spectral"
)

// twoPairs is two tight, well-separated clusters of two points each.
var twoPairs = [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}

func TestSpectralSeparatesDisconnectedComponents(t *testing.T) {
	// Sigma 1 makes the cross-pair similarity exp(-100) — numerically zero —
	// so the graph splits into two components the embedding must separate.
	s := spectral.NewSpectralWithParams(spectral.Params{K: 2, Sigma: 1, RandomSeed: 42})
	result, err := s.Fit(twoPairs)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NumClusters)
	require.Len(t, result.Labels, 4)
	assert.Equal(t, result.Labels[0], result.Labels[1])
	assert.Equal(t, result.Labels[2], result.Labels[3])
	assert.NotEqual(t, result.Labels[0], result.Labels[2])
}

func TestSpectralEmbeddingShape(t *testing.T) {
	s := spectral.NewSpectralWithParams(spectral.Params{K: 2, Sigma: 1, RandomSeed: 42})
	result, err := s.Fit(twoPairs)
	require.NoError(t, err)

	require.Len(t, result.Embedding, len(twoPairs))
	for _, row := range result.Embedding {
		assert.Len(t, row, 2)
	}
	require.Len(t, result.Eigenvalues, 2)

	// Two connected components give two (near-)zero eigenvalues.
	assert.InDelta(t, 0.0, result.Eigenvalues[0], 1e-9)
	assert.InDelta(t, 0.0, result.Eigenvalues[1], 1e-9)
}

func TestSpectralRowsAreUnitNorm(t *testing.T) {
	s := spectral.NewSpectralWithParams(spectral.Params{K: 2, Sigma: 2, RandomSeed: 7})
	result, err := s.Fit(twoPairs)
	require.NoError(t, err)

	for i, row := range result.Embedding {
		norm := 0.0
		for _, v := range row {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, 1e-9, "row %d", i)
	}
}

func TestSpectralSameSeedSameLabels(t *testing.T) {
	params := spectral.Params{K: 2, Sigma: 1, RandomSeed: 13}
	first, err := spectral.NewSpectralWithParams(params).Fit(twoPairs)
	require.NoError(t, err)
	second, err := spectral.NewSpectralWithParams(params).Fit(twoPairs)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
}

func TestSpectralInvalidInputs(t *testing.T) {
	_, err := spectral.NewSpectralWithParams(spectral.Params{K: 0, Sigma: 1}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = spectral.NewSpectralWithParams(spectral.Params{K: 5, Sigma: 1}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = spectral.NewSpectralWithParams(spectral.Params{K: 2, Sigma: 0}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidParameter))

	_, err = spectral.NewSpectral().Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
