package cluster_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/reduction"
	"github.com/HabibKhulafaPanjiLangit/UL/cluster"
)

func TestReduceExplicitPCA(t *testing.T) {
	params := cluster.DefaultReductionParams()
	params.Technique = reduction.TechniquePCA

	result, err := cluster.Reduce(twoPairs, params)
	require.NoError(t, err)

	assert.Equal(t, reduction.TechniquePCA, result.Technique)
	assert.Empty(t, result.Reason)
	require.NotNil(t, result.PCA)
	require.Len(t, result.Embedding, len(twoPairs))
	for _, row := range result.Embedding {
		assert.Len(t, row, 2)
	}
}

func TestReduceZeroValuePCAParams(t *testing.T) {
	// Selecting PCA without filling its sub-struct uses the reducer defaults.
	result, err := cluster.Reduce(twoPairs, cluster.ReductionParams{
		Technique: reduction.TechniquePCA,
	})
	require.NoError(t, err)
	require.Len(t, result.Embedding, len(twoPairs))
	for _, row := range result.Embedding {
		assert.Len(t, row, 2)
	}
}

func TestReduceAutoSelectsOnSmallData(t *testing.T) {
	result, err := cluster.Reduce(twoPairs, cluster.DefaultReductionParams())
	require.NoError(t, err)

	// Four observations fall under the small-sample rule.
	assert.Equal(t, reduction.TechniquePCA, result.Technique)
	assert.NotEmpty(t, result.Reason)
}

func TestReduceEmptyTechniqueMeansAuto(t *testing.T) {
	params := cluster.DefaultReductionParams()
	params.Technique = ""
	result, err := cluster.Reduce(twoPairs, params)
	require.NoError(t, err)
	assert.Equal(t, reduction.TechniquePCA, result.Technique)
}

func TestReduceExplicitTSNE(t *testing.T) {
	params := cluster.DefaultReductionParams()
	params.Technique = reduction.TechniqueTSNE
	params.TSNE.MaxIterations = 50

	result, err := cluster.Reduce(twoPairs, params)
	require.NoError(t, err)

	assert.Equal(t, reduction.TechniqueTSNE, result.Technique)
	assert.Nil(t, result.PCA)
	require.Len(t, result.Embedding, len(twoPairs))
}

func TestReduceExplicitUMAP(t *testing.T) {
	params := cluster.DefaultReductionParams()
	params.Technique = reduction.TechniqueUMAP
	params.UMAP.NumNeighbors = 2
	params.UMAP.Epochs = 10

	result, err := cluster.Reduce(twoPairs, params)
	require.NoError(t, err)

	assert.Equal(t, reduction.TechniqueUMAP, result.Technique)
	require.Len(t, result.Embedding, len(twoPairs))
}

func TestReduceUnknownTechnique(t *testing.T) {
	params := cluster.DefaultReductionParams()
	params.Technique = "isomap"
	_, err := cluster.Reduce(twoPairs, params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidParameter))
}

func TestReduceEmptyData(t *testing.T) {
	_, err := cluster.Reduce(nil, cluster.DefaultReductionParams())
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
