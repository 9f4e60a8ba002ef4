package reduction_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/reduction"
)

// spread3D varies strongly along the first axis, mildly along the second,
// and barely along the third.
var spread3D = [][]float64{
	{0, 0, 0},
	{10, 1, 0.1},
	{20, 0, 0.2},
	{30, 1, 0.1},
	{40, 0, 0},
}

func TestPCAFullDimsRoundTrip(t *testing.T) {
	pca := reduction.NewPCAWithParams(reduction.PCAParams{OutputDims: 3})
	result, err := pca.Reduce(spread3D)
	require.NoError(t, err)

	// Keeping every component, projection then reconstruction is lossless.
	reconstructed := result.Reconstruct()
	require.Len(t, reconstructed, len(spread3D))
	for i, row := range reconstructed {
		for j, v := range row {
			assert.InDelta(t, spread3D[i][j], v, 1e-9, "row %d col %d", i, j)
		}
	}

	assert.InDelta(t, 1.0, result.CumulativeVariance[2], 1e-9)
}

func TestPCAVarianceOrdering(t *testing.T) {
	pca := reduction.NewPCAWithParams(reduction.PCAParams{OutputDims: 3})
	result, err := pca.Reduce(spread3D)
	require.NoError(t, err)

	require.Len(t, result.ExplainedVariance, 3)
	assert.GreaterOrEqual(t, result.ExplainedVariance[0], result.ExplainedVariance[1])
	assert.GreaterOrEqual(t, result.ExplainedVariance[1], result.ExplainedVariance[2])

	// Nearly all variance lives on the first axis.
	assert.Greater(t, result.ExplainedVariance[0], 0.99)
}

func TestPCADefaultShape(t *testing.T) {
	result, err := reduction.NewPCA().Reduce(spread3D)
	require.NoError(t, err)

	require.Len(t, result.Embedding, len(spread3D))
	for _, row := range result.Embedding {
		assert.Len(t, row, 2)
	}
	require.Len(t, result.Components, 3)
	for _, row := range result.Components {
		assert.Len(t, row, 2)
	}
	require.Len(t, result.ColumnMeans, 3)
}

func TestPCADeterministic(t *testing.T) {
	first, err := reduction.NewPCA().Reduce(spread3D)
	require.NoError(t, err)
	second, err := reduction.NewPCA().Reduce(spread3D)
	require.NoError(t, err)

	assert.Equal(t, first.Embedding, second.Embedding)
	assert.Equal(t, first.ExplainedVariance, second.ExplainedVariance)
}

func TestPCAZeroOutputDimsDefaults(t *testing.T) {
	// An unset OutputDims means the default of 2, matching the other
	// reducers' zero-value handling.
	result, err := reduction.NewPCAWithParams(reduction.PCAParams{}).Reduce(spread3D)
	require.NoError(t, err)
	for _, row := range result.Embedding {
		assert.Len(t, row, 2)
	}
}

func TestPCAInvalidInputs(t *testing.T) {
	_, err := reduction.NewPCAWithParams(reduction.PCAParams{OutputDims: 4}).Reduce(spread3D)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidParameter))

	// More output dimensions than observations.
	_, err = reduction.NewPCAWithParams(reduction.PCAParams{OutputDims: 3}).Reduce(spread3D[:2])
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidParameter))

	_, err = reduction.NewPCA().Reduce(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
