package hierarchy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/hierarchy"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// twoPairs is two tight, well-separated clusters of two points each.
var twoPairs = [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}

func TestAgglomerativeTwoSeparatedPairs(t *testing.T) {
	agg := hierarchy.NewAgglomerativeWithParams(hierarchy.Params{K: 2})
	result, err := agg.Fit(twoPairs)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NumClusters)
	assert.Equal(t, []int{0, 0, 1, 1}, result.Labels)

	// n - k merges for a run from n singletons down to k clusters.
	require.Len(t, result.Merges, 2)

	// Both pair merges happen at distance 1; the row-major tie-break joins
	// the (0, 1) pair first.
	assert.Equal(t, 0, result.Merges[0].ClusterA)
	assert.Equal(t, 1, result.Merges[0].ClusterB)
	assert.InDelta(t, 1.0, result.Merges[0].Distance, 1e-12)
	assert.Equal(t, 2, result.Merges[0].MergedSize)

	assert.Equal(t, 2, result.Merges[1].ClusterA)
	assert.Equal(t, 3, result.Merges[1].ClusterB)
	assert.InDelta(t, 1.0, result.Merges[1].Distance, 1e-12)
}

func TestAgglomerativeMergeRecordLength(t *testing.T) {
	data := [][]float64{{0}, {1}, {4}, {9}, {16}, {25}}
	for k := 1; k <= len(data); k++ {
		agg := hierarchy.NewAgglomerativeWithParams(hierarchy.Params{K: k})
		result, err := agg.Fit(data)
		require.NoError(t, err)
		assert.Len(t, result.Merges, len(data)-k, "k=%d", k)
		assert.Len(t, result.Labels, len(data))
	}
}

func TestAgglomerativeSingleClusterMergeIDs(t *testing.T) {
	agg := hierarchy.NewAgglomerativeWithParams(hierarchy.Params{K: 1})
	result, err := agg.Fit(twoPairs)
	require.NoError(t, err)

	require.Len(t, result.Merges, 3)
	// The final merge joins the two pair-clusters created by the first two
	// merges: dendrogram ids n and n+1.
	last := result.Merges[2]
	assert.Equal(t, 4, last.ClusterA)
	assert.Equal(t, 5, last.ClusterB)
	assert.Equal(t, 4, last.MergedSize)
}

func TestAgglomerativeLinkageVariants(t *testing.T) {
	for _, linkage := range []hierarchy.Linkage{
		hierarchy.SingleLinkage,
		hierarchy.CompleteLinkage,
		hierarchy.AverageLinkage,
		hierarchy.WardLinkage,
	} {
		agg := hierarchy.NewAgglomerativeWithParams(hierarchy.Params{K: 2, Linkage: linkage})
		result, err := agg.Fit(twoPairs)
		require.NoError(t, err, linkage.String())
		// On cleanly separated pairs every linkage agrees on the flat
		// clustering.
		assert.Equal(t, []int{0, 0, 1, 1}, result.Labels, linkage.String())
	}
}

func TestAgglomerativeInvalidInputs(t *testing.T) {
	_, err := hierarchy.NewAgglomerativeWithParams(hierarchy.Params{K: 0}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = hierarchy.NewAgglomerativeWithParams(hierarchy.Params{K: 5}).Fit(twoPairs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrInvalidK))

	_, err = hierarchy.NewAgglomerative().Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrEmptyDataset))
}
