package evaluation

import (
	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/partition"
)

// ElbowPoint is the within-cluster sum of squares for one candidate k.
type ElbowPoint struct {
	K    int     `json:"k"`
	WCSS float64 `json:"wcss"`
}

// ElbowSweep runs K-Means for every k in [1, maxK] and reports the WCSS per
// k. The bend in the resulting curve is left to the caller to locate
// visually; no automatic knee detection is applied. This is the only metric
// that invokes another component internally.
func ElbowSweep(data [][]float64, maxK int, randomSeed int64) ([]ElbowPoint, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	if maxK < 1 || maxK > n {
		return nil, errors.Wrapf(kernel.ErrInvalidK, "maxK=%d with %d observations", maxK, n)
	}

	points := make([]ElbowPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		km := partition.NewKMeansWithParams(partition.Params{
			K:          k,
			RandomSeed: randomSeed,
		})
		result, err := km.Fit(data)
		if err != nil {
			return nil, errors.Wrapf(err, "k-means sweep at k=%d", k)
		}
		points = append(points, ElbowPoint{K: k, WCSS: result.Inertia})
	}
	return points, nil
}
