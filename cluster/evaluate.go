package cluster

import (
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/evaluation"
	"github.com/HabibKhulafaPanjiLangit/UL/logging"
)

// Evaluation bundles the three internal quality metrics for one labeling.
// Metrics that are undefined for the labeling (fewer than two clusters)
// carry Applicable=false rather than failing the whole evaluation.
type Evaluation struct {
	Silhouette       *evaluation.Result `json:"silhouette"`
	DaviesBouldin    *evaluation.Result `json:"davies_bouldin"`
	CalinskiHarabasz *evaluation.Result `json:"calinski_harabasz"`
}

// Evaluate scores a labeling against the matrix it was produced from. The
// labels need not come from this module; any integer labeling of the rows is
// accepted.
func Evaluate(data [][]float64, labels []int) (*Evaluation, error) {
	silhouette, err := evaluation.Silhouette(data, labels)
	if err != nil {
		return nil, err
	}
	daviesBouldin, err := evaluation.DaviesBouldin(data, labels)
	if err != nil {
		return nil, err
	}
	calinskiHarabasz, err := evaluation.CalinskiHarabasz(data, labels)
	if err != nil {
		return nil, err
	}

	logging.Debug("evaluation finished", logging.Fields{
		"silhouette":        silhouette.Value,
		"davies_bouldin":    daviesBouldin.Value,
		"calinski_harabasz": calinskiHarabasz.Value,
	})

	return &Evaluation{
		Silhouette:       silhouette,
		DaviesBouldin:    daviesBouldin,
		CalinskiHarabasz: calinskiHarabasz,
	}, nil
}

// ElbowSweep reports the within-cluster sum of squares for every k in
// [1, maxK], for the caller to locate the bend visually.
func ElbowSweep(data [][]float64, maxK int, randomSeed int64) ([]evaluation.ElbowPoint, error) {
	return evaluation.ElbowSweep(data, maxK, randomSeed)
}
