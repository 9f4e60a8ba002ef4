package reduction

import (
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// Technique identifies a reduction technique.
type Technique string

const (
	TechniquePCA  Technique = "pca"
	TechniqueTSNE Technique = "tsne"
	TechniqueUMAP Technique = "umap"
)

// Shape thresholds for the auto-selection policy.
const (
	autoSmallSampleLimit = 50   // n at or below this is "small"
	autoLowDimLimit      = 3    // d at or below this is "already low-dimensional"
	autoHighDimLimit     = 50   // d above this is "high-dimensional"
	autoLargeSampleLimit = 2000 // n above this is "large-sample"
)

// Selection is the outcome of the auto-selection policy: the chosen
// technique plus the reason it was chosen, reported so the caller can
// surface it.
type Selection struct {
	Technique Technique `json:"technique"`
	Reason    string    `json:"reason"`
}

// AutoSelect picks a reduction technique from the data's shape alone:
// exact PCA when the dataset is small or already low-dimensional, UMAP for
// high-dimensional large-sample data, and t-SNE for medium-sized
// visualization tasks in between.
func AutoSelect(data [][]float64) (*Selection, error) {
	n, d, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	return autoSelectShape(n, d), nil
}

func autoSelectShape(n, d int) *Selection {
	switch {
	case n <= autoSmallSampleLimit:
		return &Selection{
			Technique: TechniquePCA,
			Reason:    "small dataset: exact PCA is cheap and deterministic",
		}
	case d <= autoLowDimLimit:
		return &Selection{
			Technique: TechniquePCA,
			Reason:    "already low-dimensional: nonlinear embedding adds nothing",
		}
	case d > autoHighDimLimit && n > autoLargeSampleLimit:
		return &Selection{
			Technique: TechniqueUMAP,
			Reason:    "high-dimensional large sample: t-SNE's O(n^2) iterations are impractical",
		}
	default:
		return &Selection{
			Technique: TechniqueTSNE,
			Reason:    "medium-sized visualization task",
		}
	}
}
