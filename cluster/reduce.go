package cluster

import (
	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/reduction"
	"github.com/HabibKhulafaPanjiLangit/UL/logging"
)

// TechniqueAuto asks the reducer to pick a technique from the data's shape.
const TechniqueAuto reduction.Technique = "auto"

// ReductionParams selects a reduction technique and carries its typed
// parameters. Only the sub-struct matching Technique is consulted.
type ReductionParams struct {
	Technique reduction.Technique  `json:"technique"`
	PCA       reduction.PCAParams  `json:"pca"`
	TSNE      reduction.TSNEParams `json:"tsne"`
	UMAP      reduction.UMAPParams `json:"umap"`
}

// DefaultReductionParams returns every technique at its defaults with
// auto-selection enabled.
func DefaultReductionParams() ReductionParams {
	return ReductionParams{
		Technique: TechniqueAuto,
		PCA:       reduction.DefaultPCAParams(),
		TSNE:      reduction.DefaultTSNEParams(),
		UMAP:      reduction.DefaultUMAPParams(),
	}
}

// ReductionResult is the unified reduction output. Reason is set when the
// technique was auto-selected; PCA metadata is present for PCA runs.
type ReductionResult struct {
	Technique reduction.Technique `json:"technique"`
	Reason    string              `json:"reason,omitempty"`
	Embedding [][]float64         `json:"embedding"`

	PCA *reduction.PCAResult `json:"pca,omitempty"`
}

// Reduce computes a low-dimensional embedding for plotting. Reduction runs
// independently of clustering and never influences labels.
func Reduce(data [][]float64, params ReductionParams) (*ReductionResult, error) {
	technique := params.Technique
	reason := ""
	if technique == TechniqueAuto || technique == "" {
		selection, err := reduction.AutoSelect(data)
		if err != nil {
			return nil, err
		}
		technique = selection.Technique
		reason = selection.Reason
		logging.Debug("reduction technique auto-selected", logging.Fields{
			"technique": string(technique),
			"reason":    reason,
		})
	}

	result := &ReductionResult{Technique: technique, Reason: reason}

	switch technique {
	case reduction.TechniquePCA:
		r, err := reduction.NewPCAWithParams(params.PCA).Reduce(data)
		if err != nil {
			return nil, err
		}
		result.PCA = r
		result.Embedding = r.Embedding

	case reduction.TechniqueTSNE:
		r, err := reduction.NewTSNEWithParams(params.TSNE).Reduce(data)
		if err != nil {
			return nil, err
		}
		result.Embedding = r.Embedding

	case reduction.TechniqueUMAP:
		r, err := reduction.NewUMAPWithParams(params.UMAP).Reduce(data)
		if err != nil {
			return nil, err
		}
		result.Embedding = r.Embedding

	default:
		return nil, errors.Wrapf(kernel.ErrInvalidParameter,
			"unknown reduction technique %q", technique)
	}

	return result, nil
}
