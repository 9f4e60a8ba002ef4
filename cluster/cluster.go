// Package cluster is the single entry point the surrounding application
// talks to: it names the available algorithms as a closed enum, carries one
// typed parameter struct per algorithm, and dispatches a validated
// observation matrix to the matching clusterer. The matrix arrives as an
// explicit argument and is never mutated; rows are observations, columns are
// numeric features, and cleaning (NaN/Inf handling) is the caller's job.
package cluster

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/density"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/hierarchy"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/mixture"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/modeseek"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/partition"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/spectral"
	"github.com/HabibKhulafaPanjiLangit/UL/logging"
)

// Algorithm identifies a clustering algorithm. The set is closed: dispatch
// is an exhaustive switch, so an unsupported algorithm is caught here rather
// than at the bottom of a string lookup.
type Algorithm int

const (
	KMeans Algorithm = iota
	DBSCAN
	OPTICS
	Hierarchical
	MeanShift
	GaussianMixture
	Spectral
)

func (a Algorithm) String() string {
	switch a {
	case KMeans:
		return "kmeans"
	case DBSCAN:
		return "dbscan"
	case OPTICS:
		return "optics"
	case Hierarchical:
		return "hierarchical"
	case MeanShift:
		return "meanshift"
	case GaussianMixture:
		return "gmm"
	case Spectral:
		return "spectral"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps an algorithm name from the API layer onto the enum.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kmeans", "k-means":
		return KMeans, nil
	case "dbscan":
		return DBSCAN, nil
	case "optics":
		return OPTICS, nil
	case "hierarchical", "agglomerative":
		return Hierarchical, nil
	case "meanshift", "mean-shift":
		return MeanShift, nil
	case "gmm", "gaussian-mixture":
		return GaussianMixture, nil
	case "spectral":
		return Spectral, nil
	default:
		return 0, errors.Wrapf(kernel.ErrInvalidParameter, "unknown algorithm %q", name)
	}
}

// Params selects an algorithm and carries its typed parameters. Only the
// sub-struct matching Algorithm is consulted.
type Params struct {
	Algorithm Algorithm            `json:"algorithm"`
	KMeans    partition.Params     `json:"kmeans"`
	DBSCAN    density.DBSCANParams `json:"dbscan"`
	OPTICS    density.OPTICSParams `json:"optics"`
	Hierarchy hierarchy.Params     `json:"hierarchy"`
	MeanShift modeseek.Params      `json:"meanshift"`
	Mixture   mixture.Params       `json:"mixture"`
	Spectral  spectral.Params      `json:"spectral"`
}

// DefaultParams returns a Params with every algorithm at its defaults and
// the given algorithm selected.
func DefaultParams(algorithm Algorithm) Params {
	return Params{
		Algorithm: algorithm,
		KMeans:    partition.DefaultParams(),
		DBSCAN:    density.DefaultDBSCANParams(),
		OPTICS:    density.DefaultOPTICSParams(),
		Hierarchy: hierarchy.DefaultParams(),
		MeanShift: modeseek.DefaultParams(),
		Mixture:   mixture.DefaultParams(),
		Spectral:  spectral.DefaultParams(),
	}
}

// Result is the unified clustering output. Labels and NumClusters are always
// present; exactly one of the algorithm-specific fields is populated with
// the extras (centroids, linkage record, reachability ordering, mixture
// parameters) the chosen algorithm produces.
type Result struct {
	Algorithm   Algorithm     `json:"algorithm"`
	Labels      []int         `json:"labels"`
	NumClusters int           `json:"num_clusters"`
	Duration    time.Duration `json:"duration"`

	KMeans    *partition.Result     `json:"kmeans,omitempty"`
	DBSCAN    *density.DBSCANResult `json:"dbscan,omitempty"`
	OPTICS    *density.OPTICSResult `json:"optics,omitempty"`
	Hierarchy *hierarchy.Result     `json:"hierarchy,omitempty"`
	MeanShift *modeseek.Result      `json:"meanshift,omitempty"`
	Mixture   *mixture.Result       `json:"mixture,omitempty"`
	Spectral  *spectral.Result      `json:"spectral,omitempty"`
}

// Run clusters the observation matrix with the selected algorithm. The call
// is synchronous and runs to completion; the caller owns the returned result
// and may invoke Run concurrently on separate matrices.
func Run(data [][]float64, params Params) (*Result, error) {
	n, d, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}

	logging.Debug("clustering run starting", logging.Fields{
		"algorithm":    params.Algorithm.String(),
		"observations": n,
		"features":     d,
	})
	start := time.Now()

	result := &Result{Algorithm: params.Algorithm}

	switch params.Algorithm {
	case KMeans:
		r, err := partition.NewKMeansWithParams(params.KMeans).Fit(data)
		if err != nil {
			return nil, err
		}
		result.KMeans = r
		result.Labels = r.Labels
		result.NumClusters = len(r.Centroids)

	case DBSCAN:
		r, err := density.NewDBSCANWithParams(params.DBSCAN).Fit(data)
		if err != nil {
			return nil, err
		}
		result.DBSCAN = r
		result.Labels = r.Labels
		result.NumClusters = r.NumClusters

	case OPTICS:
		r, err := density.NewOPTICSWithParams(params.OPTICS).Fit(data)
		if err != nil {
			return nil, err
		}
		result.OPTICS = r
		result.Labels = r.Labels
		result.NumClusters = r.NumClusters

	case Hierarchical:
		r, err := hierarchy.NewAgglomerativeWithParams(params.Hierarchy).Fit(data)
		if err != nil {
			return nil, err
		}
		result.Hierarchy = r
		result.Labels = r.Labels
		result.NumClusters = r.NumClusters

	case MeanShift:
		r, err := modeseek.NewMeanShiftWithParams(params.MeanShift).Fit(data)
		if err != nil {
			return nil, err
		}
		result.MeanShift = r
		result.Labels = r.Labels
		result.NumClusters = r.NumClusters

	case GaussianMixture:
		r, err := mixture.NewGMMWithParams(params.Mixture).Fit(data)
		if err != nil {
			return nil, err
		}
		result.Mixture = r
		result.Labels = r.Labels
		result.NumClusters = len(r.Means)

	case Spectral:
		r, err := spectral.NewSpectralWithParams(params.Spectral).Fit(data)
		if err != nil {
			return nil, err
		}
		result.Spectral = r
		result.Labels = r.Labels
		result.NumClusters = r.NumClusters

	default:
		return nil, errors.Wrapf(kernel.ErrInvalidParameter,
			"algorithm value %d", int(params.Algorithm))
	}

	result.Duration = time.Since(start)
	logging.Info("clustering run finished", logging.Fields{
		"algorithm":    params.Algorithm.String(),
		"observations": n,
		"clusters":     result.NumClusters,
		"duration":     result.Duration.String(),
	})

	return result, nil
}
