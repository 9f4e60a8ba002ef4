// Package evaluation scores a labeling of an observation matrix with
// internal cluster-quality metrics: silhouette, Davies-Bouldin, and
// Calinski-Harabasz, plus an elbow/WCSS sweep for choosing k.
//
// The evaluator never mutates its inputs and accepts ANY integer labeling,
// including labels produced outside this module: noise markers, gaps, and
// arbitrary values are each treated as their own cluster.
package evaluation

import (
	"math"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// Metric names reported on results.
const (
	MetricSilhouette       = "silhouette"
	MetricDaviesBouldin    = "davies_bouldin"
	MetricCalinskiHarabasz = "calinski_harabasz"
)

// Result is one named metric value with a qualitative reading. A metric that
// is mathematically undefined for the given labeling (fewer than two
// clusters) reports Applicable=false with an explanatory interpretation;
// that is a normal result, not an error.
type Result struct {
	Metric         string  `json:"metric"`
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
	Applicable     bool    `json:"applicable"`
}

// notApplicable builds the sentinel result for degenerate labelings.
func notApplicable(metric string) *Result {
	return &Result{
		Metric:         metric,
		Interpretation: "not applicable: fewer than 2 clusters",
		Applicable:     false,
	}
}

// validate checks the matrix and the label/observation pairing.
func validate(data [][]float64, labels []int) (n int, err error) {
	n, _, err = kernel.ValidateMatrix(data)
	if err != nil {
		return 0, err
	}
	if len(labels) != n {
		return 0, errors.Wrapf(kernel.ErrDimensionMismatch,
			"%d labels for %d observations", len(labels), n)
	}
	return n, nil
}

// groupByLabel collects member indices per distinct label value, in first-
// appearance order.
func groupByLabel(labels []int) (order []int, members map[int][]int) {
	members = make(map[int][]int)
	for i, label := range labels {
		if _, seen := members[label]; !seen {
			order = append(order, label)
		}
		members[label] = append(members[label], i)
	}
	return order, members
}

// Silhouette computes the mean silhouette coefficient over all points.
//
// Per point, a is the mean distance to the other members of its cluster
// (0 for singletons) and b the minimum over other clusters of the mean
// distance to that cluster; the score is (b-a)/max(a,b), or 0 when both are
// zero. The overall value is bounded in [-1, 1].
//
// Reference: Rousseeuw, P. J. (1987). "Silhouettes: a graphical aid to the
// interpretation and validation of cluster analysis"
func Silhouette(data [][]float64, labels []int) (*Result, error) {
	n, err := validate(data, labels)
	if err != nil {
		return nil, err
	}
	order, members := groupByLabel(labels)
	if len(order) < 2 {
		return notApplicable(MetricSilhouette), nil
	}

	total := 0.0
	for i := 0; i < n; i++ {
		own := labels[i]

		a := 0.0
		if size := len(members[own]); size > 1 {
			sum := 0.0
			for _, j := range members[own] {
				if j != i {
					sum += kernel.Euclidean(data[i], data[j])
				}
			}
			a = sum / float64(size-1)
		}

		b := math.Inf(1)
		for _, label := range order {
			if label == own {
				continue
			}
			sum := 0.0
			for _, j := range members[label] {
				sum += kernel.Euclidean(data[i], data[j])
			}
			if avg := sum / float64(len(members[label])); avg < b {
				b = avg
			}
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}

	value := total / float64(n)
	return &Result{
		Metric:         MetricSilhouette,
		Value:          value,
		Interpretation: interpretSilhouette(value),
		Applicable:     true,
	}, nil
}

func interpretSilhouette(value float64) string {
	switch {
	case value >= 0.7:
		return "strong cluster structure"
	case value >= 0.5:
		return "reasonable cluster structure"
	case value >= 0.25:
		return "weak cluster structure"
	default:
		return "no substantial cluster structure"
	}
}

// DaviesBouldin computes the Davies-Bouldin index: the mean over clusters of
// the worst (scatter_i + scatter_j) / centroidDistance(i, j) ratio. Lower is
// better.
//
// Reference: Davies, D. L., & Bouldin, D. W. (1979). "A cluster separation
// measure"
func DaviesBouldin(data [][]float64, labels []int) (*Result, error) {
	if _, err := validate(data, labels); err != nil {
		return nil, err
	}
	order, members := groupByLabel(labels)
	k := len(order)
	if k < 2 {
		return notApplicable(MetricDaviesBouldin), nil
	}

	centroids := make([][]float64, k)
	scatters := make([]float64, k)
	for c, label := range order {
		rows := make([][]float64, len(members[label]))
		for i, idx := range members[label] {
			rows[i] = data[idx]
		}
		centroid, err := kernel.Mean(rows)
		if err != nil {
			return nil, err
		}
		centroids[c] = centroid

		sum := 0.0
		for _, idx := range members[label] {
			sum += kernel.Euclidean(data[idx], centroid)
		}
		scatters[c] = sum / float64(len(members[label]))
	}

	index := 0.0
	for i := 0; i < k; i++ {
		worst := 0.0
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			centerDist := kernel.Euclidean(centroids[i], centroids[j])
			if centerDist == 0 {
				// Coincident centroids carry no separation signal.
				continue
			}
			if ratio := (scatters[i] + scatters[j]) / centerDist; ratio > worst {
				worst = ratio
			}
		}
		index += worst
	}
	value := index / float64(k)

	return &Result{
		Metric:         MetricDaviesBouldin,
		Value:          value,
		Interpretation: interpretDaviesBouldin(value),
		Applicable:     true,
	}, nil
}

func interpretDaviesBouldin(value float64) string {
	switch {
	case value < 0.5:
		return "excellent cluster separation"
	case value < 1.0:
		return "good cluster separation"
	case value < 2.0:
		return "moderate cluster separation"
	default:
		return "poor cluster separation"
	}
}

// CalinskiHarabasz computes the variance-ratio criterion: between-cluster
// over within-cluster variance scaled by (n-k)/(k-1). Higher is better.
//
// Reference: Calinski, T., & Harabasz, J. (1974). "A dendrite method for
// cluster analysis"
func CalinskiHarabasz(data [][]float64, labels []int) (*Result, error) {
	n, err := validate(data, labels)
	if err != nil {
		return nil, err
	}
	order, members := groupByLabel(labels)
	k := len(order)
	if k < 2 || n == k {
		return notApplicable(MetricCalinskiHarabasz), nil
	}

	overall := kernel.ColumnMean(data)

	bgss := 0.0
	wgss := 0.0
	for _, label := range order {
		rows := make([][]float64, len(members[label]))
		for i, idx := range members[label] {
			rows[i] = data[idx]
		}
		centroid, err := kernel.Mean(rows)
		if err != nil {
			return nil, err
		}
		bgss += float64(len(rows)) * kernel.SquaredEuclidean(centroid, overall)
		for _, idx := range members[label] {
			wgss += kernel.SquaredEuclidean(data[idx], centroid)
		}
	}

	var value float64
	if wgss == 0 {
		value = math.Inf(1)
	} else {
		value = (bgss / float64(k-1)) / (wgss / float64(n-k))
	}

	return &Result{
		Metric:         MetricCalinskiHarabasz,
		Value:          value,
		Interpretation: interpretCalinskiHarabasz(value),
		Applicable:     true,
	}, nil
}

func interpretCalinskiHarabasz(value float64) string {
	switch {
	case value >= 500:
		return "very strong cluster separation"
	case value >= 100:
		return "strong cluster separation"
	case value >= 10:
		return "moderate cluster separation"
	default:
		return "weak cluster separation"
	}
}
