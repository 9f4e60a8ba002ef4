// Package partition implements centroid-based partitioning clustering:
// Lloyd's K-Means with K-Means++ seeding.
package partition

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// Seeding strategies for the initial centroids.
const (
	InitKMeansPlusPlus = "kmeans++"
	InitRandom         = "random"
)

// Params configures a K-Means run.
type Params struct {
	K             int     `json:"k"`              // Number of clusters, 1 <= K <= n
	MaxIterations int     `json:"max_iterations"` // Iteration cap
	Tolerance     float64 `json:"tolerance"`      // Inertia-delta convergence threshold
	InitMethod    string  `json:"init_method"`    // "kmeans++" or "random"
	RandomSeed    int64   `json:"random_seed"`    // Seed for reproducible runs
}

// DefaultParams returns the defaults used across the system.
func DefaultParams() Params {
	return Params{
		K:             3,
		MaxIterations: 100,
		Tolerance:     1e-6,
		InitMethod:    InitKMeansPlusPlus,
		RandomSeed:    42,
	}
}

// Result contains the output of a K-Means fit.
type Result struct {
	Labels     []int       `json:"labels"`     // Cluster index per observation
	Centroids  [][]float64 `json:"centroids"`  // K centroids of length d
	Inertia    float64     `json:"inertia"`    // Final within-cluster sum of squares
	Iterations int         `json:"iterations"` // Iterations actually run
	Converged  bool        `json:"converged"`  // False when MaxIterations was hit first
}

// KMeans clusters observations around K centroids.
//
// References:
//   - MacQueen, J. (1967). "Some methods for classification and analysis of
//     multivariate observations"
//   - Arthur, D., & Vassilvitskii, S. (2007). "k-means++: The advantages of
//     careful seeding"
type KMeans struct {
	params Params
}

// NewKMeans creates a K-Means clusterer with default parameters.
func NewKMeans() *KMeans {
	return &KMeans{params: DefaultParams()}
}

// NewKMeansWithParams creates a K-Means clusterer with custom parameters.
// Zero MaxIterations/Tolerance fall back to their defaults.
func NewKMeansWithParams(params Params) *KMeans {
	if params.MaxIterations <= 0 {
		params.MaxIterations = 100
	}
	if params.Tolerance <= 0 {
		params.Tolerance = 1e-6
	}
	if params.InitMethod == "" {
		params.InitMethod = InitKMeansPlusPlus
	}
	return &KMeans{params: params}
}

// Fit runs Lloyd's algorithm to completion. Each call reseeds its own RNG
// from Params.RandomSeed, so two fits with the same seed and data produce
// identical labels.
func (km *KMeans) Fit(data [][]float64) (*Result, error) {
	n, d, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	k := km.params.K
	if k < 1 || k > n {
		return nil, errors.Wrapf(kernel.ErrInvalidK, "k=%d with %d observations", k, n)
	}

	rng := rand.New(rand.NewSource(km.params.RandomSeed))
	centroids := km.seedCentroids(data, k, d, rng)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	inertia := math.Inf(1)
	converged := false
	iterations := 0

	for iterations < km.params.MaxIterations {
		// Assignment step. Ties go to the lowest cluster index: the scan
		// runs in index order and only a strictly smaller distance wins.
		newInertia := 0.0
		changed := false
		for i, point := range data {
			best := 0
			bestDist := kernel.SquaredEuclidean(point, centroids[0])
			for j := 1; j < k; j++ {
				dist := kernel.SquaredEuclidean(point, centroids[j])
				if dist < bestDist {
					bestDist = dist
					best = j
				}
			}
			if labels[i] != best {
				changed = true
				labels[i] = best
			}
			newInertia += bestDist
		}

		// Update step. A centroid with no assigned points keeps its
		// previous position rather than becoming undefined.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, d)
		}
		for i, point := range data {
			c := labels[i]
			counts[c]++
			for j := range point {
				sums[c][j] += point[j]
			}
		}
		for j := 0; j < k; j++ {
			if counts[j] == 0 {
				continue
			}
			for l := 0; l < d; l++ {
				centroids[j][l] = sums[j][l] / float64(counts[j])
			}
		}

		iterations++

		if !changed || math.Abs(inertia-newInertia) < km.params.Tolerance {
			inertia = newInertia
			converged = true
			break
		}
		inertia = newInertia
	}

	// Final inertia against the updated centroids.
	inertia = 0.0
	for i, point := range data {
		inertia += kernel.SquaredEuclidean(point, centroids[labels[i]])
	}

	return &Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iterations,
		Converged:  converged,
	}, nil
}

// seedCentroids picks the initial centroids. K-Means++ chooses the first
// centroid uniformly and each subsequent one with probability proportional to
// the squared distance to its nearest already-chosen centroid, which avoids
// the empty clusters that plain random seeding tends to produce.
func (km *KMeans) seedCentroids(data [][]float64, k, d int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, k)

	if km.params.InitMethod == InitRandom {
		for i := 0; i < k; i++ {
			centroids[i] = make([]float64, d)
			copy(centroids[i], data[rng.Intn(n)])
		}
		return centroids
	}

	centroids[0] = make([]float64, d)
	copy(centroids[0], data[rng.Intn(n)])

	sqDist := make([]float64, n)
	for i := 1; i < k; i++ {
		total := 0.0
		for j, point := range data {
			min := math.Inf(1)
			for l := 0; l < i; l++ {
				dist := kernel.SquaredEuclidean(point, centroids[l])
				if dist < min {
					min = dist
				}
			}
			sqDist[j] = min
			total += min
		}

		centroids[i] = make([]float64, d)
		if total <= 0 {
			// All remaining points coincide with a chosen centroid.
			copy(centroids[i], data[rng.Intn(n)])
			continue
		}
		r := rng.Float64() * total
		cumulative := 0.0
		chosen := n - 1
		for j, dist := range sqDist {
			cumulative += dist
			if cumulative >= r {
				chosen = j
				break
			}
		}
		copy(centroids[i], data[chosen])
	}

	return centroids
}
