// Package density implements neighborhood-graph clustering with noise
// detection: DBSCAN and its reachability-ordering variant OPTICS.
package density

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// Noise is the label assigned to points unreachable from any core point.
const Noise = -1

// DBSCANParams configures a DBSCAN run.
type DBSCANParams struct {
	Eps    float64 `json:"eps"`     // Neighborhood radius, > 0
	MinPts int     `json:"min_pts"` // Core-point threshold, >= 1
}

// DefaultDBSCANParams returns the defaults used across the system.
func DefaultDBSCANParams() DBSCANParams {
	return DBSCANParams{Eps: 0.5, MinPts: 5}
}

// DBSCANResult contains the output of a DBSCAN run.
type DBSCANResult struct {
	Labels      []int `json:"labels"`       // Cluster index per observation, Noise for unassigned
	NumClusters int   `json:"num_clusters"` // Cluster count, noise excluded
	NoiseCount  int   `json:"noise_count"`  // Number of noise points
	CoreIndices []int `json:"core_indices"` // Indices of core points in input order
}

// DBSCAN groups density-reachable points into clusters and labels the rest
// noise. A point is core when at least MinPts OTHER points lie within Eps;
// the point itself is not counted.
//
// Border points reachable from two clusters go to whichever cluster's
// expansion reaches them first. To keep that reproducible the outer loop
// visits points in input order and the seed set expands FIFO.
//
// Reference: Ester, M., et al. (1996). "A density-based algorithm for
// discovering clusters in large spatial databases with noise"
type DBSCAN struct {
	params DBSCANParams
}

// NewDBSCAN creates a DBSCAN clusterer with default parameters.
func NewDBSCAN() *DBSCAN {
	return &DBSCAN{params: DefaultDBSCANParams()}
}

// NewDBSCANWithParams creates a DBSCAN clusterer with custom parameters.
func NewDBSCANWithParams(params DBSCANParams) *DBSCAN {
	return &DBSCAN{params: params}
}

// Fit runs DBSCAN over the observation matrix.
func (db *DBSCAN) Fit(data [][]float64) (*DBSCANResult, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	if db.params.Eps <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter, "eps=%g, must be > 0", db.params.Eps)
	}
	if db.params.MinPts < 1 {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter, "minPts=%d, must be >= 1", db.params.MinPts)
	}

	const unvisited = -2
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	var coreIndices []int
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		neighbors := db.neighborsOf(data, i)
		if len(neighbors) < db.params.MinPts {
			labels[i] = Noise
			continue
		}

		labels[i] = clusterID
		coreIndices = append(coreIndices, i)

		// FIFO expansion over the seed queue.
		queue := append([]int(nil), neighbors...)
		for head := 0; head < len(queue); head++ {
			q := queue[head]
			if labels[q] == Noise {
				// Previously noise, now a reachable border point.
				labels[q] = clusterID
				continue
			}
			if labels[q] != unvisited {
				continue
			}
			labels[q] = clusterID

			qNeighbors := db.neighborsOf(data, q)
			if len(qNeighbors) >= db.params.MinPts {
				coreIndices = append(coreIndices, q)
				queue = append(queue, qNeighbors...)
			}
		}

		clusterID++
	}

	noise := 0
	for _, label := range labels {
		if label == Noise {
			noise++
		}
	}
	sort.Ints(coreIndices)

	return &DBSCANResult{
		Labels:      labels,
		NumClusters: clusterID,
		NoiseCount:  noise,
		CoreIndices: coreIndices,
	}, nil
}

// neighborsOf returns the indices of all points within Eps of point i,
// excluding i itself, in input order.
func (db *DBSCAN) neighborsOf(data [][]float64, i int) []int {
	var neighbors []int
	for j, point := range data {
		if j == i {
			continue
		}
		if kernel.Euclidean(data[i], point) <= db.params.Eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
