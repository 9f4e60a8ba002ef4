// Package hierarchy implements agglomerative hierarchical clustering over a
// selectable linkage criterion, producing a merge tree alongside flat labels.
package hierarchy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// Linkage selects how the distance between two clusters is computed.
type Linkage int

const (
	SingleLinkage Linkage = iota
	CompleteLinkage
	AverageLinkage
	WardLinkage
)

func (l Linkage) String() string {
	switch l {
	case SingleLinkage:
		return "single"
	case CompleteLinkage:
		return "complete"
	case AverageLinkage:
		return "average"
	case WardLinkage:
		return "ward"
	default:
		return "unknown"
	}
}

// Params configures an agglomerative run.
type Params struct {
	K       int     `json:"k"`       // Target cluster count, 1 <= K <= n
	Linkage Linkage `json:"linkage"` // Merge criterion, single by default
}

// DefaultParams returns the defaults used across the system.
func DefaultParams() Params {
	return Params{K: 2, Linkage: SingleLinkage}
}

// Merge is one event of the merge tree. Cluster ids follow the usual
// dendrogram convention: the n initial singletons are ids 0..n-1 and the
// i-th merge creates id n+i.
type Merge struct {
	ClusterA   int     `json:"cluster_a"`
	ClusterB   int     `json:"cluster_b"`
	Distance   float64 `json:"distance"`
	MergedSize int     `json:"merged_size"`
}

// Result contains flat labels plus the full linkage record.
type Result struct {
	Labels      []int   `json:"labels"`
	Merges      []Merge `json:"merges"`
	NumClusters int     `json:"num_clusters"`
}

// Agglomerative builds a binary merge tree bottom-up, repeatedly joining the
// closest pair of clusters until K remain. The pair search is a linear scan
// over all current pairs, O(n^2) per merge and O(n^3) overall, so this method
// suits small and medium datasets. Distance ties break to the first pair in
// row-major scan order.
//
// Reference: Hastie, T., et al. (2009). "The Elements of Statistical
// Learning", ch. 14.3.12
type Agglomerative struct {
	params Params
}

// NewAgglomerative creates a hierarchical clusterer with default parameters.
func NewAgglomerative() *Agglomerative {
	return &Agglomerative{params: DefaultParams()}
}

// NewAgglomerativeWithParams creates a hierarchical clusterer with custom
// parameters.
func NewAgglomerativeWithParams(params Params) *Agglomerative {
	return &Agglomerative{params: params}
}

// activeCluster is a live cluster during the merge loop.
type activeCluster struct {
	id      int
	members []int
}

// Fit runs the merge loop to K clusters.
func (a *Agglomerative) Fit(data [][]float64) (*Result, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	k := a.params.K
	if k < 1 || k > n {
		return nil, errors.Wrapf(kernel.ErrInvalidK, "k=%d with %d observations", k, n)
	}

	distMatrix := kernel.DistanceMatrix(data)

	clusters := make([]activeCluster, n)
	for i := 0; i < n; i++ {
		clusters[i] = activeCluster{id: i, members: []int{i}}
	}

	merges := make([]Merge, 0, n-k)
	nextID := n

	for len(clusters) > k {
		best := math.Inf(1)
		bestI, bestJ := -1, -1
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				dist := a.linkageDistance(clusters[i].members, clusters[j].members, distMatrix)
				if dist < best {
					best = dist
					bestI, bestJ = i, j
				}
			}
		}

		merged := activeCluster{
			id:      nextID,
			members: append(append([]int(nil), clusters[bestI].members...), clusters[bestJ].members...),
		}
		merges = append(merges, Merge{
			ClusterA:   clusters[bestI].id,
			ClusterB:   clusters[bestJ].id,
			Distance:   best,
			MergedSize: len(merged.members),
		})
		nextID++

		clusters[bestI] = merged
		clusters = append(clusters[:bestJ], clusters[bestJ+1:]...)
	}

	labels := make([]int, n)
	for idx, c := range clusters {
		for _, member := range c.members {
			labels[member] = idx
		}
	}

	return &Result{
		Labels:      labels,
		Merges:      merges,
		NumClusters: len(clusters),
	}, nil
}

// linkageDistance computes the distance between two clusters under the
// configured criterion, reading from the precomputed point distance matrix.
func (a *Agglomerative) linkageDistance(c1, c2 []int, distMatrix [][]float64) float64 {
	switch a.params.Linkage {
	case CompleteLinkage:
		max := 0.0
		for _, i := range c1 {
			for _, j := range c2 {
				if distMatrix[i][j] > max {
					max = distMatrix[i][j]
				}
			}
		}
		return max

	case AverageLinkage:
		sum := 0.0
		for _, i := range c1 {
			for _, j := range c2 {
				sum += distMatrix[i][j]
			}
		}
		return sum / float64(len(c1)*len(c2))

	case WardLinkage:
		// Root-mean-square pair distance, a cheap stand-in for Ward's
		// variance criterion that preserves its merge ordering on
		// well-separated data.
		sum := 0.0
		for _, i := range c1 {
			for _, j := range c2 {
				sum += distMatrix[i][j] * distMatrix[i][j]
			}
		}
		return math.Sqrt(sum / float64(len(c1)*len(c2)))

	default: // SingleLinkage
		min := math.Inf(1)
		for _, i := range c1 {
			for _, j := range c2 {
				if distMatrix[i][j] < min {
					min = distMatrix[i][j]
				}
			}
		}
		return min
	}
}
