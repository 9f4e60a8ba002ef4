package density

import (
	"container/heap"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// OPTICSParams configures an OPTICS run.
type OPTICSParams struct {
	MinPts int `json:"min_pts"` // Core-point threshold, >= 1
	// MaxEps bounds the neighborhood search radius. Zero or negative means
	// unbounded.
	MaxEps float64 `json:"max_eps"`
	// ExtractThreshold is the reachability cutoff used to carve clusters out
	// of the ordering. It is an exported tunable rather than a hidden
	// constant; zero or negative selects the default of 0.5.
	ExtractThreshold float64 `json:"extract_threshold"`
}

// DefaultOPTICSParams returns the defaults used across the system.
func DefaultOPTICSParams() OPTICSParams {
	return OPTICSParams{MinPts: 5, MaxEps: 0, ExtractThreshold: 0.5}
}

// OPTICSResult contains the reachability analysis and the clusters extracted
// from it.
type OPTICSResult struct {
	Ordering                []int     `json:"ordering"`                  // Visitation order over all points
	CoreDistances           []float64 `json:"core_distances"`            // Per point, +Inf when not core
	ReachabilityDistances   []float64 `json:"reachability_distances"`    // Per point, +Inf when never reached
	Labels                  []int     `json:"labels"`                    // Extracted cluster per point, Noise for unassigned
	NumClusters             int       `json:"num_clusters"`              // Extracted cluster count
	NoiseCount              int       `json:"noise_count"`               // Points left unassigned by extraction
	AppliedExtractThreshold float64   `json:"applied_extract_threshold"` // Threshold actually used
}

// OPTICS orders points by density reachability. Unlike DBSCAN it does not
// commit to a single eps; the reachability plot supports extraction at any
// threshold after the fact.
//
// Reference: Ankerst, M., et al. (1999). "OPTICS: Ordering points to
// identify the clustering structure"
type OPTICS struct {
	params OPTICSParams
}

// NewOPTICS creates an OPTICS analyzer with default parameters.
func NewOPTICS() *OPTICS {
	return &OPTICS{params: DefaultOPTICSParams()}
}

// NewOPTICSWithParams creates an OPTICS analyzer with custom parameters.
func NewOPTICSWithParams(params OPTICSParams) *OPTICS {
	return &OPTICS{params: params}
}

// Fit computes the reachability ordering and extracts clusters at the
// configured threshold.
func (o *OPTICS) Fit(data [][]float64) (*OPTICSResult, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	if o.params.MinPts < 1 {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter, "minPts=%d, must be >= 1", o.params.MinPts)
	}
	maxEps := o.params.MaxEps
	if maxEps <= 0 {
		maxEps = math.Inf(1)
	}
	threshold := o.params.ExtractThreshold
	if threshold <= 0 {
		threshold = 0.5
	}

	coreDist := make([]float64, n)
	reachDist := make([]float64, n)
	processed := make([]bool, n)
	for i := 0; i < n; i++ {
		coreDist[i] = math.Inf(1)
		reachDist[i] = math.Inf(1)
	}

	ordering := make([]int, 0, n)

	for i := 0; i < n; i++ {
		if processed[i] {
			continue
		}
		neighbors := o.neighborsWithin(data, i, maxEps)
		processed[i] = true
		ordering = append(ordering, i)
		coreDist[i] = o.coreDistance(neighbors)

		if math.IsInf(coreDist[i], 1) {
			continue
		}

		seeds := newReachQueue(n)
		o.updateSeeds(data, neighbors, i, coreDist, reachDist, processed, seeds)
		for seeds.Len() > 0 {
			q := seeds.popMin()
			qNeighbors := o.neighborsWithin(data, q, maxEps)
			processed[q] = true
			ordering = append(ordering, q)
			coreDist[q] = o.coreDistance(qNeighbors)
			if !math.IsInf(coreDist[q], 1) {
				o.updateSeeds(data, qNeighbors, q, coreDist, reachDist, processed, seeds)
			}
		}
	}

	labels, numClusters, noise := extractClusters(ordering, coreDist, reachDist, threshold, n)

	return &OPTICSResult{
		Ordering:                ordering,
		CoreDistances:           coreDist,
		ReachabilityDistances:   reachDist,
		Labels:                  labels,
		NumClusters:             numClusters,
		NoiseCount:              noise,
		AppliedExtractThreshold: threshold,
	}, nil
}

// neighbor pairs an index with its distance from the query point.
type neighbor struct {
	index int
	dist  float64
}

// neighborsWithin returns all other points within maxEps of point i, sorted
// by distance.
func (o *OPTICS) neighborsWithin(data [][]float64, i int, maxEps float64) []neighbor {
	var result []neighbor
	for j, point := range data {
		if j == i {
			continue
		}
		dist := kernel.Euclidean(data[i], point)
		if dist <= maxEps {
			result = append(result, neighbor{index: j, dist: dist})
		}
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].dist != result[b].dist {
			return result[a].dist < result[b].dist
		}
		return result[a].index < result[b].index
	})
	return result
}

// coreDistance is the distance to the MinPts-th nearest other point, or +Inf
// when fewer than MinPts others lie within the search radius.
func (o *OPTICS) coreDistance(neighbors []neighbor) float64 {
	if len(neighbors) < o.params.MinPts {
		return math.Inf(1)
	}
	return neighbors[o.params.MinPts-1].dist
}

// updateSeeds relaxes the reachability distance of every unprocessed
// neighbor of center and keeps the seed queue ordered.
func (o *OPTICS) updateSeeds(data [][]float64, neighbors []neighbor, center int,
	coreDist, reachDist []float64, processed []bool, seeds *reachQueue) {
	for _, nb := range neighbors {
		if processed[nb.index] {
			continue
		}
		newReach := math.Max(coreDist[center], nb.dist)
		if newReach < reachDist[nb.index] {
			reachDist[nb.index] = newReach
			seeds.upsert(nb.index, newReach)
		}
	}
}

// extractClusters carves contiguous low-reachability runs of the ordering
// into clusters. A point whose reachability exceeds the threshold starts a
// new cluster when it is itself sufficiently dense, and is noise otherwise.
func extractClusters(ordering []int, coreDist, reachDist []float64, threshold float64, n int) (labels []int, numClusters, noise int) {
	labels = make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}

	current := -1
	for _, p := range ordering {
		if reachDist[p] > threshold {
			if coreDist[p] <= threshold {
				numClusters++
				current = numClusters - 1
				labels[p] = current
			} else {
				current = -1
			}
			continue
		}
		if current < 0 {
			// Reachable run with no open cluster; open one.
			numClusters++
			current = numClusters - 1
		}
		labels[p] = current
	}

	for _, label := range labels {
		if label == Noise {
			noise++
		}
	}
	return labels, numClusters, noise
}

// reachQueue is an indexed min-heap over (reachability, index) pairs with
// decrease-key support. Equal reachabilities order by index so traversal is
// deterministic.
type reachQueue struct {
	items []neighbor
	pos   []int // point index -> heap slot, -1 when absent
}

func newReachQueue(n int) *reachQueue {
	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	return &reachQueue{pos: pos}
}

func (q *reachQueue) Len() int { return len(q.items) }

func (q *reachQueue) Less(a, b int) bool {
	if q.items[a].dist != q.items[b].dist {
		return q.items[a].dist < q.items[b].dist
	}
	return q.items[a].index < q.items[b].index
}

func (q *reachQueue) Swap(a, b int) {
	q.items[a], q.items[b] = q.items[b], q.items[a]
	q.pos[q.items[a].index] = a
	q.pos[q.items[b].index] = b
}

func (q *reachQueue) Push(x any) {
	item := x.(neighbor)
	q.pos[item.index] = len(q.items)
	q.items = append(q.items, item)
}

func (q *reachQueue) Pop() any {
	last := len(q.items) - 1
	item := q.items[last]
	q.items = q.items[:last]
	q.pos[item.index] = -1
	return item
}

// upsert inserts the point or lowers its reachability in place.
func (q *reachQueue) upsert(index int, reach float64) {
	if slot := q.pos[index]; slot >= 0 {
		q.items[slot].dist = reach
		heap.Fix(q, slot)
		return
	}
	heap.Push(q, neighbor{index: index, dist: reach})
}

func (q *reachQueue) popMin() int {
	return heap.Pop(q).(neighbor).index
}
