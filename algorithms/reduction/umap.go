package reduction

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// UMAPParams configures the lightweight UMAP embedding.
type UMAPParams struct {
	OutputDims   int     `json:"output_dims"`   // Target dimensionality, usually 2
	NumNeighbors int     `json:"num_neighbors"` // kNN graph degree
	Epochs       int     `json:"epochs"`        // SGD epochs
	LearningRate float64 `json:"learning_rate"` // Initial SGD step, decays linearly
	RandomSeed   int64   `json:"random_seed"`   // Seed for init and sampling
}

// DefaultUMAPParams returns the defaults used across the system.
func DefaultUMAPParams() UMAPParams {
	return UMAPParams{
		OutputDims:   2,
		NumNeighbors: 15,
		Epochs:       200,
		LearningRate: 1.0,
		RandomSeed:   42,
	}
}

// UMAPResult contains the low-dimensional embedding.
type UMAPResult struct {
	Embedding [][]float64 `json:"embedding"` // n x OutputDims coordinates
	Epochs    int         `json:"epochs"`    // SGD epochs performed
}

// Low-dimensional curve parameters for the standard min-dist of 0.1, the
// closed-form values the reference implementation fits numerically.
const (
	umapCurveA          = 1.577
	umapCurveB          = 0.8951
	umapNegativeSamples = 5
	umapClipGradient    = 4.0
)

// UMAP is a deliberately lighter take on UMAP: a brute-force kNN graph,
// smooth-kNN bandwidth calibration, fuzzy set union, and SGD with negative
// sampling over the resulting edges. It skips the reference algorithm's
// spectral initialization (random seeded init instead) and its (a, b) curve
// fit (fixed constants for min-dist 0.1).
//
// Reference: McInnes, L., Healy, J., & Melville, J. (2018). "UMAP: Uniform
// Manifold Approximation and Projection for Dimension Reduction"
type UMAP struct {
	params UMAPParams
}

// NewUMAP creates a UMAP reducer with default parameters.
func NewUMAP() *UMAP {
	return &UMAP{params: DefaultUMAPParams()}
}

// NewUMAPWithParams creates a UMAP reducer with custom parameters. Zero
// numeric fields fall back to their defaults.
func NewUMAPWithParams(params UMAPParams) *UMAP {
	defaults := DefaultUMAPParams()
	if params.OutputDims <= 0 {
		params.OutputDims = defaults.OutputDims
	}
	if params.NumNeighbors <= 0 {
		params.NumNeighbors = defaults.NumNeighbors
	}
	if params.Epochs <= 0 {
		params.Epochs = defaults.Epochs
	}
	if params.LearningRate <= 0 {
		params.LearningRate = defaults.LearningRate
	}
	return &UMAP{params: params}
}

// edge is one weighted link of the fuzzy neighbor graph.
type edge struct {
	from, to int
	weight   float64
}

// Reduce builds the fuzzy neighbor graph and optimizes the layout.
func (u *UMAP) Reduce(data [][]float64) (*UMAPResult, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	if n < 3 {
		return nil, errors.Wrap(kernel.ErrEmptyDataset, "UMAP needs at least 3 observations")
	}
	k := u.params.NumNeighbors
	if k >= n {
		k = n - 1
	}
	outDims := u.params.OutputDims

	indices, dists := nearestNeighbors(data, k)
	edges := fuzzyGraph(indices, dists, n, k)

	rng := rand.New(rand.NewSource(u.params.RandomSeed))
	y := make([][]float64, n)
	for i := range y {
		y[i] = make([]float64, outDims)
		for j := 0; j < outDims; j++ {
			y[i][j] = rng.Float64()*20 - 10
		}
	}

	maxWeight := 0.0
	for _, e := range edges {
		if e.weight > maxWeight {
			maxWeight = e.weight
		}
	}

	for epoch := 0; epoch < u.params.Epochs; epoch++ {
		alpha := u.params.LearningRate * (1 - float64(epoch)/float64(u.params.Epochs))
		for _, e := range edges {
			// Sample edges proportionally to their membership strength.
			if maxWeight > 0 && rng.Float64() > e.weight/maxWeight {
				continue
			}

			attract(y[e.from], y[e.to], alpha)
			for s := 0; s < umapNegativeSamples; s++ {
				other := rng.Intn(n)
				if other == e.from {
					continue
				}
				repulse(y[e.from], y[other], alpha)
			}
		}
	}

	return &UMAPResult{Embedding: y, Epochs: u.params.Epochs}, nil
}

// attract moves a toward b along the gradient of the membership curve.
func attract(a, b []float64, alpha float64) {
	sq := kernel.SquaredEuclidean(a, b)
	if sq <= 0 {
		return
	}
	coeff := -2 * umapCurveA * umapCurveB * math.Pow(sq, umapCurveB-1) /
		(1 + umapCurveA*math.Pow(sq, umapCurveB))
	for j := range a {
		grad := clip(coeff * (a[j] - b[j]))
		a[j] += alpha * grad
		b[j] -= alpha * grad
	}
}

// repulse pushes a away from the negative sample b.
func repulse(a, b []float64, alpha float64) {
	sq := kernel.SquaredEuclidean(a, b)
	coeff := 2 * umapCurveB / ((0.001 + sq) * (1 + umapCurveA*math.Pow(sq, umapCurveB)))
	for j := range a {
		grad := umapClipGradient
		if sq > 0 {
			grad = clip(coeff * (a[j] - b[j]))
		}
		a[j] += alpha * grad
	}
}

func clip(v float64) float64 {
	if v > umapClipGradient {
		return umapClipGradient
	}
	if v < -umapClipGradient {
		return -umapClipGradient
	}
	return v
}

// nearestNeighbors finds each point's k nearest other points by brute force.
func nearestNeighbors(data [][]float64, k int) (indices [][]int, dists [][]float64) {
	n := len(data)
	indices = make([][]int, n)
	dists = make([][]float64, n)

	type candidate struct {
		index int
		dist  float64
	}
	candidates := make([]candidate, 0, n-1)

	for i := 0; i < n; i++ {
		candidates = candidates[:0]
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			candidates = append(candidates, candidate{index: j, dist: kernel.Euclidean(data[i], data[j])})
		}
		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].dist != candidates[b].dist {
				return candidates[a].dist < candidates[b].dist
			}
			return candidates[a].index < candidates[b].index
		})

		indices[i] = make([]int, k)
		dists[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			indices[i][j] = candidates[j].index
			dists[i][j] = candidates[j].dist
		}
	}
	return indices, dists
}

// fuzzyGraph converts kNN distances into a symmetrized fuzzy membership
// graph: per-point bandwidths are calibrated so each point's total
// membership mass is log2(k), then directed memberships are combined with
// the probabilistic t-conorm w + w' - w*w'.
func fuzzyGraph(indices [][]int, dists [][]float64, n, k int) []edge {
	target := math.Log2(float64(k))

	directed := make([]map[int]float64, n)
	for i := 0; i < n; i++ {
		directed[i] = make(map[int]float64, k)

		rho := dists[i][0]
		sigma := smoothBandwidth(dists[i], rho, target)
		for j := 0; j < k; j++ {
			d := dists[i][j] - rho
			if d < 0 {
				d = 0
			}
			weight := 1.0
			if sigma > 0 {
				weight = math.Exp(-d / sigma)
			}
			directed[i][indices[i][j]] = weight
		}
	}

	var edges []edge
	for i := 0; i < n; i++ {
		for j, w := range directed[i] {
			if j < i {
				// Already combined from the lower index, unless the link
				// exists in this direction only.
				if _, ok := directed[j][i]; ok {
					continue
				}
				edges = append(edges, edge{from: j, to: i, weight: w})
				continue
			}
			// t-conorm union; a zero back-weight leaves w unchanged.
			wBack := directed[j][i]
			combined := w + wBack - w*wBack
			if combined > 0 {
				edges = append(edges, edge{from: i, to: j, weight: combined})
			}
		}
	}
	// Map iteration order is random; keep the edge list deterministic.
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].from != edges[b].from {
			return edges[a].from < edges[b].from
		}
		return edges[a].to < edges[b].to
	})
	return edges
}

// smoothBandwidth bisects the per-point bandwidth so that the smoothed
// neighbor memberships sum to the target mass.
func smoothBandwidth(dists []float64, rho, target float64) float64 {
	lo, hi := 0.0, math.Inf(1)
	sigma := 1.0
	for iter := 0; iter < 64; iter++ {
		sum := 0.0
		for _, d := range dists {
			adj := d - rho
			if adj < 0 {
				adj = 0
			}
			sum += math.Exp(-adj / sigma)
		}
		if math.Abs(sum-target) < 1e-5 {
			break
		}
		if sum > target {
			hi = sigma
			sigma = (lo + hi) / 2
		} else {
			lo = sigma
			if math.IsInf(hi, 1) {
				sigma *= 2
			} else {
				sigma = (lo + hi) / 2
			}
		}
	}
	return sigma
}
