// Package spectral implements spectral clustering: a Gaussian similarity
// graph, its symmetric normalized Laplacian, and K-Means over the rows of
// the Laplacian's bottom eigenvectors.
package spectral

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/partition"
)

// Params configures a spectral clustering run.
type Params struct {
	K          int     `json:"k"`           // Number of clusters, 1 <= K <= n
	Sigma      float64 `json:"sigma"`       // Gaussian kernel width, > 0
	RandomSeed int64   `json:"random_seed"` // Seed forwarded to the embedded K-Means
}

// DefaultParams returns the defaults used across the system.
func DefaultParams() Params {
	return Params{K: 2, Sigma: 1.0, RandomSeed: 42}
}

// Result contains labels plus the spectral embedding they were computed on.
type Result struct {
	Labels      []int       `json:"labels"`
	Embedding   [][]float64 `json:"embedding"`   // Row-normalized eigenvector rows, n x K
	Eigenvalues []float64   `json:"eigenvalues"` // K smallest Laplacian eigenvalues
	NumClusters int         `json:"num_clusters"`
}

// Spectral clusters via the normalized graph Laplacian. Pairwise similarity
// is exp(-d^2 / (2*sigma^2)); the K eigenvectors belonging to the smallest
// eigenvalues of L = I - D^{-1/2} W D^{-1/2} form an embedding whose
// row-normalized rows are clustered with K-Means. The eigendecomposition is
// always performed; there is no shortcut path that clusters the raw data.
//
// Reference: Ng, A., Jordan, M., & Weiss, Y. (2001). "On spectral
// clustering: Analysis and an algorithm"
type Spectral struct {
	params Params
}

// NewSpectral creates a spectral clusterer with default parameters.
func NewSpectral() *Spectral {
	return &Spectral{params: DefaultParams()}
}

// NewSpectralWithParams creates a spectral clusterer with custom parameters.
func NewSpectralWithParams(params Params) *Spectral {
	return &Spectral{params: params}
}

// Fit builds the similarity graph, decomposes its Laplacian, and clusters
// the embedding.
func (s *Spectral) Fit(data [][]float64) (*Result, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	k := s.params.K
	if k < 1 || k > n {
		return nil, errors.Wrapf(kernel.ErrInvalidK, "k=%d with %d observations", k, n)
	}
	if s.params.Sigma <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter, "sigma=%g, must be > 0", s.params.Sigma)
	}

	laplacian, err := s.normalizedLaplacian(data, n)
	if err != nil {
		return nil, err
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(laplacian, true); !ok {
		return nil, errors.New("laplacian eigendecomposition failed")
	}
	eigenvalues := eig.Values(nil) // ascending order
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Embedding: rows of the K bottom eigenvectors, normalized to unit
	// length so K-Means sees points on the sphere.
	embedding := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, k)
		norm := 0.0
		for j := 0; j < k; j++ {
			row[j] = vectors.At(i, j)
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := 0; j < k; j++ {
				row[j] /= norm
			}
		}
		embedding[i] = row
	}

	km := partition.NewKMeansWithParams(partition.Params{
		K:          k,
		RandomSeed: s.params.RandomSeed,
	})
	kmResult, err := km.Fit(embedding)
	if err != nil {
		return nil, errors.Wrap(err, "clustering spectral embedding")
	}

	return &Result{
		Labels:      kmResult.Labels,
		Embedding:   embedding,
		Eigenvalues: eigenvalues[:k],
		NumClusters: k,
	}, nil
}

// normalizedLaplacian builds L = I - D^{-1/2} W D^{-1/2} for the Gaussian
// similarity graph. An isolated vertex (zero degree) contributes an identity
// row, never a division by zero.
func (s *Spectral) normalizedLaplacian(data [][]float64, n int) (*mat.SymDense, error) {
	twoSigmaSq := 2 * s.params.Sigma * s.params.Sigma

	similarity := make([][]float64, n)
	degree := make([]float64, n)
	for i := 0; i < n; i++ {
		similarity[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := math.Exp(-kernel.SquaredEuclidean(data[i], data[j]) / twoSigmaSq)
			similarity[i][j] = w
			similarity[j][i] = w
			degree[i] += w
			degree[j] += w
		}
	}

	invSqrtDegree := make([]float64, n)
	for i, deg := range degree {
		if deg > 0 {
			invSqrtDegree[i] = 1 / math.Sqrt(deg)
		}
	}

	laplacian := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		laplacian.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			laplacian.SetSym(i, j, -similarity[i][j]*invSqrtDegree[i]*invSqrtDegree[j])
		}
	}
	return laplacian, nil
}
