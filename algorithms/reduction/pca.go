// Package reduction implements dimensionality reduction for visualization:
// exact PCA, t-SNE, a lightweight UMAP variant, and a policy that picks a
// technique from the data's shape. Reduction is independent of clustering;
// an embedding never influences labels.
package reduction

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// PCAParams configures a PCA projection.
type PCAParams struct {
	OutputDims int `json:"output_dims"` // Target dimensionality, 1 <= OutputDims <= d
}

// DefaultPCAParams returns the defaults used across the system.
func DefaultPCAParams() PCAParams {
	return PCAParams{OutputDims: 2}
}

// PCAResult contains the projected coordinates and variance bookkeeping.
type PCAResult struct {
	Embedding          [][]float64 `json:"embedding"`           // n x OutputDims scores
	ExplainedVariance  []float64   `json:"explained_variance"`  // Per-component variance ratio
	CumulativeVariance []float64   `json:"cumulative_variance"` // Running sum of the ratios
	ColumnMeans        []float64   `json:"column_means"`        // Centering offsets
	Components         [][]float64 `json:"components"`          // d x OutputDims projection basis
}

// PCA projects the data onto its principal components. The data is centered
// (not scaled) before decomposition, and the result is fully deterministic.
type PCA struct {
	params PCAParams
}

// NewPCA creates a PCA reducer with default parameters.
func NewPCA() *PCA {
	return &PCA{params: DefaultPCAParams()}
}

// NewPCAWithParams creates a PCA reducer with custom parameters. Zero
// OutputDims falls back to the default.
func NewPCAWithParams(params PCAParams) *PCA {
	if params.OutputDims <= 0 {
		params.OutputDims = DefaultPCAParams().OutputDims
	}
	return &PCA{params: params}
}

// Reduce computes the principal components via gonum and projects the
// centered data onto the leading OutputDims of them.
func (p *PCA) Reduce(data [][]float64) (*PCAResult, error) {
	n, d, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	outDims := p.params.OutputDims
	if outDims < 1 || outDims > d {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter,
			"output_dims=%d with %d features", outDims, d)
	}
	if outDims > n {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter,
			"output_dims=%d exceeds %d observations", outDims, n)
	}

	flat := make([]float64, n*d)
	for i, row := range data {
		copy(flat[i*d:(i+1)*d], row)
	}
	matrix := mat.NewDense(n, d, flat)

	var pc stat.PC
	if ok := pc.PrincipalComponents(matrix, nil); !ok {
		return nil, errors.New("principal component decomposition failed")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	variances := pc.VarsTo(nil)

	totalVariance := 0.0
	for _, v := range variances {
		totalVariance += v
	}
	explained := make([]float64, outDims)
	cumulative := make([]float64, outDims)
	running := 0.0
	for j := 0; j < outDims; j++ {
		if totalVariance > 0 {
			explained[j] = variances[j] / totalVariance
		}
		running += explained[j]
		cumulative[j] = running
	}

	means := kernel.ColumnMean(data)
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, data[i][j]-means[j])
		}
	}

	basis := vectors.Slice(0, d, 0, outDims)
	var projected mat.Dense
	projected.Mul(centered, basis)

	embedding := make([][]float64, n)
	for i := 0; i < n; i++ {
		embedding[i] = make([]float64, outDims)
		for j := 0; j < outDims; j++ {
			embedding[i][j] = projected.At(i, j)
		}
	}
	components := make([][]float64, d)
	for i := 0; i < d; i++ {
		components[i] = make([]float64, outDims)
		for j := 0; j < outDims; j++ {
			components[i][j] = vectors.At(i, j)
		}
	}

	return &PCAResult{
		Embedding:          embedding,
		ExplainedVariance:  explained,
		CumulativeVariance: cumulative,
		ColumnMeans:        means,
		Components:         components,
	}, nil
}

// Reconstruct maps the embedding back to the original feature space by
// reversing the projection and re-adding the column means. With OutputDims
// equal to the original dimensionality this recovers the input up to
// floating-point error.
func (r *PCAResult) Reconstruct() [][]float64 {
	n := len(r.Embedding)
	d := len(r.Components)
	outDims := len(r.ExplainedVariance)

	reconstructed := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		for j := 0; j < d; j++ {
			sum := 0.0
			for l := 0; l < outDims; l++ {
				sum += r.Embedding[i][l] * r.Components[j][l]
			}
			row[j] = sum + r.ColumnMeans[j]
		}
		reconstructed[i] = row
	}
	return reconstructed
}
