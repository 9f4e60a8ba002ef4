package reduction

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// TSNEParams configures a t-SNE embedding.
type TSNEParams struct {
	OutputDims    int     `json:"output_dims"`    // Target dimensionality, usually 2
	Perplexity    float64 `json:"perplexity"`     // Effective neighbor count, > 0
	MaxIterations int     `json:"max_iterations"` // Gradient descent steps
	LearningRate  float64 `json:"learning_rate"`  // Gradient step scale
	RandomSeed    int64   `json:"random_seed"`    // Seed for the initial layout
}

// DefaultTSNEParams returns the defaults used across the system.
func DefaultTSNEParams() TSNEParams {
	return TSNEParams{
		OutputDims:    2,
		Perplexity:    30,
		MaxIterations: 500,
		LearningRate:  200,
		RandomSeed:    42,
	}
}

// TSNEResult contains the low-dimensional embedding.
type TSNEResult struct {
	Embedding  [][]float64 `json:"embedding"`  // n x OutputDims coordinates
	Iterations int         `json:"iterations"` // Gradient steps performed
}

// TSNE embeds high-dimensional data by minimizing the KL divergence between
// perplexity-calibrated neighbor affinities and Student-t similarities in
// the low-dimensional layout. Every iteration touches all point pairs, so
// the cost is O(n^2) per step; beyond a few thousand points this method is
// the wrong tool. Runs are reproducible only through RandomSeed: the initial
// layout is stochastic.
//
// Reference: van der Maaten, L., & Hinton, G. (2008). "Visualizing data
// using t-SNE"
type TSNE struct {
	params TSNEParams
}

// Gradient-descent schedule, the values from the original paper.
const (
	tsneEarlyExaggeration     = 12.0
	tsneEarlyExaggerationStop = 100
	tsneInitialMomentum       = 0.5
	tsneFinalMomentum         = 0.8
	tsneMomentumSwitch        = 250
	tsneMinProbability        = 1e-12
)

// NewTSNE creates a t-SNE reducer with default parameters.
func NewTSNE() *TSNE {
	return &TSNE{params: DefaultTSNEParams()}
}

// NewTSNEWithParams creates a t-SNE reducer with custom parameters. Zero
// numeric fields fall back to their defaults.
func NewTSNEWithParams(params TSNEParams) *TSNE {
	defaults := DefaultTSNEParams()
	if params.OutputDims <= 0 {
		params.OutputDims = defaults.OutputDims
	}
	if params.Perplexity <= 0 {
		params.Perplexity = defaults.Perplexity
	}
	if params.MaxIterations <= 0 {
		params.MaxIterations = defaults.MaxIterations
	}
	if params.LearningRate <= 0 {
		params.LearningRate = defaults.LearningRate
	}
	return &TSNE{params: params}
}

// Reduce runs the full pipeline: affinity calibration, symmetrization, and
// momentum gradient descent.
func (t *TSNE) Reduce(data [][]float64) (*TSNEResult, error) {
	n, _, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, errors.Wrap(kernel.ErrEmptyDataset, "t-SNE needs at least 2 observations")
	}
	outDims := t.params.OutputDims

	// Perplexity cannot exceed the available neighbor count.
	perplexity := math.Min(t.params.Perplexity, float64(n-1)/3)
	if perplexity < 1 {
		perplexity = 1
	}

	p := jointProbabilities(data, perplexity)

	rng := rand.New(rand.NewSource(t.params.RandomSeed))
	y := make([][]float64, n)
	for i := range y {
		y[i] = make([]float64, outDims)
		for j := 0; j < outDims; j++ {
			y[i][j] = rng.NormFloat64() * 1e-2
		}
	}
	velocity := make([][]float64, n)
	gradient := make([][]float64, n)
	for i := 0; i < n; i++ {
		velocity[i] = make([]float64, outDims)
		gradient[i] = make([]float64, outDims)
	}

	q := make([][]float64, n)
	for i := range q {
		q[i] = make([]float64, n)
	}

	iterations := 0
	for iter := 0; iter < t.params.MaxIterations; iter++ {
		exaggeration := 1.0
		if iter < tsneEarlyExaggerationStop {
			exaggeration = tsneEarlyExaggeration
		}
		momentum := tsneInitialMomentum
		if iter >= tsneMomentumSwitch {
			momentum = tsneFinalMomentum
		}

		// Student-t similarities in the layout.
		qTotal := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				w := 1 / (1 + kernel.SquaredEuclidean(y[i], y[j]))
				q[i][j] = w
				q[j][i] = w
				qTotal += 2 * w
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < outDims; j++ {
				gradient[i][j] = 0
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				qij := math.Max(q[i][j]/qTotal, tsneMinProbability)
				mult := 4 * (exaggeration*p[i][j] - qij) * q[i][j]
				for l := 0; l < outDims; l++ {
					gradient[i][l] += mult * (y[i][l] - y[j][l])
				}
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < outDims; j++ {
				velocity[i][j] = momentum*velocity[i][j] - t.params.LearningRate*gradient[i][j]
				y[i][j] += velocity[i][j]
			}
		}
		iterations++
	}

	return &TSNEResult{Embedding: y, Iterations: iterations}, nil
}

// jointProbabilities calibrates a per-point Gaussian bandwidth so each row's
// conditional distribution hits the requested perplexity, then symmetrizes
// and normalizes into joint probabilities.
func jointProbabilities(data [][]float64, perplexity float64) [][]float64 {
	n := len(data)
	targetEntropy := math.Log(perplexity)

	sqDist := make([][]float64, n)
	for i := 0; i < n; i++ {
		sqDist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := kernel.SquaredEuclidean(data[i], data[j])
			sqDist[i][j] = d
			sqDist[j][i] = d
		}
	}

	conditional := make([][]float64, n)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		conditional[i] = make([]float64, n)

		// Bisection over beta = 1/(2*sigma^2) to match the target entropy.
		beta := 1.0
		betaMin := math.Inf(-1)
		betaMax := math.Inf(1)
		for try := 0; try < 50; try++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				row[j] = math.Exp(-sqDist[i][j] * beta)
				sum += row[j]
			}
			entropy := 0.0
			if sum > 0 {
				for j := 0; j < n; j++ {
					if row[j] > 0 {
						pj := row[j] / sum
						entropy -= pj * math.Log(pj)
					}
				}
			}

			diff := entropy - targetEntropy
			if math.Abs(diff) < 1e-5 {
				break
			}
			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}

		// Final conditional row for the calibrated beta.
		sum := 0.0
		for j := 0; j < n; j++ {
			if j == i {
				conditional[i][j] = 0
				continue
			}
			conditional[i][j] = math.Exp(-sqDist[i][j] * beta)
			sum += conditional[i][j]
		}
		if sum > 0 {
			for j := 0; j < n; j++ {
				conditional[i][j] /= sum
			}
		}
	}

	joint := make([][]float64, n)
	for i := 0; i < n; i++ {
		joint[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := (conditional[i][j] + conditional[j][i]) / (2 * float64(n))
			p = math.Max(p, tsneMinProbability)
			joint[i][j] = p
			joint[j][i] = p
		}
	}
	return joint
}
