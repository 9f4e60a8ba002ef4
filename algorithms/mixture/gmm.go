// Package mixture implements probabilistic clustering with a
// diagonal-covariance Gaussian mixture fitted by expectation-maximization.
package mixture

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// Params configures a Gaussian mixture fit.
type Params struct {
	K             int     `json:"k"`              // Number of components, 1 <= K <= n
	MaxIterations int     `json:"max_iterations"` // EM iteration cap
	Tolerance     float64 `json:"tolerance"`      // Log-likelihood-delta convergence threshold
	RandomSeed    int64   `json:"random_seed"`    // Seed for mean initialization
}

// DefaultParams returns the defaults used across the system.
func DefaultParams() Params {
	return Params{K: 3, MaxIterations: 100, Tolerance: 1e-6, RandomSeed: 42}
}

// Result contains the fitted mixture and the derived hard assignment.
//
// Labels are the arg-max responsibility component per point: a lossy
// simplification of the soft model. The full posterior is preserved in
// Responsibilities for callers that need it.
type Result struct {
	Labels            []int       `json:"labels"`
	Means             [][]float64 `json:"means"`
	VarianceDiagonals [][]float64 `json:"variance_diagonals"`
	Weights           []float64   `json:"weights"`
	Responsibilities  [][]float64 `json:"responsibilities"`
	LogLikelihood     float64     `json:"log_likelihood"`
	Iterations        int         `json:"iterations"`
	Converged         bool        `json:"converged"`
}

// GMM fits K diagonal-covariance Gaussian components by EM.
//
// Reference: Bishop, C. M. (2006). "Pattern Recognition and Machine
// Learning", ch. 9
type GMM struct {
	params Params
}

// NewGMM creates a mixture clusterer with default parameters.
func NewGMM() *GMM {
	return &GMM{params: DefaultParams()}
}

// NewGMMWithParams creates a mixture clusterer with custom parameters. Zero
// MaxIterations/Tolerance fall back to their defaults.
func NewGMMWithParams(params Params) *GMM {
	if params.MaxIterations <= 0 {
		params.MaxIterations = 100
	}
	if params.Tolerance <= 0 {
		params.Tolerance = 1e-6
	}
	return &GMM{params: params}
}

// Fit runs EM to convergence or MaxIterations. Each call reseeds its own RNG
// from Params.RandomSeed.
func (g *GMM) Fit(data [][]float64) (*Result, error) {
	n, d, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	k := g.params.K
	if k < 1 || k > n {
		return nil, errors.Wrapf(kernel.ErrInvalidK, "k=%d with %d observations", k, n)
	}

	rng := rand.New(rand.NewSource(g.params.RandomSeed))

	// Means sampled from the data without replacement, uniform weights,
	// unit variance diagonals.
	means := make([][]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		means[i] = make([]float64, d)
		copy(means[i], data[idx])
	}
	variances := make([][]float64, k)
	weights := make([]float64, k)
	for j := 0; j < k; j++ {
		variances[j] = make([]float64, d)
		for l := 0; l < d; l++ {
			variances[j][l] = 1.0
		}
		weights[j] = 1.0 / float64(k)
	}

	resp := make([][]float64, n)
	for i := range resp {
		resp[i] = make([]float64, k)
	}

	logLikelihood := math.Inf(-1)
	converged := false
	iterations := 0

	for iterations < g.params.MaxIterations {
		// E-step: normalized responsibility of each component per point.
		newLogLikelihood := 0.0
		for i := 0; i < n; i++ {
			total := 0.0
			for j := 0; j < k; j++ {
				resp[i][j] = weights[j] * kernel.GaussianDensity(data[i], means[j], variances[j])
				total += resp[i][j]
			}
			if total > 0 {
				for j := 0; j < k; j++ {
					resp[i][j] /= total
				}
				newLogLikelihood += math.Log(total)
			}
		}

		// M-step. A component with zero total responsibility keeps its
		// previous parameters, the same guard K-Means applies to empty
		// clusters.
		for j := 0; j < k; j++ {
			nj := 0.0
			for i := 0; i < n; i++ {
				nj += resp[i][j]
			}
			if nj <= 0 {
				continue
			}

			for l := 0; l < d; l++ {
				sum := 0.0
				for i := 0; i < n; i++ {
					sum += resp[i][j] * data[i][l]
				}
				means[j][l] = sum / nj
			}
			for l := 0; l < d; l++ {
				sum := 0.0
				for i := 0; i < n; i++ {
					diff := data[i][l] - means[j][l]
					sum += resp[i][j] * diff * diff
				}
				variances[j][l] = sum / nj
			}
			weights[j] = nj / float64(n)
		}

		iterations++

		if math.Abs(newLogLikelihood-logLikelihood) < g.params.Tolerance {
			logLikelihood = newLogLikelihood
			converged = true
			break
		}
		logLikelihood = newLogLikelihood
	}

	labels := make([]int, n)
	for i := 0; i < n; i++ {
		best := 0
		for j := 1; j < k; j++ {
			if resp[i][j] > resp[i][best] {
				best = j
			}
		}
		labels[i] = best
	}

	return &Result{
		Labels:            labels,
		Means:             means,
		VarianceDiagonals: variances,
		Weights:           weights,
		Responsibilities:  resp,
		LogLikelihood:     logLikelihood,
		Iterations:        iterations,
		Converged:         converged,
	}, nil
}
