// Package kernel provides the scalar numeric primitives shared by every
// clustering, evaluation, and reduction algorithm: Euclidean distances,
// vector means, per-dimension variance, and the diagonal-covariance Gaussian
// density. All functions are pure and safe for concurrent use.
package kernel

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ValidateMatrix checks that data is a non-empty rectangular matrix and
// returns its row and column counts. Every algorithm calls this before its
// first iteration so that shape problems surface immediately.
func ValidateMatrix(data [][]float64) (n, d int, err error) {
	n = len(data)
	if n == 0 {
		return 0, 0, errors.Wrap(ErrEmptyDataset, "observation matrix has no rows")
	}
	d = len(data[0])
	for i, row := range data {
		if len(row) != d {
			return 0, 0, errors.Wrapf(ErrDimensionMismatch,
				"row %d has %d columns, expected %d", i, len(row), d)
		}
	}
	return n, d, nil
}

// Distance computes the Euclidean distance between two vectors.
func Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Wrapf(ErrDimensionMismatch, "len(a)=%d len(b)=%d", len(a), len(b))
	}
	return Euclidean(a, b), nil
}

// SquaredDistance computes the squared Euclidean distance between two vectors.
func SquaredDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Wrapf(ErrDimensionMismatch, "len(a)=%d len(b)=%d", len(a), len(b))
	}
	return SquaredEuclidean(a, b), nil
}

// Euclidean is the unchecked Euclidean distance used in inner loops after the
// input matrix has been validated once up front.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredEuclidean is the unchecked squared Euclidean distance.
func SquaredEuclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// Mean computes the element-wise arithmetic mean of a set of equal-length
// vectors.
func Mean(vectors [][]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, errors.Wrap(ErrEmptyDataset, "mean of zero vectors")
	}
	d := len(vectors[0])
	mean := make([]float64, d)
	for i, v := range vectors {
		if len(v) != d {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"vector %d has length %d, expected %d", i, len(v), d)
		}
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(len(vectors)), mean)
	return mean, nil
}

// ColumnMean computes the per-column mean of a validated matrix using gonum.
func ColumnMean(data [][]float64) []float64 {
	d := len(data[0])
	col := make([]float64, len(data))
	mean := make([]float64, d)
	for j := 0; j < d; j++ {
		for i, row := range data {
			col[i] = row[j]
		}
		mean[j] = stat.Mean(col, nil)
	}
	return mean
}

// VarianceDiagonal computes the population variance of each dimension around
// the supplied mean. It is the diagonal of the covariance matrix and feeds
// the diagonal-covariance Gaussian density.
func VarianceDiagonal(vectors [][]float64, mean []float64) []float64 {
	variance := make([]float64, len(mean))
	if len(vectors) == 0 {
		return variance
	}
	for _, v := range vectors {
		for j := range mean {
			diff := v[j] - mean[j]
			variance[j] += diff * diff
		}
	}
	for j := range variance {
		variance[j] /= float64(len(vectors))
	}
	return variance
}

// GaussianDensity evaluates a diagonal-covariance multivariate normal density
// at x. Variance entries <= 0 are floored to 1 so a degenerate zero-variance
// dimension never divides by zero.
func GaussianDensity(x, mean, varianceDiagonal []float64) float64 {
	d := len(x)
	logDet := 0.0
	quadratic := 0.0
	for i := 0; i < d; i++ {
		v := varianceDiagonal[i]
		if v <= 0 {
			v = 1
		}
		diff := x[i] - mean[i]
		quadratic += diff * diff / v
		logDet += math.Log(v)
	}
	logNorm := -0.5 * (float64(d)*math.Log(2*math.Pi) + logDet)
	return math.Exp(logNorm - 0.5*quadratic)
}

// DistanceMatrix computes the symmetric pairwise Euclidean distance matrix of
// a validated observation matrix. Only the upper triangle is computed; the
// lower triangle is mirrored.
func DistanceMatrix(data [][]float64) [][]float64 {
	n := len(data)
	matrix := make([][]float64, n)
	for i := 0; i < n; i++ {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := Euclidean(data[i], data[j])
			matrix[i][j] = dist
			matrix[j][i] = dist
		}
	}
	return matrix
}
