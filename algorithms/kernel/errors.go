package kernel

import "errors"

// Error kinds shared by every algorithm package. Callers match them with
// errors.Is; call sites attach context via github.com/pkg/errors wrapping.
var (
	// ErrInvalidParameter reports an algorithm parameter outside its valid
	// domain (eps <= 0, bandwidth <= 0, sigma <= 0, ...).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidK reports a requested cluster count outside [1, n].
	ErrInvalidK = errors.New("invalid cluster count")

	// ErrDimensionMismatch reports vectors of unequal length passed to a
	// kernel function, or a ragged input matrix.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyDataset reports a zero-row input where at least one row is
	// required.
	ErrEmptyDataset = errors.New("empty dataset")
)
