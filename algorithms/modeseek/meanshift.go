// Package modeseek implements Mean Shift clustering: kernel-density gradient
// ascent from every observation to a density mode, followed by mode merging.
// The final cluster count emerges from the data rather than from the caller.
package modeseek

import (
	"github.com/pkg/errors"

	"github.com/HabibKhulafaPanjiLangit/UL/algorithms/kernel"
)

// shiftConvergence is the per-center movement below which a shift center is
// considered settled.
const shiftConvergence = 1e-6

// Params configures a Mean Shift run.
type Params struct {
	Bandwidth     float64 `json:"bandwidth"`      // Flat-kernel radius, > 0
	MaxIterations int     `json:"max_iterations"` // Per-center iteration cap
}

// DefaultParams returns the defaults used across the system.
func DefaultParams() Params {
	return Params{Bandwidth: 1.0, MaxIterations: 100}
}

// Result contains the output of a Mean Shift fit.
type Result struct {
	Labels      []int       `json:"labels"`       // Nearest final mode per observation
	Modes       [][]float64 `json:"modes"`        // Merged density modes
	NumClusters int         `json:"num_clusters"` // len(Modes)
	Iterations  int         `json:"iterations"`   // Max iterations any center needed
}

// MeanShift seeds one shift center on every observation and moves each to
// the mean of the data points within Bandwidth of it (flat kernel) until the
// movement drops below 1e-6 or MaxIterations is reached. Centers that settle
// within Bandwidth/2 of each other are averaged into a single mode.
//
// Reference: Comaniciu, D., & Meer, P. (2002). "Mean shift: A robust
// approach toward feature space analysis"
type MeanShift struct {
	params Params
}

// NewMeanShift creates a Mean Shift clusterer with default parameters.
func NewMeanShift() *MeanShift {
	return &MeanShift{params: DefaultParams()}
}

// NewMeanShiftWithParams creates a Mean Shift clusterer with custom
// parameters. Zero MaxIterations falls back to the default.
func NewMeanShiftWithParams(params Params) *MeanShift {
	if params.MaxIterations <= 0 {
		params.MaxIterations = 100
	}
	return &MeanShift{params: params}
}

// Fit runs the shift and merge phases.
func (ms *MeanShift) Fit(data [][]float64) (*Result, error) {
	n, d, err := kernel.ValidateMatrix(data)
	if err != nil {
		return nil, err
	}
	if ms.params.Bandwidth <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidParameter,
			"bandwidth=%g, must be > 0", ms.params.Bandwidth)
	}

	centers := make([][]float64, n)
	for i, point := range data {
		centers[i] = make([]float64, d)
		copy(centers[i], point)
	}

	maxIterations := 0
	shifted := make([]float64, d)
	for i := range centers {
		for iter := 0; iter < ms.params.MaxIterations; iter++ {
			count := 0
			for j := range shifted {
				shifted[j] = 0
			}
			for _, point := range data {
				if kernel.Euclidean(centers[i], point) <= ms.params.Bandwidth {
					count++
					for j := range point {
						shifted[j] += point[j]
					}
				}
			}
			if count == 0 {
				// No neighbors in reach; the center stays fixed.
				if iter+1 > maxIterations {
					maxIterations = iter + 1
				}
				break
			}
			for j := range shifted {
				shifted[j] /= float64(count)
			}

			movement := kernel.Euclidean(centers[i], shifted)
			copy(centers[i], shifted)
			if iter+1 > maxIterations {
				maxIterations = iter + 1
			}
			if movement < shiftConvergence {
				break
			}
		}
	}

	modes := mergeCenters(centers, ms.params.Bandwidth/2)

	labels := make([]int, n)
	for i, point := range data {
		best := 0
		bestDist := kernel.SquaredEuclidean(point, modes[0])
		for j := 1; j < len(modes); j++ {
			dist := kernel.SquaredEuclidean(point, modes[j])
			if dist < bestDist {
				bestDist = dist
				best = j
			}
		}
		labels[i] = best
	}

	return &Result{
		Labels:      labels,
		Modes:       modes,
		NumClusters: len(modes),
		Iterations:  maxIterations,
	}, nil
}

// mergeCenters collapses converged centers that lie within radius of an
// existing mode into that mode's group, averaging each group. Groups are
// seeded in input order, so the mode numbering is deterministic.
func mergeCenters(centers [][]float64, radius float64) [][]float64 {
	d := len(centers[0])
	var modes [][]float64
	var counts []int

	for _, center := range centers {
		assigned := -1
		for m, mode := range modes {
			if kernel.Euclidean(center, mode) <= radius {
				assigned = m
				break
			}
		}
		if assigned < 0 {
			mode := make([]float64, d)
			copy(mode, center)
			modes = append(modes, mode)
			counts = append(counts, 1)
			continue
		}
		// Running average keeps the group mode at the group mean.
		c := float64(counts[assigned])
		for j := 0; j < d; j++ {
			modes[assigned][j] = (modes[assigned][j]*c + center[j]) / (c + 1)
		}
		counts[assigned]++
	}

	return modes
}
