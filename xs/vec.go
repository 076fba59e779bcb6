// SPDX-License-Identifier: MIT

package xs

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// cloneVec copies v; nil stays nil.
func cloneVec(v []float64) []float64 {
	if v == nil {
		return nil
	}

	return append([]float64(nil), v...)
}

// cloneRows deep-copies a dense [][]float64; nil stays nil.
func cloneRows(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = cloneVec(m[i])
	}

	return out
}

// zeroMatrix allocates an n×n zero matrix.
func zeroMatrix(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}

	return out
}

// anyPositive reports whether some entry of v is > 0.
func anyPositive(v []float64) bool {
	for _, x := range v {
		if x > 0 {
			return true
		}
	}

	return false
}

// allZero reports whether every entry of v is exactly zero.
func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}

	return true
}

// anyPositiveRows reports whether some entry of m is > 0.
func anyPositiveRows(m [][]float64) bool {
	for _, row := range m {
		if anyPositive(row) {
			return true
		}
	}

	return false
}

// finite reports whether x is neither NaN nor ±Inf.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// normalizeSpectrum returns a copy of v scaled to sum to 1.
// Negative entries and the absence of any positive entry are logic errors.
func normalizeSpectrum(op, field string, index int, v []float64) ([]float64, error) {
	for g, x := range v {
		if x < 0 || !finite(x) {
			return nil, logicErrorf(op, field, index, "entry %d is %g, must be a finite value >= 0", g, x)
		}
	}
	sum := floats.Sum(v)
	if !(sum > 0) {
		return nil, logicErrorf(op, field, index, "no strictly positive entry to normalize")
	}
	out := cloneVec(v)
	floats.Scale(1/sum, out)

	return out, nil
}
