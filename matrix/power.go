// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PowerResult is the outcome of PowerIteration.
type PowerResult struct {
	Value      float64   // dominant eigenvalue estimate (Rayleigh quotient)
	Vector     []float64 // unit 2-norm eigenvector estimate, sign-fixed to a non-negative sum
	Iterations int       // iterations performed
	Change     float64   // |Δλ| of the last iteration
	Converged  bool      // relative change fell below the tolerance
}

// PowerIteration estimates the dominant eigenpair of a square operator.
//
// Implementation:
//   - Stage 1: y = x0 (all ones when x0 is nil), normalized.
//   - Stage 2: repeat Ay = A·y; λ = y·Ay; y = Ay/‖Ay‖₂; flip sign when λ < 0;
//     stop when |λ − λ_prev| ≤ tol·|λ| or after maxIter iterations.
//   - Stage 3: return the best estimate with Converged telling whether the
//     tolerance was met. Non-convergence is NOT an error.
//
// A nilpotent operator (A·y = 0) converges immediately with λ = 0 and y
// left at its current direction.
//
// Options: WithTolerance (default 1e-12), WithMaxIterations (default 1000).
// Errors: ErrNilMatrix, ErrDimensionMismatch (non-square or len(x0) != n).
// Complexity: O(maxIter · nnz(A)).
func PowerIteration(a Matrix, x0 []float64, opts ...Option) (PowerResult, error) {
	if err := ValidateSquare(a); err != nil {
		return PowerResult{}, matrixErrorf(opPower, err)
	}
	o := gatherOptions(opts...)
	n := a.Rows()

	y := make([]float64, n)
	if x0 == nil {
		for i := range y {
			y[i] = 1
		}
	} else {
		if err := ValidateVecLen(x0, n); err != nil {
			return PowerResult{}, matrixErrorf(opPower, err)
		}
		copy(y, x0)
	}
	if norm := floats.Norm(y, 2); norm > 0 {
		floats.Scale(1/norm, y)
	}

	var (
		res     PowerResult
		lambda0 float64
		ay      []float64
		norm    float64
		err     error
	)
	for res.Iterations = 1; res.Iterations <= o.maxIter; res.Iterations++ {
		if ay, err = MatVec(a, y); err != nil {
			return PowerResult{}, matrixErrorf(opPower, err)
		}
		res.Value = floats.Dot(y, ay)
		norm = floats.Norm(ay, 2)
		if norm == 0 {
			res.Value, res.Change, res.Converged = 0, 0, true
			break
		}
		floats.ScaleTo(y, 1/norm, ay)
		if res.Value < 0 {
			floats.Scale(-1, y)
		}

		res.Change = math.Abs(res.Value - lambda0)
		if res.Iterations > 1 && res.Change <= o.tol*math.Abs(res.Value) {
			res.Converged = true
			break
		}
		lambda0 = res.Value
	}
	if res.Iterations > o.maxIter {
		res.Iterations = o.maxIter
	}
	if floats.Sum(y) < 0 {
		floats.Scale(-1, y)
	}
	res.Vector = y

	return res, nil
}
