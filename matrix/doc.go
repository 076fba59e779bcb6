// SPDX-License-Identifier: MIT

// Package matrix provides the small linear-algebra toolkit used by the
// multigroup cross-section engine.
//
// 🚀 What lives here?
//
//	• Dense   — row-major float64 matrix with bounds-checked At/Set
//	• Sparse  — square row-compressed operator for scattering transfer moments
//	• LU / Inverse — deterministic Doolittle factorization (no pivoting)
//	• Mul / MatVec / Transpose — dense kernels with strict shape checks
//	• Eigen   — Jacobi rotations for symmetric matrices (angular quadrature)
//	• PowerIteration — dominant eigenpair of a general square operator
//
// ✨ Conventions:
//   - every failure is a package sentinel (errors.go) wrapped with an
//     operation tag, so callers match with errors.Is;
//   - no kernel mutates its inputs;
//   - loops run in a fixed order, identical inputs give bit-identical outputs.
//
// ⚙️ Usage:
//
//	a, _ := matrix.NewDense(2, 2)
//	_ = a.Set(0, 0, 1)
//	_ = a.Set(1, 0, -0.3)
//	_ = a.Set(1, 1, 1)
//	inv, err := matrix.Inverse(a)
//
//	res, err := matrix.PowerIteration(inv, nil, matrix.WithTolerance(1e-12))
//	fmt.Println(res.Value, res.Vector, res.Converged)
package matrix
