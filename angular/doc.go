// SPDX-License-Identifier: MIT

// Package angular reconstructs discrete scattering-angle distributions from
// truncated Legendre expansions.
//
// 🚀 What does it do?
//
//	Given the Legendre moments σ_0..σ_L of a group-to-group scattering kernel,
//	it finds n = ⌊(L+1)/2⌋ cosines μ_i and weights w_i such that the
//	discrete distribution Σ w_i δ(μ − μ_i) reproduces the first 2n power
//	moments E[μ^k] of the kernel exactly (a Gauss rule for the kernel).
//
// ✨ Steps:
//  1. Legendre → power moments via the three-term recurrence
//     μ·P_ℓ = ((ℓ+1)·P_{ℓ+1} + ℓ·P_{ℓ−1}) / (2ℓ+1).
//  2. Power moments → recurrence coefficients (α_k, β_k) with the
//     Chebyshev algorithm.
//  3. Golub–Welsch: nodes are the eigenvalues of the symmetric tridiagonal
//     Jacobi matrix, weights are β_0 times the squared first components of
//     its eigenvectors.
//
// Truncated expansions are not always realizable (β_k ≤ 0, or nodes outside
// [−1,1]). The rule is then reduced to fewer points and Result reports the
// reduction; callers decide whether that is worth a warning.
//
// ⚙️ Usage:
//
//	res, err := angular.Reconstruct([]float64{1.2, 0.4, 0.1, 0.02})
//	for _, n := range res.Nodes {
//		fmt.Println(n.Cosine, n.Weight)
//	}
package angular
