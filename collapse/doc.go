// SPDX-License-Identifier: MIT

// Package collapse reduces multigroup data to one-group constants weighted
// by the dominant eigenvector of a scattering iteration operator.
//
// The ℓ=0 transfer matrix S and σt are split into a solve matrix A and an
// iterate matrix B; power iteration on C = A⁻¹B from a flat start gives the
// collapse spectrum φ (|v| normalized to sum 1), and
//
//	D  = Σ_g D[g]·φ[g]
//	σa = Σ_g σt[g]·φ[g] − Σ_g Σ_g' S[g][g']·φ[g']
//
// Four splittings are available (Mode × Relaxation):
//
//	Jacobi  Full      A = diag(σt)                B = S
//	Jacobi  Partial   A = diag(σt − S_gg)         B = S − diag(S_gg)
//	Gauss   Full      A = diag(σt) − L(S)         B = D(S) + U(S)
//	Gauss   Partial   A = diag(σt − S_gg) − L(S)  B = U(S)
//
// where L, D and U are the strictly lower (down-scatter), diagonal and
// strictly upper (up-scatter) parts of S. The splittings precondition the
// same eigenproblem differently; none is preferred here.
package collapse
