// SPDX-License-Identifier: MIT

// Package mixture homogenizes several cross-section records into one.
//
// Each component contributes with a density weight N_i:
//
//	per-group cross sections   Σ_i N_i·x_i(g)
//	transfer moments           Σ_i N_i·T_ℓ,i   (sparse accumulate per moment)
//	production matrices        Σ_i N_i·P_i
//	fission spectra            Σ_fissile (N_i/N_f)·χ_i      N_f = Σ_fissile N_i
//	precursors                 concatenated, yields scaled by N_i/N_p
//
// where N_p is the density of components carrying precursors. The result
// goes through xs.FromFields, so it is re-checked and its diffusion
// quantities are derived before Combine returns.
package mixture
