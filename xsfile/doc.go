// SPDX-License-Identifier: MIT

// Package xsfile reads and writes the keyword-block text format of
// multigroup cross-section data.
//
// Grammar (one statement per line, tokens separated by blanks):
//
//	NUM_GROUPS G          scalar directives; NUM_GROUPS must precede every
//	NUM_MOMENTS M         data block, NUM_MOMENTS the TRANSFER_MOMENTS block
//	NUM_PRECURSORS J      and NUM_PRECURSORS every precursor-indexed block
//	FISSION_SCALED 1      production already divided by k_eff (before any
//	                      block); NU and NU_PROMPT then only need to be >= 0
//
//	SIGMA_T_BEGIN         1-D blocks: exactly N "index value" lines
//	0 1.25
//	1 2.5
//	SIGMA_T_END
//
//	TRANSFER_MOMENTS_BEGIN
//	M_GPRIME_G_VAL 0 0 1 0.12   moment, source g', destination g, value
//	TRANSFER_MOMENTS_END
//
//	PRODUCTION_MATRIX_BEGIN ... G_GPRIME_VAL g g' value ... _END
//	CHI_DELAYED_BEGIN       ... G_PRECURSOR_VAL g j value ... _END
//	GROUP_STRUCTURE_BEGIN   ... g high low ... _END
//
// Any line whose first token is not a recognized keyword is a comment, and
// so is any line inside a prefixed block that does not start with the
// block's entry prefix. NUM_MOMENTS M declares the scattering order
// L = max(0, M−1).
//
// Parse produces an xs.Input; ReadFile also finalizes it into an
// *xs.Record. Write is the inverse serialization and can rescale every
// production quantity on the way out (WithFissionScaling).
//
// Every structural failure is an *xs.FormatError carrying the path and the
// 1-based line number.
package xsfile
