// SPDX-License-Identifier: MIT

// Package xs holds the multigroup cross-section record and every
// derivation that runs on a single record.
//
// 🚀 What is a Record?
//
//	One multigroup data set: per-group cross sections (σt, σa, σf, νσf,
//	νpσf, νdσf), scattering transfer moments T_ℓ (entry (g, g') is the
//	transfer from source group g' into destination group g), a production
//	operator, delayed-neutron precursors, inverse velocities, and the
//	quantities derived from them (diffusion coefficients, removal cross
//	sections, Monte Carlo sampling tables).
//
// ✨ Lifecycle:
//
//	Input ──New──▶ fission finalizer ──▶ absorption ──▶ diffusion ──▶ Record
//	Fields ─FromFields─▶ consistency pass ──────────────▶ diffusion ──▶ Record
//	MakeSimple0 / MakeSimple1 ──▶ New
//	Record ──BuildTables (lazy, once)──▶ SampleExitGroup / SampleCosine
//
// A finalized record is shared read-only. The only mutations are
// ScaleFissionData (one shot) and SetSigmaTotal (parametric studies, never
// during a solve).
//
// ⚠️ Errors follow one taxonomy for the whole module (errors.go):
// ErrFormat, ErrLogic, ErrConvergence, ErrInternalConsistency. Warnings go
// to the *slog.Logger given with WithLogger.
package xs
