// SPDX-License-Identifier: MIT

// Package mgxs is an in-memory engine for multigroup nuclear cross-section
// data: parse it, validate it, mix it, collapse it and sample from it.
//
// 🚀 What is mgxs?
//
//	A library that brings together everything a diffusion, discrete-ordinates
//	or Monte Carlo solver needs from its cross sections:
//		• Records: per-group σt, σa, σf, νσf, transfer moments T_ℓ,
//		  production operator, delayed-neutron precursors
//		• Fission finalizer: total or prompt/delayed specification → production
//		• Diffusion parameters: transport-corrected D, removal σr
//		• Mixtures: density-weighted homogenization of N records
//		• Energy collapse: spectrum weighting by power iteration
//		  (Jacobi / Gauss, full / partial relaxation)
//		• Monte Carlo tables: energy-transfer CDFs and discrete
//		  scattering-angle tables reconstructed from Legendre moments
//		• Text block format, versioned YAML snapshots, a simulation context
//		  with generation-checked handles
//
// ✨ Why choose mgxs?
//
//   - One error taxonomy – ErrFormat, ErrLogic, ErrConvergence,
//     ErrInternalConsistency, each naming the file line, field or group
//   - Shared read-only records – finalize once, hand to any number of solvers
//   - Structured warnings – every package logs through log/slog
//   - Pure Go – gonum for numerics, no cgo
//
// Packages:
//
//	matrix/    — dense and row-compressed sparse operators, LU, power iteration
//	angular/   — Legendre moments → discrete quadrature (Golub–Welsch)
//	xs/        — the Record, its finalizers, diffusion parameters and sampling
//	xsfile/    — the block text format: Parse, ReadFile, Write, ExportToFile
//	mixture/   — Combine: homogenization with density weights
//	collapse/  — Collapse: G groups → one by spectrum weighting
//	snapshot/  — versioned YAML documents of a record
//	material/  — Context arena: records, materials, tagged properties, Rebind
//	cmd/xsctl  — command line: inspect, combine, collapse, export, snapshot, plot
//
// Quick ASCII view of the data flow:
//
//	file ──xsfile──▶ Input ──xs.New──▶ Record ──┬──▶ solver
//	                                           ├──mixture.Combine──▶ Record
//	                                           ├──collapse.Collapse──▶ φ, D, σa
//	                                           └──BuildTables──▶ Sample*
//
//	go get github.com/katalvlaran/mgxs
package mgxs
