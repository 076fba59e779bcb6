// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the iterative kernels.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon defines the non-negative tolerance used by structural checks.
	DefaultEpsilon = 1e-9

	// DefaultTolerance is the relative change of the eigenvalue estimate
	// below which PowerIteration stops.
	DefaultTolerance = 1e-12

	// DefaultMaxIterations caps PowerIteration.
	DefaultMaxIterations = 1000
)

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicToleranceInvalid = "matrix: WithTolerance: tol must be finite, positive"
	panicMaxIterInvalid   = "matrix: WithMaxIterations: n must be positive"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps     float64 // >= 0; DefaultEpsilon
	tol     float64 // > 0;  DefaultTolerance
	maxIter int     // > 0;  DefaultMaxIterations
}

// WithEpsilon sets the numeric tolerance eps used by structural checks
// (symmetry before Eigen).
//
// Errors:
//   - Panics with a stable message when eps is negative, NaN or Inf.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithTolerance sets the convergence tolerance of iterative kernels.
// Panics when tol is not a finite positive number.
func WithTolerance(tol float64) Option {
	if tol <= 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxIterations caps the number of iterations of iterative kernels.
// Panics when n ≤ 0.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// gatherOptions applies opts over the defaults. Nil options are skipped.
func gatherOptions(opts ...Option) Options {
	o := Options{
		eps:     DefaultEpsilon,
		tol:     DefaultTolerance,
		maxIter: DefaultMaxIterations,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
