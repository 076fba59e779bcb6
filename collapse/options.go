// SPDX-License-Identifier: MIT

package collapse

import (
	"log/slog"

	"github.com/katalvlaran/mgxs/matrix"
)

const (
	// DefaultTolerance is the relative eigenvalue change that stops the
	// power iteration.
	DefaultTolerance = matrix.DefaultTolerance

	// DefaultMaxIterations caps the power iteration.
	DefaultMaxIterations = matrix.DefaultMaxIterations

	// DegenerateTotal is the σt below which a group's diagonal in A is
	// forced to 1.
	DegenerateTotal = 1e-16
)

// Option configures Collapse.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	tol     float64
	maxIter int
}

// WithLogger routes the non-convergence warning to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTolerance sets the relative stopping tolerance. Panics unless tol is
// finite and positive.
func WithTolerance(tol float64) Option {
	matrix.WithTolerance(tol) // validates
	return func(o *options) { o.tol = tol }
}

// WithMaxIterations sets the iteration cap. Panics unless n > 0.
func WithMaxIterations(n int) Option {
	matrix.WithMaxIterations(n) // validates
	return func(o *options) { o.maxIter = n }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: slog.Default(), tol: DefaultTolerance, maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
