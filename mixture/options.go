// SPDX-License-Identifier: MIT

package mixture

import (
	"log/slog"

	"github.com/katalvlaran/mgxs/xs"
)

const (
	// FissileThreshold is the fissile density below which the mixture is
	// treated as non-fissionable.
	FissileThreshold = 1e-12

	// VelocityTolerance is the relative difference allowed between the
	// inverse velocities of two components.
	VelocityTolerance = 1e-12
)

// Option configures Combine.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	recordOps []xs.Option
}

// WithLogger routes warnings to l; the result record logs there too.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecordOptions passes options to the construction of the result.
func WithRecordOptions(opts ...xs.Option) Option {
	return func(o *options) { o.recordOps = append(o.recordOps, opts...) }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.recordOps = append([]xs.Option{xs.WithLogger(o.logger)}, o.recordOps...)

	return o
}
