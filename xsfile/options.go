// SPDX-License-Identifier: MIT

package xsfile

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/mgxs/xs"
)

const panicScalingInvalid = "xsfile: WithFissionScaling: factor must be finite, positive"

// Option configures reading and writing.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	recordOps []xs.Option
	scale     float64
	header    []string
}

// WithLogger routes parser and writer warnings to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecordOptions passes options to xs.New when ReadFile finalizes the
// parsed input.
func WithRecordOptions(opts ...xs.Option) Option {
	return func(o *options) { o.recordOps = append(o.recordOps, opts...) }
}

// WithFissionScaling multiplies every production quantity by factor on
// export (typically 1/k_eff). The record itself is not modified.
// Panics when factor is not finite and positive.
func WithFissionScaling(factor float64) Option {
	if !(factor > 0) || math.IsInf(factor, 0) {
		panic(panicScalingInvalid)
	}

	return func(o *options) { o.scale = factor }
}

// WithHeader writes each line as a leading comment of the exported file.
func WithHeader(lines ...string) Option {
	return func(o *options) { o.header = append(o.header, lines...) }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: slog.Default(), scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	// Record options given explicitly win over the shared logger.
	o.recordOps = append([]xs.Option{xs.WithLogger(o.logger)}, o.recordOps...)

	return o
}
