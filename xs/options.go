// SPDX-License-Identifier: MIT

package xs

import (
	"log/slog"
	"math"
)

const (
	// DefaultDiffusionCap bounds the diffusion coefficient of nearly void groups.
	DefaultDiffusionCap = 1e12

	// DefaultAngularOrder is the highest Legendre moment used to build
	// scattering-angle tables; the record's own order further limits it.
	DefaultAngularOrder = 7

	// SpectrumTolerance is the allowed drift of a normalized spectrum or
	// yield set from 1 before it is renormalized.
	SpectrumTolerance = 1e-10

	// AbsorptionTolerance is the relative slack allowed in σa ≤ σt.
	AbsorptionTolerance = 1e-8

	// NegligibleTransfer is the ℓ=0 transfer value below which no angle
	// table is built for a group pair.
	NegligibleTransfer = 1e-20
)

const (
	panicDiffusionCapInvalid = "xs: WithDiffusionCap: cap must be finite, positive"
	panicAngularOrderInvalid = "xs: WithAngularOrder: order must be non-negative"
)

// Option configures record construction and derivation.
type Option func(*Options)

// Options is the resolved configuration; fields are unexported.
type Options struct {
	logger       *slog.Logger
	diffusionCap float64
	angularOrder int
}

// WithLogger routes warnings to l. A nil logger restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithDiffusionCap sets the upper bound applied to diffusion coefficients.
// Panics when c is not finite and positive.
func WithDiffusionCap(c float64) Option {
	if !(c > 0) || math.IsInf(c, 0) {
		panic(panicDiffusionCapInvalid)
	}

	return func(o *Options) { o.diffusionCap = c }
}

// WithAngularOrder sets the maximum Legendre order used by BuildTables.
// Panics when order < 0.
func WithAngularOrder(order int) Option {
	if order < 0 {
		panic(panicAngularOrderInvalid)
	}

	return func(o *Options) { o.angularOrder = order }
}

func gatherOptions(opts ...Option) Options {
	o := Options{diffusionCap: DefaultDiffusionCap, angularOrder: DefaultAngularOrder}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Logger returns the logger a record was built with.
func (o Options) Logger() *slog.Logger { return o.logger }
