// SPDX-License-Identifier: MIT

package material

import (
	"fmt"
	"math"
)

// Kind selects the variant a Property holds.
type Kind uint8

const (
	// KindInvalid is the zero Property; it is never stored.
	KindInvalid Kind = iota
	// KindScalar holds one number.
	KindScalar
	// KindTransportXS holds a handle to cross-section data.
	KindTransportXS
	// KindIsotropicSource holds per-group isotropic source strengths.
	KindIsotropicSource
)

// String returns the kind name used in logs and the CLI.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindTransportXS:
		return "transport-xs"
	case KindIsotropicSource:
		return "isotropic-source"
	default:
		return "invalid"
	}
}

// Property is a material property: exactly one of its variants is set,
// as told by Kind. The zero value is KindInvalid.
type Property struct {
	kind   Kind
	scalar float64
	xs     RecordHandle
	source []float64
}

// ScalarProperty holds v.
func ScalarProperty(v float64) Property {
	return Property{kind: KindScalar, scalar: v}
}

// TransportXSProperty refers to the record addressed by h.
func TransportXSProperty(h RecordHandle) Property {
	return Property{kind: KindTransportXS, xs: h}
}

// IsotropicSourceProperty holds a copy of the per-group strengths q.
func IsotropicSourceProperty(q []float64) Property {
	return Property{kind: KindIsotropicSource, source: append([]float64(nil), q...)}
}

// Kind returns the variant held by p.
func (p Property) Kind() Kind { return p.kind }

// AsScalar returns the value of a scalar property.
func (p Property) AsScalar() (float64, bool) {
	return p.scalar, p.kind == KindScalar
}

// AsTransportXS returns the record handle of a transport property.
func (p Property) AsTransportXS() (RecordHandle, bool) {
	return p.xs, p.kind == KindTransportXS
}

// AsIsotropicSource returns a copy of the strengths of a source property.
func (p Property) AsIsotropicSource() ([]float64, bool) {
	if p.kind != KindIsotropicSource {
		return nil, false
	}

	return append([]float64(nil), p.source...), true
}

// Cases holds one function per kind for Match. A nil function leaves its
// kind unhandled.
type Cases struct {
	Scalar          func(v float64) error
	TransportXS     func(h RecordHandle) error
	IsotropicSource func(q []float64) error
}

// Match calls the case of p's kind and returns its result.
//
// Errors: ErrUnhandledKind when that case is nil or p is the zero Property.
func (p Property) Match(c Cases) error {
	switch {
	case p.kind == KindScalar && c.Scalar != nil:
		return c.Scalar(p.scalar)
	case p.kind == KindTransportXS && c.TransportXS != nil:
		return c.TransportXS(p.xs)
	case p.kind == KindIsotropicSource && c.IsotropicSource != nil:
		return c.IsotropicSource(append([]float64(nil), p.source...))
	default:
		return fmt.Errorf("%w: %s", ErrUnhandledKind, p.kind)
	}
}

// validate checks the values of p; handles are checked by the Context.
func (p Property) validate() error {
	switch p.kind {
	case KindScalar:
		if math.IsNaN(p.scalar) || math.IsInf(p.scalar, 0) {
			return fmt.Errorf("%w: scalar %g is not finite", ErrInvalidProperty, p.scalar)
		}
	case KindTransportXS:
		if p.xs.IsZero() {
			return fmt.Errorf("%w: zero record handle", ErrInvalidProperty)
		}
	case KindIsotropicSource:
		if len(p.source) == 0 {
			return fmt.Errorf("%w: empty source", ErrInvalidProperty)
		}
		for g, q := range p.source {
			if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
				return fmt.Errorf("%w: source[%d] = %g, must be finite and >= 0", ErrInvalidProperty, g, q)
			}
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidProperty, p.kind)
	}

	return nil
}
