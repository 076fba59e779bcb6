// SPDX-License-Identifier: MIT

package material_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/mgxs/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

// TestProperty_Accessors checks that exactly one accessor succeeds per kind.
func TestProperty_Accessors(t *testing.T) {
	src := []float64{1, 2}
	cases := []struct {
		p    material.Property
		kind material.Kind
	}{
		{material.ScalarProperty(0.5), material.KindScalar},
		{material.TransportXSProperty(material.RecordHandle{}), material.KindTransportXS},
		{material.IsotropicSourceProperty(src), material.KindIsotropicSource},
		{material.Property{}, material.KindInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.p.Kind())
			_, isScalar := tc.p.AsScalar()
			_, isXS := tc.p.AsTransportXS()
			_, isSource := tc.p.AsIsotropicSource()
			assert.Equal(t, tc.kind == material.KindScalar, isScalar)
			assert.Equal(t, tc.kind == material.KindTransportXS, isXS)
			assert.Equal(t, tc.kind == material.KindIsotropicSource, isSource)
		})
	}
}

// TestProperty_SourceIsCopied checks that the variant owns its slice.
func TestProperty_SourceIsCopied(t *testing.T) {
	src := []float64{1, 2}
	p := material.IsotropicSourceProperty(src)
	src[0] = 99

	got, ok := p.AsIsotropicSource()
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, got)
	got[1] = 99
	again, _ := p.AsIsotropicSource()
	assert.Equal(t, []float64{1, 2}, again)
}

// TestProperty_Match checks dispatch, case errors and unhandled kinds.
func TestProperty_Match(t *testing.T) {
	var seen []string
	cases := material.Cases{
		Scalar:          func(v float64) error { seen = append(seen, "scalar"); return nil },
		IsotropicSource: func(q []float64) error { seen = append(seen, "source"); return nil },
	}

	require.NoError(t, material.ScalarProperty(1).Match(cases))
	require.NoError(t, material.IsotropicSourceProperty([]float64{1}).Match(cases))
	assert.Equal(t, []string{"scalar", "source"}, seen)

	err := material.TransportXSProperty(material.RecordHandle{}).Match(cases)
	assert.ErrorIs(t, err, material.ErrUnhandledKind)
	assert.ErrorIs(t, material.Property{}.Match(cases), material.ErrUnhandledKind)

	boom := errors.New("boom")
	err = material.ScalarProperty(1).Match(material.Cases{Scalar: func(float64) error { return boom }})
	assert.ErrorIs(t, err, boom)
}
