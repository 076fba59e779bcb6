// SPDX-License-Identifier: MIT

package xsfile_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/katalvlaran/mgxs/xs"
	"github.com/katalvlaran/mgxs/xsfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoGroup is a small fissile data set with comments and P1 scattering.
const twoGroup = `Two-group test material
NUM_GROUPS 2
NUM_MOMENTS 2

SIGMA_T_BEGIN
1 2.0
0 1.0
SIGMA_T_END

SIGMA_F_BEGIN
0 0.1
1 0.2
SIGMA_F_END
NU_BEGIN
0 2.5
1 2.5
NU_END
CHI_BEGIN
0 1
1 0
CHI_END

VELOCITY_BEGIN
0 2e9
1 4e5
VELOCITY_END

TRANSFER_MOMENTS_BEGIN
this line is a comment
M_GPRIME_G_VAL 0 0 0 0.5
M_GPRIME_G_VAL 0 0 1 0.2
M_GPRIME_G_VAL 0 1 1 1.5
M_GPRIME_G_VAL 1 0 0 0.1
TRANSFER_MOMENTS_END
`

// TestParse_TwoGroup reads every block of a well-formed file.
func TestParse_TwoGroup(t *testing.T) {
	in, err := xsfile.Parse(strings.NewReader(twoGroup), "two.xs")
	require.NoError(t, err)

	assert.Equal(t, 2, in.NumGroups)
	assert.Equal(t, 1, in.ScatteringOrder)
	assert.Equal(t, []float64{1, 2}, in.SigmaT)
	assert.Equal(t, []float64{2.5, 2.5}, in.Nu)
	assert.InDeltaSlice(t, []float64{5e-10, 2.5e-6}, in.InvVelocity, 1e-20)
	require.Len(t, in.Transfer, 2)
	v, err := in.Transfer[0].At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.2, v)
	v, err = in.Transfer[1].At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.1, v)

	rec, err := xs.New(in)
	require.NoError(t, err)
	assert.Equal(t, xs.FissionTotal, rec.FissionMode())
	assert.InDeltaSlice(t, []float64{0.3, 0.5}, rec.SigmaA(), 1e-12)
}

// TestParse_TooManyEntries reports the extra SIGMA_T entry on its own line.
func TestParse_TooManyEntries(t *testing.T) {
	text := "NUM_GROUPS 2\nSIGMA_T_BEGIN\n0 1.0\n1 1.0\n2 1.0\nSIGMA_T_END\n"
	_, err := xsfile.Parse(strings.NewReader(text), "bad.xs")
	require.ErrorIs(t, err, xs.ErrFormat)

	var fe *xs.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "bad.xs", fe.Path)
	assert.Equal(t, 5, fe.Line)
	assert.Contains(t, err.Error(), "bad.xs:5:")
}

// TestParse_Malformed covers framing, dimension and value errors with the
// line each one is reported on.
func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name string
		text string
		line int
	}{
		{"block before groups", "SIGMA_T_BEGIN\n0 1\nSIGMA_T_END\n", 1},
		{"too few entries", "NUM_GROUPS 2\nSIGMA_T_BEGIN\n0 1\nSIGMA_T_END\n", 4},
		{"duplicate index", "NUM_GROUPS 2\nSIGMA_T_BEGIN\n0 1\n0 2\nSIGMA_T_END\n", 4},
		{"non-numeric value", "NUM_GROUPS 1\nSIGMA_T_BEGIN\n0 abc\nSIGMA_T_END\n", 3},
		{"nan value", "NUM_GROUPS 1\nSIGMA_T_BEGIN\n0 NaN\nSIGMA_T_END\n", 3},
		{"negative cross section", "NUM_GROUPS 1\nSIGMA_A_BEGIN\n0 -1\nSIGMA_A_END\n", 3},
		{"yield below one", "NUM_GROUPS 1\nNU_BEGIN\n0 0.5\nNU_END\n", 3},
		{"beta above one", "NUM_GROUPS 1\nBETA_BEGIN\n0 1.5\nBETA_END\n", 3},
		{"extra token", "NUM_GROUPS 1\nSIGMA_T_BEGIN\n0 1 2\nSIGMA_T_END\n", 3},
		{"unterminated", "NUM_GROUPS 1\n\nSIGMA_T_BEGIN\n0 1\n", 3},
		{"nested block", "NUM_GROUPS 1\nSIGMA_T_BEGIN\nSIGMA_A_BEGIN\n", 3},
		{"end without begin", "NUM_GROUPS 1\nSIGMA_T_END\n", 2},
		{"block twice", "NUM_GROUPS 1\nSIGMA_T_BEGIN\n0 1\nSIGMA_T_END\nSIGMA_T_BEGIN\n", 5},
		{"zero groups", "NUM_GROUPS 0\n", 1},
		{"groups twice", "NUM_GROUPS 1\nNUM_GROUPS 2\n", 2},
		{"negative moments", "NUM_GROUPS 1\nNUM_MOMENTS -1\n", 2},
		{"missing groups", "just a comment\n", 0},
		{"transfer before moments", "NUM_GROUPS 1\nTRANSFER_MOMENTS_BEGIN\n", 2},
		{"moment out of range", "NUM_GROUPS 1\nNUM_MOMENTS 1\nTRANSFER_MOMENTS_BEGIN\nM_GPRIME_G_VAL 1 0 0 0.1\n", 4},
		{"negative isotropic transfer", "NUM_GROUPS 1\nNUM_MOMENTS 1\nTRANSFER_MOMENTS_BEGIN\nM_GPRIME_G_VAL 0 0 0 -0.1\n", 4},
		{"precursors undeclared", "NUM_GROUPS 1\nPRECURSOR_DECAY_CONSTANTS_BEGIN\n", 2},
		{"precursor out of range", "NUM_GROUPS 1\nNUM_PRECURSORS 1\nCHI_DELAYED_BEGIN\nG_PRECURSOR_VAL 0 1 1\n", 4},
		{"production group out of range", "NUM_GROUPS 1\nPRODUCTION_MATRIX_BEGIN\nG_GPRIME_VAL 0 3 1\n", 3},
		{"scaled flag out of range", "NUM_GROUPS 1\nFISSION_SCALED 2\n", 2},
		{"scaled flag after data", "NUM_GROUPS 1\nSIGMA_T_BEGIN\n0 1\nSIGMA_T_END\nFISSION_SCALED 1\n", 5},
		{"inverted bins", "NUM_GROUPS 1\nGROUP_STRUCTURE_BEGIN\n0 1 2\nGROUP_STRUCTURE_END\n", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := xsfile.Parse(strings.NewReader(tc.text), "case.xs")
			var fe *xs.FormatError
			require.True(t, errors.As(err, &fe), "err = %v", err)
			assert.Equal(t, tc.line, fe.Line, fe.Error())
		})
	}
}

// TestParse_Moments maps NUM_MOMENTS M to order max(0, M−1).
func TestParse_Moments(t *testing.T) {
	for m, want := range map[int]int{0: 0, 1: 0, 3: 2} {
		text := fmt.Sprintf("NUM_GROUPS 1\nNUM_MOMENTS %d\n", m)
		in, err := xsfile.Parse(strings.NewReader(text), "m.xs")
		require.NoError(t, err)
		assert.Equal(t, want, in.ScatteringOrder)
	}
}

// TestParse_InverseVelocityWins keeps INV_VELOCITY over VELOCITY and warns.
func TestParse_InverseVelocityWins(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	text := `NUM_GROUPS 1
VELOCITY_BEGIN
0 4
VELOCITY_END
INV_VELOCITY_BEGIN
0 0.5
INV_VELOCITY_END
`
	in, err := xsfile.Parse(strings.NewReader(text), "v.xs", xsfile.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, in.InvVelocity)
	assert.Contains(t, buf.String(), "VELOCITY ignored")
}

// TestParse_PrecursorBlocks reads delayed spectra and precursor data.
func TestParse_PrecursorBlocks(t *testing.T) {
	text := `NUM_GROUPS 2
NUM_PRECURSORS 1
PRECURSOR_DECAY_CONSTANTS_BEGIN
0 0.08
PRECURSOR_DECAY_CONSTANTS_END
PRECURSOR_FRACTIONAL_YIELDS_BEGIN
0 1
PRECURSOR_FRACTIONAL_YIELDS_END
CHI_DELAYED_BEGIN
G_PRECURSOR_VAL 0 0 0.25
G_PRECURSOR_VAL 1 0 0.75
CHI_DELAYED_END
GROUP_STRUCTURE_BEGIN
0 2e7 1e5
1 1e5 1e-5
GROUP_STRUCTURE_END
`
	in, err := xsfile.Parse(strings.NewReader(text), "p.xs")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.08}, in.DecayConstants)
	assert.Equal(t, [][]float64{{0.25, 0.75}}, in.ChiDelayed)
	assert.Equal(t, []xs.EnergyBin{{High: 2e7, Low: 1e5}, {High: 1e5, Low: 1e-5}}, in.GroupStructure)
}
