// SPDX-License-Identifier: MIT

package xs_test

import (
	"testing"

	"github.com/katalvlaran/mgxs/xs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScaleFissionData scales every production quantity exactly once.
func TestScaleFissionData(t *testing.T) {
	logger, buf := captureLogger()
	rec, err := xs.New(delayedInput(t), xs.WithLogger(logger))
	require.NoError(t, err)
	nsf := append([]float64(nil), rec.NuSigmaF()...)
	p00 := rec.Production()[0][0]

	require.NoError(t, rec.ScaleFissionData(0.5))
	assert.True(t, rec.IsFissionScaled())
	assert.InDelta(t, nsf[1]/2, rec.NuSigmaF()[1], 1e-15)
	assert.InDelta(t, p00/2, rec.Production()[0][0], 1e-15)
	assert.InDeltaSlice(t, []float64{0.12, 0.25}, rec.NuPromptSigmaF(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.0005, 0.002}, rec.NuDelayedSigmaF(), 1e-12)

	require.NoError(t, rec.ScaleFissionData(0.5))
	assert.InDelta(t, nsf[1]/2, rec.NuSigmaF()[1], 1e-15)
	assert.Contains(t, buf.String(), "already scaled")

	require.ErrorIs(t, rec.ScaleFissionData(0), xs.ErrLogic)
}

// TestSetSigmaTotal re-derives the patched group only.
func TestSetSigmaTotal(t *testing.T) {
	rec, err := xs.MakeSimple0(2, 1)
	require.NoError(t, err)

	require.NoError(t, rec.SetSigmaTotal(1, 2))
	assert.Equal(t, []float64{1, 2}, rec.SigmaT())
	assert.InDelta(t, 1.0/6, rec.DiffusionCoefficient()[1], 1e-15)
	assert.InDelta(t, 1.0/3, rec.DiffusionCoefficient()[0], 1e-15)
	assert.InDelta(t, 2.0, rec.SigmaRemoval()[1], 0)
}

// TestSetSigmaTotal_Errors rejects out-of-range groups and values below
// absorption.
func TestSetSigmaTotal_Errors(t *testing.T) {
	rec, err := xs.MakeSimple0(2, 1)
	require.NoError(t, err)
	require.ErrorIs(t, rec.SetSigmaTotal(2, 1), xs.ErrLogic)
	require.ErrorIs(t, rec.SetSigmaTotal(0, -1), xs.ErrLogic)
	require.ErrorIs(t, rec.SetSigmaTotal(0, 0.5), xs.ErrLogic)
	assert.Equal(t, []float64{1, 1}, rec.SigmaT())
}

// TestNew_FissionScaledInput accepts yields at or below one for production
// data that was already divided by k_eff, and keeps the flag so a later
// ScaleFissionData does not apply twice.
func TestNew_FissionScaledInput(t *testing.T) {
	in := xs.Input{
		NumGroups: 1,
		SigmaT:    []float64{1},
		SigmaF:    []float64{0.1},
		Nu:        []float64{0.8},
		Chi:       []float64{1},
	}
	_, err := xs.New(in)
	require.ErrorIs(t, err, xs.ErrLogic)

	in.FissionScaled = true
	rec, err := xs.New(in)
	require.NoError(t, err)
	assert.True(t, rec.IsFissionScaled())
	assert.InDeltaSlice(t, []float64{0.08}, rec.NuSigmaF(), 1e-15)

	require.NoError(t, rec.ScaleFissionData(0.5))
	assert.InDeltaSlice(t, []float64{0.08}, rec.NuSigmaF(), 1e-15)

	matrixIn := xs.Input{
		NumGroups:     1,
		SigmaT:        []float64{1},
		SigmaF:        []float64{0.1},
		Production:    [][]float64{{0.05}},
		FissionScaled: true,
	}
	rec, err = xs.New(matrixIn)
	require.NoError(t, err)
	assert.Equal(t, xs.FissionMatrix, rec.FissionMode())
	assert.True(t, rec.IsFissionScaled())
}
