// SPDX-License-Identifier: MIT

package xsfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
	"github.com/katalvlaran/mgxs/xsfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sparse(t *testing.T, n int, entries ...[3]float64) *matrix.Sparse {
	t.Helper()
	s, err := matrix.NewSparse(n)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Insert(int(e[0]), int(e[1]), e[2]))
	}

	return s
}

// records returns one finalized record per fission mode plus a P1
// scatterer with velocities and energy bounds.
func records(t *testing.T) map[string]*xs.Record {
	t.Helper()
	inputs := map[string]xs.Input{
		"total": {
			NumGroups: 2,
			SigmaT:    []float64{1, 2},
			SigmaF:    []float64{0.1, 0.2},
			Nu:        []float64{2.5, 2.43},
			Chi:       []float64{0.9, 0.1},
			Transfer:  []*matrix.Sparse{sparse(t, 2, [3]float64{0, 0, 0.5}, [3]float64{1, 0, 0.2})},
		},
		"prompt-delayed": {
			NumGroups:        2,
			NumPrecursors:    2,
			SigmaT:           []float64{1, 2},
			SigmaF:           []float64{0.1, 0.2},
			NuPrompt:         []float64{2.4, 2.5},
			NuDelayed:        []float64{0.01, 0.02},
			ChiPrompt:        []float64{3, 1},
			ChiDelayed:       [][]float64{{1, 1}, {0, 2}},
			DecayConstants:   []float64{0.1, 1.0},
			FractionalYields: []float64{0.25, 0.75},
		},
		"matrix": {
			NumGroups:  2,
			SigmaT:     []float64{1, 1},
			SigmaF:     []float64{0.1, 0.1},
			Production: [][]float64{{0.2, 0}, {0.1, 0.3}},
		},
		"p1": {
			NumGroups:       2,
			ScatteringOrder: 1,
			SigmaT:          []float64{1.5, 2.5},
			InvVelocity:     []float64{1e-9, 3.3e-6},
			GroupStructure:  []xs.EnergyBin{{High: 2e7, Low: 1e5}, {High: 1e5, Low: 1e-5}},
			Transfer: []*matrix.Sparse{
				sparse(t, 2, [3]float64{0, 0, 1}, [3]float64{1, 0, 0.3}, [3]float64{1, 1, 2}, [3]float64{0, 1, 0.01}),
				sparse(t, 2, [3]float64{0, 0, 0.2}, [3]float64{1, 1, -0.05}),
			},
		},
	}
	out := make(map[string]*xs.Record, len(inputs))
	for name, in := range inputs {
		rec, err := xs.New(in)
		require.NoError(t, err, name)
		out[name] = rec
	}
	simple, err := xs.MakeSimple1(5, 1.2, 0.7)
	require.NoError(t, err)
	out["simple"] = simple

	return out
}

// roundTrip writes rec and reads it back.
func roundTrip(t *testing.T, rec *xs.Record, opts ...xsfile.Option) *xs.Record {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, xsfile.Write(&buf, rec, opts...))
	in, err := xsfile.Parse(&buf, "roundtrip.xs")
	require.NoError(t, err)
	back, err := xs.New(in)
	require.NoError(t, err)

	return back
}

func assertSameRecord(t *testing.T, want, got *xs.Record) {
	t.Helper()
	const tol = 1e-12
	assert.Equal(t, want.NumGroups(), got.NumGroups())
	assert.Equal(t, want.ScatteringOrder(), got.ScatteringOrder())
	assert.Equal(t, want.FissionMode(), got.FissionMode())
	assert.InDeltaSlice(t, want.SigmaT(), got.SigmaT(), tol)
	assert.InDeltaSlice(t, want.SigmaA(), got.SigmaA(), tol)
	assert.InDeltaSlice(t, want.SigmaF(), got.SigmaF(), tol)
	assert.InDeltaSlice(t, want.NuSigmaF(), got.NuSigmaF(), tol)
	assert.InDeltaSlice(t, want.NuPromptSigmaF(), got.NuPromptSigmaF(), tol)
	assert.InDeltaSlice(t, want.NuDelayedSigmaF(), got.NuDelayedSigmaF(), tol)
	assert.InDeltaSlice(t, want.Chi(), got.Chi(), tol)
	assert.InDeltaSlice(t, want.ChiPrompt(), got.ChiPrompt(), tol)
	assert.InDeltaSlice(t, want.InverseVelocity(), got.InverseVelocity(), 0)
	assert.Equal(t, want.GroupStructure(), got.GroupStructure())
	assert.InDeltaSlice(t, want.DiffusionCoefficient(), got.DiffusionCoefficient(), tol)
	require.Len(t, got.Production(), len(want.Production()))
	for g := range want.Production() {
		assert.InDeltaSlice(t, want.Production()[g], got.Production()[g], tol)
	}
	require.Len(t, got.Precursors(), len(want.Precursors()))
	for j, p := range want.Precursors() {
		q := got.Precursors()[j]
		assert.Equal(t, p.DecayConstant, q.DecayConstant)
		assert.InDelta(t, p.FractionalYield, q.FractionalYield, tol)
		assert.InDeltaSlice(t, p.EmissionSpectrum, q.EmissionSpectrum, tol)
	}
	require.Len(t, got.Transfer(), len(want.Transfer()))
	for ell, m := range want.Transfer() {
		assert.Equal(t, m.Dense().RowsCopy(), got.Transfer()[ell].Dense().RowsCopy(), "moment %d", ell)
	}
}

// TestWrite_RoundTrip reads back every field of every fission mode.
func TestWrite_RoundTrip(t *testing.T) {
	for name, rec := range records(t) {
		t.Run(name, func(t *testing.T) {
			assertSameRecord(t, rec, roundTrip(t, rec))
		})
	}
}

// TestWrite_FissionScaling scales production on export only.
func TestWrite_FissionScaling(t *testing.T) {
	for _, name := range []string{"total", "prompt-delayed", "matrix"} {
		t.Run(name, func(t *testing.T) {
			rec := records(t)[name]
			before := append([]float64(nil), rec.NuSigmaF()...)

			back := roundTrip(t, rec, xsfile.WithFissionScaling(0.5))
			for g := range before {
				assert.InDelta(t, before[g]/2, back.NuSigmaF()[g], 1e-12)
				assert.InDelta(t, rec.Production()[0][g]/2, back.Production()[0][g], 1e-12)
			}
			assert.Equal(t, before, rec.NuSigmaF())
			assert.InDeltaSlice(t, rec.SigmaF(), back.SigmaF(), 1e-12)
		})
	}
}

// TestWrite_FissionScalingPanics rejects a non-positive factor.
func TestWrite_FissionScalingPanics(t *testing.T) {
	assert.Panics(t, func() { xsfile.WithFissionScaling(0) })
}

// TestWrite_NonRankOneTotalUsesMatrix writes a production matrix when χ⊗νσf
// no longer reproduces it.
func TestWrite_NonRankOneTotalUsesMatrix(t *testing.T) {
	f := records(t)["total"].Fields()
	f.Production = [][]float64{{0.2, 0.4}, {0.05, 0.086}}
	rec, err := xs.FromFields(f)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, xsfile.Write(&buf, rec))
	assert.Contains(t, buf.String(), "PRODUCTION_MATRIX_BEGIN")
	assert.NotContains(t, buf.String(), "CHI_BEGIN")

	back := roundTrip(t, rec)
	assert.Equal(t, xs.FissionMatrix, back.FissionMode())
	for g := range f.Production {
		assert.InDeltaSlice(t, f.Production[g], back.Production()[g], 1e-12)
	}
}

// TestWrite_Header writes comment lines the reader skips.
func TestWrite_Header(t *testing.T) {
	rec, err := xs.MakeSimple0(1, 2)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, xsfile.Write(&buf, rec, xsfile.WithHeader("material fuel", "id 42")))
	assert.True(t, strings.HasPrefix(buf.String(), "# material fuel\n# id 42\n"))

	in, err := xsfile.Parse(&buf, "h.xs")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, in.SigmaT)
}

// TestExportToFile_ReadFile goes through the filesystem.
func TestExportToFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuel.xs")
	rec := records(t)["prompt-delayed"]
	require.NoError(t, xsfile.ExportToFile(path, rec))

	back, err := xsfile.ReadFile(path)
	require.NoError(t, err)
	assertSameRecord(t, rec, back)

	_, err = xsfile.ReadFile(filepath.Join(t.TempDir(), "missing.xs"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestReadFile_LogicErrorNamesPath wraps finalization errors with the path.
func TestReadFile_LogicErrorNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xs")
	text := "NUM_GROUPS 1\nSIGMA_T_BEGIN\n0 1\nSIGMA_T_END\nSIGMA_A_BEGIN\n0 2\nSIGMA_A_END\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	_, err := xsfile.ReadFile(path)
	require.ErrorIs(t, err, xs.ErrLogic)
	assert.Contains(t, err.Error(), path)
}

// TestWrite_ScaledRecordKeepsFlag reads a record scaled in memory back as
// scaled, so scaling it again is a no-op.
func TestWrite_ScaledRecordKeepsFlag(t *testing.T) {
	rec := records(t)["total"]
	require.NoError(t, rec.ScaleFissionData(0.8))

	var buf bytes.Buffer
	require.NoError(t, xsfile.Write(&buf, rec))
	assert.Contains(t, buf.String(), "\nFISSION_SCALED 1\n")

	back := roundTrip(t, rec)
	assert.True(t, back.IsFissionScaled())
	assertSameRecord(t, rec, back)

	nsf := append([]float64(nil), back.NuSigmaF()...)
	require.NoError(t, back.ScaleFissionData(0.8))
	assert.Equal(t, nsf, back.NuSigmaF())
}

// TestWrite_ScalingBelowUnitYield re-reads exports whose yields fall to one
// or below after division by k_eff.
func TestWrite_ScalingBelowUnitYield(t *testing.T) {
	for name, factor := range map[string]float64{"prompt-delayed": 1 / 2.5, "matrix": 0.25} {
		t.Run(name, func(t *testing.T) {
			rec := records(t)[name]
			back := roundTrip(t, rec, xsfile.WithFissionScaling(factor))
			assert.True(t, back.IsFissionScaled())
			assert.False(t, rec.IsFissionScaled())
			for g := range rec.NuSigmaF() {
				assert.InDelta(t, rec.NuSigmaF()[g]*factor, back.NuSigmaF()[g], 1e-12)
				assert.InDelta(t, rec.NuPromptSigmaF()[g]*factor, back.NuPromptSigmaF()[g], 1e-12)
			}
			assert.InDeltaSlice(t, rec.SigmaF(), back.SigmaF(), 1e-12)
		})
	}
}

// TestWrite_UnscaledOmitsFlag writes no FISSION_SCALED line for plain data.
func TestWrite_UnscaledOmitsFlag(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, xsfile.Write(&buf, records(t)["total"]))
	assert.NotContains(t, buf.String(), "FISSION_SCALED")
}
