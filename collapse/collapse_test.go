// SPDX-License-Identifier: MIT

package collapse_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/mgxs/collapse"
	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type entry struct {
	g, gp int
	v     float64
}

func record(t *testing.T, sigmaT []float64, entries ...entry) *xs.Record {
	t.Helper()
	s, err := matrix.NewSparse(len(sigmaT))
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Insert(e.g, e.gp, e.v))
	}
	rec, err := xs.New(xs.Input{NumGroups: len(sigmaT), SigmaT: sigmaT, Transfer: []*matrix.Sparse{s}})
	require.NoError(t, err)

	return rec
}

// twoGroup has down-scatter 0.3 and up-scatter 0.05.
func twoGroup(t *testing.T) *xs.Record {
	return record(t, []float64{1, 1}, entry{1, 0, 0.3}, entry{0, 1, 0.05})
}

var threeGroupTotal = []float64{1, 1.5, 2}

var threeGroupScatter = []entry{
	{0, 0, 0.5}, {1, 0, 0.3}, {2, 0, 0.1},
	{1, 1, 0.9}, {2, 1, 0.4}, {0, 1, 0.05},
	{2, 2, 1.5}, {1, 2, 0.1},
}

// TestCollapse_GaussTwoGroup converges to the analytic eigenpair.
func TestCollapse_GaussTwoGroup(t *testing.T) {
	for _, relax := range []collapse.Relaxation{collapse.Full, collapse.Partial} {
		res, err := collapse.Collapse(twoGroup(t), collapse.Gauss, relax)
		require.NoError(t, err)
		require.NoError(t, res.Warning)

		assert.InDelta(t, 0.015, res.Eigenvalue, 1e-12)
		assert.Greater(t, res.Eigenvalue, 0.0)
		assert.Less(t, res.Eigenvalue, 1.0)
		assert.InDeltaSlice(t, []float64{10.0 / 13, 3.0 / 13}, res.Spectrum, 1e-12)
		assert.InDelta(t, 1.0, floats.Sum(res.Spectrum), 1e-15)
		assert.InDelta(t, 1-3.15/13, res.SigmaAbsorption, 1e-12)
		assert.InDelta(t, 1.0/3, res.DiffusionCoefficient, 1e-12)
	}
}

// TestCollapse_JacobiOscillates returns a warning with a usable estimate
// when the dominant eigenvalues have equal magnitude.
func TestCollapse_JacobiOscillates(t *testing.T) {
	res, err := collapse.Collapse(twoGroup(t), collapse.Jacobi, collapse.Full, collapse.WithMaxIterations(50))
	require.NoError(t, err)
	require.ErrorIs(t, res.Warning, xs.ErrConvergence)

	var w *xs.ConvergenceWarning
	require.ErrorAs(t, res.Warning, &w)
	assert.Equal(t, 50, w.Iterations)
	assert.Equal(t, 50, res.Iterations)
	assert.InDelta(t, 1.0, floats.Sum(res.Spectrum), 1e-15)
	for _, v := range res.Spectrum {
		assert.Greater(t, v, 0.0)
	}
}

// TestCollapse_MatchesDenseEigen compares every scheme against an
// independent dense eigendecomposition of A⁻¹B.
func TestCollapse_MatchesDenseEigen(t *testing.T) {
	rec := record(t, threeGroupTotal, threeGroupScatter...)
	schemes := []struct {
		name  string
		mode  collapse.Mode
		relax collapse.Relaxation
	}{
		{"jacobi", collapse.Jacobi, collapse.Full},
		{"partial-jacobi", collapse.Jacobi, collapse.Partial},
		{"gauss", collapse.Gauss, collapse.Full},
		{"partial-gauss", collapse.Gauss, collapse.Partial},
	}
	for _, sc := range schemes {
		t.Run(sc.name, func(t *testing.T) {
			res, err := collapse.Collapse(rec, sc.mode, sc.relax, collapse.WithMaxIterations(100000))
			require.NoError(t, err)
			require.NoError(t, res.Warning)

			c := oracleOperator(t, sc.mode, sc.relax)
			var eig mat.Eigen
			require.True(t, eig.Factorize(c, mat.EigenNone))
			dominant := 0.0
			for _, v := range eig.Values(nil) {
				if cmplx.Abs(v) > math.Abs(dominant) {
					dominant = real(v)
				}
			}
			assert.InDelta(t, dominant, res.Eigenvalue, 1e-9)

			phi := mat.NewVecDense(3, res.Spectrum)
			var cphi mat.VecDense
			cphi.MulVec(c, phi)
			for g := 0; g < 3; g++ {
				assert.InDelta(t, res.Eigenvalue*res.Spectrum[g], cphi.AtVec(g), 1e-8)
			}
		})
	}
}

// oracleOperator builds A⁻¹B with gonum from the three-group data.
func oracleOperator(t *testing.T, mode collapse.Mode, relax collapse.Relaxation) *mat.Dense {
	t.Helper()
	a := mat.NewDense(3, 3, nil)
	b := mat.NewDense(3, 3, nil)
	for g, st := range threeGroupTotal {
		a.Set(g, g, st)
	}
	for _, e := range threeGroupScatter {
		switch {
		case e.g == e.gp && relax == collapse.Partial:
			a.Set(e.g, e.g, a.At(e.g, e.g)-e.v)
		case e.gp < e.g && mode == collapse.Gauss:
			a.Set(e.g, e.gp, -e.v)
		default:
			b.Set(e.g, e.gp, e.v)
		}
	}
	var c mat.Dense
	require.NoError(t, c.Solve(a, b))

	return &c
}

// TestCollapse_NoScattering returns the flat placeholder with a spectrum
// normalized to 1.
func TestCollapse_NoScattering(t *testing.T) {
	rec, err := xs.MakeSimple0(3, 1)
	require.NoError(t, err)
	res, err := collapse.Collapse(rec, collapse.Gauss, collapse.Full)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1. / 3, 1. / 3, 1. / 3}, res.Spectrum, 1e-15)
	assert.InDelta(t, 1.0, floats.Sum(res.Spectrum), 1e-12)
	assert.Zero(t, res.Iterations)
	assert.Equal(t, 1.0, res.DiffusionCoefficient)
	assert.Equal(t, 1.0, res.SigmaAbsorption)
}

// TestCollapse_DegenerateGroup forces a unit diagonal for a void group.
func TestCollapse_DegenerateGroup(t *testing.T) {
	rec := record(t, []float64{1, 0}, entry{0, 0, 0.5}, entry{1, 0, 0.3})
	res, err := collapse.Collapse(rec, collapse.Gauss, collapse.Full)
	require.NoError(t, err)
	require.NoError(t, res.Warning)
	assert.InDelta(t, 0.5, res.Eigenvalue, 1e-12)
	assert.InDeltaSlice(t, []float64{1 / 1.3, 0.3 / 1.3}, res.Spectrum, 1e-12)
}

// TestCollapse_SingularSolveMatrix reports a LogicError.
func TestCollapse_SingularSolveMatrix(t *testing.T) {
	rec := record(t, []float64{1, 1}, entry{0, 0, 1}, entry{1, 1, 0.5})
	_, err := collapse.Collapse(rec, collapse.Jacobi, collapse.Partial)
	require.ErrorIs(t, err, xs.ErrLogic)
}

// TestParseScheme covers every name.
func TestParseScheme(t *testing.T) {
	cases := map[string]struct {
		mode  collapse.Mode
		relax collapse.Relaxation
	}{
		"jacobi":         {collapse.Jacobi, collapse.Full},
		"gauss":          {collapse.Gauss, collapse.Full},
		"partial-jacobi": {collapse.Jacobi, collapse.Partial},
		"partial-gauss":  {collapse.Gauss, collapse.Partial},
	}
	for name, want := range cases {
		mode, relax, ok := collapse.ParseScheme(name)
		require.True(t, ok, name)
		assert.Equal(t, want.mode, mode)
		assert.Equal(t, want.relax, relax)
	}
	_, _, ok := collapse.ParseScheme("sor")
	assert.False(t, ok)
	assert.Equal(t, "gauss", collapse.Gauss.String())
	assert.Equal(t, "partial", collapse.Partial.String())
}
