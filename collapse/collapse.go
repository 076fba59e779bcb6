// SPDX-License-Identifier: MIT

package collapse

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
	"gonum.org/v1/gonum/floats"
)

const opCollapse = "Collapse"

// Mode selects where down-scatter goes in the splitting.
type Mode int

const (
	// Jacobi keeps all scattering in the iterate matrix.
	Jacobi Mode = iota
	// Gauss moves down-scatter into the solve matrix.
	Gauss
)

// String returns "jacobi" or "gauss".
func (m Mode) String() string {
	if m == Gauss {
		return "gauss"
	}

	return "jacobi"
}

// Relaxation selects where within-group scatter goes.
type Relaxation int

const (
	// Full keeps self-scatter in the iterate matrix.
	Full Relaxation = iota
	// Partial moves self-scatter into the solve matrix.
	Partial
)

// String returns "full" or "partial".
func (r Relaxation) String() string {
	if r == Partial {
		return "partial"
	}

	return "full"
}

// ParseScheme reads "jacobi", "gauss", "partial-jacobi" or "partial-gauss".
func ParseScheme(s string) (Mode, Relaxation, bool) {
	switch s {
	case "jacobi":
		return Jacobi, Full, true
	case "gauss":
		return Gauss, Full, true
	case "partial-jacobi":
		return Jacobi, Partial, true
	case "partial-gauss":
		return Gauss, Partial, true
	}

	return Jacobi, Full, false
}

// Result is the collapsed one-group data.
type Result struct {
	Spectrum             []float64 // φ[g], sums to 1
	DiffusionCoefficient float64
	SigmaAbsorption      float64
	Eigenvalue           float64 // dominant eigenvalue of A⁻¹B
	Iterations           int
	// Warning is a *xs.ConvergenceWarning when the power iteration hit its
	// cap; the other fields then hold the best estimate.
	Warning error
}

// Collapse computes the collapse spectrum and the spectrum-weighted
// diffusion coefficient and absorption of rec.
//
// A record without scattering data yields the flat placeholder
// {Spectrum: uniform 1/G, D: 1, σa: 1} without iterating.
//
// Errors: *xs.LogicError when A is singular after the degenerate-group
// correction; wrapped matrix errors otherwise. Non-convergence is not an
// error: see Result.Warning.
func Collapse(rec *xs.Record, mode Mode, relax Relaxation, opts ...Option) (Result, error) {
	o := gatherOptions(opts...)
	G := rec.NumGroups()
	t0 := rec.TransferMoment(0)
	if t0 == nil {
		res := Result{Spectrum: make([]float64, G), DiffusionCoefficient: 1, SigmaAbsorption: 1}
		for g := range res.Spectrum {
			res.Spectrum[g] = 1 / float64(G)
		}
		return res, nil
	}

	a, b, err := split(rec, mode, relax)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", opCollapse, err)
	}
	inv, err := matrix.Inverse(a)
	if errors.Is(err, matrix.ErrSingular) {
		return Result{}, &xs.LogicError{Op: opCollapse, Field: "A", Index: -1,
			Msg: fmt.Sprintf("%s/%s solve matrix is singular", mode, relax)}
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", opCollapse, err)
	}
	c, err := matrix.Mul(inv, b)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", opCollapse, err)
	}

	pr, err := matrix.PowerIteration(c, nil, matrix.WithTolerance(o.tol), matrix.WithMaxIterations(o.maxIter))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", opCollapse, err)
	}
	res := Result{Eigenvalue: pr.Value, Iterations: pr.Iterations}
	if !pr.Converged {
		w := &xs.ConvergenceWarning{Op: opCollapse, Iterations: pr.Iterations, Change: pr.Change,
			Msg: "power iteration did not reach the tolerance"}
		o.logger.Warn("collapse: "+w.Msg, "scheme", mode.String()+"/"+relax.String(),
			"iterations", pr.Iterations, "change", pr.Change)
		res.Warning = w
	}

	res.Spectrum = make([]float64, G)
	for g, v := range pr.Vector {
		res.Spectrum[g] = math.Abs(v)
	}
	if sum := floats.Sum(res.Spectrum); sum > 0 {
		floats.Scale(1/sum, res.Spectrum)
	}

	res.DiffusionCoefficient = floats.Dot(rec.DiffusionCoefficient(), res.Spectrum)
	scattered, err := matrix.MatVec(t0, res.Spectrum)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", opCollapse, err)
	}
	res.SigmaAbsorption = floats.Dot(rec.SigmaT(), res.Spectrum) - floats.Sum(scattered)

	return res, nil
}

// split builds the dense solve and iterate matrices.
func split(rec *xs.Record, mode Mode, relax Relaxation) (*matrix.Dense, *matrix.Dense, error) {
	G := rec.NumGroups()
	st := rec.SigmaT()
	a, err := matrix.NewDense(G, G)
	if err != nil {
		return nil, nil, err
	}
	b, err := matrix.NewDense(G, G)
	if err != nil {
		return nil, nil, err
	}

	for g := 0; g < G; g++ {
		_ = a.Set(g, g, st[g])
	}
	rec.TransferMoment(0).Each(func(g, gp int, s float64) {
		switch {
		case g == gp && relax == Partial:
			v, _ := a.At(g, g)
			_ = a.Set(g, g, v-s)
		case gp < g && mode == Gauss:
			v, _ := a.At(g, gp)
			_ = a.Set(g, gp, v-s)
		default:
			v, _ := b.At(g, gp)
			_ = b.Set(g, gp, v+s)
		}
	})
	for g := 0; g < G; g++ {
		if st[g] < DegenerateTotal {
			_ = a.Set(g, g, 1)
		}
	}

	return a, b, nil
}
