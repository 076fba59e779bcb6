// SPDX-License-Identifier: MIT
// Package xs: Monte Carlo scattering tables and sampling.
//
// Two tables are built lazily, once per record:
//   - transferCDF[g'][g]: probability that a particle scattering in source
//     group g' leaves in a group ≤ g (normalized ℓ=0 columns, running sum);
//   - angleTables[g'][g]: discrete cosines with cumulative weights,
//     reconstructed from the Legendre moments of T_ℓ[g][g'].

package xs

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/mgxs/angular"
	"gonum.org/v1/gonum/floats"
)

const (
	opBuildTables = "BuildTables"
	opSample      = "Sample"
)

// AngleTable is a discrete scattering-angle distribution for one
// (source, destination) group pair.
type AngleTable struct {
	Cosines    []float64 // ascending, within [−1,1]
	Cumulative []float64 // non-decreasing, last entry 1
}

// BuildTables builds the energy-transfer CDF and the scattering-angle
// tables. Only the first call does work; later calls return its outcome.
// Points dropped by the angular reconstruction are reported as a logged
// ConvergenceWarning.
//
// Errors: wrapped angular errors (corrupted moments).
func (r *Record) BuildTables() error {
	r.tablesOnce.Do(func() {
		r.tablesErr = r.buildTables()
	})

	return r.tablesErr
}

func (r *Record) buildTables() error {
	G := r.numGroups
	cdf := make([][]float64, G)
	column := make([]float64, G)
	var transposed = r.TransferMoment(0)
	if transposed != nil {
		transposed = transposed.Transpose() // row g' = destinations of source g'
	}
	for gp := 0; gp < G; gp++ {
		for g := range column {
			column[g] = 0
		}
		if transposed != nil {
			cols, vals := transposed.Row(gp)
			for k, g := range cols {
				column[g] = math.Max(0, vals[k])
			}
		}
		cdf[gp] = make([]float64, G)
		sum := floats.Sum(column)
		if !(sum > 0) {
			// Nothing scatters out of g': the particle stays in its group.
			for g := gp; g < G; g++ {
				cdf[gp][g] = 1
			}
			continue
		}
		floats.CumSum(cdf[gp], column)
		floats.Scale(1/sum, cdf[gp])
		for g := 1; g < G; g++ {
			cdf[gp][g] = math.Min(1, math.Max(cdf[gp][g], cdf[gp][g-1]))
		}
		cdf[gp][G-1] = 1
	}

	tables, reduced, err := r.buildAngleTables()
	if err != nil {
		return fmt.Errorf("%s: %w", opBuildTables, err)
	}
	if reduced > 0 {
		w := &ConvergenceWarning{Op: opBuildTables, Change: float64(reduced),
			Msg: "angular reconstruction dropped points for non-realizable moments"}
		r.opts.logger.Warn("xs: "+w.Error(), "pairs", reduced)
	}

	r.mu.Lock()
	r.transferCDF = cdf
	r.angleTables = tables
	r.scatteringInitialized = true
	r.mu.Unlock()

	return nil
}

// buildAngleTables returns nil tables when the usable order is 0.
func (r *Record) buildAngleTables() ([][]*AngleTable, int, error) {
	order := r.opts.angularOrder
	if order > r.scatteringOrder {
		order = r.scatteringOrder
	}
	if order == 0 || r.transfer == nil {
		return nil, 0, nil
	}
	G := r.numGroups
	tables := make([][]*AngleTable, G)
	for gp := range tables {
		tables[gp] = make([]*AngleTable, G)
	}

	reduced := 0
	moments := make([]float64, order+1)
	var err error
	for g := 0; g < G; g++ {
		cols, vals := r.transfer[0].Row(g)
		for k, gp := range cols {
			if vals[k] <= NegligibleTransfer {
				continue
			}
			moments[0] = vals[k]
			for ell := 1; ell <= order; ell++ {
				if moments[ell], err = r.transfer[ell].At(g, gp); err != nil {
					return nil, 0, err
				}
			}
			res, err := angular.Reconstruct(moments)
			if err != nil {
				return nil, 0, fmt.Errorf("pair %d→%d: %w", gp, g, err)
			}
			if res.Reduced() {
				reduced++
			}
			if len(res.Nodes) == 0 {
				continue
			}
			tbl := &AngleTable{
				Cosines:    make([]float64, len(res.Nodes)),
				Cumulative: make([]float64, len(res.Nodes)),
			}
			for i, n := range res.Nodes {
				tbl.Cosines[i] = n.Cosine
				tbl.Cumulative[i] = n.Weight
			}
			floats.CumSum(tbl.Cumulative, tbl.Cumulative)
			tbl.Cumulative[len(tbl.Cumulative)-1] = 1
			tables[gp][g] = tbl
		}
	}

	return tables, reduced, nil
}

// EnergyTransferCDF returns the CDF table [g'][g], building it if needed.
func (r *Record) EnergyTransferCDF() ([][]float64, error) {
	if err := r.BuildTables(); err != nil {
		return nil, err
	}

	return r.transferCDF, nil
}

// AngleTable returns the table for source g' and destination g, or nil
// when the pair scatters isotropically (or not at all).
func (r *Record) AngleTable(gp, g int) (*AngleTable, error) {
	if err := r.checkPair(gp, g); err != nil {
		return nil, err
	}
	if err := r.BuildTables(); err != nil {
		return nil, err
	}
	if r.angleTables == nil {
		return nil, nil
	}

	return r.angleTables[gp][g], nil
}

// SampleExitGroup returns the destination group for a particle scattering
// in source group gp, given a uniform draw u ∈ [0,1]: the first group
// whose cumulative probability exceeds u.
//
// Errors: *LogicError for an out-of-range group or draw.
func (r *Record) SampleExitGroup(gp int, u float64) (int, error) {
	if err := r.checkPair(gp, 0); err != nil {
		return 0, err
	}
	if err := checkDraw(u); err != nil {
		return 0, err
	}
	cdf, err := r.EnergyTransferCDF()
	if err != nil {
		return 0, err
	}
	row := cdf[gp]
	g := sort.Search(len(row), func(i int) bool { return row[i] > u })
	if g == len(row) {
		g = len(row) - 1
	}

	return g, nil
}

// SampleCosine returns a scattering cosine for the pair gp → g. It samples
// uniformly in [−1,1] when forceIsotropic is set or the pair has no angle
// table; otherwise it inverts the discrete table. The result is clamped to
// [−1,1].
//
// Errors: *LogicError for out-of-range input; *InternalConsistencyError
// when the table yields NaN (a corrupted table, always fatal).
func (r *Record) SampleCosine(gp, g int, u float64, forceIsotropic bool) (float64, error) {
	if err := checkDraw(u); err != nil {
		return 0, err
	}
	if forceIsotropic {
		if err := r.checkPair(gp, g); err != nil {
			return 0, err
		}
		return clampCosine(2*u - 1), nil
	}
	tbl, err := r.AngleTable(gp, g)
	if err != nil {
		return 0, err
	}
	if tbl == nil || len(tbl.Cosines) == 0 {
		return clampCosine(2*u - 1), nil
	}

	i := sort.Search(len(tbl.Cumulative), func(k int) bool { return tbl.Cumulative[k] > u })
	if i == len(tbl.Cumulative) {
		i = len(tbl.Cumulative) - 1
	}
	mu := tbl.Cosines[i]
	if math.IsNaN(mu) {
		return 0, &InternalConsistencyError{Op: opSample,
			Msg: fmt.Sprintf("NaN cosine in angle table %d→%d at index %d", gp, g, i)}
	}

	return clampCosine(mu), nil
}

// checkPair validates source and destination group indices.
func (r *Record) checkPair(gp, g int) error {
	if gp < 0 || gp >= r.numGroups {
		return logicErrorf(opSample, "source group", gp, "out of range [0,%d)", r.numGroups)
	}
	if g < 0 || g >= r.numGroups {
		return logicErrorf(opSample, "destination group", g, "out of range [0,%d)", r.numGroups)
	}

	return nil
}

func checkDraw(u float64) error {
	if math.IsNaN(u) || u < 0 || u > 1 {
		return logicErrorf(opSample, "u", -1, "uniform draw must lie in [0,1], got %g", u)
	}

	return nil
}

func clampCosine(mu float64) float64 {
	return math.Max(-1, math.Min(1, mu))
}
