// SPDX-License-Identifier: MIT

package xs

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Validate re-checks the invariants every finalized record must satisfy:
//
//  1. χ, χp and every precursor emission spectrum sum to 1;
//  2. precursor fractional yields sum to 1;
//  3. σa[g] ≤ σt[g] within AbsorptionTolerance;
//  4. D[g] is positive and finite;
//  5. every transfer moment is G×G;
//  6. energy-transfer CDF rows are non-decreasing within [0,1].
//
// It returns the first violation as a *LogicError (errors.Is ErrLogic).
func (r *Record) Validate() error {
	spectra := []struct {
		name string
		v    []float64
	}{{"Chi", r.chi}, {"ChiPrompt", r.chiPrompt}}
	for _, s := range spectra {
		if s.v != nil && math.Abs(floats.Sum(s.v)-1) > SpectrumTolerance {
			return logicErrorf(opValidate, s.name, -1, "sums to %g, want 1", floats.Sum(s.v))
		}
	}
	if len(r.precursors) > 0 {
		yields := 0.0
		for j, p := range r.precursors {
			if sum := floats.Sum(p.EmissionSpectrum); math.Abs(sum-1) > SpectrumTolerance {
				return logicErrorf(opValidate, "EmissionSpectrum", j, "sums to %g, want 1", sum)
			}
			yields += p.FractionalYield
		}
		if math.Abs(yields-1) > SpectrumTolerance {
			return logicErrorf(opValidate, "FractionalYield", -1, "sums to %g, want 1", yields)
		}
	}
	if err := r.checkAbsorption(opValidate); err != nil {
		return err
	}
	for g, d := range r.diffusionCoeff {
		if !(d > 0) || math.IsInf(d, 0) {
			return logicErrorf(opValidate, "DiffusionCoefficient", g, "must be positive and finite, got %g", d)
		}
	}
	for ell, t := range r.transfer {
		if t == nil || t.Dim() != r.numGroups {
			return logicErrorf(opValidate, "Transfer", ell, "dimension does not match %d groups", r.numGroups)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for gp, row := range r.transferCDF {
		prev := 0.0
		for g, c := range row {
			if c < prev || c < 0 || c > 1+SpectrumTolerance {
				return logicErrorf(opValidate, "EnergyTransferCDF", gp, "entry %d is %g after %g", g, c, prev)
			}
			prev = c
		}
	}

	return nil
}
