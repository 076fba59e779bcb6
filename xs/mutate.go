// SPDX-License-Identifier: MIT

package xs

import "gonum.org/v1/gonum/floats"

const (
	opScale = "ScaleFissionData"
	opPatch = "SetSigmaTotal"
)

// ScaleFissionData multiplies every production quantity (νσf, νpσf, νdσf
// and the production matrix) by factor, typically 1/k_eff. It applies at
// most once: later calls log a warning and change nothing.
//
// Errors: *LogicError when factor is not finite and positive.
func (r *Record) ScaleFissionData(factor float64) error {
	if !finite(factor) || factor <= 0 {
		return logicErrorf(opScale, "factor", -1, "must be finite and > 0, got %g", factor)
	}
	if r.fissionScaled {
		r.opts.logger.Warn("xs: fission data already scaled, ignoring", "factor", factor)
		return nil
	}
	floats.Scale(factor, r.nuSigmaF)
	floats.Scale(factor, r.nuPromptSigmaF)
	floats.Scale(factor, r.nuDelayedSigmaF)
	for _, row := range r.production {
		floats.Scale(factor, row)
	}
	r.fissionScaled = true

	return nil
}

// SetSigmaTotal replaces σt in one group and re-derives that group's
// diffusion coefficient and removal cross section. It is the only
// mutation permitted on a finalized record and exists for parametric
// studies; it must not run while a solver iterates on the record.
//
// Errors: *LogicError for an out-of-range group, a negative or non-finite
// value, or a value below the group's absorption.
func (r *Record) SetSigmaTotal(g int, value float64) error {
	if g < 0 || g >= r.numGroups {
		return logicErrorf(opPatch, "SIGMA_T", g, "group out of range [0,%d)", r.numGroups)
	}
	if !finite(value) || value < 0 {
		return logicErrorf(opPatch, "SIGMA_T", g, "must be finite and >= 0, got %g", value)
	}
	if r.sigmaA[g] > value*(1+AbsorptionTolerance)+AbsorptionTolerance {
		return logicErrorf(opPatch, "SIGMA_T", g, "value %g is below absorption %g", value, r.sigmaA[g])
	}
	r.sigmaT[g] = value

	s1 := 0.0
	if t1 := r.TransferMoment(1); t1 != nil {
		s1 = t1.ColSums()[g]
	}
	r.ComputeDiffusionParameters()
	r.deriveGroup(g, s1)

	return nil
}
