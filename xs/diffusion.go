// SPDX-License-Identifier: MIT

package xs

import (
	"math"
)

// ComputeDiffusionParameters derives, per group g:
//
//	S1[g]  = Σ_{g''} T1[g''][g]             (out-scatter first moment of g)
//	D[g]   = min(cap, 1 / (3·(σt[g] − S1[g])))
//	σ_gg   = T0[g][g]
//	σr[g]  = max(0, σt[g] − σ_gg)
//
// When S1[g] ≥ σt[g] the transport correction fails: S1 is taken as 0 and a
// warning is logged. Nothing here fails hard; out-of-range values are
// clamped with a warning.
//
// The call is a no-op once DiffusionInitialized is true.
func (r *Record) ComputeDiffusionParameters() {
	if r.diffusionInitialized {
		return
	}
	G := r.numGroups
	r.diffusionCoeff = make([]float64, G)
	r.sigmaRemoval = make([]float64, G)
	r.sigmaWithinGroup = make([]float64, G)

	var s1 []float64
	if t1 := r.TransferMoment(1); t1 != nil {
		s1 = t1.ColSums()
	}
	if t0 := r.TransferMoment(0); t0 != nil {
		for g := 0; g < G; g++ {
			r.sigmaWithinGroup[g], _ = t0.At(g, g)
		}
	}
	for g := 0; g < G; g++ {
		first := 0.0
		if s1 != nil {
			first = s1[g]
		}
		r.deriveGroup(g, first)
	}
	r.diffusionInitialized = true
}

// deriveGroup fills D, σr for group g given its first-moment out-scatter.
func (r *Record) deriveGroup(g int, s1 float64) {
	st := r.sigmaT[g]
	if s1 >= st && s1 != 0 {
		r.opts.logger.Warn("xs: transport correction failed, first moment ignored",
			"group", g, "sigma_t", st, "s1", s1)
		s1 = 0
	}
	d := r.opts.diffusionCap
	if tr := 3 * (st - s1); tr > 0 {
		d = math.Min(d, 1/tr)
	}
	r.diffusionCoeff[g] = d

	removal := st - r.sigmaWithinGroup[g]
	if removal < 0 {
		r.opts.logger.Warn("xs: removal cross section clamped to zero",
			"group", g, "sigma_t", st, "sigma_gg", r.sigmaWithinGroup[g])
		removal = 0
	}
	r.sigmaRemoval[g] = removal
}

// estimateAbsorption sets σa[g] = σt[g] − Σ_{g''} T0[g''][g], or σa = σt
// when the record carries no scattering data. Negative estimates are
// clamped to zero with a warning.
func (r *Record) estimateAbsorption() {
	r.sigmaA = cloneVec(r.sigmaT)
	t0 := r.TransferMoment(0)
	if t0 == nil {
		return
	}
	out := t0.ColSums()
	for g := range r.sigmaA {
		r.sigmaA[g] -= out[g]
		if r.sigmaA[g] < 0 {
			r.opts.logger.Warn("xs: estimated absorption is negative, clamped to zero",
				"group", g, "sigma_a", r.sigmaA[g])
			r.sigmaA[g] = 0
		}
	}
}
