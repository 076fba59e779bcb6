// SPDX-License-Identifier: MIT
// Package xs: fission-data finalizer.
//
// The finalizer runs once per construction path (from New). It decides
// fissionability, picks exactly one specification mode, completes the
// missing quantities and builds the production operator:
//
//	total          production[g][g'] = χ(g)·νσf(g')
//	prompt-delayed production[g][g'] = χp(g)·νpσf(g') + Σ_j γ_j·χd_j(g)·νdσf(g')
//	matrix         production given; νσf(g') = Σ_g production[g][g']
//
// With β(g') = νd/ν the prompt-delayed form equals
// (1−β)·χp·νσf + Σ_j β·γ_j·χd_j·νσf, i.e. every column sums to νσf(g').

package xs

import "math"

const (
	opFinalize = "Finalize"

	// maxMatrixNu bounds the yield implied by a production matrix.
	maxMatrixNu = 10.0
)

// finalizeFission completes fission fields from in.
func (r *Record) finalizeFission(in *Input) error {
	r.fissionable = anyPositive(in.SigmaF) || anyPositive(in.NuSigmaF) || in.Production != nil
	if !r.fissionable {
		if in.NumPrecursors > 0 || in.Nu != nil || in.NuPrompt != nil || in.Chi != nil || in.ChiPrompt != nil {
			r.opts.logger.Warn("xs: fission yields/spectra given for a non-fissionable record are ignored",
				"precursors", in.NumPrecursors)
		}
		r.clearFission()
		return nil
	}

	switch {
	case in.Production != nil:
		return r.finalizeMatrix(in)
	case in.NumPrecursors > 0:
		return r.finalizePromptDelayed(in)
	default:
		return r.finalizeTotal(in)
	}
}

// clearFission resets every fission field to the non-fissionable state.
func (r *Record) clearFission() {
	G := r.numGroups
	r.fissionable = false
	r.mode = FissionNone
	r.sigmaF = make([]float64, G)
	r.nuSigmaF = make([]float64, G)
	r.nuPromptSigmaF = make([]float64, G)
	r.nuDelayedSigmaF = make([]float64, G)
	r.chi, r.chiPrompt = nil, nil
	r.production = nil
	r.precursors = nil
}

// finalizeTotal handles fissionable data without precursors: either the
// (NU, CHI) pair or the (NU_PROMPT, CHI_PROMPT) pair, which then stands
// for the total.
func (r *Record) finalizeTotal(in *Input) error {
	G := r.numGroups
	totalGiven := in.Nu != nil || in.Chi != nil
	promptGiven := in.NuPrompt != nil || in.ChiPrompt != nil
	if totalGiven && promptGiven {
		return logicErrorf(opFinalize, "NU/CHI", -1, "ambiguous: both total (NU, CHI) and prompt (NU_PROMPT, CHI_PROMPT) data given without precursors")
	}
	if in.NuDelayed != nil || in.Beta != nil {
		r.opts.logger.Warn("xs: delayed yield data ignored without precursors")
	}

	nu, chi, nuName, chiName := in.Nu, in.Chi, "NU", "CHI"
	if promptGiven {
		nu, chi, nuName, chiName = in.NuPrompt, in.ChiPrompt, "NU_PROMPT", "CHI_PROMPT"
	}
	if chi == nil {
		return logicErrorf(opFinalize, chiName, -1, "fission spectrum required for a fissionable record")
	}
	if nu == nil && in.NuSigmaF == nil {
		return logicErrorf(opFinalize, nuName, -1, "yield (or NU_SIGMA_F) required for a fissionable record")
	}

	var err error
	if r.chi, err = normalizeSpectrum(opFinalize, chiName, -1, chi); err != nil {
		return err
	}
	r.sigmaF, r.nuSigmaF = r.resolveProduction(in.SigmaF, in.NuSigmaF, nu)
	r.nuPromptSigmaF = cloneVec(r.nuSigmaF)
	r.nuDelayedSigmaF = make([]float64, G)

	r.production = zeroMatrix(G)
	for g := 0; g < G; g++ {
		for gp := 0; gp < G; gp++ {
			r.production[g][gp] = r.chi[g] * r.nuSigmaF[gp]
		}
	}
	r.mode = FissionTotal

	return nil
}

// finalizePromptDelayed handles precursor-aware data. Yields come either
// as (NU_PROMPT, NU_DELAYED) or as (NU, BETA); the other pair is derived.
func (r *Record) finalizePromptDelayed(in *Input) error {
	G, J := r.numGroups, in.NumPrecursors
	pdGiven := in.NuPrompt != nil || in.NuDelayed != nil
	tbGiven := in.Nu != nil || in.Beta != nil
	if pdGiven && tbGiven {
		return logicErrorf(opFinalize, "NU", -1, "ambiguous: both (NU, BETA) and (NU_PROMPT, NU_DELAYED) given")
	}

	nuP := make([]float64, G)
	nuD := make([]float64, G)
	nu := make([]float64, G)
	switch {
	case pdGiven:
		if in.NuPrompt == nil {
			return logicErrorf(opFinalize, "NU_PROMPT", -1, "required with NU_DELAYED")
		}
		if in.NuDelayed == nil {
			return logicErrorf(opFinalize, "NU_DELAYED", -1, "required with NU_PROMPT when precursors are present")
		}
		for g := 0; g < G; g++ {
			nuP[g], nuD[g] = in.NuPrompt[g], in.NuDelayed[g]
			nu[g] = nuP[g] + nuD[g]
		}
	case tbGiven:
		if in.Nu == nil {
			return logicErrorf(opFinalize, "NU", -1, "required with BETA")
		}
		if in.Beta == nil {
			return logicErrorf(opFinalize, "BETA", -1, "required with NU when precursors are present")
		}
		for g := 0; g < G; g++ {
			nu[g] = in.Nu[g]
			nuP[g] = (1 - in.Beta[g]) * nu[g]
			nuD[g] = in.Beta[g] * nu[g]
		}
	default:
		return logicErrorf(opFinalize, "NU_PROMPT", -1, "prompt and delayed yields (or NU and BETA) required when precursors are present")
	}

	if in.Chi != nil {
		return logicErrorf(opFinalize, "CHI", -1, "ambiguous: a total spectrum was given with precursors, use CHI_PROMPT")
	}
	if in.ChiPrompt == nil {
		return logicErrorf(opFinalize, "CHI_PROMPT", -1, "required when precursors are present")
	}
	if in.DecayConstants == nil {
		return logicErrorf(opFinalize, "PRECURSOR_DECAY_CONSTANTS", -1, "required when precursors are present")
	}
	if in.FractionalYields == nil {
		return logicErrorf(opFinalize, "PRECURSOR_FRACTIONAL_YIELDS", -1, "required when precursors are present")
	}
	if in.ChiDelayed == nil {
		return logicErrorf(opFinalize, "CHI_DELAYED", -1, "required when precursors are present")
	}

	var err error
	if r.chiPrompt, err = normalizeSpectrum(opFinalize, "CHI_PROMPT", -1, in.ChiPrompt); err != nil {
		return err
	}
	yields, err := normalizeSpectrum(opFinalize, "PRECURSOR_FRACTIONAL_YIELDS", -1, in.FractionalYields)
	if err != nil {
		return err
	}
	r.precursors = make([]Precursor, J)
	for j := 0; j < J; j++ {
		spectrum, err := normalizeSpectrum(opFinalize, "CHI_DELAYED", j, in.ChiDelayed[j])
		if err != nil {
			return err
		}
		r.precursors[j] = Precursor{
			DecayConstant:    in.DecayConstants[j],
			FractionalYield:  yields[j],
			EmissionSpectrum: spectrum,
		}
	}

	r.sigmaF, r.nuSigmaF = r.resolveProduction(in.SigmaF, in.NuSigmaF, nu)
	r.nuPromptSigmaF = make([]float64, G)
	r.nuDelayedSigmaF = make([]float64, G)
	for g := 0; g < G; g++ {
		r.nuPromptSigmaF[g] = nuP[g] * r.sigmaF[g]
		r.nuDelayedSigmaF[g] = nuD[g] * r.sigmaF[g]
	}
	r.production = r.promptDelayedProduction()
	r.mode = FissionPromptDelayed

	return nil
}

// promptDelayedProduction builds χp⊗νpσf + Σ_j γ_j·χd_j⊗νdσf.
func (r *Record) promptDelayedProduction() [][]float64 {
	G := r.numGroups
	p := zeroMatrix(G)
	var g, gp int
	for g = 0; g < G; g++ {
		delayed := 0.0
		for _, pr := range r.precursors {
			delayed += pr.FractionalYield * pr.EmissionSpectrum[g]
		}
		for gp = 0; gp < G; gp++ {
			p[g][gp] = r.chiPrompt[g]*r.nuPromptSigmaF[gp] + delayed*r.nuDelayedSigmaF[gp]
		}
	}

	return p
}

// finalizeMatrix handles a user-supplied production matrix.
func (r *Record) finalizeMatrix(in *Input) error {
	G := r.numGroups
	if in.NumPrecursors > 0 {
		return logicErrorf(opFinalize, "PRODUCTION_MATRIX", -1, "cannot be combined with precursors")
	}
	if in.SigmaF == nil {
		return logicErrorf(opFinalize, "SIGMA_F", -1, "required with PRODUCTION_MATRIX")
	}
	if in.Nu != nil || in.NuPrompt != nil || in.NuDelayed != nil || in.Beta != nil ||
		in.Chi != nil || in.ChiPrompt != nil || in.NuSigmaF != nil {
		r.opts.logger.Warn("xs: yields and spectra are ignored when PRODUCTION_MATRIX is given")
	}

	r.production = cloneRows(in.Production)
	r.sigmaF = cloneVec(in.SigmaF)
	r.nuSigmaF = make([]float64, G)
	for g := 0; g < G; g++ {
		for gp := 0; gp < G; gp++ {
			r.nuSigmaF[gp] += r.production[g][gp]
		}
	}
	for g := 0; g < G && !in.FissionScaled; g++ {
		if r.sigmaF[g] <= 0 {
			continue
		}
		nu := r.nuSigmaF[g] / r.sigmaF[g]
		if nu != 0 && (nu <= 1 || nu >= maxMatrixNu) {
			return logicErrorf(opFinalize, "PRODUCTION_MATRIX", g, "implied yield %g must be 0 or in (1, %g)", nu, maxMatrixNu)
		}
	}
	r.nuPromptSigmaF = cloneVec(r.nuSigmaF)
	r.nuDelayedSigmaF = make([]float64, G)
	r.mode = FissionMatrix

	return nil
}

// resolveProduction returns (σf, νσf). With a yield ν, νσf = ν·σf where σf
// is given, or derived as νσf/ν; without one, the given νσf is kept.
func (r *Record) resolveProduction(sigmaF, nuSigmaF, nu []float64) ([]float64, []float64) {
	G := r.numGroups
	sf := make([]float64, G)
	nsf := make([]float64, G)
	mismatch := false
	for g := 0; g < G; g++ {
		switch {
		case nu != nil && sigmaF != nil:
			sf[g] = sigmaF[g]
			nsf[g] = nu[g] * sigmaF[g]
			if nuSigmaF != nil && !closeTo(nuSigmaF[g], nsf[g]) {
				mismatch = true
			}
		case nu != nil:
			if nu[g] > 0 {
				sf[g] = nuSigmaF[g] / nu[g]
				nsf[g] = nuSigmaF[g]
			} else if nuSigmaF[g] > 0 {
				r.opts.logger.Warn("xs: production dropped for a group with zero yield", "group", g)
			}
		default:
			nsf[g] = nuSigmaF[g]
			if sigmaF != nil {
				sf[g] = sigmaF[g]
			}
		}
	}
	if mismatch {
		r.opts.logger.Warn("xs: NU_SIGMA_F disagrees with NU·SIGMA_F, using NU·SIGMA_F")
	}

	return sf, nsf
}

// closeTo compares with a relative tolerance of 1e-8.
func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8*math.Max(math.Abs(a), math.Abs(b))
}
