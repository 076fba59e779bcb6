// SPDX-License-Identifier: MIT

package xs

import (
	"math"

	"github.com/katalvlaran/mgxs/matrix"
	"gonum.org/v1/gonum/floats"
)

const opFromFields = "FromFields"

// Fields is the finalized content of a record: what a combiner, a
// snapshot or an adjoint transform produces. Unlike Input, nothing is
// derived from yields; production data is taken as is.
type Fields struct {
	NumGroups       int
	ScatteringOrder int
	Mode            FissionMode

	SigmaT, SigmaA, SigmaF                     []float64
	NuSigmaF, NuPromptSigmaF, NuDelayedSigmaF []float64
	Chi, ChiPrompt                             []float64

	Transfer   []*matrix.Sparse
	Production [][]float64
	Precursors []Precursor

	InvVelocity    []float64
	GroupStructure []EnergyBin

	FissionScaled bool
}

// Fields returns a deep copy of the record's finalized content.
func (r *Record) Fields() Fields {
	f := Fields{
		NumGroups:       r.numGroups,
		ScatteringOrder: r.scatteringOrder,
		Mode:            r.mode,
		SigmaT:          cloneVec(r.sigmaT),
		SigmaA:          cloneVec(r.sigmaA),
		SigmaF:          cloneVec(r.sigmaF),
		NuSigmaF:        cloneVec(r.nuSigmaF),
		NuPromptSigmaF:  cloneVec(r.nuPromptSigmaF),
		NuDelayedSigmaF: cloneVec(r.nuDelayedSigmaF),
		Chi:             cloneVec(r.chi),
		ChiPrompt:       cloneVec(r.chiPrompt),
		Production:      cloneRows(r.production),
		InvVelocity:     cloneVec(r.invVelocity),
		FissionScaled:   r.fissionScaled,
	}
	if r.transfer != nil {
		f.Transfer = make([]*matrix.Sparse, len(r.transfer))
		for ell, t := range r.transfer {
			f.Transfer[ell] = t.Copy()
		}
	}
	if r.groupStructure != nil {
		f.GroupStructure = append([]EnergyBin(nil), r.groupStructure...)
	}
	if r.precursors != nil {
		f.Precursors = make([]Precursor, len(r.precursors))
		for j, p := range r.precursors {
			p.EmissionSpectrum = cloneVec(p.EmissionSpectrum)
			f.Precursors[j] = p
		}
	}

	return f
}

// FromFields builds a record from finalized content after a consistency
// pass:
//   - shapes and non-negativity of every array;
//   - spectra and precursor yields renormalized when they drift from 1 by
//     more than SpectrumTolerance (with a warning), rejected when empty;
//   - fissionability from νσf / production, non-fissionable records are
//     cleared of fission data;
//   - σa ≤ σt, then diffusion parameters.
//
// Errors: *LogicError.
func FromFields(f Fields, opts ...Option) (*Record, error) {
	o := gatherOptions(opts...)
	G := f.NumGroups
	if G <= 0 {
		return nil, logicErrorf(opFromFields, "NumGroups", -1, "must be > 0, got %d", G)
	}
	if f.ScatteringOrder < 0 {
		return nil, logicErrorf(opFromFields, "ScatteringOrder", -1, "must be >= 0, got %d", f.ScatteringOrder)
	}
	r := &Record{numGroups: G, scatteringOrder: f.ScatteringOrder, opts: o, fissionScaled: f.FissionScaled}

	vectors := []struct {
		name     string
		src      []float64
		dst      *[]float64
		required bool
	}{
		{"SigmaT", f.SigmaT, &r.sigmaT, true},
		{"SigmaA", f.SigmaA, &r.sigmaA, true},
		{"SigmaF", f.SigmaF, &r.sigmaF, false},
		{"NuSigmaF", f.NuSigmaF, &r.nuSigmaF, false},
		{"NuPromptSigmaF", f.NuPromptSigmaF, &r.nuPromptSigmaF, false},
		{"NuDelayedSigmaF", f.NuDelayedSigmaF, &r.nuDelayedSigmaF, false},
	}
	for _, v := range vectors {
		if v.src == nil {
			if v.required {
				return nil, logicErrorf(opFromFields, v.name, -1, "required")
			}
			*v.dst = make([]float64, G)
			continue
		}
		if err := checkVector(v.name, v.src, G); err != nil {
			return nil, err
		}
		*v.dst = cloneVec(v.src)
	}
	if f.InvVelocity != nil {
		if err := checkVector("InvVelocity", f.InvVelocity, G); err != nil {
			return nil, err
		}
		for g, x := range f.InvVelocity {
			if x <= 0 {
				return nil, logicErrorf(opFromFields, "InvVelocity", g, "must be > 0, got %g", x)
			}
		}
		r.invVelocity = cloneVec(f.InvVelocity)
	}
	if f.GroupStructure != nil {
		if err := validateGroupStructure(f.GroupStructure, G); err != nil {
			return nil, err
		}
		r.groupStructure = append([]EnergyBin(nil), f.GroupStructure...)
	}
	if f.Transfer != nil {
		if len(f.Transfer) > f.ScatteringOrder+1 {
			return nil, logicErrorf(opFromFields, "Transfer", -1, "%d moments exceed scattering order %d", len(f.Transfer), f.ScatteringOrder)
		}
		r.transfer = make([]*matrix.Sparse, f.ScatteringOrder+1)
		for ell := range r.transfer {
			if ell < len(f.Transfer) && f.Transfer[ell] != nil {
				if f.Transfer[ell].Dim() != G {
					return nil, logicErrorf(opFromFields, "Transfer", ell, "dimension %d, want %d", f.Transfer[ell].Dim(), G)
				}
				r.transfer[ell] = f.Transfer[ell].Copy()
				continue
			}
			r.transfer[ell], _ = matrix.NewSparse(G)
		}
	}

	if err := r.consistencyPass(&f); err != nil {
		return nil, err
	}
	if err := r.checkAbsorption(opFromFields); err != nil {
		return nil, err
	}
	r.ComputeDiffusionParameters()

	return r, nil
}

// consistencyPass settles fission data of a record assembled from Fields.
func (r *Record) consistencyPass(f *Fields) error {
	G := r.numGroups
	if f.Production != nil {
		if err := validateSquare("Production", f.Production, G); err != nil {
			return err
		}
	}
	r.fissionable = anyPositive(r.nuSigmaF) || (f.Production != nil && anyPositiveRows(f.Production))
	if !r.fissionable {
		scaled := r.fissionScaled
		r.clearFission()
		r.fissionScaled = scaled
		return nil
	}

	r.mode = f.Mode
	r.production = cloneRows(f.Production)
	var err error
	if f.Chi != nil {
		if r.chi, err = r.renormalize("Chi", -1, f.Chi); err != nil {
			return err
		}
	}
	if f.ChiPrompt != nil {
		if r.chiPrompt, err = r.renormalize("ChiPrompt", -1, f.ChiPrompt); err != nil {
			return err
		}
	}
	if len(f.Precursors) > 0 {
		if r.chiPrompt == nil {
			return logicErrorf(opFromFields, "ChiPrompt", -1, "required when precursors are present")
		}
		yields := make([]float64, len(f.Precursors))
		r.precursors = make([]Precursor, len(f.Precursors))
		for j, p := range f.Precursors {
			if !finite(p.DecayConstant) || p.DecayConstant <= 0 {
				return logicErrorf(opFromFields, "DecayConstant", j, "must be > 0, got %g", p.DecayConstant)
			}
			if len(p.EmissionSpectrum) != G {
				return logicErrorf(opFromFields, "EmissionSpectrum", j, "has %d groups, want %d", len(p.EmissionSpectrum), G)
			}
			spectrum, err := r.renormalize("EmissionSpectrum", j, p.EmissionSpectrum)
			if err != nil {
				return err
			}
			r.precursors[j] = Precursor{DecayConstant: p.DecayConstant, EmissionSpectrum: spectrum}
			yields[j] = p.FractionalYield
		}
		if yields, err = r.renormalize("FractionalYield", -1, yields); err != nil {
			return err
		}
		for j := range r.precursors {
			r.precursors[j].FractionalYield = yields[j]
		}
		r.mode = FissionPromptDelayed
	}

	if r.production == nil {
		switch {
		case r.chiPrompt != nil && r.precursors != nil:
			r.production = r.promptDelayedProduction()
		case r.chi != nil:
			r.production = zeroMatrix(G)
			for g := 0; g < G; g++ {
				for gp := 0; gp < G; gp++ {
					r.production[g][gp] = r.chi[g] * r.nuSigmaF[gp]
				}
			}
		default:
			return logicErrorf(opFromFields, "Production", -1, "fissionable record needs a production matrix or a spectrum")
		}
	}
	if r.mode == FissionNone {
		r.mode = FissionMatrix
	}

	return nil
}

// renormalize normalizes v, warning when it drifted from 1.
func (r *Record) renormalize(field string, index int, v []float64) ([]float64, error) {
	out, err := normalizeSpectrum(opFromFields, field, index, v)
	if err != nil {
		return nil, err
	}
	if sum := floats.Sum(v); math.Abs(sum-1) > SpectrumTolerance {
		r.opts.logger.Warn("xs: spectrum renormalized", "field", field, "index", index, "sum", sum)
	}

	return out, nil
}

// checkVector requires len(v) == n and finite, non-negative entries.
func checkVector(name string, v []float64, n int) error {
	if len(v) != n {
		return logicErrorf(opFromFields, name, -1, "has %d entries, want %d", len(v), n)
	}
	for g, x := range v {
		if !finite(x) || x < 0 {
			return logicErrorf(opFromFields, name, g, "value %g, must be >= 0", x)
		}
	}

	return nil
}
