// SPDX-License-Identifier: MIT

package mixture

import (
	"fmt"
	"math"

	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
	"gonum.org/v1/gonum/floats"
)

const opCombine = "Combine"

// Component is one constituent of a mixture.
type Component struct {
	Record *xs.Record
	Weight float64 // density N_i ≥ 0
}

func combineErrorf(field string, index int, format string, args ...any) error {
	return &xs.LogicError{Op: opCombine, Field: field, Index: index, Msg: fmt.Sprintf(format, args...)}
}

// Combine homogenizes components into one record.
//
// Preconditions (each violation is an *xs.LogicError naming the component
// index):
//   - every record has the same number of groups;
//   - fissionable components agree on carrying precursor data;
//   - inverse velocities are all present or all absent, and equal within
//     VelocityTolerance;
//   - energy bounds, where given, are equal; the first ones given are kept.
//
// Complexity: O(N·(G² + nnz)) for N components.
func Combine(components []Component, opts ...Option) (*xs.Record, error) {
	o := gatherOptions(opts...)
	if err := check(components); err != nil {
		return nil, err
	}

	first := components[0].Record
	G := first.NumGroups()
	f := xs.Fields{
		NumGroups:       G,
		SigmaT:          make([]float64, G),
		SigmaA:          make([]float64, G),
		SigmaF:          make([]float64, G),
		NuSigmaF:        make([]float64, G),
		NuPromptSigmaF:  make([]float64, G),
		NuDelayedSigmaF: make([]float64, G),
		InvVelocity:     first.InverseVelocity(),
	}

	var fissile, withPrecursors float64
	hasTransfer, scaled, unscaled := false, false, false
	for _, c := range components {
		r := c.Record
		f.ScatteringOrder = max(f.ScatteringOrder, r.ScatteringOrder())
		hasTransfer = hasTransfer || r.Transfer() != nil
		if f.GroupStructure == nil {
			f.GroupStructure = r.GroupStructure()
		}
		if r.IsFissionable() {
			fissile += c.Weight
			if r.NumPrecursors() > 0 {
				withPrecursors += c.Weight
			}
			scaled = scaled || r.IsFissionScaled()
			unscaled = unscaled || !r.IsFissionScaled()
		}
	}
	if scaled && unscaled {
		o.logger.Warn("mixture: combining fission-scaled and unscaled components")
	}
	f.FissionScaled = scaled

	if hasTransfer {
		f.Transfer = make([]*matrix.Sparse, f.ScatteringOrder+1)
		for ell := range f.Transfer {
			f.Transfer[ell], _ = matrix.NewSparse(G)
		}
	}
	for i, c := range components {
		r, w := c.Record, c.Weight
		floats.AddScaled(f.SigmaT, w, r.SigmaT())
		floats.AddScaled(f.SigmaA, w, r.SigmaA())
		for ell, t := range r.Transfer() {
			if err := f.Transfer[ell].AddScaled(t, w); err != nil {
				return nil, fmt.Errorf("%s: component %d moment %d: %w", opCombine, i, ell, err)
			}
		}
	}

	if fissile < FissileThreshold {
		if fissile > 0 {
			o.logger.Warn("mixture: fissile density below threshold, result is non-fissionable", "density", fissile)
		}
		f.Mode = xs.FissionNone
		return xs.FromFields(f, o.recordOps...)
	}
	combineFission(&f, components, fissile, withPrecursors)

	return xs.FromFields(f, o.recordOps...)
}

// check enforces the preconditions listed on Combine.
func check(components []Component) error {
	if len(components) == 0 {
		return combineErrorf("components", -1, "nothing to combine")
	}
	var (
		G          int
		precursors *bool
		bins       []xs.EnergyBin
	)
	for i, c := range components {
		if c.Record == nil {
			return combineErrorf("Record", i, "nil record")
		}
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight < 0 {
			return combineErrorf("Weight", i, "density must be finite and >= 0, got %g", c.Weight)
		}
		r := c.Record
		if i == 0 {
			G = r.NumGroups()
		} else if r.NumGroups() != G {
			return combineErrorf("NumGroups", i, "has %d groups, component 0 has %d", r.NumGroups(), G)
		}
		if r.IsFissionable() {
			has := r.NumPrecursors() > 0
			if precursors == nil {
				precursors = &has
			} else if *precursors != has {
				return combineErrorf("Precursors", i, "fissionable components disagree on precursor data")
			}
		}
		if err := sameVector("InvVelocity", i, components[0].Record.InverseVelocity(), r.InverseVelocity()); err != nil {
			return err
		}
		if bins == nil {
			bins = r.GroupStructure()
		} else if err := sameBins(i, bins, r.GroupStructure()); err != nil {
			return err
		}
	}

	return nil
}

func sameVector(field string, i int, want, got []float64) error {
	if (want == nil) != (got == nil) {
		return combineErrorf(field, i, "given for some components only")
	}
	for g := range want {
		if math.Abs(want[g]-got[g]) > VelocityTolerance*math.Max(math.Abs(want[g]), math.Abs(got[g])) {
			return combineErrorf(field, i, "group %d is %g, component 0 has %g", g, got[g], want[g])
		}
	}

	return nil
}

func sameBins(i int, want, got []xs.EnergyBin) error {
	if got == nil {
		return nil
	}
	for g := range want {
		if want[g] != got[g] {
			return combineErrorf("GroupStructure", i, "group %d bounds differ from component 0", g)
		}
	}

	return nil
}

// combineFission accumulates production data, spectra and precursors of
// the fissionable components.
func combineFission(f *xs.Fields, components []Component, fissile, withPrecursors float64) {
	G := f.NumGroups
	f.Production = make([][]float64, G)
	for g := range f.Production {
		f.Production[g] = make([]float64, G)
	}
	chi := make([]float64, G)
	chiPrompt := make([]float64, G)
	allChi, allPrompt := true, true

	for _, c := range components {
		r, w := c.Record, c.Weight
		if !r.IsFissionable() {
			continue
		}
		ff := w / fissile
		floats.AddScaled(f.SigmaF, w, r.SigmaF())
		floats.AddScaled(f.NuSigmaF, w, r.NuSigmaF())
		floats.AddScaled(f.NuPromptSigmaF, w, r.NuPromptSigmaF())
		floats.AddScaled(f.NuDelayedSigmaF, w, r.NuDelayedSigmaF())
		for g, row := range r.Production() {
			floats.AddScaled(f.Production[g], w, row)
		}
		if r.Chi() != nil {
			floats.AddScaled(chi, ff, r.Chi())
		} else {
			allChi = false
		}
		if r.ChiPrompt() != nil {
			floats.AddScaled(chiPrompt, ff, r.ChiPrompt())
		} else {
			allPrompt = false
		}
		for _, p := range r.Precursors() {
			p.FractionalYield *= w / withPrecursors
			p.EmissionSpectrum = append([]float64(nil), p.EmissionSpectrum...)
			f.Precursors = append(f.Precursors, p)
		}
	}

	switch {
	case len(f.Precursors) > 0:
		f.Mode = xs.FissionPromptDelayed
	case allChi:
		f.Mode = xs.FissionTotal
	default:
		f.Mode = xs.FissionMatrix
	}
	if allChi {
		f.Chi = chi
	}
	if allPrompt {
		f.ChiPrompt = chiPrompt
	}
}
