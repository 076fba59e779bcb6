// SPDX-License-Identifier: MIT

package xs

import (
	"sync"

	"github.com/katalvlaran/mgxs/matrix"
)

// FissionMode tells how the fission data of a record was specified.
type FissionMode int

const (
	// FissionNone marks a non-fissionable record.
	FissionNone FissionMode = iota
	// FissionTotal uses a total yield and a single spectrum χ.
	FissionTotal
	// FissionPromptDelayed splits production into a prompt part (χp) and
	// delayed parts per precursor species.
	FissionPromptDelayed
	// FissionMatrix uses a user-supplied dense production matrix.
	FissionMatrix
)

// String returns the mode name used in logs and snapshots.
func (m FissionMode) String() string {
	switch m {
	case FissionTotal:
		return "total"
	case FissionPromptDelayed:
		return "prompt-delayed"
	case FissionMatrix:
		return "matrix"
	default:
		return "none"
	}
}

// ParseFissionMode is the inverse of FissionMode.String.
func ParseFissionMode(s string) (FissionMode, bool) {
	for _, m := range []FissionMode{FissionNone, FissionTotal, FissionPromptDelayed, FissionMatrix} {
		if m.String() == s {
			return m, true
		}
	}

	return FissionNone, false
}

// Precursor is one delayed-neutron precursor species.
type Precursor struct {
	DecayConstant    float64   // λ > 0, 1/s
	FractionalYield  float64   // γ ∈ [0,1], Σ_j γ_j = 1
	EmissionSpectrum []float64 // χd[g] ∈ [0,1], Σ_g χd[g] = 1
}

// EnergyBin is the energy range of one group.
type EnergyBin struct {
	High float64
	Low  float64
}

// Record is one multigroup cross-section data set.
//
// A Record is built by New, FromFields, MakeSimple0/1 or a combiner and is
// immutable afterwards, except for ScaleFissionData (one-shot) and
// SetSigmaTotal (parametric studies). Accessors return the record's own
// slices: callers must treat them as read-only. A finalized record may be
// shared by any number of readers; SetSigmaTotal must not run while a
// solver iterates on the record.
type Record struct {
	numGroups       int // G
	scatteringOrder int // L
	mode            FissionMode

	sigmaT, sigmaA, sigmaF                     []float64
	nuSigmaF, nuPromptSigmaF, nuDelayedSigmaF []float64
	chi, chiPrompt                             []float64

	transfer   []*matrix.Sparse // len L+1; entry (g, g') is g' → g
	production [][]float64      // [g][g'], nil when not fissionable
	precursors []Precursor

	invVelocity    []float64
	groupStructure []EnergyBin

	diffusionCoeff   []float64
	sigmaRemoval     []float64
	sigmaWithinGroup []float64

	tablesOnce  sync.Once  // builds Monte Carlo tables exactly once
	tablesErr   error      // outcome of the build
	mu          sync.Mutex // guards the table fields and their flag
	transferCDF [][]float64
	angleTables [][]*AngleTable

	fissionable           bool
	diffusionInitialized  bool
	scatteringInitialized bool
	fissionScaled         bool

	opts Options
}

// NumGroups returns G.
func (r *Record) NumGroups() int { return r.numGroups }

// ScatteringOrder returns L; transfer moments 0..L exist (possibly empty).
func (r *Record) ScatteringOrder() int { return r.scatteringOrder }

// NumPrecursors returns J.
func (r *Record) NumPrecursors() int { return len(r.precursors) }

// FissionMode returns how fission data was specified.
func (r *Record) FissionMode() FissionMode { return r.mode }

// SigmaT returns the total cross section per group.
func (r *Record) SigmaT() []float64 { return r.sigmaT }

// SigmaA returns the absorption cross section per group.
func (r *Record) SigmaA() []float64 { return r.sigmaA }

// SigmaF returns the fission cross section per group (zeros when not fissionable).
func (r *Record) SigmaF() []float64 { return r.sigmaF }

// NuSigmaF returns the total production cross section νσf.
func (r *Record) NuSigmaF() []float64 { return r.nuSigmaF }

// NuPromptSigmaF returns the prompt production cross section νpσf.
func (r *Record) NuPromptSigmaF() []float64 { return r.nuPromptSigmaF }

// NuDelayedSigmaF returns the delayed production cross section νdσf.
func (r *Record) NuDelayedSigmaF() []float64 { return r.nuDelayedSigmaF }

// Chi returns the total fission spectrum (FissionTotal mode), else nil.
func (r *Record) Chi() []float64 { return r.chi }

// ChiPrompt returns the prompt fission spectrum (FissionPromptDelayed mode), else nil.
func (r *Record) ChiPrompt() []float64 { return r.chiPrompt }

// Transfer returns every transfer moment, index ℓ = 0..L.
func (r *Record) Transfer() []*matrix.Sparse { return r.transfer }

// TransferMoment returns moment ℓ, or nil when ℓ is out of range or the
// record has no scattering data.
func (r *Record) TransferMoment(ell int) *matrix.Sparse {
	if ell < 0 || ell >= len(r.transfer) {
		return nil
	}

	return r.transfer[ell]
}

// Production returns the production matrix [g][g'], nil when not fissionable.
func (r *Record) Production() [][]float64 { return r.production }

// Precursors returns the precursor species.
func (r *Record) Precursors() []Precursor { return r.precursors }

// InverseVelocity returns 1/v per group, nil when not given.
func (r *Record) InverseVelocity() []float64 { return r.invVelocity }

// GroupStructure returns the energy bounds per group, nil when not given.
func (r *Record) GroupStructure() []EnergyBin { return r.groupStructure }

// DiffusionCoefficient returns D per group.
func (r *Record) DiffusionCoefficient() []float64 { return r.diffusionCoeff }

// SigmaRemoval returns σt − σ_{g→g} per group, floored at zero.
func (r *Record) SigmaRemoval() []float64 { return r.sigmaRemoval }

// SigmaWithinGroup returns the ℓ=0 self-scatter σ_{g→g} per group.
func (r *Record) SigmaWithinGroup() []float64 { return r.sigmaWithinGroup }

// IsFissionable reports whether the record produces fission neutrons.
func (r *Record) IsFissionable() bool { return r.fissionable }

// DiffusionInitialized reports whether diffusion quantities are derived.
func (r *Record) DiffusionInitialized() bool { return r.diffusionInitialized }

// ScatteringInitialized reports whether Monte Carlo tables are built.
func (r *Record) ScatteringInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scatteringInitialized
}

// IsFissionScaled reports whether ScaleFissionData has been applied.
func (r *Record) IsFissionScaled() bool { return r.fissionScaled }

// Options returns the options the record was built with.
func (r *Record) Options() Options { return r.opts }
