// SPDX-License-Identifier: MIT

package xs

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/mgxs/matrix"
)

const (
	opNew      = "New"
	opValidate = "Validate"
)

// Input is the raw, user-level description of a data set, as read from a
// file or assembled programmatically. A nil slice means "not specified".
// New turns an Input into a finalized Record.
type Input struct {
	NumGroups       int // G > 0
	ScatteringOrder int // L ≥ 0
	NumPrecursors   int // J ≥ 0

	SigmaT   []float64 // required
	SigmaA   []float64 // estimated from scattering when nil
	SigmaF   []float64
	NuSigmaF []float64

	Nu        []float64 // total yield, entries 0 or > 1
	NuPrompt  []float64 // entries 0 or > 1
	NuDelayed []float64 // entries ≥ 0
	Beta      []float64 // delayed fraction, entries in [0,1]

	Chi        []float64   // total spectrum
	ChiPrompt  []float64   // prompt spectrum
	ChiDelayed [][]float64 // [j][g]

	DecayConstants   []float64 // [j], > 0
	FractionalYields []float64 // [j], in [0,1]

	InvVelocity    []float64 // > 0
	GroupStructure []EnergyBin

	Transfer   []*matrix.Sparse // [ℓ], len ≤ L+1, each G×G
	Production [][]float64      // [g][g'], G×G

	// FissionScaled marks production data already multiplied by a
	// scaling factor (typically 1/k_eff). Yields are then only required
	// to be ≥ 0 and the resulting record reports IsFissionScaled.
	FissionScaled bool
}

// New validates in, finalizes fission data, estimates absorption when it
// is missing and derives diffusion quantities.
//
// Implementation:
//   - Stage 1: clear uniformly-zero optional arrays (warning, not error).
//   - Stage 2: check shapes and value ranges.
//   - Stage 3: copy scattering data; run the fission finalizer.
//   - Stage 4: absorption (given or estimated), diffusion parameters.
//
// Errors: *LogicError (errors.Is ErrLogic) naming the field and index.
func New(in Input, opts ...Option) (*Record, error) {
	o := gatherOptions(opts...)
	in.clearZeroFields(o.logger)
	if err := in.validate(); err != nil {
		return nil, err
	}

	G := in.NumGroups
	r := &Record{
		numGroups:       G,
		scatteringOrder: in.ScatteringOrder,
		sigmaT:          cloneVec(in.SigmaT),
		invVelocity:     cloneVec(in.InvVelocity),
		fissionScaled:   in.FissionScaled,
		opts:            o,
	}
	if in.GroupStructure != nil {
		r.groupStructure = append([]EnergyBin(nil), in.GroupStructure...)
	}
	if in.Transfer != nil {
		r.transfer = make([]*matrix.Sparse, in.ScatteringOrder+1)
		for ell := range r.transfer {
			if ell < len(in.Transfer) && in.Transfer[ell] != nil {
				r.transfer[ell] = in.Transfer[ell].Copy()
				continue
			}
			r.transfer[ell], _ = matrix.NewSparse(G)
		}
	}

	if err := r.finalizeFission(&in); err != nil {
		return nil, err
	}

	if in.SigmaA != nil {
		r.sigmaA = cloneVec(in.SigmaA)
		if err := r.checkAbsorption(opNew); err != nil {
			return nil, err
		}
	} else {
		r.estimateAbsorption()
	}
	r.ComputeDiffusionParameters()

	return r, nil
}

// clearZeroFields drops optional arrays that are present but uniformly zero.
func (in *Input) clearZeroFields(logger *slog.Logger) {
	fields := []struct {
		name string
		ref  *[]float64
	}{
		{"SIGMA_F", &in.SigmaF},
		{"NU_SIGMA_F", &in.NuSigmaF},
		{"NU", &in.Nu},
		{"NU_PROMPT", &in.NuPrompt},
		{"NU_DELAYED", &in.NuDelayed},
		{"BETA", &in.Beta},
		{"INV_VELOCITY", &in.InvVelocity},
	}
	for _, f := range fields {
		if *f.ref != nil && allZero(*f.ref) {
			logger.Warn("xs: uniformly zero field treated as not specified", "field", f.name)
			*f.ref = nil
		}
	}
	if in.Production != nil && !anyPositiveRows(in.Production) {
		logger.Warn("xs: uniformly zero field treated as not specified", "field", "PRODUCTION_MATRIX")
		in.Production = nil
	}
}

// validate checks dimensions and per-entry value ranges.
func (in *Input) validate() error {
	G := in.NumGroups
	if G <= 0 {
		return logicErrorf(opNew, "NUM_GROUPS", -1, "must be > 0, got %d", G)
	}
	if in.ScatteringOrder < 0 {
		return logicErrorf(opNew, "NUM_MOMENTS", -1, "scattering order must be >= 0, got %d", in.ScatteringOrder)
	}
	if in.NumPrecursors < 0 {
		return logicErrorf(opNew, "NUM_PRECURSORS", -1, "must be >= 0, got %d", in.NumPrecursors)
	}
	if in.SigmaT == nil {
		return logicErrorf(opNew, "SIGMA_T", -1, "required")
	}

	type check struct {
		name string
		v    []float64
		ok   func(float64) bool
		want string
	}
	nonNeg := func(x float64) bool { return x >= 0 }
	yield, yieldWant := func(x float64) bool { return x == 0 || x > 1 }, "0 or > 1"
	if in.FissionScaled {
		yield, yieldWant = nonNeg, ">= 0"
	}
	unit := func(x float64) bool { return x >= 0 && x <= 1 }
	positive := func(x float64) bool { return x > 0 }
	perGroup := []check{
		{"SIGMA_T", in.SigmaT, nonNeg, ">= 0"},
		{"SIGMA_A", in.SigmaA, nonNeg, ">= 0"},
		{"SIGMA_F", in.SigmaF, nonNeg, ">= 0"},
		{"NU_SIGMA_F", in.NuSigmaF, nonNeg, ">= 0"},
		{"NU", in.Nu, yield, yieldWant},
		{"NU_PROMPT", in.NuPrompt, yield, yieldWant},
		{"NU_DELAYED", in.NuDelayed, nonNeg, ">= 0"},
		{"BETA", in.Beta, unit, "in [0,1]"},
		{"CHI", in.Chi, nonNeg, ">= 0"},
		{"CHI_PROMPT", in.ChiPrompt, nonNeg, ">= 0"},
		{"INV_VELOCITY", in.InvVelocity, positive, "> 0"},
	}
	perPrecursor := []check{
		{"PRECURSOR_DECAY_CONSTANTS", in.DecayConstants, positive, "> 0"},
		{"PRECURSOR_FRACTIONAL_YIELDS", in.FractionalYields, unit, "in [0,1]"},
	}
	validateAll := func(cs []check, n int) error {
		for _, c := range cs {
			if c.v == nil {
				continue
			}
			if len(c.v) != n {
				return logicErrorf(opNew, c.name, -1, "has %d entries, want %d", len(c.v), n)
			}
			for i, x := range c.v {
				if !finite(x) || !c.ok(x) {
					return logicErrorf(opNew, c.name, i, "value %g, must be %s", x, c.want)
				}
			}
		}
		return nil
	}
	if err := validateAll(perGroup, G); err != nil {
		return err
	}
	if err := validateAll(perPrecursor, in.NumPrecursors); err != nil {
		return err
	}

	if in.ChiDelayed != nil {
		if len(in.ChiDelayed) != in.NumPrecursors {
			return logicErrorf(opNew, "CHI_DELAYED", -1, "has %d precursors, want %d", len(in.ChiDelayed), in.NumPrecursors)
		}
		for j, spec := range in.ChiDelayed {
			if len(spec) != G {
				return logicErrorf(opNew, "CHI_DELAYED", j, "has %d groups, want %d", len(spec), G)
			}
		}
	}
	if len(in.Transfer) > in.ScatteringOrder+1 {
		return logicErrorf(opNew, "TRANSFER_MOMENTS", -1, "%d moments exceed scattering order %d", len(in.Transfer), in.ScatteringOrder)
	}
	for ell, t := range in.Transfer {
		if t != nil && t.Dim() != G {
			return logicErrorf(opNew, "TRANSFER_MOMENTS", ell, "dimension %d, want %d", t.Dim(), G)
		}
	}
	if in.Production != nil {
		if err := validateSquare("PRODUCTION_MATRIX", in.Production, G); err != nil {
			return err
		}
	}
	if in.GroupStructure != nil {
		if err := validateGroupStructure(in.GroupStructure, G); err != nil {
			return err
		}
	}

	return nil
}

// validateSquare checks that m is G×G with finite, non-negative entries.
func validateSquare(name string, m [][]float64, G int) error {
	if len(m) != G {
		return logicErrorf(opNew, name, -1, "has %d rows, want %d", len(m), G)
	}
	for g, row := range m {
		if len(row) != G {
			return logicErrorf(opNew, name, g, "has %d columns, want %d", len(row), G)
		}
		for gp, x := range row {
			if !finite(x) || x < 0 {
				return logicErrorf(opNew, name, g, "entry %d is %g, must be >= 0", gp, x)
			}
		}
	}

	return nil
}

// validateGroupStructure requires G bins, High > Low ≥ 0, ordered from the
// highest energy group down.
func validateGroupStructure(bins []EnergyBin, G int) error {
	if len(bins) != G {
		return logicErrorf(opNew, "GROUP_STRUCTURE", -1, "has %d bins, want %d", len(bins), G)
	}
	for g, b := range bins {
		if !finite(b.High) || !finite(b.Low) || b.Low < 0 || b.High <= b.Low {
			return logicErrorf(opNew, "GROUP_STRUCTURE", g, "bounds [%g, %g] are not a valid energy range", b.Low, b.High)
		}
		if g > 0 && b.High > bins[g-1].High {
			return logicErrorf(opNew, "GROUP_STRUCTURE", g, "groups must be ordered by decreasing energy")
		}
	}

	return nil
}

// checkAbsorption enforces σa[g] ≤ σt[g] within AbsorptionTolerance.
func (r *Record) checkAbsorption(op string) error {
	for g := range r.sigmaA {
		if r.sigmaA[g] > r.sigmaT[g]*(1+AbsorptionTolerance)+AbsorptionTolerance {
			return logicErrorf(op, "SIGMA_A", g, "absorption %g exceeds total %g", r.sigmaA[g], r.sigmaT[g])
		}
	}

	return nil
}

// String summarizes the record for logs.
func (r *Record) String() string {
	return fmt.Sprintf("xs.Record{G=%d L=%d J=%d fission=%s}", r.numGroups, r.scatteringOrder, len(r.precursors), r.mode)
}
