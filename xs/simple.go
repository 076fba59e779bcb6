// SPDX-License-Identifier: MIT

package xs

import (
	"github.com/katalvlaran/mgxs/matrix"
)

const opSimple = "MakeSimple"

// MakeSimple0 builds a pure absorber: G groups, σt = σa = sigmaT in every
// group, no scattering data.
func MakeSimple0(numGroups int, sigmaT float64, opts ...Option) (*Record, error) {
	if numGroups <= 0 {
		return nil, logicErrorf(opSimple, "NUM_GROUPS", -1, "must be > 0, got %d", numGroups)
	}
	if !finite(sigmaT) || sigmaT < 0 {
		return nil, logicErrorf(opSimple, "SIGMA_T", -1, "must be >= 0, got %g", sigmaT)
	}
	st := make([]float64, numGroups)
	for g := range st {
		st[g] = sigmaT
	}

	return New(Input{NumGroups: numGroups, SigmaT: st}, opts...)
}

// MakeSimple1 builds a scattering material with scattering ratio c:
//
//   - every group keeps σt·c·s in self-scatter, s = 1 for one group,
//     0.5 otherwise;
//   - every g > 0 receives 0.5·σt·c down-scatter from g−1;
//   - groups in the upper half (G/2 < g < G−1) exchange 0.25·σt·c with
//     both neighbours, which adds up-scatter;
//   - the last group receives 0.5·σt·c from g−1.
//
// Absorption follows from σt minus out-scatter; diffusion parameters are
// derived.
func MakeSimple1(numGroups int, sigmaT, c float64, opts ...Option) (*Record, error) {
	if numGroups <= 0 {
		return nil, logicErrorf(opSimple, "NUM_GROUPS", -1, "must be > 0, got %d", numGroups)
	}
	if !finite(sigmaT) || sigmaT < 0 {
		return nil, logicErrorf(opSimple, "SIGMA_T", -1, "must be >= 0, got %g", sigmaT)
	}
	if !finite(c) || c < 0 || c > 1 {
		return nil, logicErrorf(opSimple, "c", -1, "scattering ratio must be in [0,1], got %g", c)
	}
	G := numGroups
	st := make([]float64, G)
	for g := range st {
		st[g] = sigmaT
	}

	t0, err := matrix.NewSparse(G)
	if err != nil {
		return nil, err
	}
	scale := 0.5
	if G == 1 {
		scale = 1.0
	}
	for g := 0; g < G; g++ {
		_ = t0.Insert(g, g, sigmaT*c*scale)
		if g > 0 {
			_ = t0.Insert(g, g-1, sigmaT*c*0.5)
		}
		if g > G/2 && g < G-1 {
			_ = t0.Insert(g, g-1, sigmaT*c*0.25)
			_ = t0.Insert(g, g+1, sigmaT*c*0.25)
		} else if g == G-1 && g > 0 {
			_ = t0.Insert(g, g-1, sigmaT*c*0.5)
		}
	}

	return New(Input{NumGroups: G, SigmaT: st, Transfer: []*matrix.Sparse{t0}}, opts...)
}
