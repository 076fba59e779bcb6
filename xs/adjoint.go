// SPDX-License-Identifier: MIT

package xs

// Adjoint returns the adjoint data set: every transfer moment and the
// production matrix are transposed, so entry (g, g') of the adjoint is the
// forward g → g' value. Everything else is copied unchanged.
//
// The adjoint of a prompt-delayed record carries its transposed production
// matrix explicitly; its precursor data is kept for reference.
func (r *Record) Adjoint() (*Record, error) {
	f := r.Fields()
	for ell, t := range f.Transfer {
		f.Transfer[ell] = t.Transpose()
	}
	if f.Production != nil {
		G := r.numGroups
		p := zeroMatrix(G)
		for g := 0; g < G; g++ {
			for gp := 0; gp < G; gp++ {
				p[gp][g] = f.Production[g][gp]
			}
		}
		f.Production = p
	}

	return FromFields(f, r.optionList()...)
}

// optionList rebuilds options equivalent to r.opts for derived records.
func (r *Record) optionList() []Option {
	return []Option{
		WithLogger(r.opts.logger),
		WithDiffusionCap(r.opts.diffusionCap),
		WithAngularOrder(r.opts.angularOrder),
	}
}
