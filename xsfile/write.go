// SPDX-License-Identifier: MIT

package xsfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/katalvlaran/mgxs/xs"
)

// relTolerance decides whether a production matrix still has the form a
// spectrum-based block set would rebuild.
const relTolerance = 1e-12

// Write serializes rec in the text format. Production quantities (νσf,
// ν_p, ν_d, the production matrix) are multiplied by the factor given with
// WithFissionScaling.
//
// Fission data is written in the form the reader rebuilds best:
//   - total mode with a rank-one production: SIGMA_F, NU_SIGMA_F, CHI;
//   - prompt/delayed mode: SIGMA_F, NU_PROMPT, NU_DELAYED, CHI_PROMPT and
//     the precursor blocks;
//   - otherwise: SIGMA_F and PRODUCTION_MATRIX.
//
// A record that IsFissionScaled, or any export with a factor other than 1,
// carries FISSION_SCALED 1 so that the reader restores the flag and
// accepts yields pushed to 1 or below by the factor.
func Write(w io.Writer, rec *xs.Record, opts ...Option) error {
	o := gatherOptions(opts...)
	bw := &blockWriter{w: bufio.NewWriter(w)}

	for _, h := range o.header {
		bw.printf("# %s\n", h)
	}
	bw.printf("%s %d\n", kwGroups, rec.NumGroups())
	bw.printf("%s %d\n", kwMoments, rec.ScatteringOrder()+1)
	if J := rec.NumPrecursors(); J > 0 {
		bw.printf("%s %d\n", kwPrecursors, J)
	}
	if rec.IsFissionScaled() || o.scale != 1 {
		bw.printf("%s 1\n", kwScaled)
	}

	bw.vector("SIGMA_T", rec.SigmaT(), 1)
	bw.vector("SIGMA_A", rec.SigmaA(), 1)
	writeFission(bw, rec, o)
	if iv := rec.InverseVelocity(); iv != nil {
		bw.vector("INV_VELOCITY", iv, 1)
	}
	if bins := rec.GroupStructure(); bins != nil {
		bw.begin("GROUP_STRUCTURE")
		for g, b := range bins {
			bw.printf("%d %s %s\n", g, num(b.High), num(b.Low))
		}
		bw.end("GROUP_STRUCTURE")
	}
	if moments := rec.Transfer(); moments != nil {
		bw.begin("TRANSFER_MOMENTS")
		for ell, t := range moments {
			t.Each(func(g, gp int, v float64) {
				bw.printf("%s %d %d %d %s\n", prefixTransfer, ell, gp, g, num(v))
			})
		}
		bw.end("TRANSFER_MOMENTS")
	}

	return bw.flush()
}

// ExportToFile writes rec to path, replacing any existing file.
func ExportToFile(path string, rec *xs.Record, opts ...Option) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("xsfile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("xsfile: %w", cerr)
		}
	}()

	return Write(f, rec, opts...)
}

func writeFission(bw *blockWriter, rec *xs.Record, o options) {
	f := o.scale
	switch rec.FissionMode() {
	case xs.FissionNone:
		return
	case xs.FissionTotal:
		if rec.Chi() != nil && rankOne(rec) {
			bw.vector("SIGMA_F", rec.SigmaF(), 1)
			bw.vector("NU_SIGMA_F", rec.NuSigmaF(), f)
			bw.vector("CHI", rec.Chi(), 1)
			return
		}
	case xs.FissionPromptDelayed:
		writePromptDelayed(bw, rec, o)
		return
	}

	bw.vector("SIGMA_F", rec.SigmaF(), 1)
	bw.begin("PRODUCTION_MATRIX")
	for g, row := range rec.Production() {
		for gp, v := range row {
			if v != 0 {
				bw.printf("%s %d %d %s\n", prefixProduction, g, gp, num(v*f))
			}
		}
	}
	bw.end("PRODUCTION_MATRIX")
}

func writePromptDelayed(bw *blockWriter, rec *xs.Record, o options) {
	G, f := rec.NumGroups(), o.scale
	sf := rec.SigmaF()
	nuP := make([]float64, G)
	nuD := make([]float64, G)
	for g := 0; g < G; g++ {
		if sf[g] > 0 {
			nuP[g] = rec.NuPromptSigmaF()[g] / sf[g]
			nuD[g] = rec.NuDelayedSigmaF()[g] / sf[g]
			continue
		}
		if rec.NuSigmaF()[g] > 0 {
			o.logger.Warn("xsfile: production of a group without fission cross section is not representable", "group", g)
		}
	}
	if !promptDelayedForm(rec) {
		o.logger.Warn("xsfile: production matrix is not of prompt/delayed form, exporting the form rebuilt from spectra")
	}

	bw.vector("SIGMA_F", sf, 1)
	bw.vector("NU_PROMPT", nuP, f)
	bw.vector("NU_DELAYED", nuD, f)
	bw.vector("CHI_PROMPT", rec.ChiPrompt(), 1)

	pr := rec.Precursors()
	decay := make([]float64, len(pr))
	yields := make([]float64, len(pr))
	for j, p := range pr {
		decay[j], yields[j] = p.DecayConstant, p.FractionalYield
	}
	bw.vector("PRECURSOR_DECAY_CONSTANTS", decay, 1)
	bw.vector("PRECURSOR_FRACTIONAL_YIELDS", yields, 1)
	bw.begin("CHI_DELAYED")
	for j, p := range pr {
		for g, v := range p.EmissionSpectrum {
			bw.printf("%s %d %d %s\n", prefixDelayed, g, j, num(v))
		}
	}
	bw.end("CHI_DELAYED")
}

// rankOne reports whether production = χ ⊗ νσf.
func rankOne(rec *xs.Record) bool {
	chi, nsf := rec.Chi(), rec.NuSigmaF()
	for g, row := range rec.Production() {
		for gp, v := range row {
			if !near(v, chi[g]*nsf[gp]) {
				return false
			}
		}
	}

	return true
}

// promptDelayedForm reports whether production = χp ⊗ νpσf + Σ_j γ_j χd_j ⊗ νdσf.
func promptDelayedForm(rec *xs.Record) bool {
	chiP, nuP, nuD := rec.ChiPrompt(), rec.NuPromptSigmaF(), rec.NuDelayedSigmaF()
	for g, row := range rec.Production() {
		delayed := 0.0
		for _, p := range rec.Precursors() {
			delayed += p.FractionalYield * p.EmissionSpectrum[g]
		}
		for gp, v := range row {
			if !near(v, chiP[g]*nuP[gp]+delayed*nuD[gp]) {
				return false
			}
		}
	}

	return true
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// num formats v with the fewest digits that read back exactly.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// blockWriter keeps the first write error and ignores later writes.
type blockWriter struct {
	w   *bufio.Writer
	err error
}

func (bw *blockWriter) printf(format string, args ...any) {
	if bw.err != nil {
		return
	}
	_, bw.err = fmt.Fprintf(bw.w, format, args...)
}

func (bw *blockWriter) begin(name string) { bw.printf("%s%s\n", name, suffixBegin) }

func (bw *blockWriter) end(name string) { bw.printf("%s%s\n", name, suffixEnd) }

// vector writes a 1-D block with every value multiplied by scale.
func (bw *blockWriter) vector(name string, v []float64, scale float64) {
	bw.begin(name)
	for i, x := range v {
		bw.printf("%d %s\n", i, num(x*scale))
	}
	bw.end(name)
}

func (bw *blockWriter) flush() error {
	if bw.err != nil {
		return fmt.Errorf("xsfile: write: %w", bw.err)
	}
	if err := bw.w.Flush(); err != nil {
		return fmt.Errorf("xsfile: write: %w", err)
	}

	return nil
}
