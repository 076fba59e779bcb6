// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/mgxs/collapse"
	"github.com/katalvlaran/mgxs/matrix"
	"github.com/katalvlaran/mgxs/xs"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

func doPlot(a *app, name string, args []string) error {
	fs := a.flags(name, "[-o DIR] [-format png|svg] FILE")
	dir := fs.String("o", a.cfg.PlotDir, "output directory")
	format := fs.String("format", "png", "image format: png, svg or pdf")
	if err := parseArgs(fs, args, 1); err != nil {
		return err
	}
	switch *format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("-format: unsupported %q", *format)
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}
	_, rec, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}

	out := func(stem string) string { return filepath.Join(*dir, stem+"."+*format) }
	written := []string{out("sigma")}
	if err = saveCrossSections(rec, written[0]); err != nil {
		return err
	}
	if t0 := rec.TransferMoment(0); t0 != nil && t0.NNZ() > 0 {
		mode, relax, _ := collapse.ParseScheme(a.cfg.Scheme)
		res, err := collapse.Collapse(rec, mode, relax, collapse.WithLogger(a.logger),
			collapse.WithMaxIterations(a.cfg.MaxIterations), collapse.WithTolerance(a.cfg.Tolerance))
		if err != nil {
			return err
		}
		written = append(written, out("spectrum"), out("transfer"))
		if err = saveSpectrum(res, written[1]); err != nil {
			return err
		}
		if err = saveTransfer(t0, written[2]); err != nil {
			return err
		}
	}
	for _, path := range written {
		fmt.Fprintln(a.stdout, "wrote", path)
	}

	return nil
}

// groupSeries turns a per-group vector into plot points at x = g.
func groupSeries(v []float64) plotter.XYs {
	pts := make(plotter.XYs, len(v))
	for g, y := range v {
		pts[g].X = float64(g)
		pts[g].Y = y
	}

	return pts
}

// saveCrossSections plots σt, σa and, for fissile data, νσf per group.
func saveCrossSections(rec *xs.Record, path string) error {
	p := plot.New()
	p.Title.Text = "Cross sections"
	p.X.Label.Text = "Group"
	p.Y.Label.Text = "σ (1/cm)"
	p.Add(plotter.NewGrid())

	series := []interface{}{"σt", groupSeries(rec.SigmaT()), "σa", groupSeries(rec.SigmaA())}
	if rec.IsFissionable() {
		series = append(series, "νσf", groupSeries(rec.NuSigmaF()))
	}
	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}

	return p.Save(plotWidth, plotHeight, path)
}

// saveSpectrum plots the collapse weighting spectrum.
func saveSpectrum(res collapse.Result, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Infinite-medium spectrum (λ = %.6g)", res.Eigenvalue)
	p.X.Label.Text = "Group"
	p.Y.Label.Text = "φ"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(groupSeries(res.Spectrum))
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	p.Add(line, points)

	return p.Save(plotWidth, plotHeight, path)
}

// transferGrid exposes T0 as a heat-map grid: column g′ (source), row g
// (destination). Absent entries are NaN and drawn transparent.
type transferGrid struct {
	n int
	z []float64
}

func newTransferGrid(t *matrix.Sparse) transferGrid {
	n := t.Dim()
	z := make([]float64, n*n)
	for i := range z {
		z[i] = math.NaN()
	}
	t.Each(func(g, gp int, v float64) { z[g*n+gp] = v })

	return transferGrid{n: n, z: z}
}

func (t transferGrid) Dims() (c, r int)   { return t.n, t.n }
func (t transferGrid) Z(c, r int) float64 { return t.z[r*t.n+c] }
func (t transferGrid) X(c int) float64    { return float64(c) }
func (t transferGrid) Y(r int) float64    { return float64(r) }

// saveTransfer draws the ℓ=0 transfer matrix as a heat map.
func saveTransfer(t *matrix.Sparse, path string) error {
	grid := newTransferGrid(t)
	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	hm.NaN = color.Transparent
	if !(hm.Max > hm.Min) {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = "Transfer matrix T0"
	p.X.Label.Text = "Source group g′"
	p.Y.Label.Text = "Destination group g"
	p.Add(hm)

	return p.Save(plotWidth, plotHeight, path)
}
