// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/mgxs/collapse"
	"github.com/katalvlaran/mgxs/material"
	"github.com/katalvlaran/mgxs/mixture"
	"github.com/katalvlaran/mgxs/snapshot"
	"github.com/katalvlaran/mgxs/xs"
	"github.com/katalvlaran/mgxs/xsfile"
)

// parseArgs parses fs and requires exactly n positional arguments
// (at least one when n < 0).
func parseArgs(fs *flag.FlagSet, args []string, n int) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (n >= 0 && fs.NArg() != n) || (n < 0 && fs.NArg() == 0) {
		fs.Usage()
		return errUsage
	}

	return nil
}

// parseComponent splits "path:weight" at its last colon.
func parseComponent(arg string) (string, float64, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return "", 0, fmt.Errorf("component %q: want FILE:WEIGHT", arg)
	}
	w, err := strconv.ParseFloat(arg[i+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("component %q: %w", arg, err)
	}

	return arg[:i], w, nil
}

// parseScale accepts a number or a quotient such as "1/1.0234".
func parseScale(s string) (float64, error) {
	num, den, isQuotient := strings.Cut(s, "/")
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("scale %q: %w", s, err)
	}
	if isQuotient {
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("scale %q: %w", s, err)
		}
		f /= d
	}
	if !(f > 0) || f > 1e300 {
		return 0, fmt.Errorf("scale %q: must be finite and > 0", s)
	}

	return f, nil
}

func doCombine(a *app, name string, args []string) error {
	fs := a.flags(name, "-o OUT FILE:WEIGHT...")
	out := fs.String("o", "", "output file (required)")
	if err := parseArgs(fs, args, -1); err != nil {
		return err
	}
	if *out == "" {
		fs.Usage()
		return errUsage
	}

	components := make([]mixture.Component, 0, fs.NArg())
	var header []string
	for _, arg := range fs.Args() {
		path, w, err := parseComponent(arg)
		if err != nil {
			return err
		}
		h, rec, err := a.load(path)
		if err != nil {
			return err
		}
		components = append(components, mixture.Component{Record: rec, Weight: w})
		for _, line := range a.provenance(h, path) {
			header = append(header, fmt.Sprintf("component %d %s", len(components)-1, line))
		}
		header = append(header, fmt.Sprintf("component %d weight %s", len(components)-1, strconv.FormatFloat(w, 'g', -1, 64)))
	}

	mix, err := mixture.Combine(components,
		mixture.WithLogger(a.logger),
		mixture.WithRecordOptions(xs.WithAngularOrder(a.cfg.AngularOrder)),
	)
	if err != nil {
		return err
	}
	h, err := a.ctx.AddRecord(mix)
	if err != nil {
		return err
	}
	m, err := a.ctx.NewMaterial("mixture")
	if err != nil {
		return err
	}
	if err = a.ctx.SetProperty(m, "xs", material.TransportXSProperty(h)); err != nil {
		return err
	}
	if err = xsfile.ExportToFile(*out, mix, xsfile.WithLogger(a.logger), xsfile.WithHeader(header...)); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "wrote %s: %d components, %d groups, fissionable=%t\n",
		*out, len(components), mix.NumGroups(), mix.IsFissionable())

	return nil
}

func doCollapse(a *app, name string, args []string) error {
	fs := a.flags(name, "[-scheme S] FILE")
	scheme := fs.String("scheme", a.cfg.Scheme, "jacobi, gauss, partial-jacobi or partial-gauss")
	maxIter := fs.Int("max-iter", a.cfg.MaxIterations, "power iteration cap")
	tol := fs.Float64("tol", a.cfg.Tolerance, "relative eigenvalue tolerance")
	if err := parseArgs(fs, args, 1); err != nil {
		return err
	}
	mode, relax, ok := collapse.ParseScheme(*scheme)
	if !ok {
		return fmt.Errorf("-scheme: unknown scheme %q", *scheme)
	}
	if *maxIter <= 0 || !(*tol > 0) {
		return errors.New("-max-iter and -tol must be positive")
	}

	_, rec, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}
	res, err := collapse.Collapse(rec, mode, relax,
		collapse.WithLogger(a.logger),
		collapse.WithMaxIterations(*maxIter),
		collapse.WithTolerance(*tol),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "scheme      %s\n", *scheme)
	fmt.Fprintf(a.stdout, "eigenvalue  %s\n", strconv.FormatFloat(res.Eigenvalue, 'g', 10, 64))
	fmt.Fprintf(a.stdout, "iterations  %d\n", res.Iterations)
	fmt.Fprintf(a.stdout, "converged   %t\n", res.Warning == nil)
	fmt.Fprintf(a.stdout, "D           %s\n", strconv.FormatFloat(res.DiffusionCoefficient, 'g', 10, 64))
	fmt.Fprintf(a.stdout, "sigma_a     %s\n", strconv.FormatFloat(res.SigmaAbsorption, 'g', 10, 64))
	fmt.Fprintf(a.stdout, "spectrum    %s\n", joinFloats(res.Spectrum))

	return nil
}

func doExport(a *app, name string, args []string) error {
	fs := a.flags(name, "[-scale F] -o OUT FILE")
	out := fs.String("o", "", "output file (required)")
	scale := fs.String("scale", "1", "factor applied to production data, e.g. 1/1.0234")
	if err := parseArgs(fs, args, 1); err != nil {
		return err
	}
	if *out == "" {
		fs.Usage()
		return errUsage
	}
	factor, err := parseScale(*scale)
	if err != nil {
		return err
	}

	h, rec, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}
	opts := []xsfile.Option{xsfile.WithLogger(a.logger), xsfile.WithHeader(a.provenance(h, fs.Arg(0))...)}
	if factor != 1 {
		opts = append(opts, xsfile.WithFissionScaling(factor), xsfile.WithHeader("fission scaling "+*scale))
	}

	return xsfile.ExportToFile(*out, rec, opts...)
}

func doSnapshot(a *app, name string, args []string) error {
	fs := a.flags(name, "[-restore] [-o OUT] FILE")
	restore := fs.Bool("restore", false, "read a YAML snapshot and write the block format")
	out := fs.String("o", "", "output file (default stdout)")
	if err := parseArgs(fs, args, 1); err != nil {
		return err
	}

	w := a.stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if *restore {
		return a.restore(fs.Arg(0), w)
	}

	h, rec, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}
	id, err := a.ctx.RecordID(h)
	if err != nil {
		return err
	}

	return snapshot.FromRecord(rec, snapshot.WithID(id)).Encode(w)
}

// restore turns a snapshot back into the block format.
func (a *app) restore(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := snapshot.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	rec, err := doc.Record(xs.WithLogger(a.logger), xs.WithAngularOrder(a.cfg.AngularOrder))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err = a.ctx.AddRecord(rec); err != nil {
		return err
	}
	header := []string{"source " + path}
	if doc.ID != "" {
		header = append(header, "id "+doc.ID)
	}

	return xsfile.Write(w, rec, xsfile.WithLogger(a.logger), xsfile.WithHeader(header...))
}

// joinFloats renders v space-separated with full precision.
func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 10, 64)
	}

	return strings.Join(parts, " ")
}
