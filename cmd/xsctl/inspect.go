// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/katalvlaran/mgxs/xs"
)

func doInspect(a *app, name string, args []string) error {
	fs := a.flags(name, "[-tables] FILE")
	tables := fs.Bool("tables", false, "also build and print the energy-transfer CDF")
	if err := parseArgs(fs, args, 1); err != nil {
		return err
	}
	h, rec, err := a.load(fs.Arg(0))
	if err != nil {
		return err
	}
	id, _ := a.ctx.RecordID(h)

	fmt.Fprintf(a.stdout, "%s  id=%s\n", fs.Arg(0), id)
	fmt.Fprintf(a.stdout, "groups=%d order=%d precursors=%d fission=%s scaled=%t\n",
		rec.NumGroups(), rec.ScatteringOrder(), rec.NumPrecursors(), rec.FissionMode(), rec.IsFissionScaled())
	if err = rec.Validate(); err != nil {
		fmt.Fprintf(a.stdout, "invalid: %v\n", err)
	}
	fmt.Fprintln(a.stdout)
	writeTable(a.stdout, groupTable(rec))

	if !*tables {
		return nil
	}
	cdf, err := rec.EnergyTransferCDF()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout)
	header := []string{"g′ → g"}
	for g := range cdf {
		header = append(header, strconv.Itoa(g))
	}
	rows := [][]string{header}
	for gp, row := range cdf {
		cells := []string{strconv.Itoa(gp)}
		for _, v := range row {
			cells = append(cells, cell(v))
		}
		rows = append(rows, cells)
	}
	writeTable(a.stdout, rows)

	return nil
}

// groupTable lays out the per-group data of rec, header row first.
func groupTable(rec *xs.Record) [][]string {
	type column struct {
		title string
		v     []float64
	}
	cols := []column{
		{"σt", rec.SigmaT()},
		{"σa", rec.SigmaA()},
		{"σr", rec.SigmaRemoval()},
		{"D", rec.DiffusionCoefficient()},
	}
	if rec.IsFissionable() {
		cols = append(cols, column{"νσf", rec.NuSigmaF()})
		switch {
		case rec.Chi() != nil:
			cols = append(cols, column{"χ", rec.Chi()})
		case rec.ChiPrompt() != nil:
			cols = append(cols, column{"χp", rec.ChiPrompt()})
		}
	}
	if iv := rec.InverseVelocity(); iv != nil {
		cols = append(cols, column{"1/v", iv})
	}

	header := []string{"g"}
	for _, c := range cols {
		header = append(header, c.title)
	}
	rows := [][]string{header}
	for g := 0; g < rec.NumGroups(); g++ {
		row := []string{strconv.Itoa(g)}
		for _, c := range cols {
			row = append(row, cell(c.v[g]))
		}
		rows = append(rows, row)
	}

	return rows
}

func cell(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// writeTable right-aligns every column by display width, so Greek
// headers line up with the numbers below them.
func writeTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, c := range row {
			if n := runewidth.StringWidth(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = runewidth.FillLeft(c, widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}
