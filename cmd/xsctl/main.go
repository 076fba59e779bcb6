// SPDX-License-Identifier: MIT

// Command xsctl inspects, mixes, collapses, converts and plots multigroup
// cross-section files.
//
// Usage:
//
//	xsctl [-log-level LEVEL] <subcommand> [flags...] [args...]
//
// Settings come from a .env file in the working directory, then from
// XSCTL_* environment variables, then from flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/mgxs/material"
	"github.com/katalvlaran/mgxs/xs"
	"github.com/katalvlaran/mgxs/xsfile"
)

var cmds = newCmdSet()

func init() {
	cmds.register("inspect", "print per-group data of a file as a table", doInspect)
	cmds.register("combine", "mix files with density weights into one file", doCombine)
	cmds.register("collapse", "collapse a file to one group by spectrum weighting", doCollapse)
	cmds.register("export", "rewrite a file, optionally rescaling fission data", doExport)
	cmds.register("snapshot", "convert a file to a YAML snapshot, or back", doSnapshot)
	cmds.register("plot", "plot cross sections, spectrum and transfer matrix", doPlot)
}

// errUsage reports bad command-line usage; the message was already printed.
var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load(".env")

	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "xsctl:", err)
		}
		os.Exit(1)
	}
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg    config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	ctx    *material.Context
}

// run parses global flags and dispatches the subcommand.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	cfg, err := loadConfig(getenv)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("xsctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	level := fs.String("log-level", cfg.LogLevel.String(), "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: xsctl [flags] <subcommand> [flags...] [args...]")
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr, "\nSub-commands:")
		cmds.usage(stderr)
	}
	if err = fs.Parse(args); err != nil {
		return err
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(*level)); err != nil {
		return fmt.Errorf("-log-level: %w", err)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	a := &app{
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
		ctx:    material.NewContext(material.WithLogger(logger)),
	}

	return cmds.execute(a, fs.Args())
}

// flags returns a flag set for a subcommand with the shared usage layout.
func (a *app) flags(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: xsctl %s %s\n%s\n", name, synopsis, cmds.help(name))
		fs.PrintDefaults()
	}

	return fs
}

// load reads and finalizes a file and registers the record in the context.
func (a *app) load(path string) (material.RecordHandle, *xs.Record, error) {
	rec, err := xsfile.ReadFile(path,
		xsfile.WithLogger(a.logger),
		xsfile.WithRecordOptions(xs.WithAngularOrder(a.cfg.AngularOrder)),
	)
	if err != nil {
		return material.RecordHandle{}, nil, err
	}
	h, err := a.ctx.AddRecord(rec)
	if err != nil {
		return material.RecordHandle{}, nil, err
	}
	a.logger.Debug("loaded", "path", path, "groups", rec.NumGroups(), "handle", h.String())

	return h, rec, nil
}

// provenance returns the export header lines naming a loaded record.
func (a *app) provenance(h material.RecordHandle, path string) []string {
	id, err := a.ctx.RecordID(h)
	if err != nil {
		return []string{"source " + path}
	}

	return []string{"source " + path, "id " + id}
}
