// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// command runs one subcommand with its own arguments.
type command func(a *app, name string, args []string) error

// cmdSet is an ordered registry of subcommands with one-line help.
type cmdSet struct {
	funcs map[string]command
	names []string
	helps []string
}

func newCmdSet() *cmdSet {
	return &cmdSet{funcs: map[string]command{}}
}

func (cs *cmdSet) register(name, brief string, f command) {
	cs.names = append(cs.names, name)
	cs.helps = append(cs.helps, brief)
	cs.funcs[name] = f
}

func (cs *cmdSet) help(name string) string {
	for i := range cs.names {
		if cs.names[i] == name {
			return cs.helps[i]
		}
	}

	return ""
}

// usage lists every subcommand.
func (cs *cmdSet) usage(w io.Writer) {
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	for i := range cs.names {
		fmt.Fprintf(tw, "\t%s\t%s\n", cs.names[i], cs.helps[i])
	}
	tw.Flush()
}

// execute dispatches args[0] with the remaining arguments.
func (cs *cmdSet) execute(a *app, args []string) error {
	f, ok := cs.funcs[args[0]]
	if !ok {
		return fmt.Errorf("unknown subcommand %q", args[0])
	}

	return f(a, args[0], args[1:])
}
