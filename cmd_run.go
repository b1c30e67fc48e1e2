package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"skim/interp"
)

// runCmd implements batch execution: library files load first, then the
// input file runs form by form.
type runCmd struct {
	load pathList
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Scheme code from a source file" }
func (*runCmd) Usage() string {
	return `run [-load lib.scm ...] <file>:
  Execute Scheme code.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&cmd.load, "load", "Load a Scheme library file before the input (repeatable)")
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	i, err := interp.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	for _, lib := range cmd.load {
		if err := i.LoadFile(lib); err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	nodes, err := i.Parse(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitSuccess
	}

	// A form that fails to compile or errors at runtime is reported and the
	// remaining forms still run.
	for _, node := range nodes {
		code, err := i.Compile(node)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if result := i.RunCode(code); result.IsError() {
			fmt.Fprintln(os.Stderr, result.Inspect())
		}
	}

	return subcommands.ExitSuccess
}
