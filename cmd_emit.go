package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"skim/compiler"
	"skim/interp"
)

// emitCmd compiles a source file and prints the instruction sequences.
type emitCmd struct {
	save bool
}

func (*emitCmd) Name() string { return "emit" }
func (*emitCmd) Synopsis() string {
	return "Emit the compiled instruction sequences for a source file"
}
func (*emitCmd) Usage() string {
	return `emit [-save] <file>:
  Compile a source file and print the VM instructions for each form.
`
}

func (cmd *emitCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.save, "save", false, "Also write the disassembly to a .skc file next to the source")
}

func (cmd *emitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file:\n\t%v\n", err)
		return subcommands.ExitFailure
	}

	i, err := interp.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}

	nodes, err := i.Parse(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var listing strings.Builder
	for _, node := range nodes {
		code, cErr := i.Compile(node)
		if cErr != nil {
			fmt.Fprintf(os.Stderr, "💥 Compilation error:\n\t%v\n", cErr)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(&listing, "; %s\n%s\n", node.Inspect(), compiler.Disassemble(code))

		// Definitions must run so macros and globals defined by earlier
		// forms are visible while compiling later ones.
		if result := i.RunCode(code); result.IsError() {
			fmt.Fprintln(os.Stderr, result.Inspect())
		}
	}

	fmt.Print(listing.String())

	if cmd.save {
		base := strings.TrimSuffix(filename, ".scm")
		fDescriptor, err := os.Create(base + ".skc")
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 Dump error:\n\t%s\n", err.Error())
			return subcommands.ExitFailure
		}
		defer fDescriptor.Close()
		fDescriptor.WriteString(listing.String())
	}

	return subcommands.ExitSuccess
}
