package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&emitCmd{}, "")

	// No subcommand starts an interactive session.
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "repl")
	}

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// pathList collects a repeatable -load flag.
type pathList []string

func (p *pathList) String() string {
	if p == nil {
		return ""
	}
	s := ""
	for i, path := range *p {
		if i > 0 {
			s += ","
		}
		s += path
	}
	return s
}

func (p *pathList) Set(value string) error {
	*p = append(*p, value)
	return nil
}
