package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"skim/compiler"
	"skim/interp"
	"skim/lexer"
	"skim/token"
)

// replCmd implements the interactive session.
type replCmd struct {
	debug bool
	load  pathList
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive REPL session" }
func (*replCmd) Usage() string {
	return `repl [-debug] [-load lib.scm ...]:
  Start an interactive REPL session.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.debug, "debug", false, "Print the compiled instruction sequence before running it")
	f.BoolVar(&cmd.debug, "d", false, "Shorthand for debug.")
	f.Var(&cmd.load, "load", "Load a Scheme library file before the session (repeatable)")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {

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

	fmt.Println("Welcome to Skim!")
	fmt.Println("")

	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %s\n", err.Error())
			return subcommands.ExitFailure
		}

		if strings.Contains(line, "(quit)") || strings.Contains(line, "(exit)") {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, err := lexer.New(source).Scan()
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		// An unbalanced form means the user is still typing; keep reading.
		if !isInputReady(tokens) {
			continue
		}
		buffer.Reset()

		nodes, err := i.Parse(source)
		if err != nil {
			fmt.Println(err)
			continue
		}

		for _, node := range nodes {
			code, err := i.Compile(node)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if cmd.debug {
				fmt.Printf("VM code:\n\n%s\n", compiler.Disassemble(code))
			}
			result := i.RunCode(code)
			fmt.Printf("==> %s\n", result.Inspect())
		}
	}
}

// isInputReady reports whether the buffered input forms complete
// S-expressions: every opening delimiter is matched and the input does not
// end on a reader prefix.
func isInputReady(tokens []token.Token) bool {
	balance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LPAREN, token.LBRACKET:
			balance++
		case token.RPAREN, token.RBRACKET:
			balance--
		}
	}
	if balance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}
	switch last.TokenType {
	case token.QUOTE, token.QUASIQUOTE, token.UNQUOTE, token.UNQUOTE_SPLICING, token.DOT:
		return false
	}
	return true
}

// lastNonEOF returns the last non-EOF token, or nil if all tokens are EOF.
func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}
