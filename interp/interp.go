// Package interp owns the global environment and ties the pipeline together:
// it registers the primitive library, loads the embedded prelude, and drives
// source through lexer, parser, compiler and VM.
package interp

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"skim/ast"
	"skim/compiler"
	"skim/lexer"
	"skim/parser"
	"skim/vm"
)

// The prelude is compiled and run form by form when an Interp is created, so
// the macros and procedures it defines are available to everything loaded
// afterwards.
//
//go:embed mlib.scm
var mlib string

// Interp is one Scheme instance: a global environment plus the machinery to
// evaluate source against it. Instances are independent, so tests and
// embedded uses run isolated.
type Interp struct {
	global vm.GlobalEnv
}

// New creates an instance with the primitives registered and the prelude
// loaded.
func New() (*Interp, error) {
	i := &Interp{global: vm.GlobalEnv{}}
	registerPrimitives(i.global)
	if err := i.Load(mlib); err != nil {
		return nil, fmt.Errorf("loading prelude: %w", err)
	}
	return i, nil
}

// Global exposes the instance's global environment.
func (i *Interp) Global() vm.GlobalEnv {
	return i.global
}

// Parse turns source into its top-level forms.
func (i *Interp) Parse(source string) ([]ast.Node, error) {
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		return nil, err
	}
	return parser.Make(tokens).Parse()
}

// Compile translates one form against the instance's global environment.
// Macros defined earlier in the session expand during this call.
func (i *Interp) Compile(node ast.Node) (ast.Code, error) {
	return compiler.New(i.global).Compile(node)
}

// RunCode executes a compiled sequence and returns its value, which is an
// Error node when the run failed.
func (i *Interp) RunCode(code ast.Code) ast.Node {
	return vm.New(code).Run(i.global)
}

// Load parses, compiles and runs every form in a library source. Library
// sources are expected to load cleanly, so an Error value produced by any
// form aborts the load and is reported as an error.
func (i *Interp) Load(source string) error {
	nodes, err := i.Parse(source)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		code, err := i.Compile(node)
		if err != nil {
			return err
		}
		if result := i.RunCode(code); result.IsError() {
			return fmt.Errorf("%s", result.Text)
		}
	}
	return nil
}

// LoadFile loads a library source from disk.
func (i *Interp) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "couldn't read file %s", path)
	}
	if err := i.Load(string(data)); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	return nil
}

// Eval evaluates every form in source and returns the last form's value. A
// form producing an Error value does not stop the forms after it; the Error
// is returned as a value, the way the REPL prints it. Lexing, parsing and
// compilation failures are returned as Go errors.
func (i *Interp) Eval(source string) (ast.Node, error) {
	nodes, err := i.Parse(source)
	if err != nil {
		return ast.Node{}, err
	}
	result := ast.Undef()
	for _, node := range nodes {
		code, err := i.Compile(node)
		if err != nil {
			return ast.Node{}, err
		}
		result = i.RunCode(code)
	}
	return result, nil
}
