// Package compiler translates ast.Node expressions into instruction sequences
// for the SECD machine. Compilation is continuation-passing: every helper
// receives the code that must run after the expression and returns a fresh
// sequence with the expression's instructions in front.
//
// The compiler recognizes a fixed set of special forms by head symbol. Any
// other head whose global binding is a macro triggers expansion: the macro's
// compiled body runs on a private VM with the unevaluated argument list as
// its only frame, and the node it returns is compiled in place of the call.
package compiler

import (
	"fmt"

	"skim/ast"
	"skim/vm"
)

// maxExpansionDepth bounds nested macro expansion so a self-producing macro
// surfaces as a compile error instead of a stack overflow.
const maxExpansionDepth = 512

// Compiler compiles expressions against one global environment. The global
// environment is read during compilation (macro lookup) and mutated when
// expansion runs macro bodies that define things.
type Compiler struct {
	global vm.GlobalEnv
	depth  int
}

// New creates a Compiler bound to the given global environment.
func New(global vm.GlobalEnv) *Compiler {
	return &Compiler{global: global}
}

// Compile translates one top-level expression into a sequence ending in Stop.
func (c *Compiler) Compile(node ast.Node) (ast.Code, error) {
	c.depth = 0
	return c.compileExpr(node, ast.NewEnv(), ast.Code{ast.Stop()})
}

// prepend builds a fresh sequence with inst in front of code.
func prepend(inst ast.Inst, code ast.Code) ast.Code {
	return append(ast.Code{inst}, code...)
}

func (c *Compiler) compileExpr(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	switch expr.Kind {
	case ast.KindBool, ast.KindInt, ast.KindString:
		return prepend(ast.Ldc(expr), code), nil

	case ast.KindSymbol:
		if i, j, ok := env.Locate(expr); ok {
			return prepend(ast.Ld(i, j), code), nil
		}
		return prepend(ast.Ldg(expr), code), nil

	case ast.KindList:
		return c.compileForm(expr, env, code)

	default:
		panic(DeveloperError{Message: fmt.Sprintf("compiler treats only bool, int, string, symbol and list nodes, got %s", expr.Inspect())})
	}
}

func (c *Compiler) compileForm(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	if len(expr.Items) == 0 {
		return nil, SemanticError{Message: "attempt to evaluate nil"}
	}
	head := expr.Items[0]

	if head.Kind == ast.KindSymbol {
		switch head.Text {
		case "quote":
			return c.compileQuote(expr, code)
		case "if":
			return c.compileIf(expr, env, code)
		case "lambda":
			return c.compileLambda(expr, env, code)
		case "define":
			return c.compileDefine(expr, env, code)
		case "define-macro":
			return c.compileDefineMacro(expr, env, code)
		case "set!":
			return c.compileSet(expr, env, code)
		}
		if macroCode, ok := c.macroCode(head); ok {
			return c.expandMacro(expr, macroCode, env, code)
		}
	}

	return c.compileApplication(expr, env, code)
}

func (c *Compiler) compileQuote(expr ast.Node, code ast.Code) (ast.Code, error) {
	if len(expr.Items) < 2 {
		return nil, SemanticError{Message: "shortage of the args of `quote`"}
	}
	return prepend(ast.Ldc(expr.Items[1]), code), nil
}

// compileIf emits the test followed by a Sel whose branches each end in Join.
// A one-armed if gets an else branch that loads the undefined value.
func (c *Compiler) compileIf(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	items := expr.Items[:len(expr.Items)-1]
	if len(items) < 3 {
		return nil, SemanticError{Message: "shortage of the args of `if`"}
	}
	thenClause, err := c.compileExpr(items[2], env, ast.Code{ast.Join()})
	if err != nil {
		return nil, err
	}
	var elseClause ast.Code
	if len(items) < 4 {
		elseClause = ast.Code{ast.Ldc(ast.Undef()), ast.Join()}
	} else {
		elseClause, err = c.compileExpr(items[3], env, ast.Code{ast.Join()})
		if err != nil {
			return nil, err
		}
	}
	return c.compileExpr(items[1], env, prepend(ast.Sel(thenClause, elseClause), code))
}

// compileLambda compiles the body in a new compile-time frame holding the
// parameter spec, ends it with Rtn, and wraps the result in Ldf.
func (c *Compiler) compileLambda(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	body := expr.Items[1:]
	if len(body) < 2 {
		return nil, SemanticError{Message: "shortage of the args of `lambda`"}
	}
	params := body[0]
	body = body[1:]

	frame := ast.NewEnv()
	frame.SetValue(params)
	frame.SetNext(env)

	bodyCode, err := c.compileBody(body, frame, ast.Code{ast.Rtn()})
	if err != nil {
		return nil, err
	}
	return prepend(ast.Ldf(bodyCode), code), nil
}

func (c *Compiler) compileDefine(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	if len(expr.Items) < 3 {
		return nil, SemanticError{Message: "shortage of the args of `define`"}
	}
	name := expr.Items[1]
	value := expr.Items[2]

	switch name.Kind {
	case ast.KindSymbol:
		// (define name expr)
	case ast.KindList:
		// (define (name param ...) body ...) is rewritten to
		// (define name (lambda (param ...) body ...))
		if len(name.Items) == 0 {
			return nil, SemanticError{Message: "proc name not found in `define` first argument"}
		}
		params := ast.NewList(name.Items[1:]...)
		lambdaItems := append([]ast.Node{ast.NewSymbol("lambda"), params}, expr.Items[2:]...)
		name = name.Items[0]
		value = ast.NewList(lambdaItems...)
	default:
		return nil, SemanticError{Message: "can accept only symbol or list as first arg of `define`"}
	}

	return c.compileExpr(value, env, prepend(ast.Def(name), code))
}

func (c *Compiler) compileDefineMacro(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	if len(expr.Items) < 3 {
		return nil, SemanticError{Message: "shortage of the args of `define-macro`"}
	}
	name := expr.Items[1]
	if name.Kind != ast.KindSymbol {
		return nil, SemanticError{Message: "can accept only symbol as first arg of `define-macro`"}
	}
	return c.compileExpr(expr.Items[2], env, prepend(ast.Defm(name), code))
}

func (c *Compiler) compileSet(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	if len(expr.Items) < 3 {
		return nil, SemanticError{Message: "shortage of the args of `set!`"}
	}
	name := expr.Items[1]
	var assign ast.Inst
	if i, j, ok := env.Locate(name); ok {
		assign = ast.Lset(i, j)
	} else {
		assign = ast.Gset(name)
	}
	return c.compileExpr(expr.Items[2], env, prepend(assign, code))
}

// macroCode returns the compiled transformer when sym's global binding is a
// macro.
func (c *Compiler) macroCode(sym ast.Node) (ast.Code, bool) {
	item, ok := c.global[sym.Text]
	if !ok || item.Tag != vm.TagOther || item.Node.Kind != ast.KindMacro {
		return nil, false
	}
	return item.Node.Code, true
}

// expandMacro runs the transformer on a private VM. Its single frame holds
// the unevaluated argument list; its dump holds a Stop continuation so the
// body's Rtn terminates the machine. The node the macro returns is compiled
// at the original call site, re-entering expansion if it is itself a macro
// call.
func (c *Compiler) expandMacro(expr ast.Node, macroCode ast.Code, env *ast.Env, code ast.Code) (ast.Code, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxExpansionDepth {
		return nil, SemanticError{Message: fmt.Sprintf("macro expansion exceeds %d levels in %s", maxExpansionDepth, expr.Items[0].Text)}
	}

	machine := vm.New(macroCode)

	frame := ast.NewEnv()
	frame.SetValue(ast.NewList(append([]ast.Node(nil), expr.Items[1:]...)...))
	machine.SetEnv(frame)

	var dump vm.Dump
	dump.Push(vm.DumpEntry{Env: ast.NewEnv(), Code: ast.Code{ast.Stop()}})
	machine.SetDump(dump)

	result := machine.Run(c.global)
	if result.IsError() {
		return nil, SemanticError{Message: fmt.Sprintf("expanding `%s`: %s", expr.Items[0].Text, result.Text)}
	}
	return c.compileExpr(result, env, code)
}

// compileApplication emits the argument expressions (in source order, see
// compileArgs), an Args collecting them, the callee, and App.
func (c *Compiler) compileApplication(expr ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	n := len(expr.Items) - 1
	if expr.Items[len(expr.Items)-1].IsNull() {
		n = len(expr.Items) - 2
	}

	headCode, err := c.compileExpr(expr.Items[0], env, prepend(ast.App(), code))
	if err != nil {
		return nil, err
	}
	collected := append(ast.Code{ast.Args(n)}, headCode...)
	return c.compileArgs(expr.Items[1:], env, collected)
}

// compileArgs compiles argument expressions so the first argument's code runs
// first: the list is walked front to back but each element is prepended to
// the code compiled for the rest.
func (c *Compiler) compileArgs(args []ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	if len(args) == 0 || (len(args) == 1 && args[0].IsNull()) {
		return code, nil
	}
	rest, err := c.compileArgs(args[1:], env, code)
	if err != nil {
		return nil, err
	}
	return c.compileExpr(args[0], env, rest)
}

// compileBody compiles a lambda body: every expression but the last is
// followed by a Pop discarding its value.
func (c *Compiler) compileBody(body []ast.Node, env *ast.Env, code ast.Code) (ast.Code, error) {
	first := body[0]
	rest := body[1:]
	if len(rest) == 0 || (len(rest) == 1 && rest[0].IsNull()) {
		return c.compileExpr(first, env, code)
	}
	restCode, err := c.compileBody(rest, env, code)
	if err != nil {
		return nil, err
	}
	return c.compileExpr(first, env, prepend(ast.Pop(), restCode))
}
