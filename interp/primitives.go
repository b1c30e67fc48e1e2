// primitives.go implements the built-in procedure library. Every primitive
// receives the elements of the materialized argument list, trailing nil
// sentinel included, and is responsible for its own arity and type checks.
// Misuse is reported with an Error value, which halts the enclosing VM run.

package interp

import (
	"fmt"
	"os"

	"skim/ast"
	"skim/vm"
)

func register(global vm.GlobalEnv, name string, fn ast.PrimFn) {
	global[name] = vm.Item{Tag: vm.TagPrimitive, Node: ast.NewPrimitive(name, fn)}
}

func registerPrimitives(global vm.GlobalEnv) {
	register(global, "car", primCar)
	register(global, "cdr", primCdr)
	register(global, "cons", primCons)
	register(global, "eq?", primEq)
	register(global, "eqv?", primEq)
	register(global, "pair?", primPair)
	register(global, "display", primDisplay)
	register(global, "newline", primNewline)
	register(global, "+", primPlus)
	register(global, "-", primMinus)
	register(global, "*", primTimes)
	register(global, "div", primDiv)
	register(global, "modulo", primModulo)
	register(global, "=", primNumEq)
	register(global, "<", chainCompare("<", func(a, b int64) bool { return a < b }))
	register(global, ">", chainCompare(">", func(a, b int64) bool { return a > b }))
	register(global, "<=", chainCompare("<=", func(a, b int64) bool { return a <= b }))
	register(global, ">=", chainCompare(">=", func(a, b int64) bool { return a >= b }))
}

// realArgs strips the trailing nil sentinel so callers can count actual
// arguments.
func realArgs(args []ast.Node) []ast.Node {
	if len(args) == 0 {
		return args
	}
	return args[:len(args)-1]
}

func primCar(args []ast.Node) ast.Node {
	if len(args) == 0 || !args[0].IsPair() {
		return ast.Errorf("car: argument is not pair: %s", inspectFirst(args))
	}
	return args[0].Items[0]
}

func primCdr(args []ast.Node) ast.Node {
	if len(args) == 0 || !args[0].IsPair() {
		return ast.Errorf("cdr: argument is not pair: %s", inspectFirst(args))
	}
	rest := args[0].Items[1:]
	if len(rest) == 1 {
		return rest[0]
	}
	return ast.NewList(append([]ast.Node(nil), rest...)...)
}

func primCons(args []ast.Node) ast.Node {
	if len(realArgs(args)) < 2 {
		return ast.Errorf("cons: shortage of the numbers of arguments %d", len(realArgs(args)))
	}
	fst := args[0]
	snd := args[1]
	items := []ast.Node{fst}
	if snd.IsPair() {
		items = append(items, snd.Items...)
	} else {
		items = append(items, snd)
	}
	return ast.NewList(items...)
}

func primEq(args []ast.Node) ast.Node {
	if len(realArgs(args)) < 2 {
		return ast.Errorf("eq?: shortage of the numbers of arguments %d", len(realArgs(args)))
	}
	return ast.NewBool(args[0].Equal(args[1]))
}

func primPair(args []ast.Node) ast.Node {
	if len(args) == 0 {
		return ast.NewBool(false)
	}
	return ast.NewBool(args[0].IsPair())
}

func primDisplay(args []ast.Node) ast.Node {
	if len(args) > 0 {
		if args[0].Kind == ast.KindString {
			fmt.Fprint(os.Stdout, args[0].Text)
		} else {
			fmt.Fprint(os.Stdout, args[0].Inspect())
		}
	}
	return ast.Undef()
}

func primNewline(args []ast.Node) ast.Node {
	fmt.Fprintln(os.Stdout)
	return ast.Undef()
}

func primPlus(args []ast.Node) ast.Node {
	var result int64
	for _, arg := range realArgs(args) {
		switch arg.Kind {
		case ast.KindInt:
			result += arg.Int
		case ast.KindError:
			return arg
		default:
			return ast.Errorf("cannot apply `+` for non-integer object: %s", arg.Inspect())
		}
	}
	return ast.NewInt(result)
}

func primTimes(args []ast.Node) ast.Node {
	result := int64(1)
	for _, arg := range realArgs(args) {
		switch arg.Kind {
		case ast.KindInt:
			result *= arg.Int
		case ast.KindError:
			return arg
		default:
			return ast.Errorf("cannot apply `*` for non-integer object: %s", arg.Inspect())
		}
	}
	return ast.NewInt(result)
}

func primMinus(args []ast.Node) ast.Node {
	operands := realArgs(args)
	if len(operands) == 0 {
		return ast.Errorf("`-`: arguments is empty")
	}
	if operands[0].Kind != ast.KindInt {
		return ast.Errorf("cannot apply `-` for non-integer object: %s", operands[0].Inspect())
	}
	if len(operands) == 1 {
		return ast.NewInt(-operands[0].Int)
	}
	result := operands[0].Int
	for _, arg := range operands[1:] {
		switch arg.Kind {
		case ast.KindInt:
			result -= arg.Int
		case ast.KindError:
			return arg
		default:
			return ast.Errorf("cannot apply `-` for non-integer object: %s", arg.Inspect())
		}
	}
	return ast.NewInt(result)
}

func primDiv(args []ast.Node) ast.Node {
	if len(realArgs(args)) < 2 {
		return ast.Errorf("div: shortage of the numbers of arguments %d", len(realArgs(args)))
	}
	fst := args[0]
	snd := args[1]
	if fst.Kind != ast.KindInt {
		return ast.Errorf("`div`: first argument is not integer: %s", fst.Inspect())
	}
	if snd.Kind != ast.KindInt {
		return ast.Errorf("`div`: second argument is not integer: %s", snd.Inspect())
	}
	if snd.Int == 0 {
		return ast.Errorf("`div`: division by zero")
	}
	return ast.NewInt(fst.Int / snd.Int)
}

func primModulo(args []ast.Node) ast.Node {
	if len(realArgs(args)) < 2 {
		return ast.Errorf("modulo: shortage of the numbers of arguments %d", len(realArgs(args)))
	}
	fst := args[0]
	snd := args[1]
	if fst.Kind != ast.KindInt {
		return ast.Errorf("`modulo`: first argument is not integer: %s", fst.Inspect())
	}
	if snd.Kind != ast.KindInt {
		return ast.Errorf("`modulo`: second argument is not integer: %s", snd.Inspect())
	}
	if snd.Int == 0 {
		return ast.Errorf("`modulo`: division by zero")
	}
	return ast.NewInt(fst.Int % snd.Int)
}

func primNumEq(args []ast.Node) ast.Node {
	operands := realArgs(args)
	if len(operands) < 2 {
		return ast.Errorf("`=`: shortage of the numbers of arguments %d", len(operands))
	}
	fst := operands[0]
	if fst.Kind != ast.KindInt {
		return ast.Errorf("cannot apply `=` for non-integer object: %s", fst.Inspect())
	}
	for _, arg := range operands[1:] {
		switch arg.Kind {
		case ast.KindInt:
			if arg.Int != fst.Int {
				return ast.NewBool(false)
			}
		case ast.KindError:
			return arg
		default:
			return ast.Errorf("cannot apply `=` for non-integer object: %s", arg.Inspect())
		}
	}
	return ast.NewBool(true)
}

// chainCompare builds the <, >, <= and >= primitives: each compares every
// adjacent operand pair and yields false on the first failing pair.
func chainCompare(name string, cmp func(a, b int64) bool) ast.PrimFn {
	return func(args []ast.Node) ast.Node {
		operands := realArgs(args)
		if len(operands) < 2 {
			return ast.Errorf("`%s`: shortage of the numbers of arguments %d", name, len(operands))
		}
		if operands[0].Kind != ast.KindInt {
			return ast.Errorf("cannot apply `%s` for non-integer object: %s", name, operands[0].Inspect())
		}
		prev := operands[0].Int
		for _, arg := range operands[1:] {
			switch arg.Kind {
			case ast.KindInt:
				if !cmp(prev, arg.Int) {
					return ast.NewBool(false)
				}
				prev = arg.Int
			case ast.KindError:
				return arg
			default:
				return ast.Errorf("cannot apply `%s` for non-integer object: %s", name, arg.Inspect())
			}
		}
		return ast.NewBool(true)
	}
}

func inspectFirst(args []ast.Node) string {
	if len(args) == 0 {
		return "()"
	}
	return args[0].Inspect()
}
