// Package vm implements the SECD machine that executes compiled instruction
// sequences. Four registers drive it: the operand stack S, the environment
// frame chain E, the remaining code C, and the dump D of saved (S, E, C)
// triples used for call/return and conditional joins.
package vm

import (
	"fmt"

	"skim/ast"
)

// VM is one running machine. The compiler also spins up short-lived instances
// of it mid-compilation to expand macros.
type VM struct {
	s Stack
	e *ast.Env
	c ast.Code
	d Dump
}

// New creates a VM that will execute code against a fresh, empty environment
// chain.
func New(code ast.Code) *VM {
	return &VM{
		e: ast.NewEnv(),
		c: code,
	}
}

// SetEnv replaces the machine's environment register. Macro expansion uses it
// to install the call-site argument list as the transformer's only frame.
func (vm *VM) SetEnv(env *ast.Env) {
	vm.e = env
}

// SetDump replaces the machine's dump register. Macro expansion seeds it with
// a Stop continuation so the transformer's Rtn lands on a terminating state.
func (vm *VM) SetDump(dump Dump) {
	vm.d = dump
}

// Run executes instructions until a Stop is dequeued or an Error value is
// produced, and returns the value on top of S. The global environment is
// shared with the compiler and mutated by Def, Defm and Gset.
func (vm *VM) Run(global GlobalEnv) ast.Node {
	for {
		if len(vm.c) == 0 {
			panic(RuntimeError{Message: "ran off the end of the code register"})
		}
		inst := vm.c[0]
		vm.c = vm.c[1:]

		switch inst.Op {
		case ast.OpLd:
			value, ok := vm.e.Load(inst.I, inst.J)
			if !ok {
				panic(RuntimeError{Message: fmt.Sprintf("ld %d %d addresses no binding", inst.I, inst.J)})
			}
			vm.s.Push(MakeItem(value))

		case ast.OpLdc:
			vm.s.Push(Item{Tag: TagOther, Node: inst.Operand})

		case ast.OpLdg:
			item, ok := global[inst.Operand.Text]
			if !ok {
				return ast.Errorf("symbol not found in the global environment: %s", inst.Operand.Text)
			}
			vm.s.Push(item)

		case ast.OpLdf:
			vm.s.Push(Item{Tag: TagClosure, Node: ast.NewClosure(inst.Body, vm.e)})

		case ast.OpLset:
			item := vm.s.Peek()
			if !vm.e.Store(inst.I, inst.J, item.Node) {
				panic(RuntimeError{Message: fmt.Sprintf("lset %d %d addresses no binding", inst.I, inst.J)})
			}

		case ast.OpGset:
			item := vm.s.Peek()
			global[inst.Operand.Text] = item

		case ast.OpArgs:
			items := make([]ast.Node, inst.N+1)
			for i := inst.N - 1; i >= 0; i-- {
				items[i] = vm.s.Pop().Node
			}
			items[inst.N] = ast.Nil()
			vm.s.Push(Item{Tag: TagOther, Node: ast.NewList(items...)})

		case ast.OpApp:
			callee := vm.s.Pop()
			args := vm.s.Pop().Node
			if args.Kind != ast.KindList {
				panic(RuntimeError{Message: "app expects a materialized argument list"})
			}
			switch callee.Tag {
			case TagPrimitive:
				result := callee.Node.Fn(args.Items)
				if result.IsError() {
					return result
				}
				vm.s.Push(Item{Tag: TagOther, Node: result})
			case TagClosure:
				vm.d.Push(DumpEntry{Stack: vm.s, Env: vm.e, Code: vm.c})
				frame := ast.NewEnv()
				frame.SetValue(args)
				frame.SetNext(callee.Node.Frames)
				vm.s = nil
				vm.e = frame
				vm.c = callee.Node.Code
			default:
				return ast.Errorf("attempt to apply non-procedure: %s", callee.Node.Inspect())
			}

		case ast.OpRtn:
			result := vm.s.Pop()
			if result.Node.IsError() {
				return result.Node
			}
			saved := vm.d.Pop()
			vm.s = saved.Stack
			vm.e = saved.Env
			vm.c = saved.Code
			vm.s.Push(result)

		case ast.OpSel:
			test := vm.s.Pop().Node
			vm.d.Push(DumpEntry{Env: ast.NewEnv(), Code: vm.c})
			if test.Kind == ast.KindBool && !test.Bool {
				vm.c = inst.Else
			} else {
				vm.c = inst.Then
			}

		case ast.OpJoin:
			vm.c = vm.d.Pop().Code

		case ast.OpPop:
			vm.s.Pop()

		case ast.OpDef:
			item := vm.s.Pop()
			global[inst.Operand.Text] = item
			vm.s.Push(Item{Tag: TagOther, Node: inst.Operand})

		case ast.OpDefm:
			item := vm.s.Pop()
			if item.Tag != TagClosure {
				panic(RuntimeError{Message: "defm expects a closure on the operand stack"})
			}
			global[inst.Operand.Text] = Item{Tag: TagOther, Node: ast.NewMacro(item.Node.Code)}
			vm.s.Push(Item{Tag: TagOther, Node: inst.Operand})

		case ast.OpStop:
			return vm.s.Pop().Node

		default:
			panic(RuntimeError{Message: fmt.Sprintf("unknown opcode %v", inst.Op)})
		}
	}
}
