// node.go contains the Node value sum. A Node is both a parsed expression and
// a runtime value: the parser produces Nodes, the compiler consumes them, and
// the VM computes with them.

package ast

import (
	"fmt"
	"strconv"
)

// Kind classifies the variant a Node holds.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindSymbol
	KindList
	KindPrimitive
	KindClosure
	KindMacro
	KindError
	KindUndefined
)

// PrimFn is the signature every built-in procedure must satisfy. It receives
// the materialized argument list (elements of the list the VM assembled with
// `Args`, trailing nil sentinel included) and returns a single value. A
// primitive reports misuse by returning an Error node.
type PrimFn func(args []Node) Node

// Node is a tagged value. Only the fields relevant to Kind are populated:
//
//   - KindBool:      Bool
//   - KindInt:       Int
//   - KindString:    Text (the string contents)
//   - KindSymbol:    Text (the identifier name)
//   - KindList:      Items (a proper list ends with the empty list)
//   - KindPrimitive: Text (the source-visible name) and Fn
//   - KindClosure:   Code (compiled body) and Frames (captured environment)
//   - KindMacro:     Code (compiled transformer, no captured environment)
//   - KindError:     Text (the message)
//   - KindUndefined: nothing
type Node struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Text   string
	Items  []Node
	Fn     PrimFn
	Code   Code
	Frames *Env
}

func NewBool(b bool) Node     { return Node{Kind: KindBool, Bool: b} }
func NewInt(i int64) Node     { return Node{Kind: KindInt, Int: i} }
func NewString(s string) Node { return Node{Kind: KindString, Text: s} }
func NewSymbol(name string) Node {
	return Node{Kind: KindSymbol, Text: name}
}

// Nil returns the empty list. It doubles as the sentinel terminating every
// proper list the parser emits.
func Nil() Node { return Node{Kind: KindList} }

func NewList(items ...Node) Node {
	return Node{Kind: KindList, Items: items}
}

func NewPrimitive(name string, fn PrimFn) Node {
	return Node{Kind: KindPrimitive, Text: name, Fn: fn}
}

func NewClosure(code Code, frames *Env) Node {
	return Node{Kind: KindClosure, Code: code, Frames: frames}
}

func NewMacro(code Code) Node {
	return Node{Kind: KindMacro, Code: code}
}

func Undef() Node { return Node{Kind: KindUndefined} }

func Errorf(format string, args ...any) Node {
	return Node{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

// IsList reports whether the node is a proper list: a List whose last element
// is the empty list, or the empty list itself.
func (n Node) IsList() bool {
	if n.Kind != KindList {
		return false
	}
	if len(n.Items) == 0 {
		return true
	}
	return n.Items[len(n.Items)-1].IsNull()
}

// IsNull reports whether the node is the empty list.
func (n Node) IsNull() bool {
	return n.Kind == KindList && len(n.Items) == 0
}

// IsPair reports whether the node is a non-empty list (proper or dotted).
func (n Node) IsPair() bool {
	return n.Kind == KindList && len(n.Items) > 0
}

func (n Node) IsError() bool { return n.Kind == KindError }

// IsSymbol reports whether the node is the symbol named name.
func (n Node) IsSymbol(name string) bool {
	return n.Kind == KindSymbol && n.Text == name
}

// Equal compares two nodes structurally. Primitives compare by name,
// closures and macros by their compiled code.
func (n Node) Equal(other Node) bool {
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case KindBool:
		return n.Bool == other.Bool
	case KindInt:
		return n.Int == other.Int
	case KindString, KindSymbol, KindPrimitive, KindError:
		return n.Text == other.Text
	case KindList:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindClosure, KindMacro:
		return n.Code.Equal(other.Code)
	default:
		return true
	}
}

// Inspect renders the node the way the REPL prints results. Proper lists
// suppress their trailing nil; dotted pairs print with a `.` before the last
// element.
func (n Node) Inspect() string {
	switch n.Kind {
	case KindBool:
		if n.Bool {
			return "#t"
		}
		return "#f"
	case KindInt:
		return strconv.FormatInt(n.Int, 10)
	case KindString:
		return strconv.Quote(n.Text)
	case KindSymbol:
		return n.Text
	case KindList:
		if len(n.Items) == 0 {
			return "()"
		}
		s := "("
		for i, item := range n.Items {
			if i == len(n.Items)-1 {
				if item.IsNull() {
					break
				}
				s += " ."
			}
			if i != 0 {
				s += " "
			}
			s += item.Inspect()
		}
		return s + ")"
	case KindPrimitive:
		return fmt.Sprintf("#<primitive %s>", n.Text)
	case KindClosure:
		return "#<closure>"
	case KindMacro:
		return "#<macro>"
	case KindError:
		return "Error: " + n.Text
	default:
		return "#<undef>"
	}
}

func (n Node) String() string { return n.Inspect() }
