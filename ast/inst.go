// inst.go defines the instruction alphabet shared by the compiler and the VM.
// Instructions carry whole Nodes and nested code blocks, so they live beside
// the Node type.

package ast

// Op identifies an instruction.
type Op int

const (
	OpLd Op = iota
	OpLdc
	OpLdg
	OpLdf
	OpLset
	OpGset
	OpArgs
	OpApp
	OpRtn
	OpSel
	OpJoin
	OpPop
	OpDef
	OpDefm
	OpStop
)

var opNames = map[Op]string{
	OpLd:   "ld",
	OpLdc:  "ldc",
	OpLdg:  "ldg",
	OpLdf:  "ldf",
	OpLset: "lset",
	OpGset: "gset",
	OpArgs: "args",
	OpApp:  "app",
	OpRtn:  "rtn",
	OpSel:  "sel",
	OpJoin: "join",
	OpPop:  "pop",
	OpDef:  "def",
	OpDefm: "defm",
	OpStop: "stop",
}

func (op Op) String() string { return opNames[op] }

// Inst is one VM instruction. Operand usage per opcode:
//
//   - ld, lset:  I (frame depth) and J (slot index, negative for rest slots)
//   - ldc, ldg, gset, def, defm: Operand (a literal or symbol Node)
//   - ldf:       Body (the compiled function body)
//   - args:      N (argument count)
//   - sel:       Then and Else (the two branch blocks)
//   - app, rtn, join, pop, stop: no operands
type Inst struct {
	Op      Op
	I, J    int
	N       int
	Operand Node
	Body    Code
	Then    Code
	Else    Code
}

// Code is an instruction sequence. The VM consumes it front to back; the
// compiler builds it by prepending onto a continuation.
type Code []Inst

// Constructors, one per opcode, so compiled sequences read like SECD listings.

func Ld(i, j int) Inst   { return Inst{Op: OpLd, I: i, J: j} }
func Ldc(n Node) Inst    { return Inst{Op: OpLdc, Operand: n} }
func Ldg(sym Node) Inst  { return Inst{Op: OpLdg, Operand: sym} }
func Ldf(body Code) Inst { return Inst{Op: OpLdf, Body: body} }
func Lset(i, j int) Inst { return Inst{Op: OpLset, I: i, J: j} }
func Gset(sym Node) Inst { return Inst{Op: OpGset, Operand: sym} }
func Args(n int) Inst    { return Inst{Op: OpArgs, N: n} }
func App() Inst          { return Inst{Op: OpApp} }
func Rtn() Inst          { return Inst{Op: OpRtn} }
func Sel(t, f Code) Inst { return Inst{Op: OpSel, Then: t, Else: f} }
func Join() Inst         { return Inst{Op: OpJoin} }
func Pop() Inst          { return Inst{Op: OpPop} }
func Def(sym Node) Inst  { return Inst{Op: OpDef, Operand: sym} }
func Defm(sym Node) Inst { return Inst{Op: OpDefm, Operand: sym} }
func Stop() Inst         { return Inst{Op: OpStop} }

// Equal compares two instructions including nested code blocks.
func (in Inst) Equal(other Inst) bool {
	if in.Op != other.Op {
		return false
	}
	switch in.Op {
	case OpLd, OpLset:
		return in.I == other.I && in.J == other.J
	case OpArgs:
		return in.N == other.N
	case OpLdc, OpLdg, OpGset, OpDef, OpDefm:
		return in.Operand.Equal(other.Operand)
	case OpLdf:
		return in.Body.Equal(other.Body)
	case OpSel:
		return in.Then.Equal(other.Then) && in.Else.Equal(other.Else)
	default:
		return true
	}
}

// Equal compares two instruction sequences element-wise.
func (c Code) Equal(other Code) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
