package compiler

import (
	"fmt"
	"os"
	"strings"

	"skim/ast"
)

// Disassemble renders an instruction sequence in a human readable format.
// Nested blocks (ldf bodies, sel branches) are indented under their owning
// instruction.
func Disassemble(code ast.Code) string {
	var builder strings.Builder
	writeCode(&builder, code, 0)
	return builder.String()
}

func writeCode(builder *strings.Builder, code ast.Code, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, inst := range code {
		switch inst.Op {
		case ast.OpLd, ast.OpLset:
			fmt.Fprintf(builder, "%s%s %d %d\n", indent, inst.Op, inst.I, inst.J)
		case ast.OpLdc, ast.OpLdg, ast.OpGset, ast.OpDef, ast.OpDefm:
			fmt.Fprintf(builder, "%s%s %s\n", indent, inst.Op, inst.Operand.Inspect())
		case ast.OpArgs:
			fmt.Fprintf(builder, "%s%s %d\n", indent, inst.Op, inst.N)
		case ast.OpLdf:
			fmt.Fprintf(builder, "%s%s\n", indent, inst.Op)
			writeCode(builder, inst.Body, depth+1)
		case ast.OpSel:
			fmt.Fprintf(builder, "%s%s\n", indent, inst.Op)
			fmt.Fprintf(builder, "%sthen:\n", indent)
			writeCode(builder, inst.Then, depth+1)
			fmt.Fprintf(builder, "%selse:\n", indent)
			writeCode(builder, inst.Else, depth+1)
		default:
			fmt.Fprintf(builder, "%s%s\n", indent, inst.Op)
		}
	}
}

// DumpCode writes the disassembled form of code to a file with a `.skc`
// extension so it can be viewed in a text editor.
func DumpCode(code ast.Code, filePath string) error {
	if filePath == "" {
		filePath = "bytecode.skc"
	} else {
		filePath = filePath + ".skc"
	}
	fDescriptor, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating disassembly file: %s", err.Error())
	}
	defer fDescriptor.Close()
	if _, err := fDescriptor.WriteString(Disassemble(code)); err != nil {
		return fmt.Errorf("error writing disassembly file: %s", err.Error())
	}
	return nil
}
