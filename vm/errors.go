package vm

import "fmt"

// RuntimeError marks a broken compiler/VM contract: an operand stack popped
// empty, a mismatched dump restore, a tag that does not fit its value. These
// are panics, not user-observable errors — user-level failures travel as
// ast.Node Error values.
type RuntimeError struct {
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 RuntimeError: %s", e.Message)
}
