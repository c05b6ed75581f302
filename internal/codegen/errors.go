package codegen

import (
	"errors"
	"fmt"

	"github.com/roach88/stackjs/internal/ir"
)

// StackUnderflowError is returned when an instruction pops an empty stack.
type StackUnderflowError struct {
	Index  int // position of the instruction in the program
	Opcode ir.Opcode
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at instruction %d (%s)", e.Index, e.Opcode)
}

// IsStackUnderflow returns true if err is or wraps a StackUnderflowError.
func IsStackUnderflow(err error) bool {
	var e *StackUnderflowError
	return errors.As(err, &e)
}
