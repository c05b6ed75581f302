package ir

import "fmt"

// StackEffect reports how many values in pops and pushes.
func StackEffect(in Instruction) (pops, pushes int) {
	switch in.Opcode() {
	case OpPushLiteral:
		return 0, 1
	default:
		return 2, 1
	}
}

// DepthError reports the first instruction that would pop an empty stack.
type DepthError struct {
	Index  int
	Opcode Opcode
	Need   int
	Have   int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("instruction %d (%s) needs %d operand(s), stack has %d",
		e.Index, e.Opcode, e.Need, e.Have)
}

// Depth simulates the stack effects of p and returns the number of values
// left on the stack. A well-formed program leaves one value per top-level
// statement.
func (p Program) Depth() (int, error) {
	depth := 0
	for i, in := range p.Instructions {
		if in == nil {
			return 0, fmt.Errorf("instruction %d is nil", i)
		}
		pops, pushes := StackEffect(in)
		if depth < pops {
			return 0, &DepthError{Index: i, Opcode: in.Opcode(), Need: pops, Have: depth}
		}
		depth += pushes - pops
	}
	return depth, nil
}
