package ir

import "fmt"

// Instruction is a single stack-machine instruction.
//
// This is a sealed interface - only types in this package implement it.
type Instruction interface {
	// Opcode identifies the instruction.
	Opcode() Opcode

	irInstruction() // Marker method - seals interface to this package
}

// Opcode identifies an Instruction variant.
type Opcode int

const (
	OpPushLiteral Opcode = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpPushLiteral: "PUSH_LITERAL",
	OpAdd:         "ADD",
	OpSubtract:    "SUBTRACT",
	OpMultiply:    "MULTIPLY",
	OpDivide:      "DIVIDE",
}

// String returns the mnemonic used in IR text and canonical JSON.
func (op Opcode) String() string {
	if op < 0 || op >= opcodeCount {
		return fmt.Sprintf("OPCODE(%d)", int(op))
	}
	return opcodeNames[op]
}

// ParseOpcode is the inverse of Opcode.String.
func ParseOpcode(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == name {
			return Opcode(op), true
		}
	}
	return 0, false
}

// Opcodes returns every opcode in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, opcodeCount)
	for op := Opcode(0); op < opcodeCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// PushLiteral pushes a constant onto the evaluation stack.
type PushLiteral struct {
	Value Literal
}

func (PushLiteral) Opcode() Opcode { return OpPushLiteral }
func (PushLiteral) irInstruction() {}

// Add pops right then left and pushes left + right.
type Add struct{}

func (Add) Opcode() Opcode { return OpAdd }
func (Add) irInstruction() {}

// Subtract pops right then left and pushes left - right.
type Subtract struct{}

func (Subtract) Opcode() Opcode { return OpSubtract }
func (Subtract) irInstruction() {}

// Multiply pops right then left and pushes left * right.
type Multiply struct{}

func (Multiply) Opcode() Opcode { return OpMultiply }
func (Multiply) irInstruction() {}

// Divide pops right then left and pushes left / right.
type Divide struct{}

func (Divide) Opcode() Opcode { return OpDivide }
func (Divide) irInstruction() {}

// Program is an ordered instruction sequence.
type Program struct {
	Instructions []Instruction
}

// NewProgram builds a Program from instructions.
func NewProgram(instructions ...Instruction) Program {
	return Program{Instructions: instructions}
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.Instructions)
}

// String returns the IR text form of p.
func (p Program) String() string {
	return Format(p)
}

// PushInt builds a PushLiteral carrying an integer.
func PushInt(v int64) PushLiteral {
	return PushLiteral{Value: Int(v)}
}

// PushFloat builds a PushLiteral carrying a float.
func PushFloat(v float64) PushLiteral {
	return PushLiteral{Value: Float(v)}
}

// Binary returns the zero-field instruction for a binary opcode.
func Binary(op Opcode) (Instruction, error) {
	switch op {
	case OpAdd:
		return Add{}, nil
	case OpSubtract:
		return Subtract{}, nil
	case OpMultiply:
		return Multiply{}, nil
	case OpDivide:
		return Divide{}, nil
	}
	return nil, fmt.Errorf("%s is not a binary opcode", op)
}
