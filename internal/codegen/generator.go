package codegen

import (
	"fmt"
	"strings"

	"github.com/roach88/stackjs/internal/ir"
)

// StatementTerminator separates top-level statements in the output.
// The last statement is not terminated.
const StatementTerminator = ";\n"

// Generator runs IR programs on a stack of text fragments.
//
// A Generator may be reused; its stack is cleared on every call. It is not
// safe for concurrent use. The package-level Generate and Fragments
// functions allocate a fresh Generator and are.
type Generator struct {
	stack []string
}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// Generate returns the target source for p.
func Generate(p ir.Program) (string, error) {
	return New().Generate(p)
}

// Fragments returns the statements left on the stack after running p,
// bottom of the stack first.
func Fragments(p ir.Program) ([]string, error) {
	return New().Fragments(p)
}

// Generate returns the target source for p. On error no partial output is
// returned.
func (g *Generator) Generate(p ir.Program) (string, error) {
	fragments, err := g.Fragments(p)
	if err != nil {
		return "", err
	}
	return strings.Join(fragments, StatementTerminator), nil
}

// Fragments returns the residual stack after running p.
func (g *Generator) Fragments(p ir.Program) ([]string, error) {
	g.stack = make([]string, 0, 8)

	for i, in := range p.Instructions {
		if err := g.step(i, in); err != nil {
			return nil, err
		}
	}

	out := make([]string, len(g.stack))
	copy(out, g.stack)
	return out, nil
}

func (g *Generator) step(index int, in ir.Instruction) error {
	switch op := in.(type) {
	case ir.PushLiteral:
		text, err := FormatLiteral(op.Value)
		if err != nil {
			return fmt.Errorf("instruction %d: %w", index, err)
		}
		g.push(text)
		return nil
	case ir.Add, ir.Subtract, ir.Multiply, ir.Divide:
		return g.binary(index, op.Opcode())
	default:
		return fmt.Errorf("instruction %d: unsupported instruction type: %T", index, in)
	}
}

func (g *Generator) binary(index int, opcode ir.Opcode) error {
	symbol, ok := Symbol(opcode)
	if !ok {
		return fmt.Errorf("instruction %d: %s has no operator symbol", index, opcode)
	}
	right, ok := g.pop()
	if !ok {
		return &StackUnderflowError{Index: index, Opcode: opcode}
	}
	left, ok := g.pop()
	if !ok {
		return &StackUnderflowError{Index: index, Opcode: opcode}
	}
	g.push("(" + left + " " + symbol + " " + right + ")")
	return nil
}

func (g *Generator) push(s string) {
	g.stack = append(g.stack, s)
}

func (g *Generator) pop() (string, bool) {
	n := len(g.stack)
	if n == 0 {
		return "", false
	}
	top := g.stack[n-1]
	g.stack = g.stack[:n-1]
	return top, true
}

// Symbol returns the infix symbol for a binary opcode.
func Symbol(op ir.Opcode) (string, bool) {
	switch op {
	case ir.OpAdd:
		return "+", true
	case ir.OpSubtract:
		return "-", true
	case ir.OpMultiply:
		return "*", true
	case ir.OpDivide:
		return "/", true
	}
	return "", false
}
