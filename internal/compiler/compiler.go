package compiler

import (
	"github.com/roach88/stackjs/internal/ast"
	"github.com/roach88/stackjs/internal/ir"
)

// Compiler lowers AST nodes to IR.
//
// A Compiler may be reused; its state is reset on every call. It is not
// safe for concurrent use. The package-level Compile and CompileSequence
// functions allocate a fresh Compiler and are.
type Compiler struct {
	instructions []ir.Instruction
}

// New creates a Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Compile lowers a single root node, usually an ast.Program.
// On error no partial program is returned.
func Compile(node ast.Node) (ir.Program, error) {
	return New().Compile(node)
}

// CompileSequence lowers nodes in order, concatenating their output.
func CompileSequence(nodes []ast.Node) (ir.Program, error) {
	return New().CompileSequence(nodes)
}

// Compile lowers a single root node.
func (c *Compiler) Compile(node ast.Node) (ir.Program, error) {
	c.reset()
	if err := c.visit(node); err != nil {
		return ir.Program{}, err
	}
	return c.program(), nil
}

// CompileSequence lowers nodes in order.
func (c *Compiler) CompileSequence(nodes []ast.Node) (ir.Program, error) {
	c.reset()
	if err := c.visitAll(nodes); err != nil {
		return ir.Program{}, err
	}
	return c.program(), nil
}

func (c *Compiler) reset() {
	c.instructions = make([]ir.Instruction, 0, 16)
}

func (c *Compiler) program() ir.Program {
	out := make([]ir.Instruction, len(c.instructions))
	copy(out, c.instructions)
	return ir.Program{Instructions: out}
}

func (c *Compiler) emit(in ir.Instruction) {
	c.instructions = append(c.instructions, in)
}

func (c *Compiler) visitAll(nodes []ast.Node) error {
	for _, n := range nodes {
		if err := c.visit(n); err != nil {
			return err
		}
	}
	return nil
}

// visit dispatches on the node variant. Pointer variants are accepted the
// same as values.
func (c *Compiler) visit(node ast.Node) error {
	switch n := deref(node).(type) {
	case nil:
		return &UnsupportedNodeError{Nil: true}
	case ast.Program:
		return c.visitAll(n.Statements)
	case ast.ExpressionStatement:
		return c.visit(n.Expression)
	case ast.MethodDefinition:
		// Name and Args have no IR counterpart yet.
		return c.visitAll(n.Body)
	case ast.InfixOperation:
		return c.visitInfix(n)
	case ast.IntegerLiteral:
		c.emit(ir.PushInt(n.Value))
		return nil
	case ast.FloatLiteral:
		c.emit(ir.PushFloat(n.Value))
		return nil
	default:
		return &UnsupportedNodeError{Kind: n.Kind()}
	}
}

func (c *Compiler) visitInfix(n ast.InfixOperation) error {
	op, err := binaryOp(n.Operator)
	if err != nil {
		return err
	}
	if err := c.visit(n.Left); err != nil {
		return err
	}
	if err := c.visit(n.Right); err != nil {
		return err
	}
	c.emit(op)
	return nil
}

func binaryOp(op ast.Operator) (ir.Instruction, error) {
	switch op {
	case ast.OpAdd:
		return ir.Add{}, nil
	case ast.OpSubtract:
		return ir.Subtract{}, nil
	case ast.OpMultiply:
		return ir.Multiply{}, nil
	case ast.OpDivide:
		return ir.Divide{}, nil
	}
	return nil, &UnsupportedOperatorError{Operator: op}
}
