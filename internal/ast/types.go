package ast

import "fmt"

// Node is a node of the abstract syntax tree.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	// Kind identifies the variant.
	Kind() Kind

	astNode() // Marker method - seals interface to this package
}

// Kind identifies a Node variant.
type Kind int

const (
	KindIntegerLiteral Kind = iota
	KindFloatLiteral
	KindIdentifier
	KindInfixOperation
	KindExpressionStatement
	KindMethodDefinition
	KindProgram

	kindCount
)

var kindNames = [kindCount]string{
	KindIntegerLiteral:      "integer_literal",
	KindFloatLiteral:        "float_literal",
	KindIdentifier:          "identifier",
	KindInfixOperation:      "infix_operation",
	KindExpressionStatement: "expression_statement",
	KindMethodDefinition:    "method_definition",
	KindProgram:             "program",
}

// String returns the snake_case tag used in AST documents.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(tag string) (Kind, bool) {
	for k, name := range kindNames {
		if name == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every node variant in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Operator is the symbol of an infix arithmetic operation.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
)

// Valid reports whether op is one of + - * /.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// IntegerLiteral is an integer constant, e.g. 123.
type IntegerLiteral struct {
	Value int64
}

func (IntegerLiteral) Kind() Kind { return KindIntegerLiteral }
func (IntegerLiteral) astNode()   {}

// FloatLiteral is a floating point constant, e.g. 3.14.
type FloatLiteral struct {
	Value float64
}

func (FloatLiteral) Kind() Kind { return KindFloatLiteral }
func (FloatLiteral) astNode()   {}

// Identifier is a named reference, e.g. my_variable.
// The lowering pass has no rule for it yet.
type Identifier struct {
	Name string
}

func (Identifier) Kind() Kind { return KindIdentifier }
func (Identifier) astNode()   {}

// InfixOperation is a binary arithmetic operation, e.g. left + right.
type InfixOperation struct {
	Left     Node
	Operator Operator
	Right    Node
}

func (InfixOperation) Kind() Kind { return KindInfixOperation }
func (InfixOperation) astNode()   {}

// ExpressionStatement is an expression used on its own as a statement.
type ExpressionStatement struct {
	Expression Node
}

func (ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (ExpressionStatement) astNode()   {}

// MethodDefinition is a def ... end block.
// Args is currently always empty.
type MethodDefinition struct {
	Name string
	Args []Identifier
	Body []Node
}

func (MethodDefinition) Kind() Kind { return KindMethodDefinition }
func (MethodDefinition) astNode()   {}

// Program is the root of a tree: the ordered top-level statements.
type Program struct {
	Statements []Node
}

func (Program) Kind() Kind { return KindProgram }
func (Program) astNode()   {}

// Infix builds an InfixOperation.
func Infix(left Node, op Operator, right Node) InfixOperation {
	return InfixOperation{Left: left, Operator: op, Right: right}
}

// Int builds an IntegerLiteral.
func Int(v int64) IntegerLiteral {
	return IntegerLiteral{Value: v}
}

// Float builds a FloatLiteral.
func Float(v float64) FloatLiteral {
	return FloatLiteral{Value: v}
}

// Stmt wraps expr in an ExpressionStatement.
func Stmt(expr Node) ExpressionStatement {
	return ExpressionStatement{Expression: expr}
}

// NewProgram builds a Program from statements.
func NewProgram(stmts ...Node) Program {
	return Program{Statements: stmts}
}
