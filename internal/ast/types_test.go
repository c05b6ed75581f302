package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// describeNode must handle every variant; a new Kind without a case fails here.
func describeNode(n Node) string {
	switch n.(type) {
	case IntegerLiteral:
		return "integer"
	case FloatLiteral:
		return "float"
	case Identifier:
		return "identifier"
	case InfixOperation:
		return "infix"
	case ExpressionStatement:
		return "statement"
	case MethodDefinition:
		return "method"
	case Program:
		return "program"
	}
	return ""
}

func sampleNode(k Kind) Node {
	switch k {
	case KindIntegerLiteral:
		return Int(1)
	case KindFloatLiteral:
		return Float(1.5)
	case KindIdentifier:
		return Identifier{Name: "x"}
	case KindInfixOperation:
		return Infix(Int(1), OpAdd, Int(2))
	case KindExpressionStatement:
		return Stmt(Int(1))
	case KindMethodDefinition:
		return MethodDefinition{Name: "foo"}
	case KindProgram:
		return NewProgram()
	}
	return nil
}

func TestKinds_Exhaustive(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 7)

	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			n := sampleNode(k)
			if assert.NotNil(t, n, "no sample for %s", k) {
				assert.Equal(t, k, n.Kind())
				assert.NotEmpty(t, describeNode(n))
			}
		})
	}
}

func TestKind_StringRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
}

func TestKind_StringTags(t *testing.T) {
	assert.Equal(t, "integer_literal", KindIntegerLiteral.String())
	assert.Equal(t, "infix_operation", KindInfixOperation.String())
	assert.Equal(t, "method_definition", KindMethodDefinition.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestParseKind_Unknown(t *testing.T) {
	_, ok := ParseKind("while_loop")
	assert.False(t, ok)
}

func TestOperator_Valid(t *testing.T) {
	for _, op := range []Operator{OpAdd, OpSubtract, OpMultiply, OpDivide} {
		assert.True(t, op.Valid(), string(op))
	}
	assert.False(t, Operator("%").Valid())
	assert.False(t, Operator("").Valid())
}

func TestConstructors(t *testing.T) {
	n := Infix(Int(2), OpMultiply, Float(3.5))
	assert.Equal(t, IntegerLiteral{Value: 2}, n.Left)
	assert.Equal(t, OpMultiply, n.Operator)
	assert.Equal(t, FloatLiteral{Value: 3.5}, n.Right)

	p := NewProgram(Stmt(Int(5)))
	assert.Len(t, p.Statements, 1)
	assert.Equal(t, ExpressionStatement{Expression: Int(5)}, p.Statements[0])
}
