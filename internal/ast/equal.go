package ast

import "math"

// Equal reports whether a and b are structurally equal.
//
// Nil slices equal empty slices. Float values compare by value, except that
// NaN equals NaN so that a tree always equals itself.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case IntegerLiteral:
		return x.Value == b.(IntegerLiteral).Value
	case FloatLiteral:
		y := b.(FloatLiteral).Value
		if math.IsNaN(x.Value) {
			return math.IsNaN(y)
		}
		return x.Value == y
	case Identifier:
		return x.Name == b.(Identifier).Name
	case InfixOperation:
		y := b.(InfixOperation)
		return x.Operator == y.Operator && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case ExpressionStatement:
		return Equal(x.Expression, b.(ExpressionStatement).Expression)
	case MethodDefinition:
		y := b.(MethodDefinition)
		if x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if x.Args[i].Name != y.Args[i].Name {
				return false
			}
		}
		return equalAll(x.Body, y.Body)
	case Program:
		return equalAll(x.Statements, b.(Program).Statements)
	default:
		return false
	}
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
