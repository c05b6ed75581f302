package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/stackjs/internal/ast"
)

// UnsupportedNodeError is returned for a node with no lowering rule.
// Nil is set when the node itself was missing.
type UnsupportedNodeError struct {
	Kind ast.Kind
	Nil  bool
}

func (e *UnsupportedNodeError) Error() string {
	if e.Nil {
		return "unsupported node: nil"
	}
	return fmt.Sprintf("unsupported node: %s", e.Kind)
}

// UnsupportedOperatorError is returned for an infix operator outside + - * /.
type UnsupportedOperatorError struct {
	Operator ast.Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", string(e.Operator))
}

// IsUnsupportedNode returns true if err is or wraps an UnsupportedNodeError.
func IsUnsupportedNode(err error) bool {
	var e *UnsupportedNodeError
	return errors.As(err, &e)
}

// IsUnsupportedOperator returns true if err is or wraps an UnsupportedOperatorError.
func IsUnsupportedOperator(err error) bool {
	var e *UnsupportedOperatorError
	return errors.As(err, &e)
}
