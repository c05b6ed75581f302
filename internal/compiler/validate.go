package compiler

import (
	"fmt"

	"github.com/roach88/stackjs/internal/ast"
)

// Validation error codes (E300-E399)
const (
	ErrUnsupportedNode     = "E301" // node has no lowering rule, or is missing
	ErrUnsupportedOperator = "E302" // infix operator outside + - * /
	ErrMethodArgs          = "E303" // method arguments are dropped by lowering
)

// ValidationError describes one problem found in a tree.
type ValidationError struct {
	Field   string `json:"field"` // path from the root, e.g. statements[1].expression.left
	Message string `json:"message"`
	Code    string `json:"code"`
	Warning bool   `json:"warning,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	field := e.Field
	if field == "" {
		field = "root"
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, field, e.Message)
}

// Validate walks the whole tree and reports every problem that would make
// Compile fail, plus warnings for constructs lowering silently drops.
// Unlike Compile it does not stop at the first error.
func Validate(node ast.Node) []ValidationError {
	v := &validator{}
	v.walk(node, "")
	return v.errs
}

// HasErrors reports whether errs contains anything other than warnings.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.Warning {
			return true
		}
	}
	return false
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(path, code, msg string, warning bool) {
	v.errs = append(v.errs, ValidationError{Field: path, Message: msg, Code: code, Warning: warning})
}

func (v *validator) walk(node ast.Node, path string) {
	switch n := deref(node).(type) {
	case nil:
		v.add(path, ErrUnsupportedNode, "missing node", false)
	case ast.Program:
		v.walkAll(n.Statements, join(path, "statements"))
	case ast.ExpressionStatement:
		v.walk(n.Expression, join(path, "expression"))
	case ast.MethodDefinition:
		if len(n.Args) > 0 {
			v.add(join(path, "args"), ErrMethodArgs,
				fmt.Sprintf("method %q declares %d argument(s); lowering drops them", n.Name, len(n.Args)), true)
		}
		v.walkAll(n.Body, join(path, "body"))
	case ast.InfixOperation:
		if !n.Operator.Valid() {
			v.add(join(path, "operator"), ErrUnsupportedOperator,
				fmt.Sprintf("unsupported operator %q", string(n.Operator)), false)
		}
		v.walk(n.Left, join(path, "left"))
		v.walk(n.Right, join(path, "right"))
	case ast.IntegerLiteral, ast.FloatLiteral:
	case ast.Identifier:
		v.add(path, ErrUnsupportedNode, fmt.Sprintf("identifier %q cannot be lowered", n.Name), false)
	default:
		v.add(path, ErrUnsupportedNode, fmt.Sprintf("unsupported node type: %T", node), false)
	}
}

func (v *validator) walkAll(nodes []ast.Node, path string) {
	for i, n := range nodes {
		v.walk(n, fmt.Sprintf("%s[%d]", path, i))
	}
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// deref turns pointer variants into values; a nil pointer becomes nil.
func deref(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.Program:
		return derefPtr(n)
	case *ast.ExpressionStatement:
		return derefPtr(n)
	case *ast.MethodDefinition:
		return derefPtr(n)
	case *ast.InfixOperation:
		return derefPtr(n)
	case *ast.IntegerLiteral:
		return derefPtr(n)
	case *ast.FloatLiteral:
		return derefPtr(n)
	case *ast.Identifier:
		return derefPtr(n)
	}
	return node
}

func derefPtr[T ast.Node](n *T) ast.Node {
	if n == nil {
		return nil
	}
	return *n
}
