// Package adapter maps the parser's generic syntax tree onto the AST.
//
// The mapping is narrow: numeric literals, the four arithmetic
// operators, bare names, method definitions and statement sequences. Any
// other syntax is rejected with an UnsupportedSyntaxError.
package adapter

import (
	"errors"
	"fmt"

	"github.com/roach88/stackjs/internal/ast"
	"github.com/roach88/stackjs/internal/source"
	"github.com/roach88/stackjs/internal/syntax"
)

// UnsupportedSyntaxError reports a syntax node with no AST mapping.
type UnsupportedSyntaxError struct {
	Type     string // syntax node type
	Detail   string // e.g. the method name of a send
	Location source.Location
}

func (e *UnsupportedSyntaxError) Error() string {
	what := e.Type
	if e.Detail != "" {
		what += " " + e.Detail
	}
	if !e.Location.IsValid() {
		return fmt.Sprintf("unsupported syntax: %s", what)
	}
	return fmt.Sprintf("unsupported syntax: %s at %s", what, e.Location)
}

// IsUnsupportedSyntax returns true if err is or wraps an UnsupportedSyntaxError.
func IsUnsupportedSyntax(err error) bool {
	var e *UnsupportedSyntaxError
	return errors.As(err, &e)
}

// Transform converts a syntax tree to an AST. A nil tree (empty source)
// becomes an empty Program; a begin node becomes a Program whose
// statements wrap each child in an ExpressionStatement. Any other root is
// returned as the corresponding expression node.
func Transform(n *syntax.Node) (ast.Node, error) {
	if n == nil {
		return ast.Program{Statements: []ast.Node{}}, nil
	}
	return transform(n)
}

func transform(n *syntax.Node) (ast.Node, error) {
	if n == nil {
		return nil, &UnsupportedSyntaxError{Type: "nil"}
	}

	switch n.Type {
	case syntax.Int:
		v, ok := n.Child(0).(int64)
		if !ok {
			return nil, malformed(n, "integer value")
		}
		return ast.IntegerLiteral{Value: v}, nil

	case syntax.Float:
		v, ok := n.Child(0).(float64)
		if !ok {
			return nil, malformed(n, "float value")
		}
		return ast.FloatLiteral{Value: v}, nil

	case syntax.Lvar:
		name, ok := n.StringAt(0)
		if !ok {
			return nil, malformed(n, "variable name")
		}
		return ast.Identifier{Name: name}, nil

	case syntax.Send:
		return transformSend(n)

	case syntax.Def:
		return transformDef(n)

	case syntax.Begin:
		stmts := make([]ast.Node, 0, len(n.Children))
		for i := range n.Children {
			child, ok := n.NodeAt(i)
			if !ok {
				return nil, malformed(n, "statement")
			}
			expr, err := transform(child)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, ast.ExpressionStatement{Expression: expr})
		}
		return ast.Program{Statements: stmts}, nil
	}

	return nil, &UnsupportedSyntaxError{Type: n.Type, Location: n.Loc}
}

// transformSend maps `left op right` to an InfixOperation and a bare
// receiverless call to an Identifier.
func transformSend(n *syntax.Node) (ast.Node, error) {
	method, ok := n.StringAt(1)
	if !ok {
		return nil, malformed(n, "method name")
	}
	receiver, hasReceiver := n.NodeAt(0)
	args := n.Children[2:]

	if !hasReceiver && len(args) == 0 {
		return ast.Identifier{Name: method}, nil
	}

	op := ast.Operator(method)
	if !hasReceiver || len(args) != 1 || !op.Valid() {
		return nil, &UnsupportedSyntaxError{Type: n.Type, Detail: ":" + method, Location: n.Loc}
	}

	arg, ok := n.NodeAt(2)
	if !ok {
		return nil, malformed(n, "argument")
	}
	left, err := transform(receiver)
	if err != nil {
		return nil, err
	}
	right, err := transform(arg)
	if err != nil {
		return nil, err
	}
	return ast.InfixOperation{Left: left, Operator: op, Right: right}, nil
}

// transformDef maps a method definition. Parameters are not carried over
// yet; Args is always empty.
func transformDef(n *syntax.Node) (ast.Node, error) {
	name, ok := n.StringAt(0)
	if !ok {
		return nil, malformed(n, "method name")
	}

	body := []ast.Node{}
	if b, ok := n.NodeAt(2); ok {
		children := []*syntax.Node{b}
		if b.Type == syntax.Begin {
			children = children[:0]
			for i := range b.Children {
				c, ok := b.NodeAt(i)
				if !ok {
					return nil, malformed(b, "statement")
				}
				children = append(children, c)
			}
		}
		for _, c := range children {
			node, err := transform(c)
			if err != nil {
				return nil, err
			}
			body = append(body, node)
		}
	}

	return ast.MethodDefinition{Name: name, Args: []ast.Identifier{}, Body: body}, nil
}

func malformed(n *syntax.Node, missing string) error {
	return &UnsupportedSyntaxError{Type: n.Type, Detail: "(missing " + missing + ")", Location: n.Loc}
}
