// Package ast defines the abstract syntax tree consumed by the stackjs compiler.
//
// The tree is produced by an adapter (internal/adapter) or loaded from an AST
// document (internal/astload). This package imports nothing internal; every
// other compiler stage builds on it.
//
// SEALED INTERFACE:
//
// Node is sealed with an unexported marker method, so only the variants in
// this package can appear in a tree:
//
//	IntegerLiteral       integer constant
//	FloatLiteral         floating point constant
//	Identifier           named reference (reserved, never lowered)
//	InfixOperation       left <op> right, op in + - * /
//	ExpressionStatement  expression used as a statement
//	MethodDefinition     def name(args) body end
//	Program              root, ordered top-level statements
//
// Consumers dispatch with a type switch:
//
//	switch n := node.(type) {
//	case ast.IntegerLiteral:
//	    // ...
//	case ast.InfixOperation:
//	    // ...
//	}
//
// Go has no closed sum types, so Kinds() lists every variant. Tests in the
// compiler and in this package iterate it; adding a variant without a
// handler fails them.
//
// Nodes are plain values. They are never mutated after construction and a
// parent exclusively owns its children, so trees are acyclic. Use Equal for
// structural comparison; == does not work on variants holding slices.
package ast
