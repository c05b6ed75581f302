// Package codegen turns an IR program into JavaScript source text.
//
// The generator runs the program on a virtual stack of text fragments.
// PushLiteral pushes the rendered literal; a binary instruction pops the
// right operand, then the left, and pushes the parenthesized expression.
// Whatever remains on the stack is the list of statements, bottom first,
// joined with StatementTerminator.
//
//	PUSH_LITERAL 5
//	PUSH_LITERAL 10
//	PUSH_LITERAL 2
//	ADD
//
// generates
//
//	5;
//	(10 + 2)
package codegen
