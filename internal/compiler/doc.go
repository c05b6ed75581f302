// Package compiler lowers an AST into a linear IR program.
//
// Lowering is a recursive, depth-first walk. Operands are emitted before
// their operator (post-order), so evaluating the IR on a stack machine
// reproduces the tree's evaluation order:
//
//	1 + 2 * 3  =>  PUSH_LITERAL 1, PUSH_LITERAL 2, PUSH_LITERAL 3, MULTIPLY, ADD
//
// Each top-level statement leaves exactly one value on the stack.
//
// Method definitions are inlined: their body is lowered in place and the
// name and arguments are dropped. There is no call instruction yet.
package compiler
