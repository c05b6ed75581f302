package pipeline

import (
	"errors"

	"github.com/roach88/stackjs/internal/adapter"
	"github.com/roach88/stackjs/internal/astload"
	"github.com/roach88/stackjs/internal/codegen"
	"github.com/roach88/stackjs/internal/compiler"
	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/lexer"
	"github.com/roach88/stackjs/internal/parser"
)

// ErrorKind names the stage that rejected an input.
type ErrorKind string

const (
	KindLex                 ErrorKind = "lex"
	KindParse               ErrorKind = "parse"
	KindAdapter             ErrorKind = "adapter"
	KindDocument            ErrorKind = "document"
	KindIRText              ErrorKind = "ir_text"
	KindUnsupportedNode     ErrorKind = "unsupported_node"
	KindUnsupportedOperator ErrorKind = "unsupported_operator"
	KindStackUnderflow      ErrorKind = "stack_underflow"
	KindOther               ErrorKind = "other"
)

// ErrorKinds returns every kind Classify can report.
func ErrorKinds() []ErrorKind {
	return []ErrorKind{
		KindLex, KindParse, KindAdapter, KindDocument, KindIRText,
		KindUnsupportedNode, KindUnsupportedOperator, KindStackUnderflow, KindOther,
	}
}

// Classify reports which stage produced err. A nil error has no kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var (
		lexErr   *lexer.Error
		parseErr *parser.Error
		irErr    *ir.ParseError
	)
	switch {
	case errors.As(err, &lexErr):
		return KindLex
	case errors.As(err, &parseErr):
		return KindParse
	case adapter.IsUnsupportedSyntax(err):
		return KindAdapter
	case astload.IsDocumentError(err):
		return KindDocument
	case errors.As(err, &irErr):
		return KindIRText
	case compiler.IsUnsupportedNode(err):
		return KindUnsupportedNode
	case compiler.IsUnsupportedOperator(err):
		return KindUnsupportedOperator
	case codegen.IsStackUnderflow(err):
		return KindStackUnderflow
	}
	return KindOther
}
