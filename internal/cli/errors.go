package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/stackjs/internal/compiler"
	"github.com/roach88/stackjs/internal/pipeline"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Compilation log unusable

	// Front end
	ErrCodeLex      = "E201" // Lexer error
	ErrCodeParse    = "E202" // Parser error
	ErrCodeAdapter  = "E203" // Syntax without an AST mapping
	ErrCodeDocument = "E204" // Malformed AST document
	ErrCodeIRText   = "E205" // Malformed IR text

	// Lowering
	ErrCodeUnsupportedNode     = compiler.ErrUnsupportedNode
	ErrCodeUnsupportedOperator = compiler.ErrUnsupportedOperator
	ErrCodeMethodArgs          = compiler.ErrMethodArgs

	// Code generation
	ErrCodeStackUnderflow = "E401"
)

var kindCodes = map[pipeline.ErrorKind]string{
	pipeline.KindLex:                 ErrCodeLex,
	pipeline.KindParse:               ErrCodeParse,
	pipeline.KindAdapter:             ErrCodeAdapter,
	pipeline.KindDocument:            ErrCodeDocument,
	pipeline.KindIRText:              ErrCodeIRText,
	pipeline.KindUnsupportedNode:     ErrCodeUnsupportedNode,
	pipeline.KindUnsupportedOperator: ErrCodeUnsupportedOperator,
	pipeline.KindStackUnderflow:      ErrCodeStackUnderflow,
}

// ErrorCode maps an error to its CLI error code.
func ErrorCode(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCodeNotFound
	}
	if code, ok := kindCodes[pipeline.Classify(err)]; ok {
		return code
	}
	return ErrCodeGeneric
}
