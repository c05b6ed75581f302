package ir

// Version constants for the IR format and the compiler.
const (
	// IRVersion is the IR schema version written into canonical JSON.
	IRVersion = "1"

	// CompilerVersion is recorded with every logged compilation.
	CompilerVersion = "0.1.0"
)
