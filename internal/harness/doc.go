// Package harness runs YAML conformance scenarios against the compiler.
//
// A scenario names one input and what compiling it must produce:
//
//	name: nested_arithmetic
//	description: Multiplication binds tighter than addition
//	source: "1 + 2 * 3"
//	expect:
//	  output: "(1 + (2 * 3))"
//	  statements: 1
//
// The input is exactly one of:
//   - source: source text
//   - ast: path to an AST document (.json, .yaml, .yml, .cue), relative to
//     the scenario file
//   - program: IR text
//
// Expectations are any of output, ir (one instruction per item),
// statements, or for failing inputs error (message substring) and
// error_kind (the rejecting stage, see pipeline.ErrorKind).
//
// Every scenario is compiled twice into a fresh in-memory compilation log.
// Two compilations of one input that disagree fail the scenario, whatever
// the expectations say.
//
// Golden files (testdata/golden/<name>.golden) snapshot the output and IR.
// To regenerate them, run:
//
//	go test ./internal/harness -update
package harness
