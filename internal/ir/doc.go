// Package ir defines the linear intermediate representation produced by the
// compiler and consumed by the code generator.
//
// A Program is a flat, ordered list of stack-machine instructions. There is
// no nesting and no control flow: instructions run strictly left to right.
//
// This package imports nothing internal. Both the compiler and the code
// generator depend on it, never the other way around.
//
// Key constraints:
//   - Instruction and Literal are sealed interfaces
//   - Literals keep the integer/float distinction of the source
//   - Canonical JSON (MarshalCanonical) is the only encoding used for
//     fingerprints; floats travel as strings there so hashing never depends
//     on float formatting in encoding/json
package ir
