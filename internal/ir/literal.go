package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Literal is a constant carried by PushLiteral.
//
// This is a sealed interface - only Int and Float implement it.
type Literal interface {
	// String returns the IR text form. Float text always contains a '.',
	// an exponent or a non-finite name, so it never reads back as an Int.
	String() string

	irLiteral() // Marker method - seals interface to this package
}

// Int is an integer literal.
type Int int64

func (Int) irLiteral() {}

func (v Int) String() string {
	return strconv.FormatInt(int64(v), 10)
}

// Float is a floating point literal.
type Float float64

func (Float) irLiteral() {}

func (v Float) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// ParseLiteral reads the IR text form of a literal.
// Integer-looking text must fit in an int64; it never falls back to Float.
func ParseLiteral(s string) (Literal, error) {
	if s == "" {
		return nil, fmt.Errorf("empty literal")
	}
	if isIntegerText(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q out of range", s)
		}
		return Int(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid literal %q", s)
	}
	return Float(f), nil
}

func isIntegerText(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
