package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/stackjs/internal/ir"
)

// Plain decimal is used for float magnitudes in [minPlain, maxPlain).
const (
	minPlain = 1e-7
	maxPlain = 1e21
)

// FormatLiteral renders a literal as target-language source.
//
// Integers are written in base 10. Floats always read as floats: plain
// decimal with at least one fractional digit inside [1e-7, 1e21) and for
// zero, exponent form outside it. Every finite rendering parses back to the
// exact original value.
func FormatLiteral(lit ir.Literal) (string, error) {
	switch v := lit.(type) {
	case ir.Int:
		return strconv.FormatInt(int64(v), 10), nil
	case ir.Float:
		return formatFloat(float64(v)), nil
	case nil:
		return "", fmt.Errorf("missing literal")
	default:
		return "", fmt.Errorf("unsupported literal type: %T", lit)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < minPlain || abs >= maxPlain) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
