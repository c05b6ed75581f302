// Package source describes positions in source text.
package source

import "fmt"

// Location is a position in source text.
// Line and Column are 1-based; Column counts runes. Offset is the 0-based
// byte offset.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Start is the location of the first byte of any text.
var Start = Location{Line: 1, Column: 1, Offset: 0}

// IsValid reports whether l was set.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// String formats l as line:column.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Advance returns the location just past r.
func (l Location) Advance(r rune, size int) Location {
	l.Offset += size
	if r == '\n' {
		l.Line++
		l.Column = 1
	} else {
		l.Column++
	}
	return l
}
