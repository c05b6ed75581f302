// Package token defines the lexical tokens of the source dialect.
package token

import (
	"fmt"

	"github.com/roach88/stackjs/internal/source"
)

// Type identifies a token kind.
type Type int

const (
	EOF Type = iota

	STRING
	INTEGER
	FLOAT
	IDENTIFIER

	// Keywords
	DEF
	END
	IF

	// Punctuation
	LPAREN
	RPAREN
	EQ
	PLUS
	MINUS
	STAR
	SLASH
	SEMI
	COMMA

	typeCount
)

var typeNames = [typeCount]string{
	EOF:        "EOF",
	STRING:     "STRING",
	INTEGER:    "INTEGER",
	FLOAT:      "FLOAT",
	IDENTIFIER: "IDENTIFIER",
	DEF:        "DEF",
	END:        "END",
	IF:         "IF",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	EQ:         "EQ",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	SEMI:       "SEMI",
	COMMA:      "COMMA",
}

func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

var keywords = map[string]Type{
	"def": DEF,
	"end": END,
	"if":  IF,
}

// Lookup returns the keyword type for ident, or IDENTIFIER.
func Lookup(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENTIFIER
}

// Punctuation maps single-character punctuation to its type.
var Punctuation = map[rune]Type{
	'(': LPAREN,
	')': RPAREN,
	'=': EQ,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	';': SEMI,
	',': COMMA,
}

// Token is a lexeme with its location.
// Value is the exact source text; string tokens keep their quotes.
type Token struct {
	Type  Type
	Value string
	Loc   source.Location // first character
	End   source.Location // just past the last character
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}
