// Package lexer splits source text into tokens.
//
// The dialect is a small Ruby-like language: integer and float literals,
// double-quoted strings, identifiers, the keywords def/end/if and single
// character punctuation. Whitespace and # comments are skipped. Integer
// digits may be grouped with underscores (1_000).
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stackjs/internal/source"
	"github.com/roach88/stackjs/internal/token"
)

// Error is a lexical error.
type Error struct {
	Message  string
	Location source.Location
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Location)
}

// Tokenize returns the tokens of src, ending with an EOF token.
// The source is NFC-normalized first, so offsets refer to the normalized
// text.
func Tokenize(src string) ([]token.Token, error) {
	l := &lexer{src: norm.NFC.String(src), loc: source.Start}

	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	src string
	loc source.Location // location of the next unread rune
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead, or 0 at end of input.
func (l *lexer) peekAt(n int) rune {
	pos := l.loc.Offset
	for {
		if pos >= len(l.src) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(l.src[pos:])
		if n == 0 {
			return r
		}
		pos += size
		n--
	}
}

func (l *lexer) advance() rune {
	if l.loc.Offset >= len(l.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.loc.Offset:])
	l.loc = l.loc.Advance(r, size)
	return r
}

func (l *lexer) eof() bool {
	return l.loc.Offset >= len(l.src)
}

func (l *lexer) emit(typ token.Type, start source.Location) token.Token {
	return token.Token{
		Type:  typ,
		Value: l.src[start.Offset:l.loc.Offset],
		Loc:   start,
		End:   l.loc,
	}
}

func (l *lexer) skipIgnorable() {
	for !l.eof() {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token.Token, error) {
	l.skipIgnorable()
	start := l.loc
	if l.eof() {
		return l.emit(token.EOF, start), nil
	}

	r := l.peek()
	switch {
	case r == '"':
		return l.string(start)
	case isDigit(r):
		return l.number(start)
	case isIdentStart(r):
		for isIdentPart(l.peek()) {
			l.advance()
		}
		tok := l.emit(token.IDENTIFIER, start)
		tok.Type = token.Lookup(tok.Value)
		return tok, nil
	}

	if typ, ok := token.Punctuation[r]; ok {
		l.advance()
		return l.emit(typ, start), nil
	}
	return token.Token{}, &Error{Message: fmt.Sprintf("unknown character %q", r), Location: start}
}

// string scans a double-quoted string. Strings may span lines and have no
// escapes.
func (l *lexer) string(start source.Location) (token.Token, error) {
	l.advance() // opening quote
	for {
		if l.eof() {
			return token.Token{}, &Error{Message: "unterminated string", Location: start}
		}
		if l.advance() == '"' {
			return l.emit(token.STRING, start), nil
		}
	}
}

// number scans an INTEGER (digits, optionally grouped by single
// underscores) or a FLOAT (digits '.' digits).
func (l *lexer) number(start source.Location) (token.Token, error) {
	if err := l.digits(); err != nil {
		return token.Token{}, err
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // '.'
		if err := l.digits(); err != nil {
			return token.Token{}, err
		}
		return l.emit(token.FLOAT, start), nil
	}
	return l.emit(token.INTEGER, start), nil
}

func (l *lexer) digits() error {
	for {
		for isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() != '_' {
			return nil
		}
		if !isDigit(l.peekAt(1)) {
			return &Error{Message: "digit separator must be followed by a digit", Location: l.loc}
		}
		l.advance() // '_'
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
