// Package parser builds a syntax tree from source text.
//
// Grammar (statements are separated by ';' or line breaks):
//
//	program    = statements EOF
//	statement  = def | assignment | expression
//	def        = "def" IDENT [ "(" [ IDENT { "," IDENT } ] ")" ] statements "end"
//	assignment = IDENT "=" expression
//	expression = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = ("-" | "+") unary | primary
//	primary    = INTEGER | FLOAT | STRING | IDENT [ "(" args ")" ] | "(" expression ")"
//
// A binary operator continues an expression only when it starts on the line
// where its left operand ends; otherwise it begins a new statement.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/stackjs/internal/lexer"
	"github.com/roach88/stackjs/internal/source"
	"github.com/roach88/stackjs/internal/syntax"
	"github.com/roach88/stackjs/internal/token"
)

// Error is a syntax error.
type Error struct {
	Message  string
	Location source.Location
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Location)
}

// Parse parses src. It returns nil for a program with no statements, the
// statement itself for a single statement and a begin node otherwise.
// Lexer errors are returned unchanged.
func Parse(src string) (*syntax.Node, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	p.pushScope()

	stmts, err := p.statements(token.EOF)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF, "end of input"); err != nil {
		return nil, err
	}
	return body(stmts), nil
}

// body collapses a statement list the way a parser reports bodies.
func body(stmts []*syntax.Node) *syntax.Node {
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	}
	children := make([]any, len(stmts))
	for i, s := range stmts {
		children[i] = s
	}
	return syntax.New(syntax.Begin, stmts[0].Loc, children...)
}

type parser struct {
	tokens []token.Token
	pos    int
	scopes []map[string]bool // local variables per def
}

func (p *parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekType(n int) token.Type {
	if p.pos+n >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[p.pos+n].Type
}

func (p *parser) next() token.Token {
	t := p.current()
	if t.Type != token.EOF {
		p.pos++
	}
	return t
}

// previous returns the last consumed token.
func (p *parser) previous() token.Token {
	if p.pos == 0 {
		return token.Token{}
	}
	return p.tokens[p.pos-1]
}

func (p *parser) expect(typ token.Type, what string) (token.Token, error) {
	t := p.current()
	if t.Type != typ {
		return token.Token{}, p.errorf(t, "expected %s, got %s", what, t)
	}
	return p.next(), nil
}

func (p *parser) errorf(at token.Token, format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Location: at.Loc}
}

func (p *parser) pushScope() {
	p.scopes = append(p.scopes, map[string]bool{})
}

func (p *parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *parser) declare(name string) {
	p.scopes[len(p.scopes)-1][name] = true
}

func (p *parser) isLocal(name string) bool {
	return p.scopes[len(p.scopes)-1][name]
}

// onNewLine reports whether the current token starts on a later line than
// the previous token ended.
func (p *parser) onNewLine() bool {
	prev := p.previous()
	return prev.End.IsValid() && p.current().Loc.Line > prev.End.Line
}

// statements parses statements until the closing token type.
func (p *parser) statements(closing token.Type) ([]*syntax.Node, error) {
	stmts := []*syntax.Node{}
	for {
		for p.current().Type == token.SEMI {
			p.next()
		}
		if t := p.current().Type; t == closing || t == token.EOF {
			return stmts, nil
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		switch t := p.current(); {
		case t.Type == token.SEMI, t.Type == closing, t.Type == token.EOF:
		case p.onNewLine():
		default:
			return nil, p.errorf(t, "unexpected %s, expected end of statement", t)
		}
	}
}

func (p *parser) statement() (*syntax.Node, error) {
	t := p.current()
	switch {
	case t.Type == token.DEF:
		return p.def()
	case t.Type == token.IF:
		return nil, p.errorf(t, "if expressions are not supported")
	case t.Type == token.IDENTIFIER && p.peekType(1) == token.EQ:
		return p.assignment()
	}
	return p.expression()
}

func (p *parser) def() (*syntax.Node, error) {
	start := p.next() // def
	name, err := p.expect(token.IDENTIFIER, "method name")
	if err != nil {
		return nil, err
	}

	p.pushScope()
	defer p.popScope()

	args := syntax.New(syntax.Args, name.End)
	if p.current().Type == token.LPAREN && !p.onNewLine() {
		if args, err = p.params(); err != nil {
			return nil, err
		}
	}

	stmts, err := p.statements(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.END, "'end'"); err != nil {
		return nil, err
	}

	var bodyNode any
	if b := body(stmts); b != nil {
		bodyNode = b
	}
	return syntax.New(syntax.Def, start.Loc, name.Value, args, bodyNode), nil
}

func (p *parser) params() (*syntax.Node, error) {
	open := p.next() // (
	args := syntax.New(syntax.Args, open.Loc)
	if p.current().Type == token.RPAREN {
		p.next()
		return args, nil
	}
	for {
		name, err := p.expect(token.IDENTIFIER, "parameter name")
		if err != nil {
			return nil, err
		}
		if p.isLocal(name.Value) {
			return nil, p.errorf(name, "duplicate parameter %q", name.Value)
		}
		p.declare(name.Value)
		args.Children = append(args.Children, syntax.New(syntax.Arg, name.Loc, name.Value))

		if p.current().Type == token.COMMA {
			p.next()
			continue
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) assignment() (*syntax.Node, error) {
	name := p.next()
	p.next() // =
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.declare(name.Value)
	return syntax.New(syntax.Lvasgn, name.Loc, name.Value, value), nil
}

func (p *parser) expression() (*syntax.Node, error) {
	return p.binary(p.term, token.PLUS, token.MINUS)
}

func (p *parser) term() (*syntax.Node, error) {
	return p.binary(p.unary, token.STAR, token.SLASH)
}

// binary parses a left-associative chain of operators of one precedence.
func (p *parser) binary(operand func() (*syntax.Node, error), ops ...token.Type) (*syntax.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.matches(ops...) && !p.onNewLine() {
		op := p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = syntax.New(syntax.Send, left.Loc, left, op.Value, right)
	}
	return left, nil
}

func (p *parser) matches(types ...token.Type) bool {
	cur := p.current().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

// unary folds a sign into a directly following numeric literal. Any other
// operand becomes a -@ / +@ method call.
func (p *parser) unary() (*syntax.Node, error) {
	if !p.matches(token.MINUS, token.PLUS) {
		return p.primary()
	}
	sign := p.next()

	if lit := p.current(); lit.Type == token.INTEGER || lit.Type == token.FLOAT {
		p.next()
		return p.number(lit, sign.Value, sign.Loc)
	}

	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	if sign.Value == "+" && isNumeric(operand) {
		return operand, nil
	}
	if sign.Value == "-" {
		if negated, ok, err := negate(operand); ok || err != nil {
			if err != nil {
				return nil, p.errorf(sign, "%s", err)
			}
			negated.Loc = sign.Loc
			return negated, nil
		}
	}
	return syntax.New(syntax.Send, sign.Loc, operand, sign.Value+"@"), nil
}

func isNumeric(n *syntax.Node) bool {
	return n.Type == syntax.Int || n.Type == syntax.Float
}

func negate(n *syntax.Node) (*syntax.Node, bool, error) {
	switch n.Type {
	case syntax.Int:
		v := n.Children[0].(int64)
		if v == -v && v != 0 {
			return nil, false, fmt.Errorf("integer literal out of range")
		}
		return syntax.New(syntax.Int, n.Loc, -v), true, nil
	case syntax.Float:
		return syntax.New(syntax.Float, n.Loc, -n.Children[0].(float64)), true, nil
	}
	return nil, false, nil
}

func (p *parser) primary() (*syntax.Node, error) {
	t := p.current()
	switch t.Type {
	case token.INTEGER, token.FLOAT:
		p.next()
		return p.number(t, "", t.Loc)
	case token.STRING:
		p.next()
		return syntax.New(syntax.Str, t.Loc, t.Value[1:len(t.Value)-1]), nil
	case token.IDENTIFIER:
		p.next()
		return p.identifier(t)
	case token.LPAREN:
		p.next()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.EOF:
		return nil, p.errorf(t, "unexpected end of input")
	}
	return nil, p.errorf(t, "unexpected %s", t)
}

// identifier resolves a bare name: a known local is an lvar, anything else
// a method call on self, with an optional parenthesized argument list.
func (p *parser) identifier(name token.Token) (*syntax.Node, error) {
	hasParens := p.current().Type == token.LPAREN && p.current().Loc.Offset == name.End.Offset
	if p.isLocal(name.Value) && !hasParens {
		return syntax.New(syntax.Lvar, name.Loc, name.Value), nil
	}

	call := syntax.New(syntax.Send, name.Loc, nil, name.Value)
	if !hasParens {
		return call, nil
	}

	p.next() // (
	if p.current().Type == token.RPAREN {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		call.Children = append(call.Children, arg)
		if p.current().Type == token.COMMA {
			p.next()
			continue
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return call, nil
	}
}

func (p *parser) number(t token.Token, sign string, loc source.Location) (*syntax.Node, error) {
	text := sign + strings.ReplaceAll(t.Value, "_", "")
	if t.Type == token.INTEGER {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, p.errorf(t, "integer literal %s out of range", text)
		}
		return syntax.New(syntax.Int, loc, v), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(t, "float literal %s out of range", text)
	}
	return syntax.New(syntax.Float, loc, v), nil
}
