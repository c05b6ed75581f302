// Package syntax holds the generic syntax tree produced by the parser.
//
// Nodes are untyped: a Type tag plus positional children, the
// shape used by common Ruby parser libraries. The adapter package maps this
// tree onto the typed AST.
//
// Node types and their children:
//
//	int     [int64]
//	float   [float64]
//	str     [string]
//	lvar    [name string]
//	lvasgn  [name string, value *Node]
//	send    [receiver *Node (may be nil), method string, args ...*Node]
//	def     [name string, args *Node, body *Node (may be nil)]
//	args    [...*Node]  each an arg
//	arg     [name string]
//	begin   [...*Node]
package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/stackjs/internal/source"
)

// Node types.
const (
	Int    = "int"
	Float  = "float"
	Str    = "str"
	Lvar   = "lvar"
	Lvasgn = "lvasgn"
	Send   = "send"
	Def    = "def"
	Args   = "args"
	Arg    = "arg"
	Begin  = "begin"
)

// Node is a syntax tree node.
type Node struct {
	Type     string
	Children []any
	Loc      source.Location
}

// New creates a node.
func New(typ string, loc source.Location, children ...any) *Node {
	if children == nil {
		children = []any{}
	}
	return &Node{Type: typ, Children: children, Loc: loc}
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) any {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// NodeAt returns the i-th child if it is a node.
func (n *Node) NodeAt(i int) (*Node, bool) {
	c, ok := n.Child(i).(*Node)
	return c, ok && c != nil
}

// StringAt returns the i-th child if it is a string.
func (n *Node) StringAt(i int) (string, bool) {
	s, ok := n.Child(i).(string)
	return s, ok
}

// String renders the tree as an s-expression, e.g.
//
//	(send (int 1) :+ (int 2))
func (n *Node) String() string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, v any) {
	switch c := v.(type) {
	case *Node:
		if c == nil {
			b.WriteString("nil")
			return
		}
		b.WriteByte('(')
		b.WriteString(c.Type)
		for i, child := range c.Children {
			b.WriteByte(' ')
			// Method names and local names print as symbols.
			if s, ok := child.(string); ok && isSymbolSlot(c.Type, i) {
				b.WriteString(":" + s)
				continue
			}
			write(b, child)
		}
		b.WriteByte(')')
	case nil:
		b.WriteString("nil")
	case string:
		b.WriteString(strconv.Quote(c))
	case int64:
		b.WriteString(strconv.FormatInt(c, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
	default:
		fmt.Fprintf(b, "%v", c)
	}
}

func isSymbolSlot(typ string, i int) bool {
	switch typ {
	case Send:
		return i == 1
	case Lvar, Lvasgn, Def, Arg:
		return i == 0
	}
	return false
}
