package ast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs node", nil, Int(1), false},
		{"same int", Int(1), Int(1), true},
		{"different int", Int(1), Int(2), false},
		{"int vs float", Int(1), Float(1), false},
		{"same float", Float(2.5), Float(2.5), true},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"identifier", Identifier{Name: "a"}, Identifier{Name: "a"}, true},
		{"identifier name", Identifier{Name: "a"}, Identifier{Name: "b"}, false},
		{
			"nested infix",
			Infix(Int(1), OpAdd, Infix(Int(2), OpMultiply, Int(3))),
			Infix(Int(1), OpAdd, Infix(Int(2), OpMultiply, Int(3))),
			true,
		},
		{
			"operator differs",
			Infix(Int(1), OpAdd, Int(2)),
			Infix(Int(1), OpSubtract, Int(2)),
			false,
		},
		{
			"statement",
			Stmt(Int(5)),
			Stmt(Int(5)),
			true,
		},
		{
			"program length",
			NewProgram(Stmt(Int(5))),
			NewProgram(Stmt(Int(5)), Stmt(Int(6))),
			false,
		},
		{
			"empty program nil vs empty slice",
			Program{},
			Program{Statements: []Node{}},
			true,
		},
		{
			"method body",
			MethodDefinition{Name: "foo", Body: []Node{Int(42)}},
			MethodDefinition{Name: "foo", Body: []Node{Int(42)}},
			true,
		},
		{
			"method name",
			MethodDefinition{Name: "foo"},
			MethodDefinition{Name: "bar"},
			false,
		},
		{
			"method args",
			MethodDefinition{Name: "foo", Args: []Identifier{{Name: "a"}}},
			MethodDefinition{Name: "foo"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}
