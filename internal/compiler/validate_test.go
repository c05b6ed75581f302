package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/stackjs/internal/ast"
)

func TestValidate_Clean(t *testing.T) {
	tree := ast.NewProgram(
		ast.Stmt(ast.Int(5)),
		ast.Stmt(ast.Infix(ast.Int(10), ast.OpAdd, ast.Float(2))),
	)
	assert.Empty(t, Validate(tree))
}

func TestValidate_CollectsAll(t *testing.T) {
	tree := ast.NewProgram(
		ast.Stmt(ast.Identifier{Name: "x"}),
		ast.Stmt(ast.Infix(ast.Int(1), ast.Operator("**"), nil)),
		ast.MethodDefinition{Name: "f", Args: []ast.Identifier{{Name: "a"}}, Body: []ast.Node{ast.Int(1)}},
	)

	errs := Validate(tree)
	assert.Equal(t, []ValidationError{
		{Field: "statements[0].expression", Message: `identifier "x" cannot be lowered`, Code: ErrUnsupportedNode},
		{Field: "statements[1].expression.operator", Message: `unsupported operator "**"`, Code: ErrUnsupportedOperator},
		{Field: "statements[1].expression.right", Message: "missing node", Code: ErrUnsupportedNode},
		{Field: "statements[2].args", Message: `method "f" declares 1 argument(s); lowering drops them`, Code: ErrMethodArgs, Warning: true},
	}, errs)
	assert.True(t, HasErrors(errs))
}

func TestValidate_WarningsOnly(t *testing.T) {
	errs := Validate(ast.MethodDefinition{Name: "f", Args: []ast.Identifier{{Name: "a"}}})
	assert.Len(t, errs, 1)
	assert.False(t, HasErrors(errs))

	// Warnings never block lowering.
	_, err := Compile(ast.MethodDefinition{Name: "f", Args: []ast.Identifier{{Name: "a"}}})
	assert.NoError(t, err)
}

func TestValidate_RootAndPointers(t *testing.T) {
	errs := Validate(&ast.Identifier{Name: "y"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "[E301] root: identifier \"y\" cannot be lowered", errs[0].Error())

	assert.Empty(t, Validate(&ast.Program{Statements: []ast.Node{&ast.IntegerLiteral{Value: 1}}}))
}

// Validate and Compile agree on which trees are lowerable.
func TestValidate_AgreesWithCompile(t *testing.T) {
	trees := []ast.Node{
		ast.Int(1),
		ast.Identifier{Name: "x"},
		ast.Stmt(nil),
		ast.Infix(ast.Int(1), ast.Operator("%"), ast.Int(2)),
		ast.NewProgram(ast.Stmt(ast.Infix(ast.Int(1), ast.OpDivide, ast.Float(0)))),
	}

	for _, tree := range trees {
		_, err := Compile(tree)
		assert.Equal(t, err != nil, HasErrors(Validate(tree)), "%#v", tree)
	}
}
