package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stackjs/internal/adapter"
	"github.com/roach88/stackjs/internal/ast"
	"github.com/roach88/stackjs/internal/astload"
	"github.com/roach88/stackjs/internal/codegen"
	"github.com/roach88/stackjs/internal/compiler"
	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/lexer"
	"github.com/roach88/stackjs/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCompileSource(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		output     string
		statements int
	}{
		{"empty", "", "", 0},
		{"integer", "5", "5", 1},
		{"precedence", "1 + 2 * 3", "(1 + (2 * 3))", 1},
		{"parens", "(1 + 2) * 3", "((1 + 2) * 3)", 1},
		{"statements", "5; 10 + 2", "5;\n(10 + 2)", 2},
		{"newlines", "1\n2.5\n", "1;\n2.5", 2},
		{"negative", "3 - -1", "(3 - -1)", 1},
		{"method body", "def foo\n  1 + 2\nend", "(1 + 2)", 1},
		{"comment", "# nothing\n7", "7", 1},
	}

	var d Driver
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.CompileSource("input.rb", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.output, res.Output)
			assert.Equal(t, tt.statements, res.Statements)
			assert.Equal(t, "input.rb", res.Name)
			assert.Equal(t, ir.SourceHash(tt.src), res.SourceHash)
			assert.Equal(t, ir.MustFingerprint(res.IR), res.Fingerprint)
			assert.NotNil(t, res.AST)
		})
	}
}

func TestCompileSource_AST(t *testing.T) {
	res, err := New(nil).CompileSource("expr", "1 + 2 * 3")
	require.NoError(t, err)

	want := ast.Infix(ast.Int(1), ast.OpAdd, ast.Infix(ast.Int(2), ast.OpMultiply, ast.Int(3)))
	assert.True(t, ast.Equal(want, res.AST), "got %#v", res.AST)
	assert.Equal(t, "PUSH_LITERAL 1\nPUSH_LITERAL 2\nPUSH_LITERAL 3\nMULTIPLY\nADD\n", ir.Format(res.IR))
}

func TestCompileSource_Errors(t *testing.T) {
	var d Driver

	t.Run("lexer", func(t *testing.T) {
		_, err := d.CompileSource("in", "1 $ 2")
		var lexErr *lexer.Error
		require.True(t, errors.As(err, &lexErr), "got %v", err)
		assert.Equal(t, 1, lexErr.Location.Line)
		assert.Equal(t, 3, lexErr.Location.Column)
	})

	t.Run("parser", func(t *testing.T) {
		_, err := d.CompileSource("in", "1 +")
		var parseErr *parser.Error
		require.True(t, errors.As(err, &parseErr), "got %v", err)
		assert.Contains(t, parseErr.Error(), "unexpected end of input")
	})

	t.Run("adapter", func(t *testing.T) {
		_, err := d.CompileSource("in", "x = 1")
		require.Error(t, err)
		assert.True(t, adapter.IsUnsupportedSyntax(err), "got %v", err)
	})

	t.Run("compiler", func(t *testing.T) {
		_, err := d.CompileSource("in", "foo")
		require.Error(t, err)
		assert.True(t, compiler.IsUnsupportedNode(err), "got %v", err)
		assert.EqualError(t, err, "unsupported node: identifier")
	})
}

func TestCompileAST(t *testing.T) {
	var d Driver

	res, err := d.CompileAST(ast.NewProgram(
		ast.Stmt(ast.Infix(ast.Float(0.5), ast.OpDivide, ast.Int(4))),
		ast.Stmt(ast.Int(9)),
	))
	require.NoError(t, err)
	assert.Equal(t, "(0.5 / 4);\n9", res.Output)
	assert.Equal(t, 2, res.Statements)
	assert.Empty(t, res.SourceHash)

	_, err = d.CompileAST(ast.Infix(ast.Int(1), ast.Operator("%"), ast.Int(2)))
	assert.True(t, compiler.IsUnsupportedOperator(err), "got %v", err)
}

func TestGenerateIR(t *testing.T) {
	var d Driver

	res, err := d.GenerateIR(ir.NewProgram(ir.PushInt(6), ir.PushInt(7), ir.Multiply{}))
	require.NoError(t, err)
	assert.Equal(t, "(6 * 7)", res.Output)
	assert.Nil(t, res.AST)

	_, err = d.GenerateIR(ir.NewProgram(ir.PushInt(6), ir.Add{}))
	assert.True(t, codegen.IsStackUnderflow(err), "got %v", err)
}

func TestCompileFile(t *testing.T) {
	var d Driver

	t.Run("source", func(t *testing.T) {
		path := writeFile(t, "calc.rb", "2 * (3 + 4)\n")
		res, err := d.CompileFile(path)
		require.NoError(t, err)
		assert.Equal(t, "(2 * (3 + 4))", res.Output)
		assert.Equal(t, path, res.Name)
		assert.Equal(t, ir.SourceHash("2 * (3 + 4)\n"), res.SourceHash)
	})

	t.Run("ir text", func(t *testing.T) {
		path := writeFile(t, "calc.ir", "# six minus one\nPUSH_LITERAL 6\nPUSH_LITERAL 1\nSUBTRACT\n")
		res, err := d.CompileFile(path)
		require.NoError(t, err)
		assert.Equal(t, "(6 - 1)", res.Output)
		assert.Nil(t, res.AST)
		assert.Equal(t, path, res.Name)
	})

	t.Run("ir text error names the file", func(t *testing.T) {
		path := writeFile(t, "bad.ir", "PUSH_LITERAL 1\nPOP\n")
		_, err := d.CompileFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path+": line 2:")

		var parseErr *ir.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("json document", func(t *testing.T) {
		path := writeFile(t, "calc.json", `{
  "type": "infix_operation",
  "left": {"type": "integer_literal", "value": 1},
  "operator": "-",
  "right": {"type": "float_literal", "value": 0.25}
}`)
		res, err := d.CompileFile(path)
		require.NoError(t, err)
		assert.Equal(t, "(1 - 0.25)", res.Output)
		assert.NotNil(t, res.AST)
	})

	t.Run("yaml document error", func(t *testing.T) {
		path := writeFile(t, "calc.yaml", "type: nope\n")
		_, err := d.CompileFile(path)
		require.Error(t, err)
		assert.True(t, astload.IsDocumentError(err), "got %v", err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := d.CompileFile(filepath.Join(t.TempDir(), "absent.rb"))
		assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	})
}

func TestDriver_LogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(logger).CompileSource("expr", "1 + 2")
	require.NoError(t, err)

	out := buf.String()
	for _, msg := range []string{"msg=parsed", "msg=adapted", "msg=lowered", "msg=generated"} {
		assert.Contains(t, out, msg)
	}
	assert.Contains(t, out, "input=expr")
	assert.Contains(t, out, "instructions=3")
}

func TestResult_Compilation(t *testing.T) {
	res, err := New(nil).CompileSource("sum.rb", "1 + 2; 3")
	require.NoError(t, err)

	c := res.Compilation()
	assert.Empty(t, c.ID)
	assert.Equal(t, "sum.rb", c.SourceName)
	assert.Equal(t, ir.SourceHash("1 + 2; 3"), c.SourceHash)
	assert.Equal(t, res.Fingerprint, c.Fingerprint)
	assert.Equal(t, "(1 + 2);\n3", c.Output)
	assert.Equal(t, 2, c.Statements)
}

func TestParseSource(t *testing.T) {
	node, err := New(nil).ParseSource("in", "foo; 1")
	require.NoError(t, err)

	want := ast.NewProgram(ast.Stmt(ast.Identifier{Name: "foo"}), ast.Stmt(ast.Int(1)))
	assert.True(t, ast.Equal(want, node), "got %#v", node)
}

func TestLoadAST(t *testing.T) {
	var d Driver

	node, err := d.LoadAST(writeFile(t, "one.rb", "6 / 3"))
	require.NoError(t, err)
	assert.True(t, ast.Equal(ast.Infix(ast.Int(6), ast.OpDivide, ast.Int(3)), node))

	node, err = d.LoadAST(writeFile(t, "one.yml", "type: integer_literal\nvalue: 4\n"))
	require.NoError(t, err)
	assert.True(t, ast.Equal(ast.Int(4), node))

	_, err = d.LoadAST(writeFile(t, "one.ir", "PUSH_LITERAL 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IR text has no AST")

	_, err = d.LoadAST(filepath.Join(t.TempDir(), "absent.rb"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}
