package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stackjs/internal/ast"
	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/pipeline"
)

// exprName labels source given with -e.
const exprName = "<expr>"

// input is what a command compiles: a file or an -e expression.
type input struct {
	Name string
	Path string // empty for -e
	Text string // expression or file contents
}

// addExprFlag registers -e/--expr on cmd.
func addExprFlag(cmd *cobra.Command, expr *string) {
	cmd.Flags().StringVarP(expr, "expr", "e", "", "compile source text instead of a file")
}

// resolveInput picks the single input from a positional file argument or
// the -e flag.
func resolveInput(args []string, expr string, exprSet bool) (*input, error) {
	switch {
	case exprSet && len(args) > 0:
		return nil, errors.New("give either a file or -e, not both")
	case exprSet:
		return &input{Name: exprName, Text: expr}, nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		return &input{Name: args[0], Path: args[0], Text: string(data)}, nil
	}
	return nil, errors.New("a file or -e is required")
}

// SourceHash is the compilation log key of the input.
func (in *input) SourceHash() string {
	return ir.SourceHash(in.Text)
}

func (in *input) compile(d *pipeline.Driver) (*pipeline.Result, error) {
	if in.Path == "" {
		return d.CompileSource(in.Name, in.Text)
	}
	return d.CompileFile(in.Path)
}

func (in *input) ast(d *pipeline.Driver) (ast.Node, error) {
	if in.Path == "" {
		return d.ParseSource(in.Name, in.Text)
	}
	return d.LoadAST(in.Path)
}

// inputError reports a failure to resolve the input. A missing file is
// reported as such; anything else is a usage error.
func inputError(f *OutputFormatter, err error) error {
	code := ErrorCode(err)
	if code == ErrCodeGeneric {
		err = fmt.Errorf("invalid arguments: %w", err)
	}
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}
