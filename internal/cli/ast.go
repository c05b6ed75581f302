package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stackjs/internal/ast"
)

// ASTOptions holds flags for the ast command.
type ASTOptions struct {
	*RootOptions
	Expr string
}

// NewASTCommand creates the ast command.
func NewASTCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ASTOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the AST of an input as JSON",
		Long: `Parse an input and print its AST as a JSON document.

The document can be edited and compiled back with "stackjs compile".

Examples:
  stackjs ast -e "1 + 2" > sum.json
  stackjs compile sum.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(opts, args, cmd)
		},
	}

	addExprFlag(cmd, &opts.Expr)

	return cmd
}

func runAST(opts *ASTOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := resolveInput(args, opts.Expr, cmd.Flags().Changed("expr"))
	if err != nil {
		return inputError(formatter, err)
	}

	node, err := in.ast(opts.driver())
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	doc, err := ast.MarshalJSON(node)
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	if formatter.JSON() {
		return formatter.Success(json.RawMessage(doc))
	}
	fmt.Fprintln(formatter.Writer, string(doc))
	return nil
}
