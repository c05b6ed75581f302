package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stackjs/internal/compiler"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Expr string
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Problems []compiler.ValidationError `json:"problems"`
	Errors   int                        `json:"errors"`
	Warnings int                        `json:"warnings"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Report every construct the compiler cannot lower",
		Long: `Parse an input and walk its whole AST, reporting every node the
compiler would reject instead of stopping at the first one. Constructs that
compile but lose information (method arguments) are reported as warnings.

Exit codes:
  0 - No errors (warnings allowed)
  1 - One or more errors
  2 - Command error (invalid paths, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	addExprFlag(cmd, &opts.Expr)

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := resolveInput(args, opts.Expr, cmd.Flags().Changed("expr"))
	if err != nil {
		return inputError(formatter, err)
	}

	node, err := in.ast(opts.driver())
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	result := CheckResult{Problems: compiler.Validate(node)}
	if result.Problems == nil {
		result.Problems = []compiler.ValidationError{}
	}
	for _, p := range result.Problems {
		if p.Warning {
			result.Warnings++
		} else {
			result.Errors++
		}
	}

	if formatter.JSON() {
		if result.Errors > 0 {
			first := firstError(result.Problems)
			_ = formatter.Error(first.Code, first.Error(), result)
		} else if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputCheckText(formatter, in.Name, result)
	}

	if result.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d error(s)", in.Name, result.Errors))
	}
	return nil
}

func firstError(problems []compiler.ValidationError) compiler.ValidationError {
	for _, p := range problems {
		if !p.Warning {
			return p
		}
	}
	return compiler.ValidationError{}
}

func outputCheckText(formatter *OutputFormatter, name string, result CheckResult) {
	w := formatter.Writer
	for _, p := range result.Problems {
		level := "error"
		if p.Warning {
			level = "warning"
		}
		fmt.Fprintf(w, "%s: %s %s\n", name, level, p.Error())
	}

	if result.Errors == 0 {
		fmt.Fprintf(w, "✓ %s: no errors, %d warning(s)\n", name, result.Warnings)
		return
	}
	fmt.Fprintf(w, "✗ %s: %d error(s), %d warning(s)\n", name, result.Errors, result.Warnings)
}
