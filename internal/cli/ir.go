package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stackjs/internal/ir"
)

// IROptions holds flags for the ir command.
type IROptions struct {
	*RootOptions
	Expr string
}

// NewIRCommand creates the ir command.
func NewIRCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IROptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ir [file]",
		Short: "Print the stack IR of an input",
		Long: `Lower an input to IR and print it, one instruction per line.

With --format json the IR is printed as canonical JSON, the form its
fingerprint is computed from.

Examples:
  stackjs ir -e "1 + 2"
  stackjs ir calc.rb --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIR(opts, args, cmd)
		},
	}

	addExprFlag(cmd, &opts.Expr)

	return cmd
}

func runIR(opts *IROptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := resolveInput(args, opts.Expr, cmd.Flags().Changed("expr"))
	if err != nil {
		return inputError(formatter, err)
	}

	res, err := in.compile(opts.driver())
	if err != nil {
		return formatter.Fail(ExitFailure, err)
	}

	if formatter.JSON() {
		canonical, err := ir.MarshalCanonical(res.IR)
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		return formatter.Success(json.RawMessage(canonical))
	}

	fmt.Fprint(formatter.Writer, ir.Format(res.IR))
	return nil
}
