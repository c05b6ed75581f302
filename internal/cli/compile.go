package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stackjs/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Expr     string
	Output   string // output file path
	Database string // compilation log
	Cache    bool   // reuse a logged output for the same source
}

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	Name          string `json:"name"`
	Output        string `json:"output"`
	Statements    int    `json:"statements"`
	SourceHash    string `json:"source_hash"`
	Fingerprint   string `json:"fingerprint"`
	Cached        bool   `json:"cached"`
	CompilationID string `json:"compilation_id,omitempty"`
	OutputFile    string `json:"output_file,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile source, an AST document or IR text to JavaScript",
		Long: `Compile an input to JavaScript.

The input is a file or, with -e, source text. Files are read by extension:
.json, .yaml, .yml and .cue are AST documents, .ir is IR text, anything
else is source.

With --db every compilation is appended to a SQLite compilation log; with
--cache as well, an output already logged for the same source is reused.

Examples:
  stackjs compile -e "1 + 2 * 3"
  stackjs compile calc.rb -o calc.js
  stackjs compile calc.rb --db history.db --cache`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args, cmd)
		},
	}

	addExprFlag(cmd, &opts.Expr)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record compilations in this SQLite database")
	cmd.Flags().BoolVar(&opts.Cache, "cache", false, "reuse a logged output for the same source (requires --db)")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	log := opts.logger()

	if opts.Cache && opts.Database == "" {
		return inputError(formatter, errors.New("--cache requires --db"))
	}

	in, err := resolveInput(args, opts.Expr, cmd.Flags().Changed("expr"))
	if err != nil {
		return inputError(formatter, err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeStore, err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
	}

	result := CompileResult{Name: in.Name, SourceHash: in.SourceHash()}

	if opts.Cache {
		c, err := st.LatestBySourceHash(ctx, result.SourceHash)
		switch {
		case err == nil:
			result.Cached = true
			result.Output = c.Output
			result.Statements = c.Statements
			result.Fingerprint = c.Fingerprint
			result.CompilationID = c.ID
			formatter.VerboseLog("Cache hit: compilation %s (seq %d)", c.ID, c.Seq)
		case errors.Is(err, sql.ErrNoRows):
			formatter.VerboseLog("Cache miss for %s", result.SourceHash)
		default:
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeStore, err)
		}
	}

	if !result.Cached {
		res, err := in.compile(opts.driver())
		if err != nil {
			return formatter.Fail(ExitFailure, err)
		}
		result.Output = res.Output
		result.Statements = res.Statements
		result.Fingerprint = res.Fingerprint

		if st != nil {
			c, err := st.RecordCompilation(ctx, res.Compilation())
			if err != nil {
				_ = formatter.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, ErrCodeStore, err)
			}
			result.CompilationID = c.ID
			formatter.VerboseLog("Recorded compilation %s (seq %d)", c.ID, c.Seq)
		}
	}

	if opts.Output != "" {
		if err := writeOutput(opts.Output, result.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
		result.OutputFile = opts.Output
	}

	return outputCompileSuccess(formatter, result)
}

// writeOutput writes generated code with a trailing newline.
func writeOutput(path, output string) error {
	data := output
	if data != "" {
		data += "\n"
	}
	return os.WriteFile(path, []byte(data), 0644)
}

func outputCompileSuccess(formatter *OutputFormatter, result CompileResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	if result.OutputFile == "" {
		if result.Output != "" {
			fmt.Fprintln(formatter.Writer, result.Output)
		}
		return nil
	}

	source := "compiled"
	if result.Cached {
		source = "cached"
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %d statement(s) to %s (%s)\n",
		result.Statements, result.OutputFile, source)
	return nil
}
