package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/stackjs/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Verify   bool
}

// HistoryEntry is one compilation in the history output.
type HistoryEntry struct {
	ID              string `json:"id"`
	Seq             int64  `json:"seq"`
	SourceName      string `json:"source_name"`
	SourceHash      string `json:"source_hash"`
	Fingerprint     string `json:"fingerprint"`
	Statements      int    `json:"statements"`
	CompilerVersion string `json:"compiler_version"`
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Compilations []HistoryEntry     `json:"compilations"`
	Divergences  []store.Divergence `json:"divergences,omitempty"`
	Verified     bool               `json:"verified"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged compilations",
		Long: `List the most recent compilations in a compilation log, oldest first.

With --verify the whole log is checked for determinism: every source
compiled by one compiler version must have produced a single IR
fingerprint and a single output.

Exit codes:
  0 - Success (and, with --verify, a consistent log)
  1 - The log holds divergent compilations
  2 - Command error (database not found, etc.)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "compilation log database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of compilations to list (0 for all)")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check the log for nondeterministic compilations")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	// Opening creates missing databases; history only reads existing ones.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, ErrCodeNotFound, err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	compilations, err := st.ListCompilations(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeStore, err)
	}

	result := HistoryResult{Compilations: make([]HistoryEntry, 0, len(compilations))}
	for _, c := range compilations {
		result.Compilations = append(result.Compilations, HistoryEntry{
			ID:              c.ID,
			Seq:             c.Seq,
			SourceName:      c.SourceName,
			SourceHash:      c.SourceHash,
			Fingerprint:     c.Fingerprint,
			Statements:      c.Statements,
			CompilerVersion: c.CompilerVersion,
		})
	}

	if opts.Verify {
		result.Divergences, err = st.VerifyDeterminism(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeStore, err)
		}
		result.Verified = len(result.Divergences) == 0
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputHistoryText(formatter, result, opts.Verify)
	}

	if opts.Verify && !result.Verified {
		return NewExitError(ExitFailure, fmt.Sprintf("%d divergent source(s)", len(result.Divergences)))
	}
	return nil
}

func outputHistoryText(formatter *OutputFormatter, result HistoryResult, verify bool) {
	w := formatter.Writer

	if len(result.Compilations) == 0 {
		fmt.Fprintln(w, "No compilations logged.")
	}
	for _, c := range result.Compilations {
		fmt.Fprintf(w, "%4d  %s  %s  %s  %d statement(s)\n",
			c.Seq, c.ID, short(c.Fingerprint), c.SourceName, c.Statements)
	}

	if !verify {
		return
	}
	fmt.Fprintln(w)
	if result.Verified {
		fmt.Fprintln(w, "✓ Log is deterministic")
		return
	}
	fmt.Fprintf(w, "✗ %d divergent source(s)\n", len(result.Divergences))
	for _, d := range result.Divergences {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// short abbreviates a hash for display.
func short(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
