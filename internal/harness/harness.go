package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/pipeline"
	"github.com/roach88/stackjs/internal/store"
	"github.com/roach88/stackjs/internal/testutil"
)

// runs is how many times each scenario is compiled.
const runs = 2

// Result is the outcome of one scenario.
type Result struct {
	Name string `json:"name"`

	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	Output     string   `json:"output,omitempty"`
	IR         []string `json:"ir,omitempty"`
	Statements int      `json:"statements"`

	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

func newResult(name string) *Result {
	return &Result{Name: name, Pass: true, Errors: []string{}}
}

// AddError records a failed expectation.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Harness runs scenarios. Each Run gets a fresh in-memory compilation log.
type Harness struct {
	logger *slog.Logger
}

// New creates a Harness. A nil logger discards.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent Harness.
func Run(s *Scenario) (*Result, error) {
	return New(nil).Run(context.Background(), s)
}

// Run compiles s twice, checks the two runs agree, then evaluates s.Expect.
// The returned error is reserved for harness failures; a scenario that does
// not meet its expectations yields a Result with Pass false.
func (h *Harness) Run(ctx context.Context, s *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath,
		store.WithIDGenerator(testutil.NewSequentialIDGenerator(s.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	log := h.logger.With("scenario", s.Name)
	driver := pipeline.New(log)
	result := newResult(s.Name)

	var (
		first    *pipeline.Result
		firstErr error
	)
	for i := 0; i < runs; i++ {
		res, err := compile(driver, s)
		if i == 0 {
			first, firstErr = res, err
		} else if errText(err) != errText(firstErr) {
			result.AddError("nondeterministic error: run 1 %q, run %d %q", errText(firstErr), i+1, errText(err))
		}
		if err != nil {
			continue
		}
		if _, err := st.RecordCompilation(ctx, res.Compilation()); err != nil {
			return nil, fmt.Errorf("record compilation: %w", err)
		}
	}

	divergences, err := st.VerifyDeterminism(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range divergences {
		result.AddError("nondeterministic compilation: %s", d)
	}

	if firstErr != nil {
		result.ErrorKind = string(pipeline.Classify(firstErr))
		result.Error = firstErr.Error()
	} else {
		result.Output = first.Output
		result.IR = irLines(first.IR)
		result.Statements = first.Statements
	}

	evaluate(s.Expect, result)
	log.Debug("scenario finished", "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

// compile runs the scenario input through the matching pipeline entry.
func compile(d *pipeline.Driver, s *Scenario) (*pipeline.Result, error) {
	switch {
	case s.Source != nil:
		return d.CompileSource(s.Name, *s.Source)
	case s.AST != "":
		res, err := d.CompileFile(s.AST)
		if err != nil {
			return nil, err
		}
		res.Name = s.Name
		return res, nil
	case s.Program != nil:
		p, err := ir.Parse(*s.Program)
		if err != nil {
			return nil, err
		}
		res, err := d.GenerateIR(p)
		if err != nil {
			return nil, err
		}
		res.Name = s.Name
		res.SourceHash = ir.SourceHash(*s.Program)
		return res, nil
	}
	return nil, fmt.Errorf("scenario %s has no input", s.Name)
}

func evaluate(e Expect, r *Result) {
	if e.wantsError() {
		if r.ErrorKind == "" {
			r.AddError("expected an error, got output %q", r.Output)
			return
		}
		if e.ErrorKind != "" && e.ErrorKind != r.ErrorKind {
			r.AddError("error_kind: expected %s, got %s (%s)", e.ErrorKind, r.ErrorKind, r.Error)
		}
		if e.Error != "" && !strings.Contains(r.Error, e.Error) {
			r.AddError("error: expected message containing %q, got %q", e.Error, r.Error)
		}
		return
	}

	if r.ErrorKind != "" {
		r.AddError("unexpected %s error: %s", r.ErrorKind, r.Error)
		return
	}
	if e.Output != nil && *e.Output != r.Output {
		r.AddError("output: expected %q, got %q", *e.Output, r.Output)
	}
	if e.IR != nil && !equalLines(e.IR, r.IR) {
		r.AddError("ir: expected %q, got %q", e.IR, r.IR)
	}
	if e.Statements != nil && *e.Statements != r.Statements {
		r.AddError("statements: expected %d, got %d", *e.Statements, r.Statements)
	}
}

// irLines returns the IR text of p, one instruction per entry.
func irLines(p ir.Program) []string {
	lines := make([]string, 0, p.Len())
	for _, in := range p.Instructions {
		lines = append(lines, ir.FormatInstruction(in))
	}
	return lines
}

func equalLines(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(want[i]) != got[i] {
			return false
		}
	}
	return true
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
