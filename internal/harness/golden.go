package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders r for golden comparison:
//
//	# scenario: nested_arithmetic
//	# output (1 statement(s))
//	(1 + (2 * 3))
//	# ir
//	PUSH_LITERAL 1
//	...
//
// A failing compilation renders its error kind and message instead of the
// output and IR.
func (r *Result) Snapshot() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# scenario: %s\n", r.Name)

	if r.ErrorKind != "" {
		fmt.Fprintf(&b, "# error (%s)\n%s\n", r.ErrorKind, r.Error)
		return b.Bytes()
	}

	fmt.Fprintf(&b, "# output (%d statement(s))\n", r.Statements)
	if r.Output != "" {
		b.WriteString(r.Output)
		b.WriteByte('\n')
	}
	b.WriteString("# ir\n")
	for _, line := range r.IR {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// RunWithGolden executes a scenario, reports failed expectations through t
// and compares the snapshot against testdata/golden/{scenario.Name}.golden.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}

	AssertGolden(t, result)
	return nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, result.Name, result.Snapshot())
}
