package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/testutil"
)

// createTestStore creates a file-backed store with sequential IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDGenerator("cmp")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCompilation builds a compilation of "a <op> b".
func createTestCompilation(name string, a, b int64, op ir.Instruction, output string) Compilation {
	return Compilation{
		SourceName: name,
		SourceHash: ir.SourceHash(output),
		IR:         ir.NewProgram(ir.PushInt(a), ir.PushInt(b), op),
		Output:     output,
		Statements: 1,
	}
}
