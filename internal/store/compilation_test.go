package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/testutil"
)

func TestRecordCompilation_AssignsSeqAndDefaults(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.RecordCompilation(ctx, createTestCompilation("a.rb", 1, 2, ir.Add{}, "(1 + 2)"))
	require.NoError(t, err)
	second, err := s.RecordCompilation(ctx, createTestCompilation("b.rb", 3, 4, ir.Multiply{}, "(3 * 4)"))
	require.NoError(t, err)

	assert.Equal(t, "cmp-0001", first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, "cmp-0002", second.ID)
	assert.Equal(t, int64(2), second.Seq)

	assert.Equal(t, ir.CompilerVersion, first.CompilerVersion)
	assert.Equal(t, ir.IRVersion, first.IRVersion)
	assert.Equal(t, ir.MustFingerprint(first.IR), first.Fingerprint)
}

func TestRecordCompilation_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := Compilation{
		SourceName: "mixed.rb",
		SourceHash: ir.SourceHash("1.5 / 2; 7"),
		IR:         ir.NewProgram(ir.PushFloat(1.5), ir.PushInt(2), ir.Divide{}, ir.PushInt(7)),
		Output:     "(1.5 / 2);\n7",
		Statements: 2,
	}
	recorded, err := s.RecordCompilation(ctx, in)
	require.NoError(t, err)

	got, err := s.ReadCompilation(ctx, recorded.ID)
	require.NoError(t, err)

	assert.Equal(t, recorded.ID, got.ID)
	assert.Equal(t, recorded.Seq, got.Seq)
	assert.Equal(t, "mixed.rb", got.SourceName)
	assert.Equal(t, in.SourceHash, got.SourceHash)
	assert.Equal(t, in.Output, got.Output)
	assert.Equal(t, 2, got.Statements)
	assert.Equal(t, ir.Format(in.IR), ir.Format(got.IR))
	assert.Equal(t, recorded.Fingerprint, got.Fingerprint)
	assert.Equal(t, ir.MustFingerprint(got.IR), got.Fingerprint)
}

func TestRecordCompilation_DuplicateIDIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/dup.db"
	s, err := Open(path, WithIDGenerator(testutil.NewFixedIDGenerator("same", "same")))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	first, err := s.RecordCompilation(ctx, createTestCompilation("a.rb", 1, 2, ir.Add{}, "(1 + 2)"))
	require.NoError(t, err)
	again, err := s.RecordCompilation(ctx, createTestCompilation("other.rb", 5, 6, ir.Subtract{}, "(5 - 6)"))
	require.NoError(t, err)

	assert.Equal(t, first.Seq, again.Seq)
	assert.Equal(t, "a.rb", again.SourceName)
	assert.Equal(t, "(1 + 2)", again.Output)

	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecordCompilation_RejectsMalformedIR(t *testing.T) {
	s := createTestStore(t)

	_, err := s.RecordCompilation(context.Background(), Compilation{
		SourceName: "bad",
		IR:         ir.NewProgram(ir.PushLiteral{}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record compilation")
}

func TestReadCompilation_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadCompilation(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows), "got %v", err)
}

func TestLatestBySourceHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestBySourceHash(ctx, ir.SourceHash("1 + 2"))
	assert.True(t, errors.Is(err, sql.ErrNoRows), "got %v", err)

	c := createTestCompilation("a.rb", 1, 2, ir.Add{}, "(1 + 2)")
	c.SourceHash = ir.SourceHash("1 + 2")
	_, err = s.RecordCompilation(ctx, c)
	require.NoError(t, err)
	c.SourceName = "b.rb"
	_, err = s.RecordCompilation(ctx, c)
	require.NoError(t, err)

	// A record from another compiler version is never served.
	old := c
	old.SourceName = "old.rb"
	old.CompilerVersion = "0.0.1"
	_, err = s.RecordCompilation(ctx, old)
	require.NoError(t, err)

	latest, err := s.LatestBySourceHash(ctx, ir.SourceHash("1 + 2"))
	require.NoError(t, err)
	assert.Equal(t, "b.rb", latest.SourceName)
	assert.Equal(t, int64(2), latest.Seq)
}

func TestListCompilations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListCompilations(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for i := int64(1); i <= 4; i++ {
		_, err := s.RecordCompilation(ctx, createTestCompilation("f.rb", i, i, ir.Add{}, "x"))
		require.NoError(t, err)
	}

	all, err := s.ListCompilations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, c := range all {
		assert.Equal(t, int64(i+1), c.Seq)
	}

	recent, err := s.ListCompilations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(3), recent[0].Seq)
	assert.Equal(t, int64(4), recent[1].Seq)
}

func TestVerifyDeterminism(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	hash := ir.SourceHash("1 + 2")

	stable := createTestCompilation("a.rb", 1, 2, ir.Add{}, "(1 + 2)")
	stable.SourceHash = hash
	for i := 0; i < 2; i++ {
		_, err := s.RecordCompilation(ctx, stable)
		require.NoError(t, err)
	}

	divergences, err := s.VerifyDeterminism(ctx)
	require.NoError(t, err)
	assert.Empty(t, divergences)

	drifted := createTestCompilation("a.rb", 2, 1, ir.Add{}, "(2 + 1)")
	drifted.SourceHash = hash
	_, err = s.RecordCompilation(ctx, drifted)
	require.NoError(t, err)

	// Another compiler version may legitimately differ.
	other := drifted
	other.SourceHash = ir.SourceHash("unrelated")
	other.CompilerVersion = "9.9.9"
	_, err = s.RecordCompilation(ctx, other)
	require.NoError(t, err)

	divergences, err = s.VerifyDeterminism(ctx)
	require.NoError(t, err)
	require.Len(t, divergences, 1)

	d := divergences[0]
	assert.Equal(t, hash, d.SourceHash)
	assert.Equal(t, ir.CompilerVersion, d.CompilerVersion)
	assert.Len(t, d.Fingerprints, 2)
	assert.True(t, d.Fingerprints[0] < d.Fingerprints[1])
	assert.Equal(t, 2, d.Outputs)
	assert.Equal(t, []string{"cmp-0001", "cmp-0002", "cmp-0003"}, d.IDs)
	assert.Contains(t, d.String(), "2 fingerprint(s), 2 output(s) across cmp-0001, cmp-0002, cmp-0003")
}
