package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/stackjs/internal/ir"
)

// Compilation is one recorded compilation.
type Compilation struct {
	ID              string
	Seq             int64
	SourceName      string
	SourceHash      string
	Fingerprint     string
	IR              ir.Program
	Output          string
	Statements      int
	CompilerVersion string
	IRVersion       string
}

// Divergence is a source hash that one compiler version compiled to more
// than one result.
type Divergence struct {
	SourceHash      string   `json:"source_hash"`
	CompilerVersion string   `json:"compiler_version"`
	Fingerprints    []string `json:"fingerprints"` // distinct, sorted
	Outputs         int      `json:"outputs"`      // number of distinct outputs
	IDs             []string `json:"ids"`          // every record involved, in seq order
}

func (d Divergence) String() string {
	return fmt.Sprintf("source %s (compiler %s): %d fingerprint(s), %d output(s) across %s",
		d.SourceHash, d.CompilerVersion, len(d.Fingerprints), d.Outputs, strings.Join(d.IDs, ", "))
}

const compilationColumns = `id, seq, source_name, source_hash, ir_fingerprint, ir_json, output, statements, compiler_version, ir_version`

// RecordCompilation appends c to the log and returns the stored record.
//
// An empty ID is filled from the store's IDGenerator and empty versions
// default to the running compiler's. Seq is always assigned here, one past
// the current maximum, inside the insert transaction.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: recording an existing ID
// returns the record already stored.
func (s *Store) RecordCompilation(ctx context.Context, c Compilation) (Compilation, error) {
	if c.ID == "" {
		c.ID = s.ids.Generate()
	}
	if c.CompilerVersion == "" {
		c.CompilerVersion = ir.CompilerVersion
	}
	if c.IRVersion == "" {
		c.IRVersion = ir.IRVersion
	}

	irJSON, err := ir.MarshalCanonical(c.IR)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}
	if c.Fingerprint == "" {
		if c.Fingerprint, err = ir.Fingerprint(c.IR); err != nil {
			return Compilation{}, fmt.Errorf("record compilation: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations`).Scan(&c.Seq); err != nil {
		return Compilation{}, fmt.Errorf("record compilation: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO compilations (`+compilationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.Seq,
		c.SourceName,
		c.SourceHash,
		c.Fingerprint,
		string(irJSON),
		c.Output,
		c.Statements,
		c.CompilerVersion,
		c.IRVersion,
	)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: rows affected: %w", err)
	}
	if rows == 0 {
		existing, err := scanCompilation(tx.QueryRowContext(ctx,
			`SELECT `+compilationColumns+` FROM compilations WHERE id = ?`, c.ID))
		if err != nil {
			return Compilation{}, fmt.Errorf("record compilation: read existing: %w", err)
		}
		return existing, nil
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, fmt.Errorf("record compilation: commit: %w", err)
	}
	return c, nil
}

// ReadCompilation retrieves a single compilation by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadCompilation(ctx context.Context, id string) (Compilation, error) {
	c, err := scanCompilation(s.db.QueryRowContext(ctx,
		`SELECT `+compilationColumns+` FROM compilations WHERE id = ?`, id))
	if err != nil {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}
	return c, nil
}

// LatestBySourceHash returns the most recent compilation of a source by the
// running compiler version. Returns an error wrapping sql.ErrNoRows if there
// is none.
func (s *Store) LatestBySourceHash(ctx context.Context, sourceHash string) (Compilation, error) {
	c, err := scanCompilation(s.db.QueryRowContext(ctx, `
		SELECT `+compilationColumns+`
		FROM compilations
		WHERE source_hash = ? AND compiler_version = ? AND ir_version = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, sourceHash, ir.CompilerVersion, ir.IRVersion))
	if err != nil {
		return Compilation{}, fmt.Errorf("latest compilation for %s: %w", sourceHash, err)
	}
	return c, nil
}

// ListCompilations returns the most recent limit compilations, oldest
// first. A limit <= 0 returns everything.
//
// Returns an empty slice (not nil) when the log is empty.
func (s *Store) ListCompilations(ctx context.Context, limit int) ([]Compilation, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+compilationColumns+` FROM (
			SELECT `+compilationColumns+`
			FROM compilations
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	compilations := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		compilations = append(compilations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}

	return compilations, nil
}

// VerifyDeterminism reports every (source hash, compiler version) pair
// recorded with more than one distinct fingerprint or output. An empty
// result means the log is consistent.
func (s *Store) VerifyDeterminism(ctx context.Context) ([]Divergence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_hash, compiler_version, COUNT(DISTINCT output)
		FROM compilations
		GROUP BY source_hash, compiler_version
		HAVING COUNT(DISTINCT ir_fingerprint) > 1 OR COUNT(DISTINCT output) > 1
		ORDER BY source_hash COLLATE BINARY ASC, compiler_version COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("verify determinism: %w", err)
	}

	divergences := []Divergence{}
	for rows.Next() {
		var d Divergence
		if err := rows.Scan(&d.SourceHash, &d.CompilerVersion, &d.Outputs); err != nil {
			rows.Close()
			return nil, fmt.Errorf("verify determinism: scan: %w", err)
		}
		divergences = append(divergences, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("verify determinism: iterate: %w", err)
	}
	// One connection: release it before the detail queries.
	rows.Close()

	for i := range divergences {
		if err := s.fillDivergence(ctx, &divergences[i]); err != nil {
			return nil, err
		}
	}
	return divergences, nil
}

func (s *Store) fillDivergence(ctx context.Context, d *Divergence) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ir_fingerprint
		FROM compilations
		WHERE source_hash = ? AND compiler_version = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, d.SourceHash, d.CompilerVersion)
	if err != nil {
		return fmt.Errorf("verify determinism: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id, fingerprint string
		if err := rows.Scan(&id, &fingerprint); err != nil {
			return fmt.Errorf("verify determinism: scan: %w", err)
		}
		d.IDs = append(d.IDs, id)
		if !seen[fingerprint] {
			seen[fingerprint] = true
			d.Fingerprints = append(d.Fingerprints, fingerprint)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("verify determinism: iterate: %w", err)
	}
	slices.Sort(d.Fingerprints)
	return nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row rowScanner) (Compilation, error) {
	var (
		c      Compilation
		irJSON string
	)
	err := row.Scan(
		&c.ID,
		&c.Seq,
		&c.SourceName,
		&c.SourceHash,
		&c.Fingerprint,
		&irJSON,
		&c.Output,
		&c.Statements,
		&c.CompilerVersion,
		&c.IRVersion,
	)
	if err != nil {
		return Compilation{}, err
	}

	if err := c.IR.UnmarshalJSON([]byte(irJSON)); err != nil {
		return Compilation{}, fmt.Errorf("compilation %s: decode IR: %w", c.ID, err)
	}
	return c, nil
}

var (
	_ rowScanner = (*sql.Row)(nil)
	_ rowScanner = (*sql.Rows)(nil)
)
