package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/brca-pedigree-sim/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite. Pedigrees,
// summaries and stats are stored as JSON text columns.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite run store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		seed INTEGER NOT NULL,
		carriers_only INTEGER NOT NULL DEFAULT 0,
		families INTEGER NOT NULL DEFAULT 0,
		stats TEXT NOT NULL,
		pedigrees TEXT NOT NULL,
		summaries TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_simulation_runs_created_at ON simulation_runs(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRun scans a row selected with runColumns.
func scanRun(s scanner) (*Run, error) {
	run := &Run{}
	var p payload
	var stats, pedigrees, summaries string

	if err := s.Scan(&run.ID, &run.CreatedAt, &run.Seed, &run.CarriersOnly, &stats, &pedigrees, &summaries); err != nil {
		return nil, err
	}
	p.stats, p.pedigrees, p.summaries = []byte(stats), []byte(pedigrees), []byte(summaries)
	if err := decodeRun(run, p); err != nil {
		return nil, err
	}
	return run, nil
}

const runColumns = "id, created_at, seed, carriers_only, stats, pedigrees, summaries"

// Save stores a run, replacing any run with the same id.
func (s *SQLiteStore) Save(ctx context.Context, run *Run) error {
	prepare(run)
	p, err := encodeRun(run)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO simulation_runs (
			id, created_at, seed, carriers_only, families, stats, pedigrees, summaries
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			carriers_only = excluded.carriers_only,
			families = excluded.families,
			stats = excluded.stats,
			pedigrees = excluded.pedigrees,
			summaries = excluded.summaries
	`,
		run.ID.String(),
		run.CreatedAt,
		run.Seed,
		run.CarriersOnly,
		len(run.Pedigrees),
		string(p.stats),
		string(p.pedigrees),
		string(p.summaries),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Get retrieves a run by id.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM simulation_runs WHERE id = ?", id.String())

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return run, nil
}

// List returns runs, newest first, with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM simulation_runs ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

// Count returns the number of stored runs.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM simulation_runs").Scan(&count)
	return count, err
}

// Delete removes a run by id.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM simulation_runs WHERE id = ?", id.String())
	return err
}

// ExportJSON exports all runs to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return exportRuns(ctx, s, writer)
}

// ImportJSON imports runs from a JSON reader.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	return importRuns(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
