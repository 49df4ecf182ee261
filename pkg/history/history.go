// Package history keeps a local ledger of completed runs in SQLite, so past
// simulations can be listed and inspected after the process exits.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hydrotools/summaflow/pkg/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    suffix TEXT NOT NULL,
    ensemble TEXT,
    file_manager TEXT NOT NULL,
    mode TEXT NOT NULL,
    status TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    output_path TEXT,
    error TEXT,
    started_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_suffix ON runs(suffix);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Record is one completed run.
type Record struct {
	ID          int64
	Suffix      string
	Ensemble    string
	FileManager string
	Mode        sim.Mode
	Status      sim.Status
	Duration    time.Duration
	OutputPath  string
	Error       string
	StartedAt   time.Time
}

// Store is a SQLite-backed run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the ledger location under the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".summaflow/history.db"
	}
	return filepath.Join(home, ".summaflow", "history.db")
}

// Open opens (and if needed creates) the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Append inserts one run record and returns its assigned id.
func (s *Store) Append(ctx context.Context, r Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (suffix, ensemble, file_manager, mode, status, duration_ms, output_path, error, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Suffix, r.Ensemble, r.FileManager, string(r.Mode), string(r.Status),
		r.Duration.Milliseconds(), r.OutputPath, r.Error,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording run %s: %w", r.Suffix, err)
	}
	return res.LastInsertId()
}

// RecordSimulation appends a ledger entry for a finished simulation.
func (s *Store) RecordSimulation(ctx context.Context, sm *sim.Simulation, mode sim.Mode, ensembleID string, startedAt time.Time) (int64, error) {
	r := Record{
		Suffix:      sm.Suffix(),
		Ensemble:    ensembleID,
		FileManager: sm.FileManagerPath,
		Mode:        mode,
		Status:      sm.Status(),
		Duration:    sm.Duration(),
		StartedAt:   startedAt,
	}
	if sm.Status() == sim.StatusSuccess {
		r.OutputPath = sm.OutputFilePath()
	} else {
		r.Error = sm.Stderr()
	}
	return s.Append(ctx, r)
}

// List returns the most recent runs, newest first, up to limit. A limit of
// zero or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, suffix, ensemble, file_manager, mode, status, duration_ms, output_path, error, started_at
		FROM runs ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns a single run by id.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suffix, ensemble, file_manager, mode, status, duration_ms, output_path, error, started_at
		FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, fmt.Errorf("run %d not found", id)
	}
	r, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &r, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var r Record
	var mode, status, startedAt string
	var durationMs int64
	if err := rows.Scan(&r.ID, &r.Suffix, &r.Ensemble, &r.FileManager, &mode, &status,
		&durationMs, &r.OutputPath, &r.Error, &startedAt); err != nil {
		return Record{}, fmt.Errorf("scanning run record: %w", err)
	}
	r.Mode = sim.Mode(mode)
	r.Status = sim.Status(status)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		r.StartedAt = ts
	}
	return r, nil
}
