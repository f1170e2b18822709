// Package store persists run metadata, per-sample results, and LLM
// request events in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    task TEXT NOT NULL,
    hint_type TEXT NOT NULL,
    model TEXT NOT NULL,
    epochs INTEGER NOT NULL,
    sample_count INTEGER NOT NULL,
    status TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS results (
    run_id TEXT NOT NULL,
    sample_id INTEGER NOT NULL,
    epoch INTEGER NOT NULL,
    choice TEXT NOT NULL,
    correct REAL NOT NULL,
    hint TEXT NOT NULL,
    judge_confidence REAL,
    PRIMARY KEY (run_id, sample_id, epoch),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS llm_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TIMESTAMP NOT NULL,
    provider TEXT NOT NULL,
    model TEXT NOT NULL,
    purpose TEXT NOT NULL,
    input_tokens INTEGER NOT NULL,
    output_tokens INTEGER NOT NULL,
    latency_ms INTEGER NOT NULL,
    success INTEGER NOT NULL,
    error_message TEXT NOT NULL DEFAULT '',
    request_body TEXT NOT NULL DEFAULT '',
    response_body TEXT NOT NULL DEFAULT ''
);
`

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at path, applies pragmas, and
// creates the schema if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the database location: HINTLAB_DB if set,
// otherwise hintlab.db under the user cache directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("HINTLAB_DB"); p != "" {
		return p, EnsureDir(p)
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	p := filepath.Join(cache, "hintlab", "hintlab.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// applyPragmas configures SQLite for single-user workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Run is one recorded eval run of a single task.
type Run struct {
	ID          string
	Task        string
	HintType    string
	Model       string
	Epochs      int
	SampleCount int
	Status      string
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// CreateRun inserts a run in the "running" state.
func (s *Store) CreateRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, task, hint_type, model, epochs, sample_count, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Task, r.HintType, r.Model, r.Epochs, r.SampleCount, r.Status, r.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun marks a run finished with the given status.
func (s *Store) FinishRun(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task, hint_type, model, epochs, sample_count, status, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Task, &r.HintType, &r.Model, &r.Epochs,
			&r.SampleCount, &r.Status, &r.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Result is one sample-epoch outcome within a run.
type Result struct {
	RunID           string
	SampleID        int
	Epoch           int
	Choice          string
	Correct         float64
	Hint            string
	JudgeConfidence *float64
}

// RecordResult inserts one sample-epoch result.
func (s *Store) RecordResult(ctx context.Context, r Result) error {
	var judge any
	if r.JudgeConfidence != nil {
		judge = *r.JudgeConfidence
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (run_id, sample_id, epoch, choice, correct, hint, judge_confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.SampleID, r.Epoch, r.Choice, r.Correct, r.Hint, judge)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}
