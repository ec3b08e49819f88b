// Package history keeps an SQLite audit trail of pipeline runs and their attempts.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/frherrer/component-architect/internal/domain"
)

// ErrNotFound is returned when no run matches an id.
var ErrNotFound = errors.New("run not found")

// Store wraps an SQLite database of runs.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID         string
	Prompt     string
	ClassName  string
	State      domain.State
	Attempts   int
	ErrorCount int
	StartedAt  time.Time
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas apply per connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Runs},
		{2, migrationV2Attempts},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Runs = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	prompt TEXT NOT NULL,
	slug TEXT NOT NULL,
	class_name TEXT NOT NULL,
	state TEXT NOT NULL,
	valid INTEGER NOT NULL,
	attempts INTEGER NOT NULL,
	files TEXT NOT NULL,
	errors TEXT NOT NULL,
	transitions TEXT NOT NULL,
	warnings TEXT NOT NULL,
	saved_paths TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

const migrationV2Attempts = `
CREATE TABLE IF NOT EXISTS attempts (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	ordinal INTEGER NOT NULL,
	phase TEXT NOT NULL,
	passed INTEGER NOT NULL,
	files TEXT NOT NULL,
	verdict TEXT NOT NULL,
	PRIMARY KEY (run_id, ordinal)
);
`

// Record stores a finished run and its attempts. Recording the same run id
// twice replaces the earlier copy.
func (s *Store) Record(ctx context.Context, res *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols, err := encodeAll(res.Files, res.Errors, res.Transitions, res.Warnings, res.SavedPaths)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM attempts WHERE run_id = ?", res.RunID); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", res.RunID); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, prompt, slug, class_name, state, valid, attempts,
			files, errors, transitions, warnings, saved_paths, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Prompt, res.Slug, res.ClassName, string(res.State), res.Valid, res.Attempts,
		cols[0], cols[1], cols[2], cols[3], cols[4],
		formatTime(res.StartedAt), formatTime(res.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range res.Log {
		enc, err := encodeAll(a.Files, a.Verdict)
		if err != nil {
			return fmt.Errorf("encode attempt %d: %w", a.Ordinal, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO attempts (run_id, ordinal, phase, passed, files, verdict) VALUES (?, ?, ?, ?, ?, ?)",
			res.RunID, a.Ordinal, string(a.Phase), a.Passed, enc[0], enc[1])
		if err != nil {
			return fmt.Errorf("insert attempt %d: %w", a.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// List returns the most recent runs first. limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, prompt, class_name, state, attempts, errors, started_at FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			sum       RunSummary
			state     string
			errorsCol string
			started   string
		)
		if err := rows.Scan(&sum.ID, &sum.Prompt, &sum.ClassName, &state, &sum.Attempts, &errorsCol, &started); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var issues []domain.Issue
		if err := json.Unmarshal([]byte(errorsCol), &issues); err != nil {
			return nil, fmt.Errorf("decode run errors: %w", err)
		}
		sum.State = domain.State(state)
		sum.ErrorCount = len(issues)
		sum.StartedAt = parseTime(started)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads a full run by id or unique id prefix.
func (s *Store) Get(ctx context.Context, id string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, prompt, slug, class_name, state, valid, attempts,
			files, errors, transitions, warnings, saved_paths, started_at, finished_at
		FROM runs WHERE id = ? OR id LIKE ? || '%' LIMIT 2`, id, id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var (
		res     domain.Result
		found   int
		state   string
		cols    [5]string
		started string
		ended   string
	)
	for rows.Next() {
		found++
		if found > 1 {
			return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
		}
		if err := rows.Scan(&res.RunID, &res.Prompt, &res.Slug, &res.ClassName, &state, &res.Valid, &res.Attempts,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &started, &ended); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	res.State = domain.State(state)
	res.StartedAt = parseTime(started)
	res.FinishedAt = parseTime(ended)
	targets := []any{&res.Files, &res.Errors, &res.Transitions, &res.Warnings, &res.SavedPaths}
	for i, target := range targets {
		if err := json.Unmarshal([]byte(cols[i]), target); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
	}

	log, err := s.attempts(ctx, res.RunID)
	if err != nil {
		return nil, err
	}
	res.Log = log
	return &res, nil
}

func (s *Store) attempts(ctx context.Context, runID string) ([]domain.AttemptRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT ordinal, phase, passed, files, verdict FROM attempts WHERE run_id = ? ORDER BY ordinal", runID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.AttemptRecord
	for rows.Next() {
		var (
			a              domain.AttemptRecord
			phase          string
			files, verdict string
		)
		if err := rows.Scan(&a.Ordinal, &phase, &a.Passed, &files, &verdict); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Phase = domain.Phase(phase)
		if err := json.Unmarshal([]byte(files), &a.Files); err != nil {
			return nil, fmt.Errorf("decode attempt files: %w", err)
		}
		if err := json.Unmarshal([]byte(verdict), &a.Verdict); err != nil {
			return nil, fmt.Errorf("decode attempt verdict: %w", err)
		}
		a.Errors = a.Verdict.Strings()
		out = append(out, a)
	}
	return out, rows.Err()
}

func encodeAll(values ...any) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[i] = string(data)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
