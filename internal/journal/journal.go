package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded discovery or sync invocation.
type Run struct {
	ID         string
	Mode       string // discover|sync
	Source     string
	Discovered int
	Added      int
	Warnings   int
	Duration   time.Duration
	StartedAt  time.Time
	Error      string
}

// Journal records discovery/sync runs in a SQLite database.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens a journal database. Use ":memory:" for tests.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		source TEXT NOT NULL,
		discovered INTEGER NOT NULL,
		added INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record persists one run and returns its generated id.
func (j *Journal) Record(ctx context.Context, run Run) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO runs (id, mode, source, discovered, added, warnings, duration_ms, started_at, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Mode, run.Source, run.Discovered, run.Added, run.Warnings,
		run.Duration.Milliseconds(), run.StartedAt.Unix(), run.Error,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, mode, source, discovered, added, warnings, duration_ms, started_at, error FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var startedAt int64
		if err := rows.Scan(&r.ID, &r.Mode, &r.Source, &r.Discovered, &r.Added, &r.Warnings, &durationMS, &startedAt, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.StartedAt = time.Unix(startedAt, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
