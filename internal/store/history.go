// Package store persists benchmark run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"primebench/internal/bench"
	"primebench/internal/logging"

	_ "modernc.org/sqlite"
)

// HistoryStore records finished benchmark runs.
type HistoryStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// RunRecord is one row of run history.
type RunRecord struct {
	RunID             string
	StartedAt         time.Time
	Elements          int
	RequestedThreads  int
	Threads           int
	Seed              int64
	Repeat            int
	Primes            int
	SequentialSeconds float64
	ConcurrentSeconds float64
	Speedup           float64
	Equal             bool
	PerWorker         []int
}

// NewHistoryStore opens (creating if needed) the database at path.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	s := &HistoryStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("history store opened: %s", path)
	return s, nil
}

func (s *HistoryStore) initialize() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		started_at TEXT NOT NULL,
		elements INTEGER NOT NULL,
		requested_threads INTEGER NOT NULL,
		threads INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		repeat INTEGER NOT NULL,
		primes INTEGER NOT NULL,
		sequential_seconds REAL NOT NULL,
		concurrent_seconds REAL NOT NULL,
		speedup REAL NOT NULL,
		equal INTEGER NOT NULL,
		per_worker TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	if _, err := s.db.Exec(runsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Record stores a finished run. Recording the same run twice is an error.
func (s *HistoryStore) Record(ctx context.Context, r *bench.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	perWorker, err := json.Marshal(r.PerWorker)
	if err != nil {
		return fmt.Errorf("failed to encode worker counts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, elements, requested_threads, threads, seed, repeat,
			primes, sequential_seconds, concurrent_seconds, speedup, equal, per_worker)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.StartedAt.UTC().Format(time.RFC3339Nano), r.Elements, r.RequestedThreads, r.Threads,
		r.Seed, r.Repeat, r.Primes, r.SequentialSeconds, r.ConcurrentSeconds, r.Speedup,
		r.Equal, string(perWorker),
	)
	if err != nil {
		logging.StoreError("failed to record run %s: %v", r.RunID, err)
		return fmt.Errorf("failed to record run: %w", err)
	}

	logging.Store("recorded run %s", r.RunID)
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Recent")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, elements, requested_threads, threads, seed, repeat,
			primes, sequential_seconds, concurrent_seconds, speedup, equal, per_worker
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec       RunRecord
			started   string
			perWorker sql.NullString
		)
		if err := rows.Scan(&rec.RunID, &started, &rec.Elements, &rec.RequestedThreads, &rec.Threads,
			&rec.Seed, &rec.Repeat, &rec.Primes, &rec.SequentialSeconds, &rec.ConcurrentSeconds,
			&rec.Speedup, &rec.Equal, &perWorker); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("bad started_at %q for run %s: %w", started, rec.RunID, err)
		}
		if perWorker.Valid && perWorker.String != "" {
			if err := json.Unmarshal([]byte(perWorker.String), &rec.PerWorker); err != nil {
				return nil, fmt.Errorf("bad per_worker for run %s: %w", rec.RunID, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of recorded runs.
func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}
