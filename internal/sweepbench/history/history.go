// Package history records sweep results in a SQLite database, either a local
// file or a remote NSQLite server.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/nsqlite/nsqlitego"
	"github.com/nsqlite/sweepbench/internal/sweepbench/sweep"
	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
)

const schema = `
CREATE TABLE IF NOT EXISTS sweeps (
	id      TEXT PRIMARY KEY,
	started INTEGER NOT NULL,
	out_dir TEXT NOT NULL,
	params  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sweep_id   TEXT NOT NULL,
	variant    TEXT NOT NULL,
	threads    INTEGER NOT NULL,
	run        INTEGER NOT NULL,
	ops_per_ms REAL NOT NULL,
	elapsed_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS aggregates (
	sweep_id   TEXT NOT NULL,
	variant    TEXT NOT NULL,
	threads    INTEGER NOT NULL,
	runs       INTEGER NOT NULL,
	ops_per_ms REAL NOT NULL,
	PRIMARY KEY (sweep_id, variant, threads)
);
`

// Store writes the runs and aggregates of one sweep.
type Store struct {
	db      *sql.DB
	driver  string
	sweepID string
}

// DriverFor returns the database/sql driver name used for dsn. URLs go to
// an NSQLite server, everything else is a SQLite file path.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") {
		return "nsqlite"
	}
	return "sqlite3"
}

// Open connects to dsn and creates the tables if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("results database DSN is empty")
	}

	driver := DriverFor(dsn)
	if driver == "sqlite3" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create results database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach results database: %w", err)
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create results schema: %w", err)
		}
	}

	return &Store{db: db, driver: driver}, nil
}

// Driver returns the database/sql driver the store uses.
func (s *Store) Driver() string {
	return s.driver
}

// BeginSweep registers a new sweep; following records belong to it.
func (s *Store) BeginSweep(
	ctx context.Context, id string, started time.Time, outDir string, params string,
) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sweeps (id, started, out_dir, params) VALUES (?, ?, ?, ?)",
		id, started.Unix(), outDir, params,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sweep: %w", err)
	}
	s.sweepID = id
	return nil
}

// RecordRun implements sweep.Recorder.
func (s *Store) RecordRun(ctx context.Context, res sweep.RunResult) error {
	if s.sweepID == "" {
		return errors.New("no sweep started")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (sweep_id, variant, threads, run, ops_per_ms, elapsed_ms) VALUES (?, ?, ?, ?, ?, ?)",
		s.sweepID, res.Variant.Value, res.Threads, res.Run, res.OpsPerMs, res.Elapsed.Milliseconds(),
	)
	return err
}

// RecordAggregate implements sweep.Recorder.
func (s *Store) RecordAggregate(ctx context.Context, res sweep.AggregateResult) error {
	if s.sweepID == "" {
		return errors.New("no sweep started")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO aggregates (sweep_id, variant, threads, runs, ops_per_ms) VALUES (?, ?, ?, ?, ?)",
		s.sweepID, res.Variant.Value, res.Threads, res.Runs, res.OpsPerMs,
	)
	return err
}

// Aggregates returns the aggregates of a sweep ordered as they were
// produced.
func (s *Store) Aggregates(ctx context.Context, sweepID string) ([]sweep.AggregateResult, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT variant, threads, runs, ops_per_ms FROM aggregates WHERE sweep_id = ? ORDER BY rowid",
		sweepID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []sweep.AggregateResult
	for rows.Next() {
		var name string
		var res sweep.AggregateResult
		if err := rows.Scan(&name, &res.Threads, &res.Runs, &res.OpsPerMs); err != nil {
			return nil, err
		}
		v, err := variant.Parse(name)
		if err != nil {
			return nil, err
		}
		res.Variant = v
		results = append(results, res)
	}
	return results, rows.Err()
}

// CountRuns returns how many runs were recorded for a sweep.
func (s *Store) CountRuns(ctx context.Context, sweepID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM runs WHERE sweep_id = ?", sweepID,
	).Scan(&n)
	return n, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
