// Package history persists sweep outcomes to a local SQLite database so
// past experiment runs stay queryable after their logs rotate away.
package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/sweep"
)

// Entry is one persisted (sweep, language, phase) outcome row.
type Entry struct {
	SweepID    int64
	Language   string
	Phase      string
	OK         bool
	Error      string
	DurationMS int64
	StartedAt  time.Time
}

// SweepRow summarizes one recorded sweep.
type SweepRow struct {
	ID        int64
	Phases    string
	Started   time.Time
	Finished  time.Time
	Attempted int
	Failed    int
}

// Store is a SQLite-backed sweep history ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryStore, err)
	}
	// One writer at a time; the harness is strictly sequential anyway
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// initSchema creates the history tables if they don't exist.
func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sweeps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phases TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		attempted INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sweep_id INTEGER NOT NULL REFERENCES sweeps(id),
		language TEXT NOT NULL,
		phase TEXT NOT NULL,
		ok INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_sweep ON outcomes(sweep_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return errors.New(errors.ErrCodeHistoryStore, "create history schema", err)
	}
	return nil
}

// SaveReport records a finished sweep and all its outcome tuples in one
// transaction. Returns the new sweep id.
func (s *Store) SaveReport(ctx context.Context, report *sweep.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.New(errors.ErrCodeHistoryStore, "begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sweeps (phases, started_at, finished_at, attempted, failed)
		VALUES (?, ?, ?, ?, ?)`,
		report.Phases.String(), report.Started, report.Finished,
		report.Attempted(), len(report.Failed()))
	if err != nil {
		return 0, errors.New(errors.ErrCodeHistoryStore, "insert sweep", err)
	}
	sweepID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.New(errors.ErrCodeHistoryStore, "sweep id", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (sweep_id, language, phase, ok, error, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.New(errors.ErrCodeHistoryStore, "prepare outcome insert", err)
	}
	defer func() { _ = stmt.Close() }()

	saveOutcome := func(o sweep.Outcome, phase string) error {
		errMsg := ""
		if o.Err != nil {
			errMsg = o.Err.Error()
		}
		_, err := stmt.ExecContext(ctx, sweepID, string(o.Language), phase,
			boolToInt(o.OK()), errMsg, o.Duration.Milliseconds(), report.Started)
		return err
	}

	for _, o := range report.Outcomes {
		if err := saveOutcome(o, string(o.Phase)); err != nil {
			return 0, errors.New(errors.ErrCodeHistoryStore, "insert outcome", err)
		}
	}
	for _, o := range report.Skipped {
		if err := saveOutcome(o, "skipped"); err != nil {
			return 0, errors.New(errors.ErrCodeHistoryStore, "insert skipped outcome", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.New(errors.ErrCodeHistoryStore, "commit", err)
	}
	return sweepID, nil
}

// RecentSweeps returns the most recent sweeps, newest first.
func (s *Store) RecentSweeps(ctx context.Context, limit int) ([]SweepRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, phases, started_at, finished_at, attempted, failed
		FROM sweeps ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.New(errors.ErrCodeHistoryStore, "query sweeps", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SweepRow
	for rows.Next() {
		var r SweepRow
		if err := rows.Scan(&r.ID, &r.Phases, &r.Started, &r.Finished, &r.Attempted, &r.Failed); err != nil {
			return nil, errors.New(errors.ErrCodeHistoryStore, "scan sweep row", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Outcomes returns the outcome tuples for one sweep in insertion order.
func (s *Store) Outcomes(ctx context.Context, sweepID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sweep_id, language, phase, ok, error, duration_ms, started_at
		FROM outcomes WHERE sweep_id = ? ORDER BY id`, sweepID)
	if err != nil {
		return nil, errors.New(errors.ErrCodeHistoryStore, "query outcomes", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ok int
		if err := rows.Scan(&e.SweepID, &e.Language, &e.Phase, &ok, &e.Error, &e.DurationMS, &e.StartedAt); err != nil {
			return nil, errors.New(errors.ErrCodeHistoryStore, "scan outcome row", err)
		}
		e.OK = ok != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the default history database location inside the
// csbench data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
