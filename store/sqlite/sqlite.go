/*
Package sqlite provides a SQLite-backed implementation of generic.RunStore.

PURPOSE:
  Persists generated runs so the API and CLI can list, export and summarize
  them later. Each run stores its full configuration, so a stored table can
  always be regenerated and compared.

KEY TABLES:
  runs:       One row per run (configuration, overlay counts, column order)
  run_values: Long format, one row per cell, keyed by (run_id, year, attribute)

LONG FORMAT:
  Cells are stored as (run_id, year, attribute, value) rather than one SQL
  column per attribute. Adding an attribute to the model needs no schema
  change. The column order of the table is kept in runs.columns_json.

INDEXES:
  - run_values primary key: Table reconstruction (hot path)
  - idx_run_values_attribute: Cross-run comparison of one attribute
  - idx_runs_created_at: Listing, newest first

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, like the in-memory store.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/partyfin.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  run := generic.NewRun("reference", result)
  err = store.SaveRun(ctx, run)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/partyfin/generic"
)

// Store implements generic.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ generic.RunStore     = (*Store)(nil)
	_ generic.HistoryStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		start_year INTEGER NOT NULL,
		end_year INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		members_base REAL NOT NULL,
		budget_base REAL NOT NULL,
		disable_events INTEGER NOT NULL DEFAULT 0,
		extra_rules_json TEXT,
		columns_json TEXT NOT NULL,
		applied INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at DESC);

	CREATE TABLE IF NOT EXISTS run_values (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		attribute TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, year, attribute)
	);

	CREATE INDEX IF NOT EXISTS idx_run_values_attribute
		ON run_values(attribute, year);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE (generic.RunStore interface)
// =============================================================================

// SaveRun writes the run and all of its cells atomically.
func (s *Store) SaveRun(ctx context.Context, run generic.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.Table == nil {
		return fmt.Errorf("run %s has no table", run.ID)
	}

	rulesJSON, err := json.Marshal(run.Config.ExtraRules)
	if err != nil {
		return fmt.Errorf("failed to encode extra rules: %w", err)
	}
	columnsJSON, err := json.Marshal(run.Table.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode columns: %w", err)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, start_year, end_year, seed, members_base, budget_base,
		 disable_events, extra_rules_json, columns_json, applied, skipped, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(run.ID),
		run.Scenario,
		int(run.Config.Start),
		int(run.Config.End),
		run.Config.Seed,
		run.Config.Bases.Members,
		run.Config.Bases.Budget,
		run.Config.DisableEvents,
		string(rulesJSON),
		string(columnsJSON),
		run.Applied,
		run.Skipped,
		run.Warnings,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", generic.ErrDuplicateRun, run.ID)
		}
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx,
		"INSERT INTO run_values (run_id, year, attribute, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range run.Table.Rows {
		for j, col := range run.Table.Columns {
			if _, err := stmt.ExecContext(ctx, string(run.ID), int(row.Year), string(col), row.Values[j]); err != nil {
				return fmt.Errorf("failed to insert cell %d/%s: %w", row.Year, col, err)
			}
		}
	}

	return sqlTx.Commit()
}

// GetRun loads a run and rebuilds its table.
func (s *Store) GetRun(ctx context.Context, id generic.RunID) (generic.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, columns, err := s.getRunRow(ctx, id)
	if err != nil {
		return generic.Run{}, err
	}

	table, err := s.loadTable(ctx, id, run.Config.Start, run.Config.End, columns)
	if err != nil {
		return generic.Run{}, err
	}
	run.Table = table
	return run, nil
}

func (s *Store) getRunRow(ctx context.Context, id generic.RunID) (generic.Run, []generic.Attribute, error) {
	var (
		run                    generic.Run
		runID                  string
		start, end             int
		rulesJSON, columnsJSON string
		createdAt              string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, start_year, end_year, seed, members_base, budget_base,
		       disable_events, extra_rules_json, columns_json, applied, skipped, warnings, created_at
		FROM runs WHERE id = ?
	`, string(id)).Scan(
		&runID, &run.Scenario, &start, &end, &run.Config.Seed,
		&run.Config.Bases.Members, &run.Config.Bases.Budget, &run.Config.DisableEvents,
		&rulesJSON, &columnsJSON, &run.Applied, &run.Skipped, &run.Warnings, &createdAt,
	)
	if err == sql.ErrNoRows {
		return generic.Run{}, nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	if err != nil {
		return generic.Run{}, nil, err
	}

	run.ID = generic.RunID(runID)
	run.Config.Start = generic.Year(start)
	run.Config.End = generic.Year(end)
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	if rulesJSON != "" && rulesJSON != "null" {
		if err := json.Unmarshal([]byte(rulesJSON), &run.Config.ExtraRules); err != nil {
			return generic.Run{}, nil, fmt.Errorf("run %s: corrupt extra rules: %w", id, err)
		}
	}
	var columns []generic.Attribute
	if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
		return generic.Run{}, nil, fmt.Errorf("run %s: corrupt columns: %w", id, err)
	}
	return run, columns, nil
}

func (s *Store) loadTable(ctx context.Context, id generic.RunID, start, end generic.Year, columns []generic.Attribute) (*generic.Table, error) {
	years, err := generic.NewYears(start, end)
	if err != nil {
		return nil, err
	}

	series := make(map[generic.Attribute]generic.Series, len(columns))
	filled := make(map[generic.Attribute]int, len(columns))
	for _, c := range columns {
		series[c] = make(generic.Series, len(years))
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT year, attribute, value FROM run_values WHERE run_id = ?", string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			year  int
			attr  string
			value float64
		)
		if err := rows.Scan(&year, &attr, &value); err != nil {
			return nil, err
		}
		col, ok := series[generic.Attribute(attr)]
		i := years.Index(generic.Year(year))
		if !ok || i < 0 {
			return nil, fmt.Errorf("run %s: stray cell %d/%s", id, year, attr)
		}
		col[i] = value
		filled[generic.Attribute(attr)]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Assemble checks lengths; a missing cell would silently read as 0.
	for _, c := range columns {
		if filled[c] != len(years) {
			return nil, &generic.LengthMismatchError{Attribute: c, Want: len(years), Got: filled[c]}
		}
	}
	return generic.Assemble(years, columns, series)
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]generic.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, start_year, end_year, seed, members_base, budget_base,
		       disable_events, created_at
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []generic.RunSummary
	for rows.Next() {
		var (
			sum        generic.RunSummary
			id         string
			start, end int
			createdAt  string
		)
		if err := rows.Scan(&id, &sum.Scenario, &start, &end, &sum.Config.Seed,
			&sum.Config.Bases.Members, &sum.Config.Bases.Budget, &sum.Config.DisableEvents, &createdAt); err != nil {
			return nil, err
		}
		sum.ID = generic.RunID(id)
		sum.Config.Start = generic.Year(start)
		sum.Config.End = generic.Year(end)
		sum.Rows = end - start + 1
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		result = append(result, sum)
	}
	return result, rows.Err()
}

// DeleteRun removes a run. Its cells go with it (ON DELETE CASCADE).
func (s *Store) DeleteRun(ctx context.Context, id generic.RunID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// AttributeHistory returns one attribute across every stored run, keyed by
// run ID, for comparing scenarios.
func (s *Store) AttributeHistory(ctx context.Context, a generic.Attribute) (map[generic.RunID]map[generic.Year]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, year, value FROM run_values WHERE attribute = ? ORDER BY run_id, year", string(a))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[generic.RunID]map[generic.Year]float64)
	for rows.Next() {
		var (
			id    string
			year  int
			value float64
		)
		if err := rows.Scan(&id, &year, &value); err != nil {
			return nil, err
		}
		rid := generic.RunID(id)
		if result[rid] == nil {
			result[rid] = make(map[generic.Year]float64)
		}
		result[rid][generic.Year(year)] = value
	}
	return result, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY"))
}
