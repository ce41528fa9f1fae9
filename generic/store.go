/*
store.go - Persistence interface for generated runs

PURPOSE:
  Defines the interface between generation and the database. A Run is the
  final table of one Engine.Generate call plus the configuration that
  produced it, so any stored table can be regenerated bit-for-bit.

KEY INTERFACES:
  RunStore:     Save, load, list and delete runs
  HistoryStore: One attribute across every stored run (optional)

IMMUTABILITY:
  Runs are written once. There is no Update: re-running a scenario produces
  a new run with a new ID.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite (long format, one row per cell)
  - generic/store/memory.go: In-memory for testing

EXAMPLE:
  run := generic.NewRun("reference", result)
  if err := store.SaveRun(ctx, run); err != nil { ... }
  loaded, err := store.GetRun(ctx, run.ID)
  if generic.IsNotFound(err) { ... }

SEE ALSO:
  - engine.go: Result
  - store/sqlite/sqlite.go: Concrete implementation
*/
package generic

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RUN
// =============================================================================

// RunID identifies a persisted run.
type RunID string

// Run is one persisted generation.
type Run struct {
	ID        RunID
	Scenario  string
	Config    Config
	CreatedAt time.Time
	Table     *Table
	Applied   int // overlay rules applied
	Skipped   int // overlay rules skipped (year outside the table)
	Warnings  int
}

// NewRun wraps a generation result with a fresh ID.
func NewRun(scenario string, r *Result) Run {
	return Run{
		ID:        RunID(uuid.NewString()),
		Scenario:  scenario,
		Config:    r.Config,
		CreatedAt: time.Now().UTC(),
		Table:     r.Table,
		Applied:   len(r.Overlay.Applied),
		Skipped:   len(r.Overlay.Skipped),
		Warnings:  len(r.Warnings),
	}
}

// RunSummary is a Run without its table, for listings.
type RunSummary struct {
	ID        RunID
	Scenario  string
	Config    Config
	CreatedAt time.Time
	Rows      int
}

// Summary drops the table.
func (r Run) Summary() RunSummary {
	rows := 0
	if r.Table != nil {
		rows = r.Table.Len()
	}
	return RunSummary{ID: r.ID, Scenario: r.Scenario, Config: r.Config, CreatedAt: r.CreatedAt, Rows: rows}
}

// =============================================================================
// RUN STORE
// =============================================================================

// RunStore persists runs.
type RunStore interface {
	// SaveRun writes a run. Saving an existing ID is an error.
	SaveRun(ctx context.Context, run Run) error

	// GetRun returns the run or ErrRunNotFound.
	GetRun(ctx context.Context, id RunID) (Run, error)

	// ListRuns returns every run, newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)

	// DeleteRun removes a run or returns ErrRunNotFound.
	DeleteRun(ctx context.Context, id RunID) error
}

// HistoryStore is implemented by stores that can read one column across
// every stored run, for comparing scenarios.
type HistoryStore interface {
	AttributeHistory(ctx context.Context, a Attribute) (map[RunID]map[Year]float64, error)
}
