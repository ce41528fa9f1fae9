package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func generateRun(t *testing.T, scenario string, cfg generic.Config) generic.Run {
	t.Helper()
	engine := generic.NewEngine(party.Model())
	result, err := engine.Generate(context.Background(), cfg)
	require.NoError(t, err)
	return generic.NewRun(scenario, result)
}

func TestStore_SaveAndGet_RoundTrip(t *testing.T) {
	// GIVEN: A full reference run with an extra rule
	store := newTestStore(t)
	ctx := context.Background()
	cfg := party.DefaultConfig()
	cfg.ExtraRules = []generic.Rule{generic.Set(2024, party.Debt, 1.5)}
	run := generateRun(t, "reference", cfg)

	// WHEN: Saving and loading it
	require.NoError(t, store.SaveRun(ctx, run))
	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)

	// THEN: Every cell, the column order and the configuration survive
	assert.True(t, got.Table.Equal(run.Table), "table must be bit-identical")
	assert.Equal(t, run.Table.Columns, got.Table.Columns)
	assert.Equal(t, run.Scenario, got.Scenario)
	assert.Equal(t, run.Config.Seed, got.Config.Seed)
	assert.Equal(t, run.Config.Bases, got.Config.Bases)
	assert.Equal(t, run.Applied, got.Applied)
	require.Len(t, got.Config.ExtraRules, 1)
	assert.Equal(t, generic.OpSet, got.Config.ExtraRules[0].Op)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_GetRun_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, generic.IsNotFound(err))
}

func TestStore_DuplicateID_Rejected(t *testing.T) {
	// GIVEN: A stored run
	store := newTestStore(t)
	ctx := context.Background()
	cfg := party.DefaultConfig()
	cfg.Start, cfg.End = 1972, 1975
	run := generateRun(t, "founding", cfg)
	require.NoError(t, store.SaveRun(ctx, run))

	// WHEN: Saving the same ID again
	err := store.SaveRun(ctx, run)

	// THEN: It is rejected and the original is intact
	assert.ErrorIs(t, err, generic.ErrDuplicateRun)
	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Table.Len())
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	// GIVEN: Two runs created a minute apart
	store := newTestStore(t)
	ctx := context.Background()
	cfg := party.DefaultConfig()
	cfg.Start, cfg.End = 2000, 2004

	older := generateRun(t, "older", cfg)
	older.CreatedAt = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := generateRun(t, "newer", cfg)
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)
	require.NoError(t, store.SaveRun(ctx, older))
	require.NoError(t, store.SaveRun(ctx, newer))

	// WHEN: Listing
	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)

	// THEN: The newer run comes first and row counts are reported
	require.Len(t, runs, 2)
	assert.Equal(t, "newer", runs[0].Scenario)
	assert.Equal(t, "older", runs[1].Scenario)
	assert.Equal(t, 5, runs[0].Rows)
}

func TestStore_DeleteRun_RemovesCells(t *testing.T) {
	// GIVEN: A stored run
	store := newTestStore(t)
	ctx := context.Background()
	cfg := party.DefaultConfig()
	cfg.Start, cfg.End = 2020, 2022
	run := generateRun(t, "short", cfg)
	require.NoError(t, store.SaveRun(ctx, run))

	// WHEN: Deleting it
	require.NoError(t, store.DeleteRun(ctx, run.ID))

	// THEN: The run and its cells are gone
	_, err := store.GetRun(ctx, run.ID)
	assert.True(t, generic.IsNotFound(err))

	var cells int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM run_values WHERE run_id = ?", string(run.ID)).Scan(&cells))
	assert.Zero(t, cells)

	err = store.DeleteRun(ctx, run.ID)
	assert.True(t, generic.IsNotFound(err))
}

func TestStore_AttributeHistory(t *testing.T) {
	// GIVEN: Two runs over 2022 with different seeds
	store := newTestStore(t)
	ctx := context.Background()
	cfg := party.DefaultConfig()
	cfg.Start, cfg.End = 2021, 2023

	a := generateRun(t, "a", cfg)
	cfg.Seed = 7
	b := generateRun(t, "b", cfg)
	require.NoError(t, store.SaveRun(ctx, a))
	require.NoError(t, store.SaveRun(ctx, b))

	// WHEN: Querying national seats across runs
	history, err := store.AttributeHistory(ctx, party.NationalSeats)
	require.NoError(t, err)

	// THEN: Both runs report the 2022 seat count
	require.Len(t, history, 2)
	assert.Equal(t, 89.0, history[a.ID][2022])
	assert.Equal(t, 89.0, history[b.ID][2022])
}
