// Package store provides RunStore implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/partyfin/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	runs map[generic.RunID]generic.Run
}

var (
	_ generic.RunStore     = (*Memory)(nil)
	_ generic.HistoryStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{runs: make(map[generic.RunID]generic.Run)}
}

// SaveRun stores a deep copy of the run.
func (m *Memory) SaveRun(_ context.Context, run generic.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("%w: %s", generic.ErrDuplicateRun, run.ID)
	}
	m.runs[run.ID] = copyRun(run)
	return nil
}

func (m *Memory) GetRun(_ context.Context, id generic.RunID) (generic.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return generic.Run{}, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	return copyRun(run), nil
}

// ListRuns returns summaries, newest first. Ties break on ID so the order
// is stable.
func (m *Memory) ListRuns(_ context.Context) ([]generic.RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.RunSummary, 0, len(m.runs))
	for _, run := range m.runs {
		result = append(result, run.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeleteRun(_ context.Context, id generic.RunID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[id]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	delete(m.runs, id)
	return nil
}

// AttributeHistory returns one attribute of every run that has the column.
func (m *Memory) AttributeHistory(_ context.Context, a generic.Attribute) (map[generic.RunID]map[generic.Year]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[generic.RunID]map[generic.Year]float64)
	for id, run := range m.runs {
		if run.Table == nil {
			continue
		}
		j, ok := run.Table.ColumnIndex(a)
		if !ok {
			continue
		}
		values := make(map[generic.Year]float64, run.Table.Len())
		for _, r := range run.Table.Rows {
			values[r.Year] = r.Values[j]
		}
		result[id] = values
	}
	return result, nil
}

// copyRun detaches the stored table from the caller's.
func copyRun(run generic.Run) generic.Run {
	if run.Table != nil {
		run.Table = run.Table.Clone()
	}
	run.Config.ExtraRules = append([]generic.Rule(nil), run.Config.ExtraRules...)
	return run
}
