/*
scenarios.go - Preset scenarios for demonstrations and comparisons

PURPOSE:

	Provides named run configurations that can be generated with one call.
	Each preset is a scenario JSON document parsed by the factory, exactly
	like a document POSTed to /api/runs.

AVAILABLE SCENARIOS:

	reference:      1972-2025, seed 42, reference bases, all events
	founding:       The first four years only (1972-1975)
	no-events:      Reference run without the historical overlay
	doubled-budget: Reference run with a 16 M€ budget base

USAGE VIA API:

	GET  /api/scenarios
	POST /api/scenarios/founding/run

ADDING NEW SCENARIOS:
 1. Add to 'presets' with ID, name, description and JSON document
 2. Nothing else: handlers and the CLI look presets up by ID

SEE ALSO:
  - handlers.go: RunScenario, ListScenarios handlers
  - factory/scenario.go: Scenario JSON definitions
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/partyfin/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type preset struct {
	ID          string
	Name        string
	Description string
	JSON        string
}

var presets = []preset{
	{
		ID:          "reference",
		Name:        "Reference",
		Description: "Full 1972-2025 history with every historical event",
		JSON:        `{"name": "reference"}`,
	},
	{
		ID:          "founding",
		Name:        "Founding Years",
		Description: "The first four years, 1972-1975, including the founding adjustments",
		JSON:        `{"name": "founding", "start_year": 1972, "end_year": 1975}`,
	},
	{
		ID:          "no-events",
		Name:        "Without Events",
		Description: "Reference history with the historical overlay disabled",
		JSON:        `{"name": "no-events", "disable_events": true}`,
	},
	{
		ID:          "doubled-budget",
		Name:        "Doubled Budget",
		Description: "Reference history with a 16 M€ budget base",
		JSON:        `{"name": "doubled-budget", "budget_base": 16}`,
	},
}

// ScenarioIDs lists the preset IDs in display order.
func ScenarioIDs() []string {
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
	}
	return ids
}

// LookupScenario parses the preset with the given ID.
func LookupScenario(f *factory.ScenarioFactory, id string) (factory.Scenario, error) {
	for _, p := range presets {
		if p.ID == id {
			return f.ParseScenario(p.JSON)
		}
	}
	return factory.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
}

// ListScenarios returns available scenarios with their resolved configuration.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, 0, len(presets))
	for _, p := range presets {
		s, err := h.Factory.ParseScenario(p.JSON)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Invalid preset "+p.ID, err)
			return
		}
		dtos = append(dtos, ScenarioDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Config:      h.Factory.ToJSON(s),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunScenario generates and stores a run of a preset scenario.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "name")
	s, err := LookupScenario(h.Factory, id)
	if err != nil {
		writeFailure(w, "Unknown scenario", err)
		return
	}

	// An optional body overrides the seed of the preset.
	var req struct {
		Seed *int64 `json:"seed"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	if req.Seed != nil {
		s.Config.Seed = *req.Seed
	}

	run, err := h.generate(r.Context(), s)
	if err != nil {
		writeFailure(w, "Failed to run scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunDTO(run))
}
