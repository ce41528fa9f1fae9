/*
handlers.go - HTTP API handlers for the finance history generator

PURPOSE:
  Exposes generation, persistence and reporting via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine, the
  run store and the report package.

ENDPOINTS:
  Metadata:
    GET    /api/attributes               Column metadata in table order
    GET    /api/attributes/{name}/history  One column across every stored run
    GET    /api/events                   Historical events and their rules

  Scenarios:
    GET    /api/scenarios                List preset scenarios
    POST   /api/scenarios/{name}/run     Generate and store a preset

  Runs:
    POST   /api/runs                     Generate and store from scenario JSON
    GET    /api/runs                     List stored runs, newest first
    GET    /api/runs/{id}                Run with its full table
    DELETE /api/runs/{id}                Delete a run
    GET    /api/runs/{id}/table.csv      Table as CSV
    GET    /api/runs/{id}/summary        Report (JSON, or ?format=md)
    GET    /api/runs/{id}/panels         Chart datasets (?key= for one panel)
    GET    /api/runs/{id}/verify         Regenerate and compare with the stored table

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Run persistence (SQLite in production, memory in tests)
  - Engine: Generation pipeline over the party model
  - Factory: Scenario JSON to Config conversion

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (factory)
  3. Generate (engine) and persist (store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON {error, details} with appropriate HTTP status:
  - 400: Invalid scenario JSON or configuration
  - 404: Unknown run, scenario or attribute
  - 409: Duplicate run ID
  - 500: Internal errors
  - 501: Store cannot read attribute history

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Preset scenarios
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/warp/partyfin/factory"
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
	"github.com/warp/partyfin/report"
)

// ErrUnknownScenario is returned when a preset ID doesn't exist.
var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   generic.RunStore
	Engine  *generic.Engine
	Factory *factory.ScenarioFactory
	Logger  *log.Logger
}

// NewHandler creates a new handler generating the party model into store.
func NewHandler(store generic.RunStore) *Handler {
	return &Handler{
		Store:   store,
		Engine:  generic.NewEngine(party.Model()),
		Factory: factory.NewScenarioFactory(),
		Logger:  log.Default(),
	}
}

// generate runs the engine on a scenario and persists the result.
func (h *Handler) generate(ctx context.Context, s factory.Scenario) (generic.Run, error) {
	result, err := h.Engine.Generate(ctx, s.Config)
	if err != nil {
		return generic.Run{}, err
	}
	run := generic.NewRun(s.Name, result)
	if err := h.Store.SaveRun(ctx, run); err != nil {
		return generic.Run{}, err
	}
	h.Logger.Printf("[api] run %s saved: scenario=%s years=%d-%d seed=%d applied=%d skipped=%d warnings=%d request=%s",
		run.ID, run.Scenario, s.Config.Start, s.Config.End, s.Config.Seed,
		run.Applied, run.Skipped, run.Warnings, middleware.GetReqID(ctx))
	return run, nil
}

// =============================================================================
// METADATA HANDLERS
// =============================================================================

// ListAttributes returns the column metadata in table order.
func (h *Handler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	dtos := make([]AttributeDTO, 0, len(h.Engine.Model.Columns))
	for _, c := range h.Engine.Model.Columns {
		dtos = append(dtos, toAttributeDTO(c.Info))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAttributeHistory compares one column across every stored run.
func (h *Handler) GetAttributeHistory(w http.ResponseWriter, r *http.Request) {
	info, ok := h.Engine.Model.Info(generic.Attribute(chi.URLParam(r, "name")))
	if !ok {
		writeError(w, http.StatusNotFound, "Attribute not found", nil)
		return
	}
	hs, ok := h.Store.(generic.HistoryStore)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Store does not support history", nil)
		return
	}

	history, err := hs.AttributeHistory(r.Context(), info.Name)
	if err != nil {
		writeFailure(w, "Failed to load history", err)
		return
	}
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeFailure(w, "Failed to list runs", err)
		return
	}

	dto := AttributeHistoryDTO{Attribute: toAttributeDTO(info), Runs: make([]RunHistoryDTO, 0, len(runs))}
	for _, run := range runs {
		if values, ok := history[run.ID]; ok {
			dto.Runs = append(dto.Runs, toRunHistoryDTO(run, values))
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListEvents returns the historical events with the rules they apply.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events := party.Events()
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = toEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// CreateRun generates and stores a run from a scenario JSON body.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var sj factory.ScenarioJSON
	if err := json.NewDecoder(r.Body).Decode(&sj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario JSON", err)
		return
	}

	s, err := h.Factory.FromJSON(sj)
	if err != nil {
		writeFailure(w, "Invalid scenario", err)
		return
	}

	run, err := h.generate(r.Context(), s)
	if err != nil {
		writeFailure(w, "Failed to generate run", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

// ListRuns returns all stored runs, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunSummaryDTO, len(runs))
	for i, s := range runs {
		dtos[i] = toRunSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns a run with its full table.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

// DeleteRun removes a run.
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := generic.RunID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteRun(r.Context(), id); err != nil {
		writeFailure(w, "Failed to delete run", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRunCSV streams the run's table as CSV.
func (h *Handler) GetRunCSV(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(run.ID)+`.csv"`)
	if err := report.WriteCSV(w, run.Table); err != nil {
		// Headers are gone; all we can do is log.
		h.Logger.Printf("[api] ERROR: writing CSV for run %s: %v", run.ID, err)
	}
}

// GetRunSummary returns the summary report of a run.
func (h *Handler) GetRunSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	rep, err := report.Build(run.Scenario, run.Table)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize run", err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == "json" {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	renderer, err := report.NewRenderer(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format", err)
		return
	}
	out, err := renderer.Render(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// GetRunPanels returns the chart datasets of a run.
func (h *Handler) GetRunPanels(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	panels, err := report.Panels(run.Table)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build panels", err)
		return
	}

	if key := r.URL.Query().Get("key"); key != "" {
		p, ok := report.PanelByKey(panels, key)
		if !ok {
			writeError(w, http.StatusNotFound, "Panel not found", nil)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeJSON(w, http.StatusOK, panels)
}

// VerifyRun regenerates a run from its stored configuration and compares
// the tables cell for cell.
func (h *Handler) VerifyRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	result, err := h.Engine.Generate(r.Context(), run.Config)
	if err != nil {
		writeFailure(w, "Failed to regenerate run", err)
		return
	}

	reproducible := result.Table.Equal(run.Table)
	if !reproducible {
		h.Logger.Printf("[api] WARN: run %s does not regenerate from its configuration", run.ID)
	}
	writeJSON(w, http.StatusOK, VerifyDTO{ID: string(run.ID), Reproducible: reproducible})
}

// loadRun fetches the {id} run, writing the error response on failure.
func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (generic.Run, bool) {
	id := generic.RunID(chi.URLParam(r, "id"))
	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		writeFailure(w, "Failed to load run", err)
		return generic.Run{}, false
	}
	return run, true
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeFailure maps err to a status code.
func writeFailure(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err), errors.Is(err, ErrUnknownScenario):
		return http.StatusNotFound
	case generic.IsConfigError(err):
		return http.StatusBadRequest
	case errors.Is(err, generic.ErrDuplicateRun):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
