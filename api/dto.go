/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal model (generic.Run, generic.Table) from the external API
  contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - Request bodies reuse factory.ScenarioJSON

TYPES:
  Metadata:
    AttributeDTO, EventDTO, RuleDTO

  Scenarios:
    ScenarioDTO

  Runs:
    RunSummaryDTO, RunDTO, RowDTO

VALIDATION:
  Validation is done by the factory and the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scenario.go: ScenarioJSON type
*/
package api

import (
	"time"

	"github.com/warp/partyfin/factory"
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

// =============================================================================
// METADATA
// =============================================================================

// AttributeDTO describes one table column.
type AttributeDTO struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Signed   bool   `json:"signed"`
}

// RuleDTO is one overlay rule.
type RuleDTO struct {
	Year      int     `json:"year"`
	Attribute string  `json:"attribute"`
	Op        string  `json:"op"`
	Value     float64 `json:"value"`
}

// EventDTO is one historical event and its rules.
type EventDTO struct {
	Year      int       `json:"year"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Annotated bool      `json:"annotated"`
	Rules     []RuleDTO `json:"rules"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a preset scenario.
type ScenarioDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Config      factory.ScenarioJSON `json:"config"`
}

// =============================================================================
// RUNS
// =============================================================================

// RunSummaryDTO is a run in listings.
type RunSummaryDTO struct {
	ID            string  `json:"id"`
	Scenario      string  `json:"scenario"`
	StartYear     int     `json:"start_year"`
	EndYear       int     `json:"end_year"`
	Seed          int64   `json:"seed"`
	MembersBase   float64 `json:"members_base"`
	BudgetBase    float64 `json:"budget_base"`
	DisableEvents bool    `json:"disable_events"`
	Rows          int     `json:"rows"`
	CreatedAt     string  `json:"created_at"`
}

// RowDTO is one year of a table.
type RowDTO struct {
	Year   int       `json:"year"`
	Values []float64 `json:"values"`
}

// RunDTO is a full run including its table.
type RunDTO struct {
	RunSummaryDTO
	Applied  int      `json:"applied_rules"`
	Skipped  int      `json:"skipped_rules"`
	Warnings int      `json:"warnings"`
	Columns  []string `json:"columns"`
	Table    []RowDTO `json:"table"`
}

// VerifyDTO reports whether a stored run regenerates bit-for-bit from its
// configuration.
type VerifyDTO struct {
	ID           string `json:"id"`
	Reproducible bool   `json:"reproducible"`
}

// =============================================================================
// HISTORY
// =============================================================================

// PointDTO is one year of one attribute.
type PointDTO struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// RunHistoryDTO is one run's values for an attribute.
type RunHistoryDTO struct {
	RunID    string     `json:"run_id"`
	Scenario string     `json:"scenario"`
	Seed     int64      `json:"seed"`
	Points   []PointDTO `json:"points"`
}

// AttributeHistoryDTO compares one attribute across stored runs, newest
// run first.
type AttributeHistoryDTO struct {
	Attribute AttributeDTO    `json:"attribute"`
	Runs      []RunHistoryDTO `json:"runs"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toAttributeDTO(info generic.AttributeInfo) AttributeDTO {
	return AttributeDTO{
		Name:     string(info.Name),
		Label:    info.Label,
		Unit:     string(info.Unit),
		Category: string(info.Category),
		Signed:   info.Sign == generic.SignSigned,
	}
}

func toRuleDTO(r generic.Rule) RuleDTO {
	op := string(r.Op)
	if op == "" {
		op = string(generic.OpMultiply)
	}
	return RuleDTO{Year: int(r.Year), Attribute: string(r.Attribute), Op: op, Value: r.Value}
}

func toEventDTO(e party.Event) EventDTO {
	dto := EventDTO{
		Year:      int(e.Year),
		Key:       e.Key,
		Label:     e.Label,
		Annotated: e.Annotated,
		Rules:     make([]RuleDTO, len(e.Rules)),
	}
	for i, r := range e.Rules {
		dto.Rules[i] = toRuleDTO(r)
	}
	return dto
}

func toRunSummaryDTO(s generic.RunSummary) RunSummaryDTO {
	return RunSummaryDTO{
		ID:            string(s.ID),
		Scenario:      s.Scenario,
		StartYear:     int(s.Config.Start),
		EndYear:       int(s.Config.End),
		Seed:          s.Config.Seed,
		MembersBase:   s.Config.Bases.Members,
		BudgetBase:    s.Config.Bases.Budget,
		DisableEvents: s.Config.DisableEvents,
		Rows:          s.Rows,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}

func toRunDTO(run generic.Run) RunDTO {
	dto := RunDTO{
		RunSummaryDTO: toRunSummaryDTO(run.Summary()),
		Applied:       run.Applied,
		Skipped:       run.Skipped,
		Warnings:      run.Warnings,
	}
	if run.Table == nil {
		return dto
	}
	dto.Columns = make([]string, len(run.Table.Columns))
	for i, c := range run.Table.Columns {
		dto.Columns[i] = string(c)
	}
	dto.Table = make([]RowDTO, len(run.Table.Rows))
	for i, r := range run.Table.Rows {
		dto.Table[i] = RowDTO{Year: int(r.Year), Values: r.Values}
	}
	return dto
}

func toRunHistoryDTO(s generic.RunSummary, values map[generic.Year]float64) RunHistoryDTO {
	dto := RunHistoryDTO{
		RunID:    string(s.ID),
		Scenario: s.Scenario,
		Seed:     s.Config.Seed,
		Points:   make([]PointDTO, 0, len(values)),
	}
	for y := s.Config.Start; y <= s.Config.End; y++ {
		if v, ok := values[y]; ok {
			dto.Points = append(dto.Points, PointDTO{Year: int(y), Value: v})
		}
	}
	return dto
}
