/*
Package factory provides JSON to Go scenario conversion.

PURPOSE:
  Converts JSON scenario documents into a generic.Config plus a name. This
  lets analysts describe alternative runs (another seed, a shorter window,
  a doubled budget, extra what-if rules) without code changes.

JSON SCHEMA:
  {
    "name": "doubled-budget",
    "start_year": 1972,
    "end_year": 2025,
    "seed": 42,
    "members_base": 50000,
    "budget_base": 16,
    "disable_events": false,
    "extra_rules": [
      {"year": 2027, "attribute": "campaign_expenses", "op": "multiply", "value": 2.5, "event": "2027 campaign"}
    ]
  }

DEFAULTS:
  Every field is optional. Missing fields take the reference run values:
  1972-2025, seed 42, 50,000 members, 8 M€ budget, events enabled.
  An omitted op means "multiply".

VALIDATION:
  - rule attributes are resolved through the attribute registry
  - rule ops must be "multiply" or "set"
  - the resulting Config must pass Config.Validate

USAGE:
  factory := NewScenarioFactory()
  scenario, err := factory.ParseScenario(jsonString)
  result, err := generic.NewEngine(party.Model()).Generate(ctx, scenario.Config)

SEE ALSO:
  - generic/engine.go: Config
  - api/scenarios.go: Preset scenario documents
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the JSON representation of a run configuration.
// Pointer fields distinguish "absent" from an explicit zero.
type ScenarioJSON struct {
	Name          string     `json:"name"`
	StartYear     *int       `json:"start_year,omitempty"`
	EndYear       *int       `json:"end_year,omitempty"`
	Seed          *int64     `json:"seed,omitempty"`
	MembersBase   *float64   `json:"members_base,omitempty"`
	BudgetBase    *float64   `json:"budget_base,omitempty"`
	DisableEvents bool       `json:"disable_events,omitempty"`
	ExtraRules    []RuleJSON `json:"extra_rules,omitempty"`
}

// RuleJSON is one overlay rule.
type RuleJSON struct {
	Year      int     `json:"year"`
	Attribute string  `json:"attribute"`
	Op        string  `json:"op,omitempty"`
	Value     float64 `json:"value"`
	Event     string  `json:"event,omitempty"`
}

// Scenario is a named configuration.
type Scenario struct {
	Name   string
	Config generic.Config
}

// =============================================================================
// FACTORY
// =============================================================================

// ScenarioFactory creates configurations from JSON.
type ScenarioFactory struct {
	// Defaults fill every field the document leaves out.
	Defaults generic.Config
}

// NewScenarioFactory creates a factory defaulting to the reference run.
func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{Defaults: party.DefaultConfig()}
}

// ParseScenario parses a JSON string into a Scenario.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts ScenarioJSON to a validated Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (Scenario, error) {
	cfg := f.Defaults
	cfg.ExtraRules = nil

	if sj.StartYear != nil {
		cfg.Start = generic.Year(*sj.StartYear)
	}
	if sj.EndYear != nil {
		cfg.End = generic.Year(*sj.EndYear)
	}
	if sj.Seed != nil {
		cfg.Seed = *sj.Seed
	}
	if sj.MembersBase != nil {
		cfg.Bases.Members = *sj.MembersBase
	}
	if sj.BudgetBase != nil {
		cfg.Bases.Budget = *sj.BudgetBase
	}
	cfg.DisableEvents = sj.DisableEvents

	for i, rj := range sj.ExtraRules {
		rule, err := parseRule(rj, i)
		if err != nil {
			return Scenario{}, err
		}
		cfg.ExtraRules = append(cfg.ExtraRules, rule)
	}

	if err := cfg.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %q: %w", sj.Name, err)
	}

	name := sj.Name
	if name == "" {
		name = "custom"
	}
	return Scenario{Name: name, Config: cfg}, nil
}

// ToJSON converts a Scenario back to its JSON form. Every field is explicit.
func (f *ScenarioFactory) ToJSON(s Scenario) ScenarioJSON {
	start := int(s.Config.Start)
	end := int(s.Config.End)
	seed := s.Config.Seed
	members := s.Config.Bases.Members
	budget := s.Config.Bases.Budget

	sj := ScenarioJSON{
		Name:          s.Name,
		StartYear:     &start,
		EndYear:       &end,
		Seed:          &seed,
		MembersBase:   &members,
		BudgetBase:    &budget,
		DisableEvents: s.Config.DisableEvents,
	}
	for _, r := range s.Config.ExtraRules {
		op := string(r.Op)
		if op == "" {
			op = string(generic.OpMultiply)
		}
		sj.ExtraRules = append(sj.ExtraRules, RuleJSON{
			Year:      int(r.Year),
			Attribute: string(r.Attribute),
			Op:        op,
			Value:     r.Value,
			Event:     r.Event,
		})
	}
	return sj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseRule(rj RuleJSON, i int) (generic.Rule, error) {
	attr, err := generic.ResolveAttribute(rj.Attribute, fmt.Sprintf("extra_rules[%d]", i))
	if err != nil {
		return generic.Rule{}, err
	}
	rule := generic.Rule{
		Year:      generic.Year(rj.Year),
		Attribute: attr,
		Op:        parseOp(rj.Op),
		Value:     rj.Value,
		Event:     rj.Event,
	}
	if err := rule.Validate(); err != nil {
		return generic.Rule{}, fmt.Errorf("extra_rules[%d]: %w", i, err)
	}
	return rule, nil
}

func parseOp(s string) generic.Op {
	switch s {
	case "", "multiply", "mul", "x":
		return generic.OpMultiply
	case "set", "=":
		return generic.OpSet
	default:
		// Left as-is so Rule.Validate reports it.
		return generic.Op(s)
	}
}
