package factory

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

func TestParseScenario_Defaults(t *testing.T) {
	// GIVEN: An empty document
	// WHEN: Parsing it
	// THEN: The reference run configuration is returned
	s, err := NewScenarioFactory().ParseScenario(`{}`)
	require.NoError(t, err)

	assert.Equal(t, "custom", s.Name)
	assert.Equal(t, party.FirstYear, s.Config.Start)
	assert.Equal(t, party.LastYear, s.Config.End)
	assert.Equal(t, int64(42), s.Config.Seed)
	assert.Equal(t, 50000.0, s.Config.Bases.Members)
	assert.Equal(t, 8.0, s.Config.Bases.Budget)
	assert.False(t, s.Config.DisableEvents)
	assert.Empty(t, s.Config.ExtraRules)
}

func TestParseScenario_AllFields(t *testing.T) {
	// GIVEN: A document setting every field
	doc := `{
		"name": "what-if",
		"start_year": 1980,
		"end_year": 1990,
		"seed": 0,
		"members_base": 10000,
		"budget_base": 4,
		"disable_events": true,
		"extra_rules": [
			{"year": 1985, "attribute": "loans", "value": 3, "event": "bank loan"},
			{"year": 1986, "attribute": "national_seats", "op": "set", "value": 35}
		]
	}`

	// WHEN: Parsing it
	s, err := NewScenarioFactory().ParseScenario(doc)
	require.NoError(t, err)

	// THEN: Explicit zeros are kept and rules are resolved
	assert.Equal(t, "what-if", s.Name)
	assert.Equal(t, generic.Year(1980), s.Config.Start)
	assert.Equal(t, generic.Year(1990), s.Config.End)
	assert.Equal(t, int64(0), s.Config.Seed)
	assert.Equal(t, 10000.0, s.Config.Bases.Members)
	assert.Equal(t, 4.0, s.Config.Bases.Budget)
	assert.True(t, s.Config.DisableEvents)

	require.Len(t, s.Config.ExtraRules, 2)
	assert.Equal(t, generic.Multiply(1985, party.Loans, 3).Op, s.Config.ExtraRules[0].Op)
	assert.Equal(t, "bank loan", s.Config.ExtraRules[0].Event)
	assert.Equal(t, generic.OpSet, s.Config.ExtraRules[1].Op)
	assert.Equal(t, party.NationalSeats, s.Config.ExtraRules[1].Attribute)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target error
	}{
		{"inverted range", `{"start_year": 2000, "end_year": 1990}`, generic.ErrInvalidRange},
		{"zero members", `{"members_base": 0}`, generic.ErrNegativeBase},
		{"negative budget", `{"budget_base": -1}`, generic.ErrNegativeBase},
		{"unknown attribute", `{"extra_rules": [{"year": 1990, "attribute": "bitcoin", "value": 2}]}`, generic.ErrUnknownAttribute},
		{"unknown op", `{"extra_rules": [{"year": 1990, "attribute": "loans", "op": "add", "value": 2}]}`, generic.ErrInvalidRule},
	}

	f := NewScenarioFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseScenario(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.True(t, generic.IsConfigError(err))
		})
	}
}

func TestParseScenario_MalformedJSON(t *testing.T) {
	// GIVEN: Invalid JSON
	// WHEN: Parsing it
	// THEN: A parse error is returned, not a config error
	_, err := NewScenarioFactory().ParseScenario(`{"seed": `)
	require.Error(t, err)
	assert.False(t, generic.IsConfigError(err))
}

func TestToJSON_RoundTrip(t *testing.T) {
	// GIVEN: A scenario with an implicit-op rule
	f := NewScenarioFactory()
	cfg := party.DefaultConfig()
	cfg.Seed = 7
	cfg.ExtraRules = []generic.Rule{{Year: 2024, Attribute: party.Debt, Value: 0.5}}
	in := Scenario{Name: "halved-debt", Config: cfg}

	// WHEN: Encoding and parsing again
	data, err := json.Marshal(f.ToJSON(in))
	require.NoError(t, err)
	out, err := f.ParseScenario(string(data))
	require.NoError(t, err)

	// THEN: The configuration survives with the op made explicit
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Config.Seed, out.Config.Seed)
	require.Len(t, out.Config.ExtraRules, 1)
	assert.Equal(t, generic.OpMultiply, out.Config.ExtraRules[0].Op)
	assert.Contains(t, string(data), `"op":"multiply"`)
}
