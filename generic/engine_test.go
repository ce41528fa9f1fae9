package generic_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/partyfin/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testModel() generic.Model {
	return generic.Model{
		Name: "test",
		Columns: []generic.Column{
			{
				Info: generic.AttributeInfo{Name: "members", Unit: generic.UnitPeople},
				Synth: generic.Curve{
					Base:   generic.OfMembers(1),
					Growth: generic.Positional{Rates: generic.BandTable{Name: "members.growth", Bands: []generic.Band{generic.Since(1972, 0.1)}, Default: 0.1}, Per: 4},
					Sigma:  0.1,
				},
			},
			{
				Info:  generic.AttributeInfo{Name: "revenue", Unit: generic.UnitMillionEUR},
				Synth: generic.Curve{Base: generic.OfBudget(1), Sigma: 0.12},
			},
			{
				Info:  generic.AttributeInfo{Name: "seats", Unit: generic.UnitSeats},
				Synth: generic.Discrete{Results: []generic.YearValues{{Values: map[generic.Year]float64{1986: 35}}}},
			},
		},
		Rules: []generic.Rule{
			{Year: 1972, Attribute: "members", Value: 0.8, Event: "founding"},
			{Year: 2022, Attribute: "seats", Op: generic.OpSet, Value: 89, Event: "legislative"},
		},
	}
}

func testConfig() generic.Config {
	return generic.Config{
		Start: 1972,
		End:   2025,
		Seed:  42,
		Bases: generic.Bases{Members: 50000, Budget: 8},
	}
}

func testEngine() *generic.Engine {
	e := generic.NewEngine(testModel())
	e.Logger, _ = quietLogger()
	return e
}

// =============================================================================
// CONFIG / MODEL VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	assert.NoError(t, cfg.Validate())

	cfg.End = 1971
	assert.ErrorIs(t, cfg.Validate(), generic.ErrInvalidRange)

	cfg = testConfig()
	cfg.Bases.Members = -1
	assert.ErrorIs(t, cfg.Validate(), generic.ErrNegativeBase)

	cfg = testConfig()
	cfg.Bases.Budget = 0
	assert.ErrorIs(t, cfg.Validate(), generic.ErrNegativeBase)
}

func TestConfig_Validate_BoundsYearRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end generic.Year
		ok         bool
	}{
		{"reference", 1972, 2025, true},
		{"longest allowed", 1026, 2025, true},
		{"one year too many", 1025, 2025, false},
		{"billions of years", -2000000000, 2000000000, false},
		{"year zero", 0, 10, false},
		{"past 9999", 9990, 10000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Start, cfg.End = tt.start, tt.end
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, generic.ErrInvalidRange)
		})
	}
}

func TestConfig_Validate_NonFiniteBase(t *testing.T) {
	cfg := testConfig()
	cfg.Bases.Budget = math.Inf(1)
	assert.ErrorIs(t, cfg.Validate(), generic.ErrNegativeBase)

	cfg = testConfig()
	cfg.Bases.Members = math.NaN()
	assert.ErrorIs(t, cfg.Validate(), generic.ErrNegativeBase)
}

func TestModel_Validate(t *testing.T) {
	assert.ErrorIs(t, generic.Model{}.Validate(), generic.ErrEmptyModel)

	dup := testModel()
	dup.Columns = append(dup.Columns, dup.Columns[0])
	assert.ErrorIs(t, dup.Validate(), generic.ErrDuplicateAttribute)

	unknown := testModel()
	unknown.Rules = append(unknown.Rules, generic.Multiply(1990, "debt", 2))
	assert.ErrorIs(t, unknown.Validate(), generic.ErrUnknownAttribute)
}

func TestGenerate_InvalidConfig_NothingGenerated(t *testing.T) {
	cfg := testConfig()
	cfg.Start, cfg.End = 2025, 1972

	result, err := testEngine().Generate(context.Background(), cfg)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
}

func TestGenerate_ExtraRuleUnknownAttribute_Rejected(t *testing.T) {
	cfg := testConfig()
	cfg.ExtraRules = []generic.Rule{generic.Multiply(1990, "debt", 2)}

	_, err := testEngine().Generate(context.Background(), cfg)
	assert.ErrorIs(t, err, generic.ErrUnknownAttribute)
}

func TestGenerate_OverflowingRule_Rejected(t *testing.T) {
	// GIVEN: An extra rule whose product overflows
	cfg := testConfig()
	cfg.ExtraRules = []generic.Rule{generic.Multiply(2000, "revenue", 1e308)}

	// WHEN: Generating
	result, err := testEngine().Generate(context.Background(), cfg)

	// THEN: No table is produced
	assert.Nil(t, result)
	assert.ErrorIs(t, err, generic.ErrInvalidRule)
}

func TestGenerate_OverflowingBase_Rejected(t *testing.T) {
	// GIVEN: A finite budget base at the float64 limit; any noise above 1
	// overflows
	cfg := testConfig()
	cfg.Bases.Budget = math.MaxFloat64

	// WHEN: Generating
	result, err := testEngine().Generate(context.Background(), cfg)

	// THEN: The non-finite cells are reported instead of returned
	assert.Nil(t, result)
	require.ErrorIs(t, err, generic.ErrNonFiniteValue)
	assert.True(t, generic.IsConfigError(err))
}

// =============================================================================
// PIPELINE
// =============================================================================

func TestGenerate_TableShape(t *testing.T) {
	for _, r := range []generic.YearRange{generic.Span(1972, 2025), generic.Span(1972, 1975), generic.Span(2000, 2000)} {
		cfg := testConfig()
		cfg.Start, cfg.End = r.From, r.To

		result, err := testEngine().Generate(context.Background(), cfg)
		require.NoError(t, err)

		require.Equal(t, r.Len(), result.Table.Len())
		for i, row := range result.Table.Rows {
			assert.Equal(t, r.From+generic.Year(i), row.Year)
			assert.Len(t, row.Values, 3)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	// GIVEN: The same seed twice
	a, err := testEngine().Generate(context.Background(), testConfig())
	require.NoError(t, err)
	b, err := testEngine().Generate(context.Background(), testConfig())
	require.NoError(t, err)

	// THEN: Bit-identical tables
	assert.True(t, a.Table.Equal(b.Table))

	// AND: A different seed differs
	cfg := testConfig()
	cfg.Seed = 43
	c, err := testEngine().Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, a.Table.Equal(c.Table))
}

func TestGenerate_SequentialMatchesConcurrent(t *testing.T) {
	concurrent, err := testEngine().Generate(context.Background(), testConfig())
	require.NoError(t, err)

	seq := testEngine()
	seq.Sequential = true
	sequential, err := seq.Generate(context.Background(), testConfig())
	require.NoError(t, err)

	assert.True(t, concurrent.Table.Equal(sequential.Table))
}

func TestGenerate_ColumnStreamsIndependentOfColumnOrder(t *testing.T) {
	// GIVEN: The same model with its columns reversed
	reversed := testModel()
	cols := reversed.Columns
	reversed.Columns = []generic.Column{cols[2], cols[1], cols[0]}
	e := generic.NewEngine(reversed)
	e.Logger, _ = quietLogger()

	a, err := testEngine().Generate(context.Background(), testConfig())
	require.NoError(t, err)
	b, err := e.Generate(context.Background(), testConfig())
	require.NoError(t, err)

	// THEN: Each column holds the same values
	for _, attr := range []generic.Attribute{"members", "revenue", "seats"} {
		assert.Equal(t, a.Table.Column(attr), b.Table.Column(attr), "column %s", attr)
	}
}

func TestGenerate_OverlayAfterSynthesis(t *testing.T) {
	// GIVEN: 1972-1975 with the founding rule active
	cfg := testConfig()
	cfg.End = 1975

	result, err := testEngine().Generate(context.Background(), cfg)
	require.NoError(t, err)

	// THEN: The final cell is exactly 0.8x the raw synthesizer output
	raw, _ := result.Raw.Value(1972, "members")
	final, _ := result.Table.Value(1972, "members")
	assert.Equal(t, raw*0.8, final)

	// AND: The 2022 rule was skipped, not an error
	require.Len(t, result.Overlay.Skipped, 1)
	assert.Equal(t, generic.Year(2022), result.Overlay.Skipped[0].Year)
	assert.Len(t, result.Overlay.Applied, 1)
}

func TestGenerate_SetRuleIgnoresNoise(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		cfg := testConfig()
		cfg.Seed = seed
		result, err := testEngine().Generate(context.Background(), cfg)
		require.NoError(t, err)

		seats, ok := result.Table.Value(2022, "seats")
		require.True(t, ok)
		assert.Equal(t, 89.0, seats)
	}
}

func TestGenerate_DisableEvents_KeepsExtraRules(t *testing.T) {
	cfg := testConfig()
	cfg.DisableEvents = true
	cfg.ExtraRules = []generic.Rule{generic.Set(1990, "revenue", 1)}

	result, err := testEngine().Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, result.Overlay.Applied, 1)
	raw, _ := result.Raw.Value(1972, "members")
	final, _ := result.Table.Value(1972, "members")
	assert.Equal(t, raw, final)
	v, _ := result.Table.Value(1990, "revenue")
	assert.Equal(t, 1.0, v)
}

func TestGenerate_OutOfBandYears_Warned(t *testing.T) {
	// GIVEN: A range starting before the first growth band
	cfg := testConfig()
	cfg.Start, cfg.End = 1970, 1973
	e := testEngine()
	logger, buf := quietLogger()
	e.Logger = logger

	result, err := e.Generate(context.Background(), cfg)
	require.NoError(t, err)

	// THEN: 1970 and 1971 resolve through the default and are reported
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, generic.Attribute("members"), result.Warnings[0].Attribute)
	assert.Equal(t, "members.growth", result.Warnings[0].Table)
	assert.Contains(t, buf.String(), "[engine] WARN")
}

func TestGenerate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, sequential := range []bool{false, true} {
		e := testEngine()
		e.Sequential = sequential
		_, err := e.Generate(ctx, testConfig())
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestModel_Coverage(t *testing.T) {
	covs := testModel().Coverage(generic.Span(1972, 2025))
	require.Len(t, covs, 1)
	assert.True(t, covs[0].Complete())

	covs = testModel().Coverage(generic.Span(1960, 2025))
	assert.Equal(t, []generic.YearRange{generic.Span(1960, 1971)}, covs[0].Gaps)
}
