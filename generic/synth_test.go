package generic_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/partyfin/generic"
)

func years(t *testing.T, start, end generic.Year) generic.Years {
	t.Helper()
	ys, err := generic.NewYears(start, end)
	require.NoError(t, err)
	return ys
}

// =============================================================================
// CURVE
// =============================================================================

func TestCurve_Positional_Noiseless(t *testing.T) {
	// GIVEN: base 10, rate 0.5 up to 2000 and the default (1.0) after, K = 2
	curve := generic.Curve{
		Base: generic.Absolute(10),
		Growth: generic.Positional{
			Rates: generic.BandTable{Name: "r", Bands: []generic.Band{generic.Upto(2000, 0.5)}, Default: 1},
			Per:   2,
		},
	}

	// WHEN: Synthesizing 2000-2002 with no random source
	series, warnings := curve.Synthesize(generic.Input{Attribute: "x", Years: years(t, 2000, 2002)})

	// THEN: value = base * (1 + rate * i/K)
	require.Len(t, series, 3)
	assert.InDelta(t, 10.0, series[0], 1e-12)
	assert.InDelta(t, 15.0, series[1], 1e-12)
	assert.InDelta(t, 20.0, series[2], 1e-12)

	// AND: the two uncovered years are flagged
	require.Len(t, warnings, 2)
	assert.Equal(t, generic.Warning{Attribute: "x", Table: "r", Year: 2001}, warnings[0])
	assert.Equal(t, generic.Year(2002), warnings[1].Year)
}

func TestCurve_Anchored_FlatBeforeAnchor(t *testing.T) {
	curve := generic.Curve{Base: generic.Absolute(1), Growth: generic.Anchored{From: 2000, Rate: 0.1}}
	series, warnings := curve.Synthesize(generic.Input{Years: generic.Years{1990, 2000, 2010, 2020}})

	assert.Empty(t, warnings)
	assert.InDelta(t, 1.0, series[0], 1e-12)
	assert.InDelta(t, 1.0, series[1], 1e-12)
	assert.InDelta(t, 1.1, series[2], 1e-12)
	assert.InDelta(t, 1.2, series[3], 1e-12)
}

func TestCurve_MultipliersCompose(t *testing.T) {
	// GIVEN: A level band (0.8 then 1.5) and a special-year set (x2 in 2012)
	curve := generic.Curve{
		Base: generic.OfBudget(0.5),
		Multipliers: []generic.Multiplier{
			generic.BandTable{Name: "level", Bands: []generic.Band{generic.Upto(2010, 0.8), generic.Since(2011, 1.5)}},
			generic.Special("presidential", 2, 2012),
		},
	}

	series, _ := curve.Synthesize(generic.Input{
		Years: generic.Years{2010, 2011, 2012},
		Bases: generic.Bases{Budget: 8},
	})

	assert.InDelta(t, 4*0.8, series[0], 1e-12)
	assert.InDelta(t, 4*1.5, series[1], 1e-12)
	assert.InDelta(t, 4*1.5*2, series[2], 1e-12)
}

func TestCurve_BaseScalesProportionally(t *testing.T) {
	// GIVEN: The same curve and seed under two budget bases
	curve := generic.Curve{Base: generic.OfBudget(0.25), Growth: generic.Anchored{From: 1990, Rate: 0.06}, Sigma: 0.15}
	ys := years(t, 1972, 2025)

	a, _ := curve.Synthesize(generic.Input{Years: ys, Bases: generic.Bases{Budget: 8}, Rand: rand.New(rand.NewSource(7))})
	b, _ := curve.Synthesize(generic.Input{Years: ys, Bases: generic.Bases{Budget: 16}, Rand: rand.New(rand.NewSource(7))})

	// THEN: Every value doubles
	for i := range a {
		assert.InDelta(t, 2*a[i], b[i], 1e-9)
	}
}

func TestCurve_SameSeed_SameSeries(t *testing.T) {
	curve := generic.Curve{Base: generic.Absolute(100), Sigma: 0.3}
	ys := years(t, 1972, 2025)

	a, _ := curve.Synthesize(generic.Input{Years: ys, Rand: rand.New(rand.NewSource(1))})
	b, _ := curve.Synthesize(generic.Input{Years: ys, Rand: rand.New(rand.NewSource(1))})
	c, _ := curve.Synthesize(generic.Input{Years: ys, Rand: rand.New(rand.NewSource(2))})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCurve_ZeroSigma_IgnoresRandomSource(t *testing.T) {
	curve := generic.Curve{Base: generic.Absolute(20)}
	series, _ := curve.Synthesize(generic.Input{Years: years(t, 1972, 1975), Rand: rand.New(rand.NewSource(99))})
	for _, v := range series {
		assert.Equal(t, 20.0, v)
	}
}

func TestCurve_Tables_ListsGrowthAndLevelBands(t *testing.T) {
	curve := generic.Curve{
		Growth:      generic.Positional{Rates: generic.Constant("g", 0.1), Per: 4},
		Multipliers: []generic.Multiplier{generic.Constant("l", 1), generic.Special("s", 2, 2000)},
	}
	tables := curve.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "g", tables[0].Name)
	assert.Equal(t, "l", tables[1].Name)
}

// =============================================================================
// COMPOUND / DISCRETE
// =============================================================================

func TestCompound_RunningLevel(t *testing.T) {
	// GIVEN: +10% a year except a -50% year
	debt := generic.Compound{
		Base: generic.Absolute(100),
		Changes: generic.YearSet{
			Tiers:   []generic.Tier{{Label: "cut", Years: []generic.Year{2001}, Factor: -0.5}},
			Default: 0.1,
		},
	}

	series, warnings := debt.Synthesize(generic.Input{Years: years(t, 2000, 2002)})

	assert.Empty(t, warnings)
	assert.InDelta(t, 110.0, series[0], 1e-9)
	assert.InDelta(t, 55.0, series[1], 1e-9)
	assert.InDelta(t, 60.5, series[2], 1e-9)
}

func TestCompound_NoiseIsNotFedBack(t *testing.T) {
	// GIVEN: A flat level with heavy noise
	flat := generic.Compound{Base: generic.Absolute(10), Sigma: 0.5}
	ys := years(t, 1972, 2025)

	// WHEN: Comparing against a noiseless run
	noisy, _ := flat.Synthesize(generic.Input{Years: ys, Rand: rand.New(rand.NewSource(3))})
	clean, _ := flat.Synthesize(generic.Input{Years: ys})

	// THEN: The level stays at 10; only the emitted values move
	for _, v := range clean {
		assert.Equal(t, 10.0, v)
	}
	assert.NotEqual(t, clean, noisy)
}

func TestDiscrete_SumsTablesDefaultZero(t *testing.T) {
	seats := generic.Discrete{Results: []generic.YearValues{
		{Name: "legislative", Values: map[generic.Year]float64{1986: 35, 1988: 1}},
		{Name: "european", Values: map[generic.Year]float64{1984: 3, 1989: 3}},
	}}

	series, _ := seats.Synthesize(generic.Input{Years: years(t, 1984, 1989), Rand: rand.New(rand.NewSource(1))})

	assert.Equal(t, generic.Series{3, 0, 35, 0, 1, 3}, series)
	assert.Nil(t, seats.Tables())
}
