package generic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/partyfin/generic"
)

// =============================================================================
// YEARS
// =============================================================================

func TestNewYears_LengthAndOrder(t *testing.T) {
	// GIVEN: Ranges of various widths
	// WHEN: Building the year index
	// THEN: len == end-start+1 and years[i] == start+i
	for _, tc := range []struct{ start, end generic.Year }{
		{1972, 2025}, {1972, 1972}, {1990, 1999}, {-5, 5},
	} {
		years, err := generic.NewYears(tc.start, tc.end)
		require.NoError(t, err)
		require.Len(t, years, int(tc.end-tc.start)+1)
		for i, y := range years {
			assert.Equal(t, tc.start+generic.Year(i), y)
		}
		assert.Equal(t, tc.start, years.First())
		assert.Equal(t, tc.end, years.Last())
	}
}

func TestNewYears_EndBeforeStart_Rejected(t *testing.T) {
	_, err := generic.NewYears(2025, 1972)
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
	assert.True(t, generic.IsConfigError(err))
}

func TestYearRange_LenAndOverlaps(t *testing.T) {
	assert.Equal(t, 26, generic.Span(2000, 2025).Len())
	assert.Zero(t, generic.Span(2025, 2000).Len())
	assert.True(t, generic.Span(1972, 2025).Overlaps(generic.Span(2000, generic.MaxYear)))
	assert.False(t, generic.Span(1972, 1980).Overlaps(generic.Span(1981, 1990)))
}

// =============================================================================
// BAND TABLES
// =============================================================================

func growthTable() generic.BandTable {
	return generic.BandTable{
		Name: "test.growth",
		Bands: []generic.Band{
			generic.Between(1972, 1980, 0.05),
			generic.Between(1981, 1987, 0.15),
			generic.Since(1988, 0.08),
		},
		Default: 0.08,
	}
}

func TestBandTable_Lookup_FirstMatchingBand(t *testing.T) {
	table := growthTable()

	v, ok := table.Lookup(1972)
	assert.True(t, ok)
	assert.Equal(t, 0.05, v)

	v, ok = table.Lookup(1985)
	assert.True(t, ok)
	assert.Equal(t, 0.15, v)

	v, ok = table.Lookup(2025)
	assert.True(t, ok)
	assert.Equal(t, 0.08, v)
}

func TestBandTable_Lookup_OutsideEveryBand_UsesDefault(t *testing.T) {
	// GIVEN: A table whose first band starts in 1972
	// WHEN: Looking up 1960
	// THEN: The default is returned and flagged as uncovered
	v, ok := growthTable().Lookup(1960)
	assert.False(t, ok)
	assert.Equal(t, 0.08, v)
}

func TestBandTable_Coverage_Complete(t *testing.T) {
	cov := growthTable().Coverage(generic.Span(1972, 2025))
	assert.True(t, cov.Complete(), "gaps=%v overlaps=%v", cov.Gaps, cov.Overlaps)
	assert.Equal(t, "test.growth", cov.Table)
}

func TestBandTable_Coverage_ReportsGapsAndOverlaps(t *testing.T) {
	// GIVEN: A gap over 1981-1984 and an overlap over 1990-1991
	table := generic.BandTable{
		Name: "broken",
		Bands: []generic.Band{
			generic.Upto(1980, 1),
			generic.Between(1985, 1991, 2),
			generic.Since(1990, 3),
		},
	}

	// WHEN: Checking 1972-2000
	cov := table.Coverage(generic.Span(1972, 2000))

	// THEN: Both defects are reported as merged ranges
	assert.False(t, cov.Complete())
	assert.Equal(t, []generic.YearRange{generic.Span(1981, 1984)}, cov.Gaps)
	assert.Equal(t, []generic.YearRange{generic.Span(1990, 1991)}, cov.Overlaps)
}

func TestBandTable_Coverage_GapBeforeFirstBand(t *testing.T) {
	cov := growthTable().Coverage(generic.Span(1965, 1975))
	assert.Equal(t, []generic.YearRange{generic.Span(1965, 1971)}, cov.Gaps)
	assert.Empty(t, cov.Overlaps)
}

func TestBandTable_Constant_AlwaysCovered(t *testing.T) {
	table := generic.Constant("flat", 0.04)
	v, ok := table.Lookup(1066)
	assert.True(t, ok)
	assert.Equal(t, 0.04, v)
	assert.True(t, table.Coverage(generic.Span(1900, 2100)).Complete())
}

// =============================================================================
// YEAR SETS
// =============================================================================

func TestYearSet_FirstTierWins(t *testing.T) {
	// GIVEN: 1988 is both presidential and legislative
	set := generic.YearSet{
		Name: "elections",
		Tiers: []generic.Tier{
			{Label: "presidential", Years: []generic.Year{1974, 1988}, Factor: 4},
			{Label: "legislative", Years: []generic.Year{1986, 1988}, Factor: 2.5},
		},
		Default: 0.8,
	}

	// THEN: The presidential factor applies
	assert.Equal(t, 4.0, set.At(1988))
	assert.Equal(t, 2.5, set.At(1986))
	assert.Equal(t, 0.8, set.At(1987))
}

func TestSpecial_DefaultsToOne(t *testing.T) {
	set := generic.Special("borrowing", 3, 1972, 1984)
	assert.Equal(t, 3.0, set.At(1984))
	assert.Equal(t, 1.0, set.At(1985))
}
