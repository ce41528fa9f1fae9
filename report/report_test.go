package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
	"github.com/warp/partyfin/report"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func referenceTable(t *testing.T) *generic.Table {
	t.Helper()
	e := generic.NewEngine(party.Model())
	e.Logger = log.New(io.Discard, "", 0)
	result, err := e.Generate(context.Background(), party.DefaultConfig())
	require.NoError(t, err)
	return result.Table
}

func mean(s generic.Series) float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize_ReferenceRun(t *testing.T) {
	table := referenceTable(t)

	s, err := report.Summarize(table)
	require.NoError(t, err)

	assert.Equal(t, generic.Year(1972), s.From)
	assert.Equal(t, generic.Year(2025), s.To)
	assert.Equal(t, "41.5", s.BestScore.Value.String())
	assert.Equal(t, generic.UnitPercent, s.BestScore.Unit)

	debt := table.Column(party.Debt)
	assert.InDelta(t, debt[len(debt)-1], s.FinalDebt.Value.InexactFloat64(), 1e-9)
	assert.InDelta(t, mean(table.Column(party.RevenueTotal)), s.AverageRevenue.Value.InexactFloat64(), 1e-9)
	assert.InDelta(t, 100*mean(table.Column(party.FinancialBalance)), s.AverageBalance.Value.InexactFloat64(), 1e-9)

	members := table.Column(party.Members)
	assert.InDelta(t, (members[len(members)-1]/members[0]-1)*100, s.MemberGrowth.Value.InexactFloat64(), 1e-6)

	share := mean(table.Column(party.SmallDonations)) / mean(table.Column(party.RevenueTotal)) * 100
	assert.InDelta(t, share, s.SmallDonationShare.Value.InexactFloat64(), 1e-6)
}

func TestSummarize_EmptyTable(t *testing.T) {
	empty, err := generic.NewTable(party.Model().Attributes())
	require.NoError(t, err)

	_, err = report.Summarize(empty)
	assert.ErrorIs(t, err, report.ErrEmptyTable)
}

func TestSummarize_MissingColumn(t *testing.T) {
	table, err := generic.Assemble(generic.Years{1972}, []generic.Attribute{party.Members},
		map[generic.Attribute]generic.Series{party.Members: {50000}})
	require.NoError(t, err)

	_, err = report.Summarize(table)
	assert.ErrorIs(t, err, generic.ErrUnknownAttribute)
}

func TestMetrics_Display(t *testing.T) {
	s, err := report.Summarize(referenceTable(t))
	require.NoError(t, err)

	metrics := s.Metrics()
	require.Len(t, metrics, 12)
	assert.Equal(t, "average_revenue", metrics[0].Key)
	assert.Contains(t, metrics[0].Display, "€")
	assert.Equal(t, "41.5%", metrics[len(metrics)-1].Display)
}

func TestEuros(t *testing.T) {
	a := generic.Amount{Value: decimal.NewFromInt(8), Unit: generic.UnitMillionEUR}
	out := report.Euros(a)
	assert.Contains(t, out, "€")
	assert.Contains(t, out, "8")
	assert.Contains(t, out, "000")
}

// =============================================================================
// PANELS / TIMELINE
// =============================================================================

func TestPanels_EightInOrder(t *testing.T) {
	table := referenceTable(t)

	panels, err := report.Panels(table)
	require.NoError(t, err)

	keys := make([]string, len(panels))
	for i, p := range panels {
		keys[i] = p.Key
		assert.Len(t, p.Years, 54, p.Key)
		for _, s := range p.Series {
			assert.Len(t, s.Values, 54, "%s/%s", p.Key, s.Name)
		}
	}
	assert.Equal(t, []string{
		"revenue-expenses", "revenue-structure", "expense-structure", "members-scores",
		"strategic-investments", "indicators", "officials", "financial-situation",
	}, keys)
}

func TestPanels_ScaledSeries(t *testing.T) {
	table := referenceTable(t)
	panels, err := report.Panels(table)
	require.NoError(t, err)

	p, ok := report.PanelByKey(panels, "members-scores")
	require.True(t, ok)
	require.Len(t, p.Series, 2)
	assert.InDelta(t, table.Column(party.Members)[0]/1000, p.Series[0].Values[0], 1e-9)
	assert.Equal(t, report.AxisRight, p.Series[1].Axis)

	p, _ = report.PanelByKey(panels, "revenue-structure")
	assert.True(t, p.Stacked)
	assert.Len(t, p.Series, 7)
}

func TestTimeline_OnlyYearsInTable(t *testing.T) {
	table := referenceTable(t)
	markers := report.Timeline(table)
	require.Len(t, markers, 9)
	assert.Equal(t, generic.Year(1972), markers[0].Year)

	revenue, _ := table.Value(1972, party.RevenueTotal)
	assert.Equal(t, revenue, markers[0].Revenue)

	short, err := generic.Assemble(generic.Years{1972, 1973}, []generic.Attribute{party.RevenueTotal},
		map[generic.Attribute]generic.Series{party.RevenueTotal: {4, 8}})
	require.NoError(t, err)
	assert.Len(t, report.Timeline(short), 1)
}

// =============================================================================
// RENDERERS
// =============================================================================

func TestNewRenderer_Markdown(t *testing.T) {
	doc, err := report.Build("reference", referenceTable(t))
	require.NoError(t, err)

	r, err := report.NewRenderer("md")
	require.NoError(t, err)
	out, err := r.Render(doc)
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# Front National / Rassemblement National finances (1972-2025)"))
	assert.Contains(t, md, "## Key figures")
	assert.Contains(t, md, "| Best presidential score | 41.5% |")
	assert.Contains(t, md, "- 2022: 89 deputies elected")
	assert.Contains(t, md, "*Scenario: reference*")
}

func TestNewRenderer_JSON(t *testing.T) {
	doc, err := report.Build("", referenceTable(t))
	require.NoError(t, err)

	r, err := report.NewRenderer("json")
	require.NoError(t, err)
	out, err := r.Render(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded["metrics"], 12)
	assert.NotContains(t, decoded, "scenario")
}

func TestNewRenderer_Unknown(t *testing.T) {
	_, err := report.NewRenderer("pdf")
	assert.Error(t, err)
}

// =============================================================================
// CSV
// =============================================================================

func TestWriteCSV_HeaderAndRoundTrip(t *testing.T) {
	table := referenceTable(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, table))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(header, "year,members,departmental_federations,local_officials,national_seats,"))
	assert.Equal(t, 31, len(strings.Split(header, ",")))

	back, err := report.ReadCSV(&buf)
	require.NoError(t, err)
	assert.True(t, table.Equal(back))
}

func TestReadCSV_UnknownColumn(t *testing.T) {
	_, err := report.ReadCSV(strings.NewReader("year,bogus\n1972,1\n"))
	assert.ErrorIs(t, err, generic.ErrUnknownAttribute)
}

func TestReadCSV_NonConsecutiveYears(t *testing.T) {
	_, err := report.ReadCSV(strings.NewReader("year,members\n1972,1\n1974,2\n"))
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
}

func TestReadCSV_NonFiniteCell_Rejected(t *testing.T) {
	// GIVEN: Cells that ParseFloat accepts but no table may hold
	for _, cell := range []string{"NaN", "Inf", "-Inf"} {
		t.Run(cell, func(t *testing.T) {
			// WHEN: Reading the file
			table, err := report.ReadCSV(strings.NewReader("year,members\n1972,1\n1973," + cell + "\n"))

			// THEN: It is rejected before reaching Summarize
			assert.Nil(t, table)
			assert.ErrorIs(t, err, generic.ErrNonFiniteValue)
		})
	}
}
