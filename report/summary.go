/*
Package report derives summary metrics, chart panel datasets and an event
timeline from a generated table, and renders them as markdown or JSON.

PURPOSE:
  The table is the only input. Nothing here generates or adjusts data; every
  figure is an aggregate of already-computed columns.

PRECISION:
  Aggregates are computed with shopspring/decimal from the table's float
  cells so that averages and shares print the same on every platform.
  Monetary figures (M€) are displayed through go-money in EUR.

SEE ALSO:
  - panels.go: Chart datasets
  - timeline.go: Event annotations
  - render.go: Markdown and JSON output
  - csv.go: Tabular export
*/
package report

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

// ErrEmptyTable is returned when a table has no rows to summarize.
var ErrEmptyTable = errors.New("table has no rows")

var hundred = decimal.NewFromInt(100)

// =============================================================================
// SUMMARY
// =============================================================================

// Summary holds the headline metrics of one history.
type Summary struct {
	From generic.Year
	To   generic.Year

	AverageRevenue   generic.Amount // M€
	AverageExpenses  generic.Amount // M€
	AverageMembers   generic.Amount // people
	AverageExecution generic.Amount // %

	RevenueGrowth generic.Amount // % first to last year
	MemberGrowth  generic.Amount // % first to last year

	SmallDonationShare generic.Amount // % of revenue
	LegalShare         generic.Amount // % of expenses
	DebtToRevenue      generic.Amount // % of revenue

	AverageBalance generic.Amount // % of budget
	FinalDebt      generic.Amount // M€
	BestScore      generic.Amount // %
}

// column returns the decimal cells of attribute a.
func column(t *generic.Table, a generic.Attribute) ([]decimal.Decimal, error) {
	series := t.Column(a)
	if series == nil {
		return nil, &generic.UnknownAttributeError{Attribute: a, Context: "summary"}
	}
	out := make([]decimal.Decimal, len(series))
	for i, v := range series {
		out[i] = decimal.NewFromFloat(v)
	}
	return out, nil
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}

// growth returns (last/first - 1) * 100, or zero when first is zero.
func growth(values []decimal.Decimal) decimal.Decimal {
	first, last := values[0], values[len(values)-1]
	if first.IsZero() {
		return decimal.Zero
	}
	return last.Div(first).Sub(decimal.NewFromInt(1)).Mul(hundred)
}

func amount(v decimal.Decimal, unit generic.Unit) generic.Amount {
	return generic.Amount{Value: v, Unit: unit}
}

// Summarize computes the headline metrics.
func Summarize(t *generic.Table) (Summary, error) {
	if t == nil || t.Len() == 0 {
		return Summary{}, ErrEmptyTable
	}

	cols := make(map[generic.Attribute][]decimal.Decimal)
	for _, a := range []generic.Attribute{
		party.RevenueTotal, party.ExpensesTotal, party.Members, party.BudgetExecutionRate,
		party.SmallDonations, party.LegalExpenses, party.Debt, party.FinancialBalance,
		party.PresidentialScore,
	} {
		c, err := column(t, a)
		if err != nil {
			return Summary{}, err
		}
		cols[a] = c
	}

	revenue := mean(cols[party.RevenueTotal])
	expenses := mean(cols[party.ExpensesTotal])
	debt := cols[party.Debt]
	years := t.Years()

	return Summary{
		From: years.First(),
		To:   years.Last(),

		AverageRevenue:   amount(revenue, generic.UnitMillionEUR),
		AverageExpenses:  amount(expenses, generic.UnitMillionEUR),
		AverageMembers:   amount(mean(cols[party.Members]), generic.UnitPeople),
		AverageExecution: amount(mean(cols[party.BudgetExecutionRate]).Mul(hundred), generic.UnitPercent),

		RevenueGrowth: amount(growth(cols[party.RevenueTotal]), generic.UnitPercent),
		MemberGrowth:  amount(growth(cols[party.Members]), generic.UnitPercent),

		SmallDonationShare: generic.Ratio(amount(mean(cols[party.SmallDonations]), generic.UnitMillionEUR), amount(revenue, generic.UnitMillionEUR)),
		LegalShare:         generic.Ratio(amount(mean(cols[party.LegalExpenses]), generic.UnitMillionEUR), amount(expenses, generic.UnitMillionEUR)),
		DebtToRevenue:      generic.Ratio(amount(mean(debt), generic.UnitMillionEUR), amount(revenue, generic.UnitMillionEUR)),

		AverageBalance: amount(mean(cols[party.FinancialBalance]).Mul(hundred), generic.UnitPercent),
		FinalDebt:      amount(debt[len(debt)-1], generic.UnitMillionEUR),
		BestScore:      amount(decimal.Max(cols[party.PresidentialScore][0], cols[party.PresidentialScore][1:]...), generic.UnitPercent),
	}, nil
}

// =============================================================================
// METRICS - Ordered, display-ready view of a Summary
// =============================================================================

// Metric is one labeled figure.
type Metric struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Unit    generic.Unit    `json:"unit"`
	Display string          `json:"display"`
}

func metric(key, label string, a generic.Amount) Metric {
	return Metric{Key: key, Label: label, Value: a.Value, Unit: a.Unit, Display: Format(a)}
}

// Metrics lists the summary in report order.
func (s Summary) Metrics() []Metric {
	return []Metric{
		metric("average_revenue", "Average annual revenue", s.AverageRevenue),
		metric("average_expenses", "Average annual expenses", s.AverageExpenses),
		metric("average_members", "Average members", s.AverageMembers),
		metric("average_execution", "Average budget execution rate", s.AverageExecution),
		metric("revenue_growth", "Revenue growth", s.RevenueGrowth),
		metric("member_growth", "Member growth", s.MemberGrowth),
		metric("small_donation_share", "Small donations share of revenue", s.SmallDonationShare),
		metric("legal_share", "Legal share of expenses", s.LegalShare),
		metric("debt_to_revenue", "Average debt vs revenue", s.DebtToRevenue),
		metric("average_balance", "Average financial balance (% of budget)", s.AverageBalance),
		metric("final_debt", "Final debt", s.FinalDebt),
		metric("best_score", "Best presidential score", s.BestScore),
	}
}
