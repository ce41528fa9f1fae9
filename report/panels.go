package report

import (
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

// =============================================================================
// PANELS - Chart datasets
// =============================================================================

// Style is how a series is drawn.
type Style string

const (
	StyleLine Style = "line"
	StyleBar  Style = "bar"
)

// Axis is the y axis a series is plotted against.
type Axis string

const (
	AxisLeft  Axis = "left"
	AxisRight Axis = "right"
)

// PanelSeries is one plotted column, already scaled.
type PanelSeries struct {
	Name      string            `json:"name"`
	Attribute generic.Attribute `json:"attribute"`
	Style     Style             `json:"style"`
	Axis      Axis              `json:"axis"`
	Scale     float64           `json:"scale"`
	Values    []float64         `json:"values"`
}

// Panel is the data behind one chart.
type Panel struct {
	Key         string         `json:"key"`
	Title       string         `json:"title"`
	LeftLabel   string         `json:"left_label"`
	RightLabel  string         `json:"right_label,omitempty"`
	Stacked     bool           `json:"stacked"`
	Years       []generic.Year `json:"years"`
	Series      []PanelSeries  `json:"series"`
	Annotations []Marker       `json:"annotations,omitempty"`
}

type seriesSpec struct {
	name  string
	attr  generic.Attribute
	style Style
	axis  Axis
	scale float64
}

func line(name string, a generic.Attribute) seriesSpec { return seriesSpec{name, a, StyleLine, AxisLeft, 1} }
func bar(name string, a generic.Attribute) seriesSpec  { return seriesSpec{name, a, StyleBar, AxisLeft, 1} }

func (s seriesSpec) right() seriesSpec {
	s.axis = AxisRight
	return s
}

func (s seriesSpec) scaled(f float64) seriesSpec {
	s.scale = f
	return s
}

type panelSpec struct {
	key, title, left, right string
	stacked                 bool
	series                  []seriesSpec
}

var panelSpecs = []panelSpec{
	{key: "revenue-expenses", title: "Revenue and expenses (M€)", left: "M€", series: []seriesSpec{
		line("Total revenue", party.RevenueTotal),
		line("Total expenses", party.ExpensesTotal),
	}},
	{key: "revenue-structure", title: "Revenue structure (M€)", left: "M€", stacked: true, series: []seriesSpec{
		bar("Membership fees", party.MembershipFees),
		bar("Small donations", party.SmallDonations),
		bar("Large donations", party.LargeDonations),
		bar("Public funding", party.PublicFunding),
		bar("Events", party.EventRevenue),
		bar("Loans", party.Loans),
		bar("Foreign aid", party.ForeignAid),
	}},
	{key: "expense-structure", title: "Expense structure (M€)", left: "M€", stacked: true, series: []seriesSpec{
		bar("Staff", party.StaffExpenses),
		bar("Campaigns", party.CampaignExpenses),
		bar("Communication", party.CommunicationExpenses),
		bar("Legal", party.LegalExpenses),
		bar("Operating", party.OperatingExpenses),
		bar("Loan repayments", party.LoanRepayments),
	}},
	{key: "members-scores", title: "Members and presidential scores", left: "Members (thousands)", right: "Presidential score (%)", series: []seriesSpec{
		bar("Members (thousands)", party.Members).scaled(0.001),
		line("Presidential score (%)", party.PresidentialScore).right(),
	}},
	{key: "strategic-investments", title: "Strategic investments (M€)", left: "M€", series: []seriesSpec{
		line("Communication", party.CommunicationInvestment),
		line("Digital", party.DigitalInvestment),
		line("Training", party.TrainingInvestment),
		line("International", party.InternationalInvestment),
	}},
	{key: "indicators", title: "Specific indicators", left: "Budget execution (%)", right: "Legal expenses (% of budget)", series: []seriesSpec{
		bar("Budget execution (%)", party.BudgetExecutionRate).scaled(100),
		line("Legal expenses (% of budget)", party.LegalExpenseRatio).scaled(100).right(),
	}},
	{key: "officials", title: "Elected officials", left: "Local officials (hundreds)", right: "National seats", series: []seriesSpec{
		line("Local officials (hundreds)", party.LocalOfficials).scaled(0.01),
		line("National seats", party.NationalSeats).right(),
	}},
	{key: "financial-situation", title: "Financial situation and debt", left: "Balance (% of budget)", right: "Debt (M€)", series: []seriesSpec{
		bar("Financial balance (% of budget)", party.FinancialBalance).scaled(100),
		line("Debt (M€)", party.Debt).right(),
	}},
}

// Panels returns the eight chart datasets in display order.
func Panels(t *generic.Table) ([]Panel, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptyTable
	}
	years := t.Years()
	panels := make([]Panel, 0, len(panelSpecs))
	for _, spec := range panelSpecs {
		p := Panel{
			Key:        spec.key,
			Title:      spec.title,
			LeftLabel:  spec.left,
			RightLabel: spec.right,
			Stacked:    spec.stacked,
			Years:      years,
		}
		for _, s := range spec.series {
			values := t.Column(s.attr)
			if values == nil {
				return nil, &generic.UnknownAttributeError{Attribute: s.attr, Context: "panel " + spec.key}
			}
			for i := range values {
				values[i] *= s.scale
			}
			p.Series = append(p.Series, PanelSeries{
				Name: s.name, Attribute: s.attr, Style: s.style, Axis: s.axis, Scale: s.scale, Values: values,
			})
		}
		if spec.key == "revenue-expenses" {
			p.Annotations = Timeline(t)
		}
		panels = append(panels, p)
	}
	return panels, nil
}

// PanelByKey returns the dataset with the given key.
func PanelByKey(panels []Panel, key string) (Panel, bool) {
	for _, p := range panels {
		if p.Key == key {
			return p, true
		}
	}
	return Panel{}, false
}
