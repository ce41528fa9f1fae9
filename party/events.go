/*
events.go - Historical events overlaid on the synthesized table

PURPOSE:
  Each event is a known inflection point of the organization's history and
  carries the rules that encode it. Rules are applied once, after every
  synthesizer has completed, by generic.ApplyRules.

RULES:
  All rules multiply their cell except the 2022 seat count, which replaces
  the cell with the actual number of deputies elected that year.

SEE ALSO:
  - generic/overlay.go: Rule semantics
  - report/timeline.go: Chart annotations built from Events
*/
package party

import "github.com/warp/partyfin/generic"

// Event is one dated milestone and the adjustments it implies.
type Event struct {
	Year      generic.Year
	Key       string
	Label     string
	Annotated bool // shown on the revenue chart
	Rules     []generic.Rule
}

// Events returns the milestones in chronological order.
func Events() []Event {
	m := generic.Multiply
	return []Event{
		{Year: 1972, Key: "founding", Label: "Founding of the Front National", Annotated: true, Rules: []generic.Rule{
			m(1972, RevenueTotal, 0.5),
			m(1972, Members, 0.8),
		}},
		{Year: 1974, Key: "first-presidential", Label: "First presidential candidacy", Annotated: true, Rules: []generic.Rule{
			m(1974, CampaignExpenses, 3.0),
			m(1974, SmallDonations, 2.5),
		}},
		{Year: 1984, Key: "european-breakthrough", Label: "Breakthrough at the European elections", Annotated: true, Rules: []generic.Rule{
			m(1984, PublicFunding, 2.0),
			m(1984, RevenueTotal, 1.4),
		}},
		{Year: 1988, Key: "presidential-1988", Label: "1988 presidential campaign", Rules: []generic.Rule{
			m(1988, CampaignExpenses, 2.8),
			m(1988, Members, 1.3),
		}},
		{Year: 1990, Key: "legal-affair", Label: "Membership files affair", Rules: []generic.Rule{
			m(1990, LegalExpenses, 2.2),
		}},
		{Year: 2002, Key: "second-round-2002", Label: "Presidential second round", Annotated: true, Rules: []generic.Rule{
			m(2002, RevenueTotal, 1.8),
			m(2002, SmallDonations, 3.0),
			m(2002, Members, 1.6),
		}},
		{Year: 2011, Key: "leadership-change", Label: "Leadership succession", Annotated: true, Rules: []generic.Rule{
			m(2011, CommunicationInvestment, 1.5),
			m(2011, Members, 1.4),
		}},
		{Year: 2014, Key: "foreign-loans", Label: "Foreign bank loans controversy", Annotated: true, Rules: []generic.Rule{
			m(2014, Loans, 4.0),
			m(2014, ForeignAid, 3.5),
		}},
		{Year: 2017, Key: "second-round-2017", Label: "Presidential second round", Annotated: true, Rules: []generic.Rule{
			m(2017, CampaignExpenses, 3.2),
			m(2017, PublicFunding, 1.6),
		}},
		{Year: 2018, Key: "renaming", Label: "Renamed Rassemblement National", Annotated: true, Rules: []generic.Rule{
			m(2018, CommunicationInvestment, 1.8),
			m(2018, CommunicationExpenses, 1.6),
		}},
		{Year: 2020, Key: "pandemic", Label: "COVID-19 pandemic", Rules: []generic.Rule{
			m(2020, EventRevenue, 0.4),
			m(2020, DigitalInvestment, 1.8),
		}},
		{Year: 2022, Key: "legislative-2022", Label: "89 deputies elected", Annotated: true, Rules: []generic.Rule{
			m(2022, PublicFunding, 2.5),
			m(2022, RevenueTotal, 1.6),
			generic.Set(2022, NationalSeats, 89),
		}},
	}
}

// Rules flattens Events into overlay rules labeled with their event key.
func Rules() []generic.Rule {
	var rules []generic.Rule
	for _, e := range Events() {
		for _, r := range e.Rules {
			r.Event = e.Key
			rules = append(rules, r)
		}
	}
	return rules
}
