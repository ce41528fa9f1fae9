package report

import (
	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

// Marker annotates one year of the revenue chart.
type Marker struct {
	Year    generic.Year `json:"year"`
	Label   string       `json:"label"`
	Revenue float64      `json:"revenue"` // revenue_total that year, for placement
}

// Timeline returns the annotated events that fall inside the table.
func Timeline(t *generic.Table) []Marker {
	var markers []Marker
	for _, e := range party.Events() {
		if !e.Annotated {
			continue
		}
		revenue, ok := t.Value(e.Year, party.RevenueTotal)
		if !ok {
			continue
		}
		markers = append(markers, Marker{Year: e.Year, Label: e.Label, Revenue: revenue})
	}
	return markers
}

// Milestones lists the annotated events as "year: label".
func Milestones() []string {
	events := party.Events()
	out := make([]string, 0, len(events))
	for _, e := range events {
		if e.Annotated {
			out = append(out, e.Year.String()+": "+e.Label)
		}
	}
	return out
}

// Recommendations are the fixed strategic recommendations printed at the end
// of the text report.
var Recommendations = []string{
	"Continue professionalizing financial management",
	"Diversify funding sources",
	"Strengthen membership fee collection",
	"Optimize the use of public funding",
	"Contain legal expenses",
	"Reduce dependence on loans",
	"Develop online fundraising",
	"Improve financial transparency",
}
