package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/warp/partyfin/generic"
	"github.com/warp/partyfin/party"
)

// =============================================================================
// REPORT DOCUMENT
// =============================================================================

// Report is everything the text report prints.
type Report struct {
	Scenario        string        `json:"scenario,omitempty"`
	Profile         party.Profile `json:"profile"`
	From            generic.Year  `json:"from"`
	To              generic.Year  `json:"to"`
	Metrics         []Metric      `json:"metrics"`
	Milestones      []string      `json:"milestones"`
	Recommendations []string      `json:"recommendations"`
}

// Build summarizes t into a report document.
func Build(scenario string, t *generic.Table) (*Report, error) {
	s, err := Summarize(t)
	if err != nil {
		return nil, err
	}
	return &Report{
		Scenario:        scenario,
		Profile:         party.Reference(),
		From:            s.From,
		To:              s.To,
		Metrics:         s.Metrics(),
		Milestones:      Milestones(),
		Recommendations: Recommendations,
	}, nil
}

// =============================================================================
// RENDERERS
// =============================================================================

// Renderer formats a Report into bytes for output.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "md" (default), "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "", "md":
		return &markdownRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are md, json", format)
	}
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(report *Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`# {{ .Profile.Name }} finances ({{ .From }}-{{ .To }})
{{ if .Scenario }}
*Scenario: {{ .Scenario }}*
{{ end }}
## Key figures

| Metric | Value |
|---|---|
{{ range .Metrics }}| {{ .Label }} | {{ .Display }} |
{{ end }}
## Profile

- **Orientation:** {{ .Profile.Orientation }}
- **Target electorate:** {{ join .Profile.Electorate ", " }}
- **Specificities:** {{ join .Profile.Specificities ", " }}

## Milestones
{{ range .Milestones }}
- {{ . }}{{ end }}

## Strategic recommendations
{{ range .Recommendations }}
- {{ . }}{{ end }}
`))

func (r *markdownRenderer) Render(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
