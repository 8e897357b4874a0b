package analysis

import (
	"bytes"
	"html"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kbukum/startup-analyzer/workflow"
)

// Section labels in pipeline order.
const (
	LabelKeyFindings      = "Key Findings"
	LabelDetailedAnalysis = "Detailed Analysis"
	LabelRecommendations  = "Recommendations"
)

var labels = [...]string{LabelKeyFindings, LabelDetailedAnalysis, LabelRecommendations}

// Raw HTML in replies is dropped; goldmark escapes it unless WithUnsafe is set.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Section is one labeled reply.
type Section struct {
	Label string        `json:"label"`
	Raw   string        `json:"raw"`
	HTML  template.HTML `json:"html"`
}

// Report holds the three sections of a finished analysis.
type Report struct {
	Query       Query     `json:"query"`
	Sections    []Section `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport maps results to sections by position. A missing result leaves
// its section empty.
func NewReport(q Query, results []workflow.Result) *Report {
	r := &Report{Query: q, Sections: make([]Section, len(labels)), GeneratedAt: time.Now().UTC()}
	for i, label := range labels {
		r.Sections[i].Label = label
		if i < len(results) {
			r.Sections[i].Raw = results[i].Raw
			r.Sections[i].HTML = renderMarkdown(results[i].Raw)
		}
	}
	return r
}

// Section returns the section with the given label.
func (r *Report) Section(label string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Label == label {
			return s, true
		}
	}
	return Section{}, false
}

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + html.EscapeString(src) + "</pre>") //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark output with raw HTML disabled
}
