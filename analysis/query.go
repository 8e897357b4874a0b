package analysis

import (
	"strings"

	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/validation"
)

// QueryType is one of the fixed analysis options offered in the form.
type QueryType string

const (
	MarketOverview   QueryType = "Market Overview"
	SectorAnalysis   QueryType = "Sector Analysis"
	FundingPatterns  QueryType = "Funding Patterns"
	TechnologyTrends QueryType = "Technology Trends"
	CustomQuery      QueryType = "Custom Query"
)

// QueryTypes returns the options in display order.
func QueryTypes() []QueryType {
	return []QueryType{MarketOverview, SectorAnalysis, FundingPatterns, TechnologyTrends, CustomQuery}
}

// Query is the user's analysis selection.
type Query struct {
	Type   QueryType `json:"type"`
	Custom string    `json:"custom,omitempty"`
}

// NewQuery trims the input and drops the custom question unless the type is
// CustomQuery. An empty type selects MarketOverview.
func NewQuery(typ, custom string) Query {
	q := Query{Type: QueryType(strings.TrimSpace(typ))}
	if q.Type == "" {
		q.Type = MarketOverview
	}
	if q.Type == CustomQuery {
		// Only surrounding whitespace goes; a question of blanks counts as
		// no question and Focus falls back to the option name.
		q.Custom = strings.TrimSpace(custom)
	}
	return q
}

// Focus is the text the analysis concentrates on: the custom question when
// one was asked, otherwise the option itself.
func (q Query) Focus() string {
	if q.Type == CustomQuery && strings.TrimSpace(q.Custom) != "" {
		return strings.TrimSpace(q.Custom)
	}
	return string(q.Type)
}

// customText is the custom question as embedded in the analyst prompt.
func (q Query) customText() string {
	if q.Type == CustomQuery && strings.TrimSpace(q.Custom) != "" {
		return strings.TrimSpace(q.Custom)
	}
	return "None"
}

// Validate checks that the type is one of QueryTypes.
func (q Query) Validate() *errors.AppError {
	allowed := make([]string, 0, 5)
	for _, t := range QueryTypes() {
		allowed = append(allowed, string(t))
	}
	return validation.New().
		Required("query_type", string(q.Type)).
		OneOf("query_type", string(q.Type), allowed).
		MaxLength("custom_query", q.Custom, 2000).
		Validate()
}
