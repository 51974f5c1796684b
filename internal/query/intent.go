// Package query turns free-text questions about repositories into
// structured requests the data source can act on.
package query

import (
	"github.com/spiffcs/repoquery/internal/constants"
)

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentRanking    Intent = "ranking"    // "top 5 most starred"
	IntentComparison Intent = "comparison" // "compare React vs Vue"
	IntentTrending   Intent = "trending"   // "trending projects this week"
	IntentSearch     Intent = "search"     // "find projects about X"
)

// AllIntents contains every valid intent value.
var AllIntents = []Intent{
	IntentRanking,
	IntentComparison,
	IntentTrending,
	IntentSearch,
}

// Valid reports whether the intent is one of the four known kinds.
func (i Intent) Valid() bool {
	switch i {
	case IntentRanking, IntentComparison, IntentTrending, IntentSearch:
		return true
	}
	return false
}

// Window is an optional time qualifier extracted from the query text.
// The zero value means the query is unconstrained in time.
type Window string

const (
	WindowNone  Window = ""
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// Days returns the lookback in days for the window, or 0 for WindowNone.
func (w Window) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	case WindowYear:
		return 365
	}
	return 0
}

// Request is the structured form of a natural-language query.
// Entities preserve their order of mention; for comparison queries the
// first-mentioned entity is displayed first.
type Request struct {
	Intent   Intent   `json:"intent"`
	Entities []string `json:"entities"`
	Limit    int      `json:"limit"`
	Window   Window   `json:"window,omitempty"`
	RawText  string   `json:"rawText,omitempty"`
}

// Normalize clamps the request into valid bounds. It never rejects:
// an unknown intent becomes a search and a non-positive limit becomes 1.
func (r *Request) Normalize() {
	if !r.Intent.Valid() {
		r.Intent = IntentSearch
	}
	if r.Limit <= 0 {
		r.Limit = 1
	}
	if r.Limit > constants.MaxLimit {
		r.Limit = constants.MaxLimit
	}
}
