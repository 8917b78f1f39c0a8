package models

import (
	"fmt"
	"time"
)

// DateLayout is the date format accepted by the search API.
const DateLayout = "2006-01-02"

// SearchQuery describes a single page request against the search endpoint.
// A zero FromDate or ToDate leaves that bound open.
type SearchQuery struct {
	FromDate   time.Time
	ToDate     time.Time
	Term       string
	ShowFields string
	PageSize   int
	Page       int
}

// WithPage returns a copy of the query targeting another page.
func (q SearchQuery) WithPage(page int) SearchQuery {
	q.Page = page

	return q
}

// FromDateString formats the lower bound, or "" when unbounded.
func (q SearchQuery) FromDateString() string {
	return formatDate(q.FromDate)
}

// ToDateString formats the upper bound, or "" when unbounded.
func (q SearchQuery) ToDateString() string {
	return formatDate(q.ToDate)
}

// String returns a string representation of the query.
func (q SearchQuery) String() string {
	return fmt.Sprintf("SearchQuery{Term: %q, From: %s, To: %s, Page: %d, PageSize: %d}",
		q.Term, q.FromDateString(), q.ToDateString(), q.Page, q.PageSize)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(DateLayout)
}

// ResponseDocument is the raw JSON body of one search response.
type ResponseDocument struct {
	Raw []byte
}
