package packets

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultPerPage is the list page size when none is configured.
const DefaultPerPage = 10

// Query is the full set of list inputs. The zero value is not usable; start
// from NewQuery.
//
// Every With* method returns the updated query and whether it differs from
// the receiver, so callers issue exactly one fetch per effective change.
// Filter changes reset the page to 1.
type Query struct {
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Status   Status
	Page     int
	PerPage  int
	History  bool
}

// NewQuery returns the first page with no filters.
func NewQuery(perPage int) Query {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return Query{Status: StatusAll, Page: 1, PerPage: perPage}
}

// WithSearch sets the settled loan account search term.
func (q Query) WithSearch(term string) (Query, bool) {
	term = strings.TrimSpace(term)
	if q.History || term == q.Search {
		return q, false
	}
	q.Search = term
	q.Page = 1
	return q, true
}

// WithStatus sets the status filter.
func (q Query) WithStatus(status Status) (Query, bool) {
	if status == "" {
		status = StatusAll
	}
	if q.History || status == q.Status {
		return q, false
	}
	q.Status = status
	q.Page = 1
	return q, true
}

// WithDateRange sets the created-at range. Zero times clear a bound.
func (q Query) WithDateRange(from, to time.Time) (Query, bool) {
	if q.History || (from.Equal(q.DateFrom) && to.Equal(q.DateTo)) {
		return q, false
	}
	q.DateFrom = from
	q.DateTo = to
	q.Page = 1
	return q, true
}

// WithHistory switches between the working list and the read-only history
// listing, which shows every packet with no filters.
func (q Query) WithHistory(history bool) (Query, bool) {
	if history == q.History {
		return q, false
	}
	next := NewQuery(q.PerPage)
	next.History = history
	return next, true
}

// WithPage moves to page, clamped to at least 1.
func (q Query) WithPage(page int) (Query, bool) {
	if page < 1 {
		page = 1
	}
	if page == q.Page {
		return q, false
	}
	q.Page = page
	return q, true
}

// HasFilters reports whether any narrowing filter is set.
func (q Query) HasFilters() bool {
	return q.Search != "" || !q.DateFrom.IsZero() || !q.DateTo.IsZero() || (q.Status != StatusAll && q.Status != "")
}

// Values encodes the query string for GET /packets. status is omitted for
// the all filter; page and per_page are always present.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("loanAccountNumber", q.Search)
	}
	if !q.DateFrom.IsZero() {
		values.Set("dateFrom", q.DateFrom.UTC().Format(time.RFC3339))
	}
	if !q.DateTo.IsZero() {
		values.Set("dateTo", q.DateTo.UTC().Format(time.RFC3339))
	}
	if q.Status != StatusAll && q.Status != "" {
		values.Set("status", string(q.Status))
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))
	return values
}
