package packets

import (
	"testing"
	"time"
)

func TestQueryValues_StatusOmittedOnlyForAll(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	for _, status := range StatusFilters {
		for _, search := range []string{"", "LN-0042"} {
			for _, dated := range []bool{false, true} {
				for _, page := range []int{1, 7} {
					q := NewQuery(10)
					q.Status = status
					q.Search = search
					q.Page = page
					if dated {
						q.DateFrom, q.DateTo = from, to
					}
					values := q.Values()

					_, hasStatus := values["status"]
					if hasStatus == (status == StatusAll) {
						t.Fatalf("status %q: status param present = %v", status, hasStatus)
					}
					if values.Get("page") == "" || values.Get("per_page") != "10" {
						t.Fatalf("query %+v encoded %v, want page and per_page", q, values)
					}
					if (values.Get("loanAccountNumber") != "") != (search != "") {
						t.Fatalf("search %q encoded %v", search, values)
					}
					if dated && values.Get("dateFrom") != "2024-03-01T00:00:00Z" {
						t.Fatalf("dateFrom = %q", values.Get("dateFrom"))
					}
					if !dated && values.Has("dateTo") {
						t.Fatalf("undated query encoded dateTo")
					}
				}
			}
		}
	}
}

func TestQuery_FilterChangesResetPage(t *testing.T) {
	q := NewQuery(10)
	q, _ = q.WithPage(4)

	next, changed := q.WithStatus(StatusApproved)
	if !changed || next.Page != 1 || next.Status != StatusApproved {
		t.Fatalf("WithStatus = %+v changed %v, want approved on page 1", next, changed)
	}

	q, _ = next.WithPage(3)
	next, changed = q.WithSearch("  LN-7 ")
	if !changed || next.Page != 1 || next.Search != "LN-7" {
		t.Fatalf("WithSearch = %+v changed %v", next, changed)
	}

	if _, changed := next.WithSearch("LN-7"); changed {
		t.Fatalf("repeating the settled search reported a change")
	}
	if _, changed := next.WithStatus(StatusApproved); changed {
		t.Fatalf("repeating the status reported a change")
	}
	if _, changed := next.WithPage(1); changed {
		t.Fatalf("staying on page 1 reported a change")
	}
	if p, _ := next.WithPage(0); p.Page != 1 {
		t.Fatalf("WithPage(0) = %d, want 1", p.Page)
	}
}

func TestQuery_HistoryClearsFiltersAndLocksThem(t *testing.T) {
	q := NewQuery(10)
	q, _ = q.WithSearch("LN-1")
	q, _ = q.WithStatus(StatusPending)
	q, _ = q.WithPage(2)

	h, changed := q.WithHistory(true)
	if !changed || !h.History {
		t.Fatalf("WithHistory(true) = %+v changed %v", h, changed)
	}
	if h.Search != "" || h.Status != StatusAll || h.Page != 1 || h.HasFilters() {
		t.Fatalf("history query kept filters: %+v", h)
	}
	if _, changed := h.WithSearch("LN-2"); changed {
		t.Fatalf("search changed the history query")
	}
	if _, changed := h.WithStatus(StatusRejected); changed {
		t.Fatalf("status changed the history query")
	}
	if _, changed := h.WithHistory(true); changed {
		t.Fatalf("WithHistory(true) twice reported a change")
	}
	if back, changed := h.WithHistory(false); !changed || back.History {
		t.Fatalf("WithHistory(false) = %+v changed %v", back, changed)
	}
}

func TestQuery_DateRange(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	q := NewQuery(10)
	q, changed := q.WithDateRange(day, day.Add(24*time.Hour))
	if !changed || !q.HasFilters() {
		t.Fatalf("WithDateRange = %+v changed %v", q, changed)
	}
	if _, changed := q.WithDateRange(day, day.Add(24*time.Hour)); changed {
		t.Fatalf("same range reported a change")
	}
	cleared, changed := q.WithDateRange(time.Time{}, time.Time{})
	if !changed || cleared.HasFilters() {
		t.Fatalf("clearing range = %+v changed %v", cleared, changed)
	}
}

func TestNextStatusFilter(t *testing.T) {
	got := []Status{}
	s := StatusAll
	for range StatusFilters {
		s = NextStatusFilter(s)
		got = append(got, s)
	}
	want := []Status{StatusPending, StatusApproved, StatusRejected, StatusAll}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", got, want)
		}
	}
	if NextStatusFilter("bogus") != StatusAll {
		t.Fatalf("unknown filter did not reset to all")
	}
}
