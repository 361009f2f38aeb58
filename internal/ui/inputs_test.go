package ui

import (
	"testing"
	"time"
)

func TestSuggestFor(t *testing.T) {
	options := []string{"HDFC Bank", "Axis Bank", "State Bank of India"}
	cases := []struct {
		in   string
		want string
	}{
		{"hd", "HDFC Bank"},
		{"AXIS", "Axis Bank"},
		{"Axis Bank", ""},
		{"", ""},
		{"  ", ""},
		{"Canara", ""},
	}
	for _, tc := range cases {
		if got := suggestFor(tc.in, options); got != tc.want {
			t.Fatalf("suggestFor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRange(t *testing.T) {
	from, to, err := parseDateRange("2024-03-01", "2024-03-05")
	if err != nil {
		t.Fatalf("parseDateRange error: %v", err)
	}
	wantFrom := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	if !from.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", from, wantFrom)
	}
	wantTo := time.Date(2024, 3, 5, 23, 59, 59, 0, time.Local)
	if !to.Equal(wantTo) {
		t.Fatalf("to = %v, want %v", to, wantTo)
	}
}

func TestParseDateRange_OpenEnds(t *testing.T) {
	from, to, err := parseDateRange("", " ")
	if err != nil {
		t.Fatalf("parseDateRange error: %v", err)
	}
	if !from.IsZero() || !to.IsZero() {
		t.Fatalf("range = %v..%v, want both open", from, to)
	}
}

func TestParseDateRange_Errors(t *testing.T) {
	cases := map[string][2]string{
		"bad start": {"03/01/2024", ""},
		"bad end":   {"", "tomorrow"},
		"reversed":  {"2024-03-05", "2024-03-01"},
	}
	for name, in := range cases {
		if _, _, err := parseDateRange(in[0], in[1]); err == nil {
			t.Fatalf("%s: parseDateRange(%q, %q) error = nil, want error", name, in[0], in[1])
		}
	}
}

func TestNextLifted(t *testing.T) {
	if got := nextLifted(""); got != "lifted" {
		t.Fatalf("nextLifted(unset) = %q, want lifted", got)
	}
	if got := nextLifted("lifted"); got != "hold" {
		t.Fatalf("nextLifted(lifted) = %q, want hold", got)
	}
	if got := nextLifted("hold"); got != "lifted" {
		t.Fatalf("nextLifted(hold) = %q, want lifted", got)
	}
}
