// Package normalize canonicalizes the exam-date and shift identifiers that
// key test records, answer-key sets and percentile reference tables.
package normalize

import (
	"fmt"
	"strings"
	"time"
)

const (
	Shift1 = "Shift 1"
	Shift2 = "Shift 2"
)

// Shift maps the many spellings seen in uploads ("shift-1", "S2", "2", ...)
// to the canonical form. Fails closed: anything unrecognized returns ok=false.
func Shift(input string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", false
	}
	s = strings.TrimPrefix(s, "shift")
	s = strings.Trim(s, " -_.")
	// "s1" / "s-2" style; only strip the "s" when a shift number follows, so
	// word aliases like "second" survive.
	if rest := strings.Trim(strings.TrimPrefix(s, "s"), " -_."); rest == "1" || rest == "2" {
		s = rest
	}
	switch s {
	case "1", "one", "first", "morning":
		return Shift1, true
	case "2", "two", "second", "afternoon", "evening":
		return Shift2, true
	}
	return "", false
}

// dateLayouts are tried in order after the ISO fast path.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// ExamDate returns the date in YYYY-MM-DD form. Already-ISO input passes
// through after validation; otherwise a small set of layouts is tried.
func ExamDate(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// TestKey is the canonical lookup key for a test: a normalized exam date
// plus a canonical shift name.
type TestKey struct {
	ExamDate string `json:"exam_date"`
	Shift    string `json:"shift"`
}

func (k TestKey) String() string { return k.ExamDate + "|" + k.Shift }

// TestIdentifier composes ExamDate and Shift into a TestKey, reporting a
// combined error when either part does not normalize.
func TestIdentifier(date, shift string) (TestKey, error) {
	d, okDate := ExamDate(date)
	s, okShift := Shift(shift)
	switch {
	case !okDate && !okShift:
		return TestKey{}, fmt.Errorf("invalid exam date %q and shift %q", date, shift)
	case !okDate:
		return TestKey{}, fmt.Errorf("invalid exam date %q", date)
	case !okShift:
		return TestKey{}, fmt.Errorf("invalid shift %q", shift)
	}
	return TestKey{ExamDate: d, Shift: s}, nil
}
