package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/scoremitra/scoremitra/internal/sheet"
)

// DefaultTolerance is used when a numerical key entry does not specify one.
// This is deliberately not zero: exact float equality would fail honest
// answers that differ in the last decimal place shown on the sheet.
const DefaultTolerance = 0.01

// Outcome is the result of one scoring run.
type Outcome struct {
	Scored  []ScoredResponse `json:"scored"`
	Skipped []Skip           `json:"skipped,omitempty"`
	Summary Summary          `json:"summary"`
}

// Score applies the marking rules to every parsed response that has a key
// entry. Responses without one are skipped, not failed. The returned
// summary is computed by Summarize over the scored list, so it is
// reconstructible by construction.
func Score(responses []sheet.Response, keys []KeyEntry, rules Rules) Outcome {
	keyByID := make(map[string]KeyEntry, len(keys))
	for _, k := range keys {
		keyByID[k.QuestionID] = k
	}

	out := Outcome{Scored: make([]ScoredResponse, 0, len(responses))}
	for _, r := range responses {
		k, ok := keyByID[r.QuestionID]
		if !ok {
			out.Skipped = append(out.Skipped, Skip{QuestionID: r.QuestionID, Reason: "no answer key entry"})
			continue
		}
		out.Scored = append(out.Scored, scoreOne(r, k, rules))
	}
	out.Summary = Summarize(out.Scored)
	return out
}

func scoreOne(r sheet.Response, k KeyEntry, rules Rules) ScoredResponse {
	m := rules[k.Type]
	s := ScoredResponse{QuestionID: k.QuestionID, Subject: k.Subject}

	switch {
	case k.Cancelled:
		s.Status = StatusCancelled

	case k.Bonus:
		// Bonus credit goes to everyone except students who answered and
		// got it wrong; those score zero, never negative.
		if !r.Attempted || CheckAnswer(r, k) {
			s.Status = StatusCorrect
			s.Marks = m.Correct
		} else {
			s.Status = StatusWrong
		}

	case !r.Attempted:
		s.Status = StatusUnattempted
		s.Marks = m.Unattempted

	case CheckAnswer(r, k):
		s.Status = StatusCorrect
		s.Marks = m.Correct

	default:
		s.Status = StatusWrong
		if k.Type != Numerical {
			s.Marks = m.Wrong
		}
	}
	return s
}

// CheckAnswer reports whether a response matches its key entry. Missing
// correctness data on either side is "no match", never an error.
func CheckAnswer(r sheet.Response, k KeyEntry) bool {
	if k.Type == Numerical {
		if r.NumericValue == nil || k.CorrectNumeric == nil {
			return false
		}
		tol := k.Tolerance
		if tol == 0 {
			tol = DefaultTolerance
		}
		return math.Abs(*r.NumericValue-*k.CorrectNumeric) <= tol
	}
	if len(r.OptionIDs) == 0 || len(k.CorrectOptionIDs) == 0 {
		return false
	}
	return canonicalSet(r.OptionIDs) == canonicalSet(k.CorrectOptionIDs)
}

// canonicalSet sorts and joins ids so MSQ comparison is order-independent.
func canonicalSet(ids []string) string {
	cp := make([]string, len(ids))
	copy(cp, ids)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}

// Summarize recomputes the aggregate from a scored list. Cancelled
// questions contribute nothing to any tally.
func Summarize(scored []ScoredResponse) Summary {
	sum := Summary{BySubject: make(map[Subject]SubjectStats)}
	for _, s := range scored {
		if s.Status == StatusCancelled {
			continue
		}
		st := sum.BySubject[s.Subject]
		sum.TotalMarks += s.Marks
		st.Marks += s.Marks
		switch s.Status {
		case StatusCorrect:
			sum.Correct++
			sum.Attempted++
			st.Correct++
			st.Attempted++
		case StatusWrong:
			sum.Wrong++
			sum.Attempted++
			st.Wrong++
			st.Attempted++
		case StatusUnattempted:
			sum.Unattempted++
			st.Unattempted++
		}
		if s.Marks < 0 {
			sum.NegativeMarks += -s.Marks
		}
		sum.BySubject[s.Subject] = st
	}
	if sum.Attempted > 0 {
		sum.Accuracy = math.Round(float64(sum.Correct)/float64(sum.Attempted)*100*100) / 100
	}
	return sum
}
