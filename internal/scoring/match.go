package scoring

import "github.com/scoremitra/scoremitra/internal/sheet"

// SubjectMatch is the per-subject matched/total breakdown.
type SubjectMatch struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

// MatchReport tells a caller how well a parse lines up with a key set. A
// high mismatch rate usually means the wrong exam or shift was selected.
type MatchReport struct {
	Matched   []string                 `json:"matched"`
	Unmatched []string                 `json:"unmatched"`
	BySubject map[Subject]SubjectMatch `json:"by_subject"`
}

// MatchResponsesWithKeys is diagnostic only; it does not affect scoring.
func MatchResponsesWithKeys(responses []sheet.Response, keys []KeyEntry) MatchReport {
	keyByID := make(map[string]KeyEntry, len(keys))
	report := MatchReport{BySubject: make(map[Subject]SubjectMatch)}
	for _, k := range keys {
		keyByID[k.QuestionID] = k
		sm := report.BySubject[k.Subject]
		sm.Total++
		report.BySubject[k.Subject] = sm
	}
	for _, r := range responses {
		k, ok := keyByID[r.QuestionID]
		if !ok {
			report.Unmatched = append(report.Unmatched, r.QuestionID)
			continue
		}
		report.Matched = append(report.Matched, r.QuestionID)
		sm := report.BySubject[k.Subject]
		sm.Matched++
		report.BySubject[k.Subject] = sm
	}
	return report
}
