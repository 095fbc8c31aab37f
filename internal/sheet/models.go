// Package sheet extracts per-question responses from JEE Main response-sheet
// HTML exports. The primary parser targets the Digialm portal format; a
// generic table/regex fallback covers older or re-saved exports.
package sheet

// Response is one student answer as extracted from HTML, before scoring.
// Question ids are long numeric strings and must stay strings end to end;
// treating them as numbers loses precision.
type Response struct {
	QuestionID string `json:"question_id"`
	// OptionIDs holds the claimed option ids for MCQ/MSQ questions.
	// NumericValue holds the claimed value for numerical questions.
	// At most one of the two is set, consistent with Attempted.
	OptionIDs    []string `json:"claimed_option_ids,omitempty"`
	NumericValue *float64 `json:"claimed_numeric_value,omitempty"`
	Attempted    bool     `json:"is_attempted"`
}
