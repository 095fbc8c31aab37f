// Package scoring applies JEE Main marking rules to parsed responses,
// producing per-question results and a deterministic, recomputable summary.
package scoring

// Subject is one of the three JEE Main papers' subjects.
type Subject string

const (
	Mathematics Subject = "Mathematics"
	Physics     Subject = "Physics"
	Chemistry   Subject = "Chemistry"
)

// QuestionType distinguishes the marking regimes.
type QuestionType string

const (
	MCQSingle QuestionType = "mcq_single"
	MSQ       QuestionType = "msq"
	Numerical QuestionType = "numerical"
)

// KeyEntry is the authoritative correct answer for one question.
// Exactly one of CorrectOptionIDs / CorrectNumeric is set, matching Type.
type KeyEntry struct {
	QuestionID       string       `json:"question_id"`
	Subject          Subject      `json:"subject"`
	Type             QuestionType `json:"question_type"`
	CorrectOptionIDs []string     `json:"correct_option_ids,omitempty"`
	CorrectNumeric   *float64     `json:"correct_numeric_value,omitempty"`
	// Tolerance is the absolute tolerance for numerical answers. Zero means
	// "use the default"; see DefaultTolerance.
	Tolerance float64 `json:"numeric_tolerance,omitempty"`
	Cancelled bool    `json:"is_cancelled,omitempty"`
	Bonus     bool    `json:"is_bonus,omitempty"`
}

// Marks is the point delta set for one question type.
type Marks struct {
	Correct     int `json:"correct"`
	Wrong       int `json:"wrong"`
	Unattempted int `json:"unattempted"`
}

// Rules maps question types to marks deltas, supplied per test.
//
// Contract note: the engine overrides Wrong to 0 for numerical questions no
// matter what the configured value says — JEE Main Section B carries no
// negative marking, and that rule is enforced here rather than trusted to
// every rules author.
type Rules map[QuestionType]Marks

// DefaultJEERules is the standard JEE Main scheme (+4 / -1 / 0).
func DefaultJEERules() Rules {
	return Rules{
		MCQSingle: {Correct: 4, Wrong: -1, Unattempted: 0},
		MSQ:       {Correct: 4, Wrong: -2, Unattempted: 0},
		Numerical: {Correct: 4, Wrong: 0, Unattempted: 0},
	}
}

// Status is the scored outcome class of one question.
type Status string

const (
	StatusCorrect     Status = "correct"
	StatusWrong       Status = "wrong"
	StatusUnattempted Status = "unattempted"
	StatusCancelled   Status = "cancelled"
)

// ScoredResponse is the immutable scoring outcome for one question.
type ScoredResponse struct {
	QuestionID string  `json:"question_id"`
	Status     Status  `json:"status"`
	Marks      int     `json:"marks_awarded"`
	Subject    Subject `json:"subject"`
}

// Skip records a response that could not be scored. A missing key entry is
// not an error: the portal sometimes returns questions outside the supplied
// key set.
type Skip struct {
	QuestionID string `json:"question_id"`
	Reason     string `json:"reason"`
}

// SubjectStats mirrors the global tallies for one subject.
type SubjectStats struct {
	Marks       int `json:"marks"`
	Attempted   int `json:"attempted"`
	Correct     int `json:"correct"`
	Wrong       int `json:"wrong"`
	Unattempted int `json:"unattempted"`
}

// Summary aggregates a scoring run. It is always derived from the
// ScoredResponse list (see Summarize); no counter in it is independently
// authoritative.
type Summary struct {
	TotalMarks    int                      `json:"total_marks"`
	BySubject     map[Subject]SubjectStats `json:"by_subject"`
	Attempted     int                      `json:"attempted"`
	Correct       int                      `json:"correct"`
	Wrong         int                      `json:"wrong"`
	Unattempted   int                      `json:"unattempted"`
	NegativeMarks int                      `json:"negative_marks"`
	Accuracy      float64                  `json:"accuracy"`
}
