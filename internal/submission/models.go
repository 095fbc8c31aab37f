// Package submission orchestrates the scoring pipeline: validate the
// uploaded sheet, parse it, score it against the test's answer keys,
// estimate a percentile, and persist an auditable report.
package submission

import (
	"github.com/scoremitra/scoremitra/internal/percentile"
	"github.com/scoremitra/scoremitra/internal/scoring"
	"github.com/scoremitra/scoremitra/internal/sheet"
)

// Report is the full outcome handed back to the student and persisted
// verbatim so re-reads never re-run the pipeline.
type Report struct {
	SubmissionID string                    `json:"submission_id"`
	TestID       string                    `json:"test_id"`
	ExamDate     string                    `json:"exam_date"`
	Shift        string                    `json:"shift"`
	Summary      scoring.Summary           `json:"summary"`
	Scored       []scoring.ScoredResponse  `json:"scored_responses"`
	Skipped      []scoring.Skip            `json:"skipped,omitempty"`
	Questions    []sheet.ExtractedQuestion `json:"questions"`
	Percentile   percentile.Result         `json:"percentile"`
}

// Record is the row-level view used for listings; the report rides along
// as JSON.
type Record struct {
	ID         string   `json:"id"`
	TestID     string   `json:"test_id"`
	UserID     string   `json:"user_id"`
	TotalMarks int      `json:"total_marks"`
	Percentile *float64 `json:"percentile,omitempty"`
	SheetKey   string   `json:"sheet_key"`
	CreatedAt  int64    `json:"created_at"`
	Report     Report   `json:"report"`
}
