// Package testbank stores test records (one per exam date + shift) and
// their answer-key sets.
package testbank

import (
	"github.com/scoremitra/scoremitra/internal/scoring"
)

// Test is one exam sitting: the canonical (exam date, shift) key, a display
// name and the marking rules in force for it.
type Test struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ExamDate  string        `json:"exam_date"` // normalized YYYY-MM-DD
	Shift     string        `json:"shift"`     // "Shift 1" or "Shift 2"
	Rules     scoring.Rules `json:"marking_rules"`
	CreatedAt int64         `json:"created_at,omitempty"`
}
