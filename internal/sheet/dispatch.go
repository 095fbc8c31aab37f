package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResponses is returned when neither parser extracts anything.
var ErrNoResponses = errors.New("could not parse any responses from the sheet")

// Parse detects the sheet format, runs the matching parser and deduplicates
// the result. A Digialm detection that yields nothing falls through to the
// generic parser.
func Parse(rawHTML string) ([]Response, error) {
	if IsDigialmFormat(rawHTML) {
		if out := ParseDigialm(rawHTML); len(out) > 0 {
			return Dedupe(out), nil
		}
	}
	out := ParseGeneric(rawHTML)
	if len(out) == 0 {
		return nil, ErrNoResponses
	}
	return Dedupe(out), nil
}

// Dedupe collapses duplicate question ids. Policy: last write wins — when
// the same id appears twice the later occurrence replaces the earlier one
// in place. Callers must not rely on input order being preserved for
// duplicates.
func Dedupe(responses []Response) []Response {
	index := make(map[string]int, len(responses))
	out := make([]Response, 0, len(responses))
	for _, r := range responses {
		if i, seen := index[r.QuestionID]; seen {
			out[i] = r
			continue
		}
		index[r.QuestionID] = len(out)
		out = append(out, r)
	}
	return out
}

// sheetKeywords is the loose evidence set for non-Digialm sheets.
var sheetKeywords = []string{"question", "response", "option", "answer", "jee", "nta"}

// Validate rejects input that cannot plausibly be a response sheet before
// any parsing is attempted. The message is user-facing.
func Validate(rawHTML string) error {
	if len(rawHTML) < 100 {
		return errors.New("file is too small to be a response sheet")
	}
	if IsDigialmFormat(rawHTML) {
		return nil
	}
	low := strings.ToLower(rawHTML)
	hits := 0
	for _, kw := range sheetKeywords {
		if strings.Contains(low, kw) {
			hits++
		}
	}
	if hits < 2 {
		return fmt.Errorf("this does not look like a JEE response sheet (no exam keywords found)")
	}
	return nil
}
