package sheet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The extractor is a second, independent pass over the same HTML that
// recovers display-oriented question data (subject, section, option labels,
// the student's answer as shown) for the review UI. It never feeds into
// scoring; its output is merged with scored responses afterwards.

// ExtractedOption is one choice row as shown on the sheet.
type ExtractedOption struct {
	Label string `json:"label"` // A..D
	ID    string `json:"id,omitempty"`
	Text  string `json:"text,omitempty"`
}

// ExtractedQuestion is one question's review-display record.
type ExtractedQuestion struct {
	Number     int               `json:"number"`
	QuestionID string            `json:"question_id"`
	Subject    string            `json:"subject"`
	Section    string            `json:"section"` // "A" or "B"
	Type       string            `json:"type"`    // mcq_single or numerical
	Text       string            `json:"text,omitempty"`
	Options    []ExtractedOption `json:"options,omitempty"`
	UserAnswer string            `json:"user_answer"`
}

// QuestionClassifier assigns subject and section to an extracted question.
// The positional rule is a heuristic over paper structure; an answer-key
// backed classifier should be preferred whenever key data is available.
type QuestionClassifier interface {
	Classify(questionID string, number int) (subject, section string)
}

// PositionalClassifier assumes a fixed paper: PerSubject questions per
// subject in Mathematics, Physics, Chemistry order, the last SectionBSize
// of each block being Section B numericals.
type PositionalClassifier struct {
	PerSubject   int
	SectionBSize int
}

// NewPositionalClassifier returns the standard 25-per-subject layout with a
// 5-question Section B.
func NewPositionalClassifier() PositionalClassifier {
	return PositionalClassifier{PerSubject: 25, SectionBSize: 5}
}

var subjectOrder = []string{"Mathematics", "Physics", "Chemistry"}

func (c PositionalClassifier) Classify(_ string, number int) (string, string) {
	per := c.PerSubject
	if per <= 0 {
		per = 25
	}
	idx := (number - 1) / per
	if idx < 0 {
		idx = 0
	}
	if idx >= len(subjectOrder) {
		idx = len(subjectOrder) - 1
	}
	section := "A"
	if pos := (number-1)%per + 1; pos > per-c.SectionBSize {
		section = "B"
	}
	return subjectOrder[idx], section
}

// KeyClassifier resolves subject/section from answer-key data when the
// question id is known there, falling back to Fallback (usually positional)
// for unmatched ids.
type KeyClassifier struct {
	Subjects  map[string]string // question id -> subject
	Numerical map[string]bool   // question id -> numerical (Section B)
	Fallback  QuestionClassifier
}

func (c KeyClassifier) Classify(questionID string, number int) (string, string) {
	if subj, ok := c.Subjects[questionID]; ok {
		section := "A"
		if c.Numerical[questionID] {
			section = "B"
		}
		return subj, section
	}
	if c.Fallback != nil {
		return c.Fallback.Classify(questionID, number)
	}
	return PositionalClassifier{PerSubject: 25, SectionBSize: 5}.Classify(questionID, number)
}

// ExtractQuestions reconstructs per-question display data from the sheet.
// Each question panel on the Digialm export is a table containing labeled
// rows; panels without a question id are skipped.
func ExtractQuestions(rawHTML string, cls QuestionClassifier) []ExtractedQuestion {
	if cls == nil {
		cls = NewPositionalClassifier()
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var out []ExtractedQuestion
	number := 0
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		text := tbl.Text()
		if !qidMarkerRe.MatchString(text) {
			return
		}
		// Skip outer tables that contain nested question tables; only the
		// innermost panel holds exactly one question id.
		if len(qidMarkerRe.FindAllString(text, -1)) > 1 {
			return
		}
		st := panelState(text)
		if st.questionID == "" {
			return
		}
		number++
		subject, section := cls.Classify(st.questionID, number)

		q := ExtractedQuestion{
			Number:     number,
			QuestionID: st.questionID,
			Subject:    subject,
			Section:    section,
			Type:       st.questionType,
			Text:       panelQuestionText(text),
			Options:    panelOptions(st),
			UserAnswer: resolveUserAnswer(st),
		}
		out = append(out, q)
	})
	return out
}

// panelState reuses the line classifier over one panel's flattened text.
func panelState(text string) digialmState {
	st := digialmState{questionType: "mcq_single"}
	for _, line := range splitTrimmed(text) {
		switch {
		case typeLineRe.MatchString(line):
			raw := strings.ToLower(typeLineRe.FindStringSubmatch(line)[1])
			if raw == "sa" || strings.Contains(raw, "numerical") {
				st.questionType = "numerical"
			} else {
				st.questionType = "mcq_single"
			}
		case qidLineRe.MatchString(line):
			st.questionID = qidLineRe.FindStringSubmatch(line)[1]
		case optionLineRe.MatchString(line):
			m := optionLineRe.FindStringSubmatch(line)
			n, _ := strconv.Atoi(m[1])
			if st.optionIDs == nil {
				st.optionIDs = make(map[int]string, 4)
			}
			st.optionIDs[n] = m[2]
		case statusLineRe.MatchString(line):
			st.status = statusLineRe.FindStringSubmatch(line)[1]
		case chosenLineRe.MatchString(line):
			st.chosenOption = chosenLineRe.FindStringSubmatch(line)[1]
		case givenLineRe.MatchString(line):
			st.givenAnswer = givenLineRe.FindStringSubmatch(line)[1]
		}
	}
	return st
}

func splitTrimmed(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// panelQuestionText returns the first line that is not a labeled field —
// best-effort recovery of the question stem. Image-only questions yield "".
func panelQuestionText(text string) string {
	for _, line := range splitTrimmed(text) {
		if strings.Contains(line, ":") {
			label := strings.ToLower(strings.TrimSpace(strings.SplitN(line, ":", 2)[0]))
			switch label {
			case "question type", "question id", "status", "chosen option", "given answer",
				"option 1 id", "option 2 id", "option 3 id", "option 4 id",
				"section", "subject", "marks", "question":
				continue
			}
		}
		// Stems arrive as "Q.12 <text>"; drop the numbering prefix.
		if m := stemPrefixRe.FindString(line); m != "" {
			line = strings.TrimSpace(line[len(m):])
		}
		if line != "" {
			return line
		}
	}
	return ""
}

var stemPrefixRe = regexp.MustCompile(`^Q\.?\s*\d+\s*`)

func panelOptions(st digialmState) []ExtractedOption {
	if st.questionType == "numerical" || len(st.optionIDs) == 0 {
		return nil
	}
	slots := make([]int, 0, len(st.optionIDs))
	for n := range st.optionIDs {
		slots = append(slots, n)
	}
	sort.Ints(slots)
	opts := make([]ExtractedOption, 0, len(slots))
	for _, n := range slots {
		opts = append(opts, ExtractedOption{
			Label: string(rune('A' + n - 1)),
			ID:    st.optionIDs[n],
		})
	}
	return opts
}

// resolveUserAnswer renders the student's answer the way the review UI
// shows it: an option letter, a numeric value, or "Not Answered".
func resolveUserAnswer(st digialmState) string {
	r, ok := st.finalize()
	if !ok || !r.Attempted {
		return "Not Answered"
	}
	if r.NumericValue != nil {
		return strings.TrimSpace(st.givenAnswer)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(st.chosenOption)); err == nil && n >= 1 && n <= 4 {
		return string(rune('A' + n - 1))
	}
	return strings.TrimSpace(st.chosenOption)
}

// MergeWithParsedResponses guarantees the review set covers every scored
// question: any response whose id is missing from the extracted list gets a
// minimal placeholder entry, classified and numbered after the real ones.
func MergeWithParsedResponses(qs []ExtractedQuestion, responses []Response, cls QuestionClassifier) []ExtractedQuestion {
	if cls == nil {
		cls = NewPositionalClassifier()
	}
	seen := make(map[string]bool, len(qs))
	number := 0
	for _, q := range qs {
		seen[q.QuestionID] = true
		if q.Number > number {
			number = q.Number
		}
	}
	out := qs
	for _, r := range responses {
		if seen[r.QuestionID] {
			continue
		}
		number++
		subject, section := cls.Classify(r.QuestionID, number)
		q := ExtractedQuestion{
			Number:     number,
			QuestionID: r.QuestionID,
			Subject:    subject,
			Section:    section,
			Type:       "mcq_single",
			UserAnswer: "Not Answered",
		}
		if r.NumericValue != nil {
			q.Type = "numerical"
			q.UserAnswer = strconv.FormatFloat(*r.NumericValue, 'f', -1, 64)
		} else if len(r.OptionIDs) > 0 {
			q.UserAnswer = strings.Join(r.OptionIDs, ", ")
		}
		out = append(out, q)
		seen[r.QuestionID] = true
	}
	return out
}
