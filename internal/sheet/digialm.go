package sheet

import (
	"regexp"
	"strconv"
	"strings"
)

// The Digialm export carries every scoring-relevant field as a labeled line
// ("Question ID : 2264527891", "Chosen Option : 2", ...). Parsing flattens
// the HTML to lines and folds a small state machine over them; a question is
// finalized when the next "Question ID" line starts, and once more at EOF.

var (
	// Row-level closers become newlines; cell closers deliberately do not,
	// so a "Question ID :" label cell and its value cell join on one line.
	blockTagRe = regexp.MustCompile(`(?i)<\s*(?:br\s*/?|/p|/div|/tr|/li|/table|/h[1-6])\s*>`)
	anyTagRe   = regexp.MustCompile(`<[^>]*>`)

	sectionLineRe = regexp.MustCompile(`(?i)^section\s*:`)
	typeLineRe    = regexp.MustCompile(`(?i)^question\s*type\s*:\s*(\S+)`)
	qidLineRe     = regexp.MustCompile(`(?i)^question\s*id\s*:\s*(\d+)`)
	optionLineRe  = regexp.MustCompile(`(?i)^option\s*([1-4])\s*id\s*:\s*(\d+)`)
	statusLineRe  = regexp.MustCompile(`(?i)^status\s*:\s*(.+)$`)
	chosenLineRe  = regexp.MustCompile(`(?i)^chosen\s*option\s*:\s*(.*)$`)
	givenLineRe   = regexp.MustCompile(`(?i)^given\s*answer\s*:\s*(.*)$`)

	qidMarkerRe    = regexp.MustCompile(`(?i)question\s*id\s*:`)
	optionMarkerRe = regexp.MustCompile(`(?i)option\s*[1-4]\s*id\s*:`)
	chosenMarkerRe = regexp.MustCompile(`(?i)chosen\s*option\s*:`)
)

// entityReplacer decodes the handful of entities this portal actually emits.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// htmlToLines converts HTML to trimmed, non-empty plain-text lines:
// block-level closers become newlines, remaining tags are stripped and the
// portal's entity set is decoded.
func htmlToLines(html string) []string {
	text := blockTagRe.ReplaceAllString(html, "\n")
	text = anyTagRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// digialmState accumulates one question's labeled lines. Zero value is a
// fresh question.
type digialmState struct {
	subject      string
	questionID   string
	questionType string // "mcq_single" or "numerical"
	optionIDs    map[int]string
	status       string
	chosenOption string
	givenAnswer  string
}

// finalize turns the accumulated state into a Response. ok is false when no
// question id was seen (nothing accumulated yet).
func (st digialmState) finalize() (Response, bool) {
	if st.questionID == "" {
		return Response{}, false
	}
	// "Not Answered" contains "Answered", so the exclusion check is mandatory.
	low := strings.ToLower(st.status)
	answered := strings.Contains(low, "answered") && !strings.Contains(low, "not answered")

	r := Response{QuestionID: st.questionID}
	if st.questionType == "numerical" {
		v := strings.TrimSpace(st.givenAnswer)
		if answered && v != "" && v != "--" && v != "-" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				r.NumericValue = &f
				r.Attempted = true
			}
		}
		return r, true
	}
	v := strings.TrimSpace(st.chosenOption)
	if answered && v != "" && v != "--" && v != "-" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 4 {
			id := st.optionIDs[n]
			if id == "" {
				// Older exports omit option ids; fall back to letters.
				id = string(rune('A' + n - 1))
			}
			r.OptionIDs = []string{id}
			r.Attempted = true
		}
	}
	return r, true
}

// ParseDigialm extracts responses from a Digialm-format export. Exports
// disagree on where the type row sits relative to the id row inside a
// panel: when the document's first type line precedes its first id line,
// type lines are latched for the question about to start rather than
// retyping the one still accumulating.
func ParseDigialm(html string) []Response {
	lines := htmlToLines(html)
	typeLeads := false
	for _, line := range lines {
		if typeLineRe.MatchString(line) {
			typeLeads = true
			break
		}
		if qidLineRe.MatchString(line) {
			break
		}
	}

	var out []Response
	st := digialmState{}
	pendingType := ""
	for _, line := range lines {
		switch {
		case sectionLineRe.MatchString(line):
			if subj := subjectFromLine(line); subj != "" {
				st.subject = subj
			}
		case typeLineRe.MatchString(line):
			raw := strings.ToLower(typeLineRe.FindStringSubmatch(line)[1])
			qt := "mcq_single"
			if raw == "sa" || strings.Contains(raw, "numerical") {
				qt = "numerical"
			}
			if typeLeads {
				pendingType = qt
			} else {
				st.questionType = qt
			}
		case qidLineRe.MatchString(line):
			if r, ok := st.finalize(); ok {
				out = append(out, r)
			}
			qt := st.questionType // ids lead: type carries until restated
			if typeLeads {
				qt = pendingType
			}
			st = digialmState{subject: st.subject, questionType: qt}
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
	if r, ok := st.finalize(); ok {
		out = append(out, r)
	}
	return out
}

// subjectFromLine maps a "Section : ..." line to a subject name; returns ""
// when the line names no known subject so the previous value is retained.
func subjectFromLine(line string) string {
	low := strings.ToLower(line)
	switch {
	case strings.Contains(low, "math"):
		return "Mathematics"
	case strings.Contains(low, "physics"):
		return "Physics"
	case strings.Contains(low, "chem"):
		return "Chemistry"
	}
	return ""
}

// IsDigialmFormat is a cheap gate: at least two independent markers of the
// Digialm export must be present before committing to the primary parser.
func IsDigialmFormat(html string) bool {
	hits := 0
	if qidMarkerRe.MatchString(html) {
		hits++
	}
	if optionMarkerRe.MatchString(html) {
		hits++
	}
	if chosenMarkerRe.MatchString(html) {
		hits++
	}
	if strings.Contains(strings.ToLower(html), "digialm") {
		hits++
	}
	return hits >= 2
}
