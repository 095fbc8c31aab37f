package sheet

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Fallback extraction for sheets that are not (or no longer) in the Digialm
// format: first a DOM scan of id/answer cell pairs in tables, then, only if
// that finds nothing, positional pairing of labeled id and answer matches in
// the flattened text.

var (
	cellQuestionIDRe = regexp.MustCompile(`^(?:\d{10,}|Q\d+)$`)
	singleLetterRe   = regexp.MustCompile(`^[A-D]$`)
	multiLetterRe    = regexp.MustCompile(`^[A-D](?:[,\s]+[A-D])+$`)
	decimalRe        = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?$`)
	splitLettersRe   = regexp.MustCompile(`[,\s]+`)

	pairQuestionRe = regexp.MustCompile(`(?i)question\s*(?:id|no\.?)?\s*:\s*(\d+)`)
	pairAnswerRe   = regexp.MustCompile(`(?i)(?:chosen|selected)\s*(?:option|answer)\s*:\s*(\S+)`)
)

// classifyAnswer builds a Response from a question id cell and the text of
// its answer cell. ok is false when the value is not recognizable.
func classifyAnswer(qid, value string) (Response, bool) {
	qid = strings.TrimPrefix(strings.TrimSpace(qid), "Q")
	value = strings.TrimSpace(value)
	r := Response{QuestionID: qid}

	low := strings.ToLower(value)
	switch {
	case value == "" || value == "--" || value == "-" || low == "not answered":
		return r, true
	case singleLetterRe.MatchString(value):
		r.OptionIDs = []string{value}
		r.Attempted = true
		return r, true
	case multiLetterRe.MatchString(value):
		r.OptionIDs = splitLettersRe.Split(value, -1)
		r.Attempted = true
		return r, true
	case decimalRe.MatchString(value):
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Response{}, false
		}
		r.NumericValue = &f
		r.Attempted = true
		return r, true
	}
	return Response{}, false
}

// ParseGeneric is the best-effort fallback parser.
func ParseGeneric(rawHTML string) []Response {
	if out := parseTables(rawHTML); len(out) > 0 {
		return out
	}
	return parseLabeledPairs(rawHTML)
}

// parseTables walks every table row looking for a question-id cell followed
// by an answer cell.
func parseTables(rawHTML string) []Response {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	var out []Response
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := rowCellTexts(n)
			// A row can lay out several questions side by side; scan past
			// each consumed answer cell rather than stopping at the first.
			for i := 0; i < len(cells)-1; i++ {
				if !cellQuestionIDRe.MatchString(cells[i]) {
					continue
				}
				if r, ok := classifyAnswer(cells[i], cells[i+1]); ok {
					out = append(out, r)
					i++
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// rowCellTexts collects the trimmed text of each td/th cell in a row.
func rowCellTexts(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// parseLabeledPairs pairs "Question (ID|No.) : <id>" and
// "(Chosen|Selected) (Option|Answer) : <value>" occurrences positionally.
// Used only when the counts line up; a mismatch means the pairing would be
// guesswork.
func parseLabeledPairs(rawHTML string) []Response {
	text := anyTagRe.ReplaceAllString(rawHTML, " ")
	text = entityReplacer.Replace(text)

	ids := pairQuestionRe.FindAllStringSubmatch(text, -1)
	answers := pairAnswerRe.FindAllStringSubmatch(text, -1)
	if len(ids) == 0 || len(ids) != len(answers) {
		return nil
	}
	var out []Response
	for i := range ids {
		if r, ok := classifyAnswer(ids[i][1], answers[i][1]); ok {
			out = append(out, r)
		}
	}
	return out
}
