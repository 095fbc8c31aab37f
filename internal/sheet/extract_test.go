package sheet

import (
	"testing"
)

func TestPositionalClassifier(t *testing.T) {
	cls := NewPositionalClassifier()
	tests := []struct {
		number  int
		subject string
		section string
	}{
		{1, "Mathematics", "A"},
		{20, "Mathematics", "A"},
		{21, "Mathematics", "B"},
		{25, "Mathematics", "B"},
		{26, "Physics", "A"},
		{46, "Physics", "B"},
		{50, "Physics", "B"},
		{51, "Chemistry", "A"},
		{75, "Chemistry", "B"},
		// Beyond the assumed structure: clamp to the last subject.
		{80, "Chemistry", "B"},
	}
	for _, tc := range tests {
		subj, sec := cls.Classify("", tc.number)
		if subj != tc.subject || sec != tc.section {
			t.Errorf("question %d: got (%s, %s), want (%s, %s)", tc.number, subj, sec, tc.subject, tc.section)
		}
	}
}

func TestKeyClassifier(t *testing.T) {
	cls := KeyClassifier{
		Subjects:  map[string]string{"111": "Physics", "222": "Chemistry"},
		Numerical: map[string]bool{"222": true},
		Fallback:  NewPositionalClassifier(),
	}

	if subj, sec := cls.Classify("111", 1); subj != "Physics" || sec != "A" {
		t.Errorf("key-driven MCQ: (%s, %s)", subj, sec)
	}
	if subj, sec := cls.Classify("222", 1); subj != "Chemistry" || sec != "B" {
		t.Errorf("key-driven numerical: (%s, %s)", subj, sec)
	}
	// Unknown id at position 1 falls back to the positional rule.
	if subj, sec := cls.Classify("999", 1); subj != "Mathematics" || sec != "A" {
		t.Errorf("fallback: (%s, %s)", subj, sec)
	}
}

func TestExtractQuestions(t *testing.T) {
	qs := ExtractQuestions(digialmFixture(), NewPositionalClassifier())
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d: %+v", len(qs), qs)
	}

	q := qs[0]
	if q.Number != 1 || q.QuestionID != "2264521001" {
		t.Errorf("q1 identity: %+v", q)
	}
	if q.Subject != "Mathematics" || q.Section != "A" {
		t.Errorf("q1 classification: %+v", q)
	}
	if len(q.Options) != 4 || q.Options[0].Label != "A" || q.Options[1].ID != "2264525002" {
		t.Errorf("q1 options: %+v", q.Options)
	}
	if q.UserAnswer != "B" {
		t.Errorf("q1 user answer = %q, want B", q.UserAnswer)
	}
	if q.Text == "" {
		t.Errorf("q1 should recover stem text")
	}

	if qs[1].UserAnswer != "Not Answered" {
		t.Errorf("q2 user answer = %q", qs[1].UserAnswer)
	}
	if qs[2].Type != "numerical" || qs[2].UserAnswer != "42.5" {
		t.Errorf("q3: %+v", qs[2])
	}
	if qs[2].Options != nil {
		t.Errorf("numerical question must have no options: %+v", qs[2].Options)
	}
}

func TestMergeWithParsedResponses(t *testing.T) {
	v := 7.0
	extracted := []ExtractedQuestion{
		{Number: 1, QuestionID: "100", Subject: "Mathematics", Section: "A"},
	}
	responses := []Response{
		{QuestionID: "100", Attempted: true, OptionIDs: []string{"A"}},
		{QuestionID: "200", Attempted: true, NumericValue: &v},
		{QuestionID: "300", Attempted: false},
	}
	merged := MergeWithParsedResponses(extracted, responses, NewPositionalClassifier())
	if len(merged) != 3 {
		t.Fatalf("expected 3 after merge, got %d", len(merged))
	}
	byID := map[string]ExtractedQuestion{}
	for _, q := range merged {
		byID[q.QuestionID] = q
	}
	if q := byID["200"]; q.Type != "numerical" || q.UserAnswer != "7" {
		t.Errorf("synthesized numerical: %+v", q)
	}
	if q := byID["300"]; q.UserAnswer != "Not Answered" {
		t.Errorf("synthesized blank: %+v", q)
	}
	if byID["200"].Number != 2 || byID["300"].Number != 3 {
		t.Errorf("numbering should continue after extracted set: %+v", merged)
	}
}

func TestMergeNoClassifierDefaults(t *testing.T) {
	merged := MergeWithParsedResponses(nil, []Response{{QuestionID: "1"}}, nil)
	if len(merged) != 1 || merged[0].Subject != "Mathematics" {
		t.Errorf("default classifier should apply: %+v", merged)
	}
}
