package sheet

import (
	"strings"
	"testing"
)

func TestDedupeLastWriteWins(t *testing.T) {
	v1 := 1.0
	in := []Response{
		{QuestionID: "100", OptionIDs: []string{"A"}, Attempted: true},
		{QuestionID: "200", Attempted: false},
		{QuestionID: "100", NumericValue: &v1, Attempted: true},
	}
	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("got %d responses", len(out))
	}
	var got Response
	for _, r := range out {
		if r.QuestionID == "100" {
			got = r
		}
	}
	if got.NumericValue == nil || got.OptionIDs != nil {
		t.Errorf("last occurrence must win: %+v", got)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	in := []Response{
		{QuestionID: "1", Attempted: true, OptionIDs: []string{"A"}},
		{QuestionID: "2"},
		{QuestionID: "1", Attempted: true, OptionIDs: []string{"B"}},
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].QuestionID != twice[i].QuestionID {
			t.Errorf("entry %d changed between passes", i)
		}
	}
}

func TestParseFallsBackWhenDigialmYieldsNothing(t *testing.T) {
	// Markers present (detection fires) but no parseable Digialm block; the
	// generic table scan must take over.
	html := `<p>digialm</p><p>Chosen Option :</p>
<table><tr><td>1234567890</td><td>B</td></tr></table>` + strings.Repeat(" ", 100)
	got, err := Parse(html)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].QuestionID != "1234567890" {
		t.Errorf("fallback result: %+v", got)
	}
}

func TestParseNothing(t *testing.T) {
	if _, err := Parse("<html><body><p>hello world</p></body></html>"); err == nil {
		t.Error("expected ErrNoResponses")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("tiny"); err == nil {
		t.Error("short input must be rejected")
	}
	if err := Validate(digialmFixture()); err != nil {
		t.Errorf("digialm fixture must validate: %v", err)
	}

	padding := strings.Repeat("x", 120)
	if err := Validate("<html>" + padding + " question option </html>"); err != nil {
		t.Errorf("two keywords should pass: %v", err)
	}
	if err := Validate("<html>" + padding + " question only here</html>"); err == nil {
		t.Error("one keyword must be rejected")
	}
	if err := Validate("<html>" + padding + " nothing exam-like</html>"); err == nil {
		t.Error("no keywords must be rejected")
	}
}
