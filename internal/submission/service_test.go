package submission

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/scoremitra/scoremitra/internal/percentile"
	"github.com/scoremitra/scoremitra/internal/scoring"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

// memBlobs is an in-memory BlobStore for pipeline tests.
type memBlobs struct {
	blobs map[string][]byte
}

func newMemBlobs() *memBlobs { return &memBlobs{blobs: map[string][]byte{}} }

func (m *memBlobs) Put(key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.blobs[key] = b
	return key, nil
}

func (m *memBlobs) Get(key string) (io.ReadCloser, error) {
	b, ok := m.blobs[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func fptr(v float64) *float64 { return &v }

// pipelineSheet builds a two-question Digialm export: one MCQ with the given
// chosen option and one numerical with the given answer text.
func pipelineSheet(chosen, given string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div>JEE Main Question Paper and Response - digialm</div>`)
	b.WriteString(`<table><tr><td>Section :</td><td>Mathematics Section A</td></tr></table>`)
	b.WriteString(`<table><tr><td>Question Type :</td><td>MCQ</td></tr>`)
	b.WriteString(`<tr><td>Question ID :</td><td>1001</td></tr>`)
	b.WriteString(`<tr><td>Option 1 ID :</td><td>5001</td></tr>`)
	b.WriteString(`<tr><td>Option 2 ID :</td><td>5002</td></tr>`)
	b.WriteString(`<tr><td>Option 3 ID :</td><td>5003</td></tr>`)
	b.WriteString(`<tr><td>Option 4 ID :</td><td>5004</td></tr>`)
	b.WriteString(`<tr><td>Status :</td><td>Answered</td></tr>`)
	b.WriteString(`<tr><td>Chosen Option :</td><td>` + chosen + `</td></tr></table>`)
	b.WriteString(`<table><tr><td>Question Type :</td><td>SA</td></tr>`)
	b.WriteString(`<tr><td>Question ID :</td><td>1002</td></tr>`)
	b.WriteString(`<tr><td>Status :</td><td>Answered</td></tr>`)
	b.WriteString(`<tr><td>Given Answer :</td><td>` + given + `</td></tr></table>`)
	b.WriteString(`</body></html>`)
	return b.String()
}

func pipelineKeys() []scoring.KeyEntry {
	return []scoring.KeyEntry{
		{QuestionID: "1001", Subject: scoring.Mathematics, Type: scoring.MCQSingle, CorrectOptionIDs: []string{"5002"}},
		{QuestionID: "1002", Subject: scoring.Mathematics, Type: scoring.Numerical, CorrectNumeric: fptr(42.5)},
	}
}

func newTestService(t *testing.T) (*Service, *memBlobs) {
	t.Helper()
	ctx := context.Background()
	tests := testbank.NewInMemoryStore()
	test := testbank.Test{
		ID:       "t1",
		Name:     "JEE Main 2026 Jan 21 Shift 1",
		ExamDate: "2026-01-21",
		Shift:    "Shift 1",
		Rules:    scoring.DefaultJEERules(),
	}
	if err := tests.PutTest(ctx, test); err != nil {
		t.Fatal(err)
	}
	if err := tests.PutKeys(ctx, "t1", pipelineKeys()); err != nil {
		t.Fatal(err)
	}
	est := percentile.New(
		map[string]string{"2026-01-21|Shift 1": "2025-01-22|Shift 1"},
		map[string][]percentile.Point{
			"2025-01-22|Shift 1": {{Marks: 0, Percentile: 10}, {Marks: 100, Percentile: 99}},
		},
	)
	blobs := newMemBlobs()
	return NewService(tests, NewInMemoryStore(), blobs, nil, est), blobs
}

func TestProcessCorrectAnswer(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()

	// Chosen option 2 maps to option id 5002, the keyed answer.
	rep, err := svc.Process(ctx, "t1", "u1", pipelineSheet("2", "42.5"))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Summary.TotalMarks != 8 {
		t.Fatalf("total = %d, want 8", rep.Summary.TotalMarks)
	}
	if rep.Summary.Correct != 2 || rep.Summary.Wrong != 0 {
		t.Fatalf("correct/wrong = %d/%d, want 2/0", rep.Summary.Correct, rep.Summary.Wrong)
	}
	if rep.Percentile.Percentile == nil {
		t.Fatal("expected a percentile estimate")
	}
	if rep.Percentile.MappedShift != "2025-01-22|Shift 1" {
		t.Fatalf("mapped shift = %q", rep.Percentile.MappedShift)
	}
	if len(rep.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(rep.Questions))
	}
	if rep.Questions[0].Subject != "Mathematics" {
		t.Fatalf("subject = %q", rep.Questions[0].Subject)
	}

	rec, err := svc.Get(ctx, rep.SubmissionID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.TotalMarks != 8 || rec.UserID != "u1" {
		t.Fatalf("record = %+v", rec)
	}
	if _, ok := blobs.blobs[rec.SheetKey]; !ok {
		t.Fatal("sheet was not archived")
	}
}

func TestProcessWrongAnswer(t *testing.T) {
	svc, _ := newTestService(t)

	// Chosen option 3 is wrong (-1); numerical wrong scores 0, never negative.
	rep, err := svc.Process(context.Background(), "t1", "u1", pipelineSheet("3", "41.0"))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Summary.TotalMarks != -1 {
		t.Fatalf("total = %d, want -1", rep.Summary.TotalMarks)
	}
	if rep.Summary.Wrong != 2 {
		t.Fatalf("wrong = %d, want 2", rep.Summary.Wrong)
	}
	if rep.Summary.NegativeMarks != 1 {
		t.Fatalf("negative marks = %d, want 1", rep.Summary.NegativeMarks)
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Process(ctx, "t1", "u1", "tiny"); !errors.Is(err, ErrInvalidSheet) {
		t.Fatalf("tiny input: err = %v, want ErrInvalidSheet", err)
	}
	long := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	if _, err := svc.Process(ctx, "t1", "u1", long); !errors.Is(err, ErrInvalidSheet) {
		t.Fatalf("non-exam text: err = %v, want ErrInvalidSheet", err)
	}
}

func TestProcessUnknownTest(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Process(context.Background(), "nope", "u1", pipelineSheet("2", "42.5"))
	if !errors.Is(err, testbank.ErrTestNotFound) {
		t.Fatalf("err = %v, want ErrTestNotFound", err)
	}
}

func TestDiagnostics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rep, err := svc.Process(ctx, "t1", "u1", pipelineSheet("2", "42.5"))
	if err != nil {
		t.Fatal(err)
	}
	mr, err := svc.Diagnostics(ctx, rep.SubmissionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mr.Matched) != 2 || len(mr.Unmatched) != 0 {
		t.Fatalf("matched/unmatched = %d/%d", len(mr.Matched), len(mr.Unmatched))
	}
	sm := mr.BySubject[scoring.Mathematics]
	if sm.Matched != 2 || sm.Total != 2 {
		t.Fatalf("subject match = %+v", sm)
	}
}

func TestDiagnosticsWithoutArchive(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Blobs = nil
	ctx := context.Background()

	rep, err := svc.Process(ctx, "t1", "u1", pipelineSheet("2", "42.5"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Diagnostics(ctx, rep.SubmissionID); err == nil {
		t.Fatal("expected error when no sheet archived")
	}
}

func TestKeyClassifierPrefersKeys(t *testing.T) {
	cls := classifierFromKeys([]scoring.KeyEntry{
		{QuestionID: "9001", Subject: scoring.Chemistry, Type: scoring.Numerical},
	})
	subj, section := cls.Classify("9001", 1)
	if subj != "Chemistry" || section != "B" {
		t.Fatalf("keyed classify = %s/%s, want Chemistry/B", subj, section)
	}
	// Unknown ids fall back to paper position: question 1 is Mathematics A.
	subj, section = cls.Classify("other", 1)
	if subj != "Mathematics" || section != "A" {
		t.Fatalf("fallback classify = %s/%s, want Mathematics/A", subj, section)
	}
}
