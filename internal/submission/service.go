package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoremitra/scoremitra/internal/audit"
	"github.com/scoremitra/scoremitra/internal/percentile"
	"github.com/scoremitra/scoremitra/internal/scoring"
	"github.com/scoremitra/scoremitra/internal/sheet"
	"github.com/scoremitra/scoremitra/internal/storage"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

// ErrInvalidSheet wraps upfront validation failures so transport code can
// tell a bad upload from a pipeline fault.
var ErrInvalidSheet = errors.New("invalid response sheet")

// Service runs the whole pipeline for one uploaded sheet and persists the
// outcome. Blobs and Events are optional; a nil value disables that step.
type Service struct {
	Tests     testbank.Store
	Store     Store
	Blobs     storage.BlobStore
	Events    *audit.EventRepo
	Estimator *percentile.Estimator
}

func NewService(tests testbank.Store, store Store, blobs storage.BlobStore, events *audit.EventRepo, est *percentile.Estimator) *Service {
	return &Service{Tests: tests, Store: store, Blobs: blobs, Events: events, Estimator: est}
}

// Process validates, parses and scores rawHTML against testID's keys, then
// persists the record. The stored report is the same value returned here.
func (s *Service) Process(ctx context.Context, testID, userID, rawHTML string) (Report, error) {
	if err := sheet.Validate(rawHTML); err != nil {
		return Report{}, fmt.Errorf("%w: %s", ErrInvalidSheet, err)
	}
	responses, err := sheet.Parse(rawHTML)
	if err != nil {
		return Report{}, err
	}

	test, err := s.Tests.GetTest(ctx, testID)
	if err != nil {
		return Report{}, err
	}
	keys, err := s.Tests.GetKeys(ctx, testID)
	if err != nil {
		return Report{}, err
	}

	rules := test.Rules
	if len(rules) == 0 {
		rules = scoring.DefaultJEERules()
	}
	out := scoring.Score(responses, keys, rules)

	cls := classifierFromKeys(keys)
	questions := sheet.ExtractQuestions(rawHTML, cls)
	questions = sheet.MergeWithParsedResponses(questions, responses, cls)

	var pct percentile.Result
	if s.Estimator != nil {
		pct = s.Estimator.Estimate(out.Summary.TotalMarks, test.ExamDate, test.Shift)
	} else {
		pct = percentile.Result{Display: "N/A"}
	}

	report := Report{
		SubmissionID: uuid.NewString(),
		TestID:       test.ID,
		ExamDate:     test.ExamDate,
		Shift:        test.Shift,
		Summary:      out.Summary,
		Scored:       out.Scored,
		Skipped:      out.Skipped,
		Questions:    questions,
		Percentile:   pct,
	}

	sheetKey := ""
	if s.Blobs != nil {
		sheetKey, err = s.Blobs.Put("submissions/"+report.SubmissionID+".html", strings.NewReader(rawHTML))
		if err != nil {
			return Report{}, fmt.Errorf("store sheet: %w", err)
		}
	}

	rec := Record{
		ID:         report.SubmissionID,
		TestID:     test.ID,
		UserID:     userID,
		TotalMarks: out.Summary.TotalMarks,
		Percentile: pct.Percentile,
		SheetKey:   sheetKey,
		CreatedAt:  time.Now().Unix(),
		Report:     report,
	}
	if err := s.Store.Put(ctx, rec); err != nil {
		return Report{}, fmt.Errorf("persist submission: %w", err)
	}

	if s.Events != nil {
		data, _ := json.Marshal(map[string]any{
			"test_id":     test.ID,
			"user_id":     userID,
			"total_marks": out.Summary.TotalMarks,
			"scored":      len(out.Scored),
			"skipped":     len(out.Skipped),
		})
		if err := s.Events.Append(ctx, audit.Event{
			Type:     "SubmissionScored",
			Key:      report.SubmissionID,
			DataJSON: string(data),
		}); err != nil {
			return Report{}, fmt.Errorf("append audit event: %w", err)
		}
	}
	return report, nil
}

// Get returns a stored submission record.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.Store.Get(ctx, id)
}

// Diagnostics re-parses the archived sheet and reports how the parse lines
// up with the test's current keys. Useful when a student suspects the wrong
// shift was selected.
func (s *Service) Diagnostics(ctx context.Context, id string) (scoring.MatchReport, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return scoring.MatchReport{}, err
	}
	if s.Blobs == nil || rec.SheetKey == "" {
		return scoring.MatchReport{}, errors.New("original sheet not archived")
	}
	rc, err := s.Blobs.Get(rec.SheetKey)
	if err != nil {
		return scoring.MatchReport{}, fmt.Errorf("fetch sheet: %w", err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return scoring.MatchReport{}, err
	}
	responses, err := sheet.Parse(string(raw))
	if err != nil {
		return scoring.MatchReport{}, err
	}
	keys, err := s.Tests.GetKeys(ctx, rec.TestID)
	if err != nil {
		return scoring.MatchReport{}, err
	}
	return scoring.MatchResponsesWithKeys(responses, keys), nil
}

// classifierFromKeys prefers key-backed subject/section resolution and only
// falls back to paper position for ids absent from the key set.
func classifierFromKeys(keys []scoring.KeyEntry) sheet.QuestionClassifier {
	if len(keys) == 0 {
		return sheet.NewPositionalClassifier()
	}
	subjects := make(map[string]string, len(keys))
	numerical := make(map[string]bool, len(keys))
	for _, k := range keys {
		subjects[k.QuestionID] = string(k.Subject)
		if k.Type == scoring.Numerical {
			numerical[k.QuestionID] = true
		}
	}
	return sheet.KeyClassifier{
		Subjects:  subjects,
		Numerical: numerical,
		Fallback:  sheet.NewPositionalClassifier(),
	}
}
