package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scoremitra/scoremitra/internal/normalize"
	"github.com/scoremitra/scoremitra/internal/scoring"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

// POST /tests  { "name": "...", "exam_date": "...", "shift": "...", "marking_rules": {...} }
// Date and shift are normalized before storage; one test per sitting.
func CreateTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string        `json:"name"`
			ExamDate string        `json:"exam_date"`
			Shift    string        `json:"shift"`
			Rules    scoring.Rules `json:"marking_rules"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json")
			return
		}
		key, err := normalize.TestIdentifier(req.ExamDate, req.Shift)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		if _, err := store.FindTest(r.Context(), key.ExamDate, key.Shift); err == nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a test for this date and shift already exists"})
			return
		}
		rules := req.Rules
		if len(rules) == 0 {
			rules = scoring.DefaultJEERules()
		}
		t := testbank.Test{
			ID:        uuid.NewString(),
			Name:      req.Name,
			ExamDate:  key.ExamDate,
			Shift:     key.Shift,
			Rules:     rules,
			CreatedAt: time.Now().Unix(),
		}
		if t.Name == "" {
			t.Name = "JEE Main " + key.String()
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func ListTestsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tests, err := store.ListTests(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tests": tests})
	}
}

func GetTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// PUT /tests/{testID}/keys  [ {KeyEntry}, ... ]
// Replaces the whole key set; partial updates are not supported because NTA
// publishes revised keys as complete documents.
func PutKeysHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var keys []scoring.KeyEntry
		if err := json.NewDecoder(r.Body).Decode(&keys); err != nil {
			badRequest(w, "bad json")
			return
		}
		for _, k := range keys {
			if k.QuestionID == "" {
				badRequest(w, "key entry with empty question_id")
				return
			}
			switch k.Type {
			case scoring.MCQSingle, scoring.MSQ, scoring.Numerical:
			default:
				badRequest(w, "unknown question_type "+string(k.Type))
				return
			}
		}
		if err := store.PutKeys(r.Context(), chi.URLParam(r, "testID"), keys); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": len(keys)})
	}
}

func GetKeysHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := store.GetKeys(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
	}
}
