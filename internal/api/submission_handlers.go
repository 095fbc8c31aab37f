package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/scoremitra/scoremitra/internal/auth/middleware"
	"github.com/scoremitra/scoremitra/internal/normalize"
	"github.com/scoremitra/scoremitra/internal/percentile"
	"github.com/scoremitra/scoremitra/internal/rbac"
	"github.com/scoremitra/scoremitra/internal/submission"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

var perms = rbac.NewChecker(nil)

// POST /submissions  { "test_id": "...", "html": "..." }
// or  { "exam_date": "...", "shift": "...", "html": "..." } to resolve the
// test by sitting.
func CreateSubmissionHandler(svc *submission.Service, tests testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TestID   string `json:"test_id"`
			ExamDate string `json:"exam_date"`
			Shift    string `json:"shift"`
			HTML     string `json:"html"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json")
			return
		}
		if req.HTML == "" {
			badRequest(w, "html is required")
			return
		}
		testID := req.TestID
		if testID == "" {
			key, err := normalize.TestIdentifier(req.ExamDate, req.Shift)
			if err != nil {
				badRequest(w, err.Error())
				return
			}
			t, err := tests.FindTest(r.Context(), key.ExamDate, key.Shift)
			if err != nil {
				writeErr(w, err)
				return
			}
			testID = t.ID
		}
		userID := auth.SubjectFromContext(r.Context())
		report, err := svc.Process(r.Context(), testID, userID, req.HTML)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, report)
	}
}

// canView lets a student read their own submission and anyone whose role
// grants submission:view-any (admins) read all of them.
func canView(r *http.Request, rec submission.Record) bool {
	if rec.UserID == auth.SubjectFromContext(r.Context()) {
		return true
	}
	return perms.Has(rbac.RoleFromContext(r.Context()), "submission:view-any")
}

func GetSubmissionHandler(svc *submission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "submissionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if !canView(r, rec) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func ListSubmissionsHandler(svc *submission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := svc.Store.ListByUser(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"submissions": recs})
	}
}

// GET /submissions/{submissionID}/diagnostics re-parses the archived sheet
// against the test's current keys; a high unmatched count usually means the
// wrong sitting was selected.
func DiagnosticsHandler(svc *submission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "submissionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if !canView(r, rec) {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		report, err := svc.Diagnostics(r.Context(), rec.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// GET /percentile?marks=187&exam_date=2026-01-21&shift=1 previews an
// estimate without uploading a sheet.
func PercentileHandler(est *percentile.Estimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		marks, err := strconv.Atoi(r.URL.Query().Get("marks"))
		if err != nil {
			badRequest(w, "marks must be an integer")
			return
		}
		key, err := normalize.TestIdentifier(r.URL.Query().Get("exam_date"), r.URL.Query().Get("shift"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, est.Estimate(marks, key.ExamDate, key.Shift))
	}
}
