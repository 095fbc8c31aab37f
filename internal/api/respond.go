// Package api exposes the scoring pipeline over HTTP: test and answer-key
// administration, sheet submission and score retrieval.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scoremitra/scoremitra/internal/sheet"
	"github.com/scoremitra/scoremitra/internal/submission"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps pipeline errors onto HTTP statuses: bad uploads are the
// client's fault (400), an upload that parses to nothing is unprocessable
// (422), unknown resources are 404 and everything else is a 500 with the
// detail kept server-side.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, submission.ErrInvalidSheet):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, sheet.ErrNoResponses):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, testbank.ErrTestNotFound),
		errors.Is(err, testbank.ErrKeysNotFound),
		errors.Is(err, submission.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
