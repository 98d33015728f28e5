package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Title  string `json:"title,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// writeError maps a domain error onto an HTTP status. Server-side
// failures are logged before being reported.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Error", err.Error())
	case errors.Is(err, errs.ErrAuth):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, errs.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, errs.ErrGeneration):
		logrus.WithError(err).Errorf("%s %s: generation failed", r.Method, r.URL.Path)
		writeProblem(w, http.StatusInternalServerError, "Generation Failure", err.Error())
	default:
		logrus.WithError(err).Errorf("%s %s: request failed", r.Method, r.URL.Path)
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}
