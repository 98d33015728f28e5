package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

type AddFeedbackRequest struct {
	Comment string `json:"feedback_comment"`
	Status  string `json:"feedback_status"`
}

func (h *Handler) AddFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req AddFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}

	id, err := h.feedbackService.Add(r.Context(), eventID, postID, req.Comment, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	feedback, err := h.feedbackService.List(r.Context(), eventID, postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (h *Handler) DeleteFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	feedbackID, err := urlID(r, "feedbackID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.feedbackService.Delete(r.Context(), eventID, postID, feedbackID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
