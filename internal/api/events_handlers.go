package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrgID       int64  `json:"org_id"`
}

func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}

	id, err := h.eventsService.Create(r.Context(), req.Title, req.Description, req.OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := queryInt(r, "org_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	events, err := h.eventsService.List(r.Context(), orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	orgID, err := queryInt(r, "org_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventsService.Get(r.Context(), orgID, eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if event == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	orgID, err := queryInt(r, "org_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.eventsService.Delete(r.Context(), orgID, eventID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
