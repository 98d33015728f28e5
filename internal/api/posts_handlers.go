package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/core"
	"snapfeed.io/snapfeed-backend/internal/errs"
	"snapfeed.io/snapfeed-backend/internal/store"
)

type CreatePostRequest struct {
	EventID  int64   `json:"event_id"`
	Caption  string  `json:"caption"`
	ImageIDs []int64 `json:"image_ids"`
	UserID   int64   `json:"user_id"`
}

func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}

	id, err := h.postsService.Create(r.Context(), req.EventID, req.Caption, req.ImageIDs, req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := queryInt(r, "event_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	posts, err := h.postsService.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.postsService.Get(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if post == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type UpdatePostRequest struct {
	EventID  *int64  `json:"event_id"`
	Caption  *string `json:"caption"`
	ImageIDs []int64 `json:"image_ids"`
}

func (h *Handler) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}

	upd := store.PostUpdate{
		EventID:  req.EventID,
		Caption:  req.Caption,
		ImageIDs: req.ImageIDs,
	}
	if err := h.postsService.Update(r.Context(), postID, upd); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post updated"})
}

func (h *Handler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.postsService.Delete(r.Context(), postID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type GenerateCaptionRequest struct {
	UserPrompt   string `json:"user_prompt"`
	Tone         string `json:"tone"`
	MaxNewTokens int    `json:"max_new_tokens"`
}

func (h *Handler) GenerateCaptionHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	req := GenerateCaptionRequest{Tone: core.DefaultTone}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}

	result, err := h.generation.GenerateCaption(r.Context(), postID, req.UserPrompt, req.Tone, req.MaxNewTokens)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
