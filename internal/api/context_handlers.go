package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/core"
	"snapfeed.io/snapfeed-backend/internal/errs"
)

type AddContextRequest struct {
	Text string `json:"text"`
}

// AddContextHandler accepts either a JSON body with free text or a
// multipart body with document files. The context_type query parameter
// selects between "main context" text and "document" ingestion.
func (h *Handler) AddContextHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		h.addContextDocuments(w, r, eventID)
		return
	}

	var req AddContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}

	contextType := r.URL.Query().Get("context_type")
	if err := h.contextService.AddText(r.Context(), eventID, req.Text, contextType, nil); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "context added"})
}

func (h *Handler) addContextDocuments(w http.ResponseWriter, r *http.Request, eventID int64) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid multipart body: %v", err))
		return
	}

	var files []core.UploadedFile
	for _, header := range r.MultipartForm.File["documents"] {
		file, err := header.Open()
		if err != nil {
			writeError(w, r, errors.Wrapf(errs.ErrValidation, "unreadable upload %q: %v", header.Filename, err))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, r, errors.Wrapf(errs.ErrValidation, "unreadable upload %q: %v", header.Filename, err))
			return
		}
		files = append(files, core.UploadedFile{Name: header.Filename, Data: data})
	}

	if err := h.contextService.AddDocuments(r.Context(), eventID, files); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "documents ingested"})
}

func (h *Handler) GetContextHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	contexts, err := h.contextService.Get(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contexts)
}
