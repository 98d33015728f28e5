package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"snapfeed.io/snapfeed-backend/internal/errs"
)

const maxUploadBytes = 32 << 20

// defaultSearchThreshold is the similarity floor applied when a search
// request does not specify one.
const defaultSearchThreshold = 0.5

func (h *Handler) UploadPhotosHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid multipart body: %v", err))
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeError(w, r, errors.Wrap(errs.ErrValidation, "at least one image is required"))
		return
	}

	qualityFilter, _ := strconv.ParseBool(r.FormValue("quality_filter"))
	threshold := h.blurThreshold
	if raw := r.FormValue("quality_threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, errors.Wrap(errs.ErrValidation, "quality_threshold must be a number"))
			return
		}
	}

	images := make([][]byte, 0, len(headers))
	for _, header := range headers {
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
		images = append(images, data)
	}

	result, err := h.photosService.Upload(r.Context(), eventID, images, qualityFilter, threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListPhotosHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	photos, err := h.photosService.List(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) GetPhotoFileHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := h.photosService.OpenFile(eventID, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, file); err != nil {
		logrus.WithError(err).Warn("failed to stream photo")
	}
}

func (h *Handler) SearchPhotosHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	text := r.URL.Query().Get("text")
	threshold := defaultSearchThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, errors.Wrap(errs.ErrValidation, "threshold must be a number"))
			return
		}
	}

	ids, err := h.searchService.Search(r.Context(), eventID, text, threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"photo_ids": ids})
}

type DeletePhotosRequest struct {
	PhotoIDs []int64 `json:"photoIds"`
}

func (h *Handler) DeletePhotosHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req DeletePhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Wrapf(errs.ErrValidation, "invalid request body: %v", err))
		return
	}
	if len(req.PhotoIDs) == 0 {
		writeError(w, r, errors.Wrap(errs.ErrValidation, "photoIds is required"))
		return
	}

	if err := h.photosService.DeleteBatch(r.Context(), eventID, req.PhotoIDs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
