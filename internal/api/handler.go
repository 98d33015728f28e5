package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"snapfeed.io/snapfeed-backend/internal/core"
	"snapfeed.io/snapfeed-backend/internal/errs"
)

// Handler holds the domain services the HTTP surface dispatches to.
type Handler struct {
	authService     *core.AuthService
	eventsService   *core.EventsService
	photosService   *core.PhotosService
	contextService  *core.ContextService
	postsService    *core.PostsService
	feedbackService *core.FeedbackService
	searchService   *core.SearchService
	generation      *core.GenerationService

	// Server-wide default for the upload quality filter; requests may
	// override it per call.
	blurThreshold float64
}

func NewHandler(
	authService *core.AuthService,
	eventsService *core.EventsService,
	photosService *core.PhotosService,
	contextService *core.ContextService,
	postsService *core.PostsService,
	feedbackService *core.FeedbackService,
	searchService *core.SearchService,
	generation *core.GenerationService,
	blurThreshold float64,
) *Handler {
	return &Handler{
		authService:     authService,
		eventsService:   eventsService,
		photosService:   photosService,
		contextService:  contextService,
		postsService:    postsService,
		feedbackService: feedbackService,
		searchService:   searchService,
		generation:      generation,
		blurThreshold:   blurThreshold,
	}
}

// urlID parses a numeric chi route parameter.
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errs.ErrValidation, "%s must be an integer", name)
	}
	return id, nil
}

// queryInt parses a numeric query parameter, required when no default
// applies.
func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.Wrapf(errs.ErrValidation, "%s query parameter is required", name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errs.ErrValidation, "%s must be an integer", name)
	}
	return v, nil
}
