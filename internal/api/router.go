package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"snapfeed.io/snapfeed-backend/internal/store"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)
		r.Post("/auth/logout", h.LogoutHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Post("/events", h.CreateEventHandler)
			r.Get("/events", h.ListEventsHandler)
			r.Get("/events/{eventID}", h.GetEventHandler)
			r.Delete("/events/{eventID}", h.DeleteEventHandler)

			r.Route("/events/{eventID}/photos", func(r chi.Router) {
				r.Get("/", h.ListPhotosHandler)
				r.Get("/search", h.SearchPhotosHandler)
				r.Get("/{name}", h.GetPhotoFileHandler)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(store.RolePhotographer))
					r.Post("/", h.UploadPhotosHandler)
					r.Delete("/", h.DeletePhotosHandler)
				})
			})

			r.Route("/events/{eventID}/context", func(r chi.Router) {
				r.Get("/", h.GetContextHandler)
				r.With(RequireRole(store.RoleContentManager)).Post("/", h.AddContextHandler)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", h.ListPostsHandler)
				r.Get("/{postID}", h.GetPostHandler)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(store.RoleContentManager))
					r.Post("/", h.CreatePostHandler)
					r.Put("/{postID}", h.UpdatePostHandler)
					r.Delete("/{postID}", h.DeletePostHandler)
					r.Post("/{postID}/generate", h.GenerateCaptionHandler)
				})
			})

			r.Route("/events/{eventID}/posts/{postID}/feedback", func(r chi.Router) {
				r.Get("/", h.ListFeedbackHandler)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(store.RoleContentReviewer))
					r.Post("/", h.AddFeedbackHandler)
					r.Delete("/{feedbackID}", h.DeleteFeedbackHandler)
				})
			})
		})
	})

	return r
}
