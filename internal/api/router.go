package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-study/internal/api/middleware"
)

// NewRouter builds the HTTP routes of the study API.
func NewRouter(studyService StudyService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	cardHandler := NewCardHandler(studyService, logger)
	sessionHandler := NewSessionHandler(studyService, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/topics", cardHandler.ListTopics)
		r.Post("/cards", cardHandler.CreateCards)
		r.Post("/cards/{id}/postpone", cardHandler.PostponeCard)

		r.Post("/sessions", sessionHandler.StartSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Delete("/", sessionHandler.EndSession)
			r.Post("/select", sessionHandler.SelectTopic)
			r.Post("/rating", sessionHandler.SubmitRating)
			r.Post("/answer", sessionHandler.SubmitAnswer)
			r.Post("/mode", sessionHandler.SwitchMode)
			r.Post("/restart", sessionHandler.Restart)
			r.Post("/topics", sessionHandler.ReturnToTopics)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
