package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const defaultRequestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.ownerMiddleware)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Post("/deselect", s.handleDeselectProfile)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProfile)
				r.Put("/", s.handleUpdateProfile)
				r.Delete("/", s.handleDeleteProfile)
				r.Post("/select", s.handleSelectProfile)
			})
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", s.handleStartChallenge)
			r.Get("/current", s.handleCurrentChallenge)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/answers", s.handleSubmitAnswer)
				r.Post("/complete", s.handleCompleteChallenge)
				r.Post("/rewards/dismiss", s.handleDismissReward)
				r.Post("/review", s.handleReviewErrors)
			})
		})

		r.Get("/progress", s.handleGetProgress)
		r.Get("/stats", s.handleGetStats)

		r.Get("/catalog/badges", s.handleBadgeCatalog)
		r.Get("/catalog/achievements", s.handleAchievementCatalog)
	})

	return r
}
