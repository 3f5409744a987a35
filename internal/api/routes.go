package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// requestTimeout bounds every API call; none of them stream.
const requestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	limiter := newRateLimiter(s.RateLimitRPS, s.RateLimitBurst)
	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.middleware)
		r.Use(timeoutMiddleware(requestTimeout))

		r.Post("/grade", s.handleGrade)

		r.Route("/menu", func(r chi.Router) {
			r.Get("/categories", s.handleCategories)
			r.Get("/items", s.handleItems)
			r.Get("/items/{id}", s.handleItem)
			r.Get("/questions", s.handleQuestions)
			r.Get("/customer-categories", s.handleCustomerCategories)
			r.Post("/imports", s.handleQueueImport)
			r.Get("/imports/{id}", s.handleImportStatus)
		})

		r.Get("/profile", s.handleProfile)
		r.Patch("/profile/settings", s.handleUpdateSettings)
		r.Post("/profile/reset", s.handleResetProgress)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/practice-tests", s.handlePracticeTests)

		r.Route("/progress", func(r chi.Router) {
			r.Get("/", s.handleListProgress)
			r.Get("/due", s.handleDueItems)
			r.Get("/{itemID}", s.handleGetProgress)
			r.Put("/{itemID}/bookmark", s.handleSetBookmark)
			r.Put("/{itemID}/review", s.handleSetNeedsReview)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleStartSession)
			r.Get("/{id}", s.handleGetSession)
			r.Post("/{id}/answer", s.handleAnswer)
			r.Post("/{id}/choice", s.handleChoice)
			r.Post("/{id}/flashcard", s.handleFlashcard)
			r.Post("/{id}/skip", s.handleSkip)
			r.Post("/{id}/advance", s.handleAdvance)
			r.Post("/{id}/end", s.handleEndSession)
		})
	})
	return r
}
