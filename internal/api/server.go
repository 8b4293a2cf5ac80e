// Package api — server.go собирает HTTP-роутер веб-фронта.
// Роутер chi: логирование, восстановление после паники, request id, CORS.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter создаёт роутер со всеми маршрутами движка признаний.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Get("/{id}/metrics", h.UserMetrics)
			r.Get("/{id}/suggestions", h.Suggestions)
		})

		r.Post("/gratitudes", h.SubmitGratitude)
		r.Get("/feed", h.WeeklyFeed)

		r.Route("/heroes", func(r chi.Router) {
			r.Get("/weekly", h.WeeklyHero)
			r.Get("/invisible", h.InvisibleHeroes)
		})
	})

	return r
}
