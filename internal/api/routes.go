package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes builds the API route tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.Dashboard)
		r.Get("/metadata", s.Metadata)
		r.Get("/flowgraph", s.FlowGraph)
		r.Get("/leaderboard", s.Leaderboard)
		r.Get("/forecasts/{series}/{model}", s.Forecasts)
	})
	r.Get("/healthz", s.Healthz)

	return r
}
