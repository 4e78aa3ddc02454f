package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Voters   *VoterHandler
	Sessions *SessionHandler
	Votes    *VoteHandler
	Results  *ResultsHandler
}

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func NewHandler(h Handlers, sessions *SessionManager, metrics *Metrics, health HealthCheck, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := health(r.Context()); err != nil {
			logger.Error("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(LoadSession(sessions))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/voters", func(r chi.Router) {
			r.Post("/", h.Voters.Register)
			r.With(RequireStage(StageRegistered)).Get("/credential", h.Voters.Credential)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.Sessions.Login)
			r.Delete("/", h.Sessions.Logout)
			r.With(RequireStage(StageAuthenticated)).Get("/me", h.Sessions.Me)
		})

		r.Get("/options", h.Votes.Options)

		r.Route("/votes", func(r chi.Router) {
			r.With(RequireStage(StageAuthenticated)).Post("/", h.Votes.Vote)
			r.With(RequireStage(StageAuthenticated, StageVoted)).Get("/me", h.Votes.Me)
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/", h.Results.GetResults)
			r.Get("/stream", h.Results.Stream)
			r.Get("/audit", h.Results.Audit)
		})
	})

	return r
}
