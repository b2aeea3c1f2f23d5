// Package server exposes the planner over a JSON HTTP API. Every endpoint
// is a thin view over the training engine; no training math lives here.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"tailscale.com/client/tailscale/apitype"

	"github.com/claude/ironcycle/internal/planner"
)

// WhoIsClient resolves a request's remote address to a Tailscale identity.
// *local.Client from a tsnet server satisfies it.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// UserDirectory maps a login to a stable numeric user ID. *storage.DB
// satisfies it; tests use a fixed mapping.
type UserDirectory interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	planner *planner.Planner
	users   UserDirectory
	log     *slog.Logger
	apiKey  string
	whois   WhoIsClient
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables the write guard (dev mode behind tsnet).
func New(p *planner.Planner, users UserDirectory, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		planner: p,
		users:   users,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale installs the WhoIs client used to resolve request identity.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.whois = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.Identity)

		r.Get("/me", s.handleMe)
		r.Get("/profile", s.handleGetProfile)
		r.Get("/cycle", s.handleGetCycle)
		r.Get("/cycle/state", s.handleCycleState)
		r.Get("/cycle/review", s.handleReviewProposal)
		r.Get("/progress", s.handleProgress)
		r.Get("/timeline", s.handleTimeline)
		r.Get("/plates", s.handlePlates)

		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Put("/profile", s.handleSaveProfile)
			r.Post("/completions/toggle", s.handleToggle)
			r.Post("/cycle/commit", s.handleCommit)
		})
	})
}
