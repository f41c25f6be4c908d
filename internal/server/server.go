package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/arenahq/arena/internal/auth"
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/realtime"
	"github.com/arenahq/arena/internal/server/middleware"
	"github.com/arenahq/arena/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	events     realtime.Broadcaster
	hub        *realtime.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired. events is the broadcaster the
// API handlers publish through; in a single-process deployment it is the
// registry itself, in a multi-instance deployment it is the Redis bridge.
func New(cfg *config.Config, store *postgres.Store, authSvc *auth.Service, registry *realtime.Registry, events realtime.Broadcaster) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Cache-Control", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		store:  store,
		auth:   authSvc,
		events: events,
		hub:    realtime.NewHub(registry),
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:        cfg.Server.Addr,
			Handler:     router,
			ReadTimeout: cfg.Server.ReadTimeout,
			// WriteTimeout stays unset: the SSE stream is a deliberately
			// unbounded response and a server-side write deadline would
			// sever every stream at the timeout.
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for auth endpoints.
	// 2. Authenticated group for all other endpoints.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(10, 20))
			registerAuthAPI(r, authSvc)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RateLimit(100, 200))
			registerBoardAPI(r, store, events)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireAdmin())
			r.Use(middleware.RateLimit(100, 200))
			registerAdminAPI(r, store)
		})
	})

	// Push endpoints. Auth only; the streams are long-lived, so per-request
	// rate limiting does not apply.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		r.Get("/events", s.hub.ServeSSE)
		r.Get("/ws/events", s.hub.ServeWS)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
