package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	v1 "github.com/arenahq/arena/internal/api/v1"
	"github.com/arenahq/arena/internal/auth"
	"github.com/arenahq/arena/internal/realtime"
	"github.com/arenahq/arena/internal/store/postgres"
)

func apiConfig(title string) huma.Config {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{
		{URL: "/api/v1"},
	}
	return cfg
}

// registerAuthAPI mounts the unauthenticated register/login/refresh endpoints.
func registerAuthAPI(r chi.Router, authSvc *auth.Service) {
	api := humachi.New(r, apiConfig("Arena Auth API"))
	v1.RegisterAuthRoutes(api, authSvc)
}

// registerBoardAPI mounts every authenticated REST endpoint.
func registerBoardAPI(r chi.Router, store *postgres.Store, events realtime.Broadcaster) {
	api := humachi.New(r, apiConfig("Arena API"))
	v1.RegisterUserRoutes(api, store)
	v1.RegisterSquadRoutes(api, store)
	v1.RegisterBoardRoutes(api, store, events)
	v1.RegisterColumnRoutes(api, store, events)
	v1.RegisterTaskRoutes(api, store, events)
}

// registerAdminAPI mounts user administration behind the admin role check.
func registerAdminAPI(r chi.Router, store *postgres.Store) {
	api := humachi.New(r, apiConfig("Arena Admin API"))
	v1.RegisterAdminRoutes(api, store)
}
