package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/auth"
	"github.com/dev-tective/DraftLabs/internal/hub"
	"github.com/dev-tective/DraftLabs/internal/metrics"
	"github.com/dev-tective/DraftLabs/internal/middleware"
	"github.com/dev-tective/DraftLabs/internal/ws"
)

// SetupRoutes builds the full HTTP surface: the match/team/player REST
// API behind the identity middleware, the public reference-data and
// draft websocket routes, and the operational endpoints.
func SetupRoutes(h *Handlers, drafts *hub.Hub, mc *metrics.Collector, rl *middleware.RateLimiter, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	// Public routes
	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", mc.Handler())
	r.Get("/heroes", h.ListHeroes)
	r.Get("/lanes", h.ListLanes)
	r.Get("/roles", h.ListRoles)
	r.Get("/ws", ws.Handler(drafts, log))
	r.Get("/drafts/{id}", DraftState(drafts))

	// User-scoped CRUD
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Use(rl.Middleware)

		r.Post("/matches", h.CreateMatch)
		r.Get("/matches", h.ListMatches)
		r.Get("/matches/{id}", h.GetMatch)
		r.Patch("/matches/{id}", h.UpdateMatch)
		r.Delete("/matches/{id}", h.DeleteMatch)
		r.Post("/matches/{id}/teams", h.CreateTeam)

		r.Patch("/teams/{id}", h.UpdateTeam)
		r.Delete("/teams/{id}", h.DeleteTeam)
		r.Patch("/players/{id}", h.UpdatePlayer)
		r.Delete("/players/{id}", h.DeletePlayer)
	})

	return r
}
