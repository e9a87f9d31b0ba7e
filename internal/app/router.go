package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/luminary-backend/internal/auth"
	"github.com/heartmarshall/luminary-backend/internal/config"
	"github.com/heartmarshall/luminary-backend/internal/transport/middleware"
	"github.com/heartmarshall/luminary-backend/internal/transport/rest"
)

type routerDeps struct {
	logger        *slog.Logger
	cfg           *config.Config
	health        *rest.HealthHandler
	coach         *rest.CoachHandler
	verifier      *auth.Verifier
	limiter       *middleware.RateLimiter
	chatPerMinute int
}

// newRouter builds the HTTP surface. Probes are public; everything under
// /coach requires a bearer token, and starting a turn is rate limited per
// user.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.logger),
		middleware.CORS(d.cfg.CORS),
	)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger(d.logger))
		r.Get("/live", d.health.Live)
		r.Get("/ready", d.health.Ready)
		r.Get("/health", d.health.Health)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticated(d.verifier, d.logger))
		d.coach.Routes(r, d.limiter.Limit(d.chatPerMinute))
	})

	return r
}
