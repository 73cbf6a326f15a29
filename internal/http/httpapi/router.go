package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"videogen/internal/http/handlers"
	"videogen/internal/infra"
	"videogen/internal/middleware"
)

// NewRouter mounts the API. Generation is rate limited per client IP;
// rateLimitPerMin <= 0 disables the limit.
func NewRouter(app *handlers.App, logger infra.Logger, rateLimitPerMin int) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		middleware.RequestID(logger),
		middleware.AccessLog,
		chimw.Recoverer,
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/jobs/{id}/code", func(r chi.Router) {
		r.With(middleware.RateLimit(rateLimitPerMin, time.Minute)).Post("/", app.GenerateCode)
		r.Get("/", app.GetCode)
		r.Get("/history", app.CodeHistory)
	})

	return r
}
