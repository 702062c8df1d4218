package routes

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	handlers "github.com/believe-gautam/travel-planner-api/internal/http"
	mid "github.com/believe-gautam/travel-planner-api/internal/middleware"
	"github.com/believe-gautam/travel-planner-api/internal/obs"
)

func GetRoutes(h *handlers.Handler, metrics *obs.Metrics, logger *slog.Logger, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	// Useful built-in middlewares
	r.Use(middleware.RealIP)    // proper client IP extraction
	r.Use(middleware.RequestID) // sets request ID header
	r.Use(middleware.Recoverer) // built-in recoverer to avoid panics taking server down

	// our custom middlewares: metrics, logging & timeout
	r.Use(mid.MetricsMiddleware(metrics))
	r.Use(mid.LoggingMiddleware(logger))
	r.Use(mid.TimeoutMiddleware(requestTimeout))

	// endpoints
	r.Post("/configure", h.Configure)
	r.Post("/compare-prices", h.ComparePrices)
	r.Delete("/delete-provider/{providerId}", h.DeleteProvider)

	r.Post("/providers", h.CreateProvider)
	r.Get("/providers", h.ListProviders)
	r.Post("/endpoints", h.CreateEndpoint)

	r.Get("/healthz", h.Healthz)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}
