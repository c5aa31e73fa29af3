// Package http wires the route tree and the HTTP server for the catalog API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fusionatlas/fusion-catalog/internal/config"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/prometheus"
	"github.com/fusionatlas/fusion-catalog/internal/interfaces/http/handlers"
	"github.com/fusionatlas/fusion-catalog/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	CatalogHandler *handlers.CatalogHandler
	HealthHandler  *handlers.HealthHandler

	// Infrastructure
	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics

	// Settings
	CORS        config.CORSConfig
	MetricsPath string
}

// NewRouter constructs the complete HTTP route tree from the given
// configuration: global middleware, public probes, the metrics endpoint, and
// the v1 API group.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.Metrics(cfg.AppMetrics))
	}

	// --- Public probes ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	// --- Metrics endpoint ---
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		registerCatalogRoutes(api, cfg.CatalogHandler)
	})

	return r
}

// registerCatalogRoutes mounts the catalog read endpoints.
func registerCatalogRoutes(r chi.Router, h *handlers.CatalogHandler) {
	if h == nil {
		return
	}
	r.Route("/companies", func(cr chi.Router) {
		cr.Get("/", h.List)
		cr.Get("/summary", h.Summary)
		cr.Get("/distributions", h.Distributions)
		cr.Get("/{name}", h.Get)
	})
	r.Get("/filters", h.FilterOptions)
	r.Post("/catalog/refresh", h.Refresh)
}
