// Package http exposes the appraisal service over a chi router.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ResaleEngine/internal/apierror"
	"ResaleEngine/internal/appraisal"
	"ResaleEngine/internal/config"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Service    *appraisal.Service
	SourceName string
	Server     config.ServerConfig
	Registry   *prometheus.Registry // nil disables /metrics
	Logger     *slog.Logger
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(StructuredLogger(logger.With("component", "http")))
	r.Use(Recoverer(logger))
	if d.Registry != nil {
		r.Use(NewMetrics(d.Registry).Middleware)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = render.Render(w, r, apierror.NotFound("route "+r.URL.Path))
	})

	health := NewHealthHandler(d.SourceName)
	r.Get("/api/health", health.HealthCheck)

	analysis := NewAnalysisHandler(d.Service, d.Server.BatchLimit, d.Server.RequestTimeout, logger)
	r.Route("/api/v1", func(r chi.Router) {
		if !d.Server.RateLimit.Disabled && d.Server.RateLimit.RPS > 0 {
			r.Use(NewRateLimiter(d.Server.RateLimit.RPS, d.Server.RateLimit.Burst, logger).Handler)
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))
		analysis.RegisterRoutes(r)
	})

	return r
}

// NewServer builds the http.Server for the configured address and timeouts.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
