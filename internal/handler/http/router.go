package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/brand-admin/internal/i18n"
	"github.com/utafrali/brand-admin/internal/service"
	"github.com/utafrali/brand-admin/pkg/health"
	"github.com/utafrali/brand-admin/pkg/middleware"
)

// RouterConfig holds the HTTP-facing settings of the admin API.
type RouterConfig struct {
	ServiceName    string
	AdminBrandPath string
	MaxImageSize   int64
	MaxImages      int
	SubmitRPS      float64
	SubmitBurst    int
	RequestTimeout time.Duration
	Validator      middleware.TokenValidator
}

// NewRouter creates a chi router with all brand admin routes registered.
// ctx bounds background work such as rate limiter cleanup.
func NewRouter(
	ctx context.Context,
	formService *service.BrandFormService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(i18n.Middleware)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	formHandler := NewBrandFormHandler(formService, cfg, logger)
	submitLimit := middleware.RateLimit(ctx, cfg.SubmitRPS, cfg.SubmitBurst, logger)

	r.Route("/api/v1/admin/brand-forms", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Validator, logger))
		r.Use(middleware.RequireRole("admin"))

		r.Post("/", formHandler.Open)
		r.Get("/", formHandler.List)
		r.Get("/{id}", formHandler.Get)
		r.Patch("/{id}", formHandler.Update)
		r.Delete("/{id}", formHandler.Discard)
		r.With(submitLimit).Post("/{id}/submit", formHandler.Submit)
	})

	return r
}
