package api

import (
	"net/http"

	"github.com/ayo6706/fx-converter/internal/api/handler"
	"github.com/ayo6706/fx-converter/internal/api/middleware"
	"github.com/ayo6706/fx-converter/internal/api/spec"
	"github.com/ayo6706/fx-converter/internal/config"
	"github.com/ayo6706/fx-converter/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	cfg    *config.Config
	logger *zap.Logger
	rates  *service.RateService
	checks []handler.Check
}

// NewRouter wires the HTTP surface. checks are probed by /health/ready.
func NewRouter(cfg *config.Config, logger *zap.Logger, rates *service.RateService, checks ...handler.Check) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{cfg: cfg, logger: logger, rates: rates, checks: checks}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(w, r, http.StatusNotFound, "request/not-found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(w, r, http.StatusMethodNotAllowed, "request/method-not-allowed", "method not allowed")
	})

	healthHandler := handler.NewHealthHandler(api.rates.Ready, api.checks...)
	currencyHandler := handler.NewCurrencyHandler()
	ratesHandler := handler.NewRatesHandler(api.rates)
	conversionHandler := handler.NewConversionHandler(api.rates)
	adminHandler := handler.NewAdminHandler(api.rates)

	// Operational
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Public
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

		r.Get("/v1/currencies", currencyHandler.List)
		r.Get("/v1/rates", ratesHandler.List)
		r.Get("/v1/rates/{from}/{to}", ratesHandler.Get)
		r.Post("/v1/conversions", conversionHandler.Convert)
	})

	// Admin, only with a signing secret configured
	if api.cfg.AdminEnabled() {
		auth := middleware.NewAuthenticator(api.cfg.JWTSecret, api.cfg.JWTIssuer, api.cfg.JWTAudience)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Use(middleware.RequireRole(middleware.RoleAdmin))
			r.Use(middleware.AdminRateLimiter(api.cfg.AdminRateLimitRPS))

			r.Post("/v1/admin/rates/reload", adminHandler.ReloadRates)
		})
	}

	return r
}
