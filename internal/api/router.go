// Package api provides the HTTP API for Nimbus.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/alerts"
	"github.com/nimbusapp/nimbus/internal/api/handler"
	"github.com/nimbusapp/nimbus/internal/api/middleware"
	"github.com/nimbusapp/nimbus/internal/connectivity"
	"github.com/nimbusapp/nimbus/internal/derive"
	"github.com/nimbusapp/nimbus/internal/favorites"
	"github.com/nimbusapp/nimbus/internal/history"
	"github.com/nimbusapp/nimbus/internal/kvstore"
	"github.com/nimbusapp/nimbus/internal/location"
	"github.com/nimbusapp/nimbus/internal/search"
	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Store           kvstore.Store
	Probe           connectivity.Probe
	WeatherService  *weather.Service
	WeatherCache    *weather.Cache
	UnitSettings    *units.Settings
	AlertEngine     *alerts.Engine
	FactPicker      *derive.FactPicker
	Explanations    *derive.FactPicker
	HistoryRecorder *history.Recorder
	Favorites       *favorites.Service
	SearchService   *search.Service
	Resolver        *location.Resolver
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "nimbus-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Store, cfg.Probe)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService, cfg.WeatherCache, cfg.UnitSettings)
	alertsHandler := handler.NewAlertsHandler(cfg.AlertEngine, cfg.WeatherService, cfg.UnitSettings)
	deriveHandler := handler.NewDeriveHandler(cfg.WeatherService, cfg.UnitSettings, cfg.FactPicker, cfg.Explanations)
	historyHandler := handler.NewHistoryHandler(cfg.HistoryRecorder)
	favoritesHandler := handler.NewFavoritesHandler(cfg.Favorites)
	searchHandler := handler.NewSearchHandler(cfg.SearchService)
	locationHandler := handler.NewLocationHandler(cfg.Resolver)
	unitsHandler := handler.NewUnitsHandler(cfg.UnitSettings)

	// Rate limits: endpoints that may reach the external provider get the
	// stricter budget.
	providerRateLimit := middleware.RateLimitByIP(middleware.ProviderRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Weather fetch pipeline
		r.Route("/weather", func(r chi.Router) {
			r.With(providerRateLimit).Get("/", weatherHandler.GetWeather)
			r.With(standardRateLimit).Delete("/cache", weatherHandler.ClearCache)
		})

		// Derived features - all fetch through the pipeline, so a warm
		// cache makes these cheap.
		r.With(providerRateLimit).Get("/recommendations", deriveHandler.GetRecommendation)
		r.With(providerRateLimit).Get("/activities", deriveHandler.GetActivities)
		r.With(providerRateLimit).Get("/facts", deriveHandler.GetFact)
		r.With(providerRateLimit).Get("/explanations", deriveHandler.GetExplanation)
		r.With(providerRateLimit).Get("/share", deriveHandler.GetShareText)

		// Alerts
		r.Route("/alerts", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", alertsHandler.ListAlerts)
			r.With(providerRateLimit).Post("/check", alertsHandler.CheckAlerts)
			r.With(standardRateLimit).Delete("/{alertId}", alertsHandler.DismissAlert)
		})

		// History
		r.Route("/history", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", historyHandler.ListCities)
			r.Get("/{city}", historyHandler.GetHistory)
			r.Delete("/{city}", historyHandler.ClearHistory)
		})

		// Favorites
		r.Route("/favorites", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", favoritesHandler.ListFavorites)
			r.Post("/", favoritesHandler.AddFavorite)
			r.Delete("/{city}", favoritesHandler.RemoveFavorite)
		})

		// City search
		r.Route("/search", func(r chi.Router) {
			r.With(providerRateLimit).Get("/", searchHandler.SearchCities)
			r.With(standardRateLimit).Get("/recent", searchHandler.RecentSearches)
			r.With(standardRateLimit).Delete("/recent", searchHandler.ClearRecentSearches)
		})

		// Device location
		r.With(standardRateLimit).Get("/location", locationHandler.GetLocation)

		// Unit system preference
		r.Route("/units", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", unitsHandler.GetUnits)
			r.Put("/", unitsHandler.SetUnits)
		})
	})

	return r
}
