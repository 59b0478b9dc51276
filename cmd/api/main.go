// Package main provides the entrypoint for the Nimbus API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/alerts"
	"github.com/nimbusapp/nimbus/internal/api"
	"github.com/nimbusapp/nimbus/internal/api/middleware"
	"github.com/nimbusapp/nimbus/internal/config"
	"github.com/nimbusapp/nimbus/internal/connectivity"
	"github.com/nimbusapp/nimbus/internal/derive"
	"github.com/nimbusapp/nimbus/internal/favorites"
	"github.com/nimbusapp/nimbus/internal/history"
	"github.com/nimbusapp/nimbus/internal/kvstore"
	"github.com/nimbusapp/nimbus/internal/location"
	"github.com/nimbusapp/nimbus/internal/search"
	"github.com/nimbusapp/nimbus/internal/telemetry"
	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
	"github.com/nimbusapp/nimbus/internal/weather/weatherapi"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "nimbus-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Nimbus API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Open the key-value store backing cache, history and settings
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()
	log.Info().
		Str("backend", string(cfg.StoreBackend)).
		Msg("store opened")

	// Connectivity probe
	probe := connectivity.NewHTTPProbe(connectivity.HTTPProbeConfig{
		Endpoint: cfg.ProbeURL,
		Logger:   log,
	})

	// Weather provider and fetch pipeline
	provider := weatherapi.NewClient(weatherapi.ClientConfig{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherBaseURL,
		Logger:  log,
	})

	cache := weather.NewCache(weather.CacheConfig{
		Store:  store,
		Logger: log,
		TTL:    cfg.CacheTTL,
	})

	recorder := history.NewRecorder(history.RecorderConfig{
		Store:  store,
		Logger: log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Cache:    cache,
		Probe:    probe,
		Recorder: recorder,
		Metrics:  providerMetrics,
		Logger:   log,
	})

	// A fresh process starts from live data when the network allows it.
	if probe.Online(ctx) {
		if err := cache.ClearAll(ctx); err != nil {
			log.Warn().Err(err).Msg("cold-start cache clear failed")
		}
	}

	unitSettings := units.NewSettings(ctx, store, log)
	alertEngine := alerts.NewEngine(alerts.EngineConfig{Logger: log})
	factPicker := derive.NewFactPicker()
	explanationPicker := derive.NewExplanationPicker()

	favoritesService := favorites.NewService(favorites.ServiceConfig{
		Store:  store,
		Logger: log,
	})

	searchService := search.NewService(search.ServiceConfig{
		Finder: provider,
		Logger: log,
	})

	var device location.Device = location.DisabledDevice{}
	if cfg.HasDeviceFix {
		device = location.NewStaticDevice(cfg.DeviceLat, cfg.DeviceLon)
	}
	resolver := location.NewResolver(location.ResolverConfig{
		Device: device,
		Store:  store,
		Probe:  probe,
		Logger: log,
	})

	// Auto-refresh the current city when connectivity returns
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go probe.Watch(watchCtx, func(online bool) {
		weatherService.HandleConnectivityChange(watchCtx, online)
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		Store:           store,
		Probe:           probe,
		WeatherService:  weatherService,
		WeatherCache:    cache,
		UnitSettings:    unitSettings,
		AlertEngine:     alertEngine,
		FactPicker:      factPicker,
		Explanations:    explanationPicker,
		HistoryRecorder: recorder,
		Favorites:       favoritesService,
		SearchService:   searchService,
		Resolver:        resolver,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// openStore picks the store backend from configuration and returns it with
// its cleanup function.
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return kvstore.NewMemoryStore(), func() {}, nil
	case config.StorePostgres:
		store, err := kvstore.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := kvstore.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}
