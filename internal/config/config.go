// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend selects the key-value store implementation.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StoreSQLite   StoreBackend = "sqlite"
	StorePostgres StoreBackend = "postgres"
)

// Config holds the full service configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment is the deployment environment name.
	Environment string

	// WeatherAPIKey authenticates against the weather provider.
	WeatherAPIKey string

	// WeatherBaseURL overrides the provider endpoint, for testing.
	WeatherBaseURL string

	// StoreBackend selects where cached state lives.
	StoreBackend StoreBackend

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string

	// CacheTTL is the weather cache freshness window.
	CacheTTL time.Duration

	// ProbeURL overrides the connectivity probe endpoint.
	ProbeURL string

	// OTLPEndpoint is the OpenTelemetry collector address.
	OTLPEndpoint string

	// TelemetryEnabled turns OTLP export on.
	TelemetryEnabled bool

	// DeviceLat and DeviceLon pin the location device to fixed
	// coordinates. When HasDeviceFix is false, location resolution
	// reports location services as disabled.
	DeviceLat    float64
	DeviceLon    float64
	HasDeviceFix bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             envOr("APP_PORT", "8080"),
		Environment:      envOr("APP_ENV", "development"),
		WeatherAPIKey:    os.Getenv("WEATHER_API_KEY"),
		WeatherBaseURL:   os.Getenv("WEATHER_API_BASE_URL"),
		StoreBackend:     StoreBackend(envOr("STORE_BACKEND", string(StoreSQLite))),
		SQLitePath:       envOr("SQLITE_PATH", "nimbus.db"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		ProbeURL:         os.Getenv("CONNECTIVITY_PROBE_URL"),
		OTLPEndpoint:     envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled: os.Getenv("OTEL_ENABLED") == "true",
	}

	ttl, err := durationOr("CACHE_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	switch cfg.StoreBackend {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("config: STORE_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("config: WEATHER_API_KEY is required")
	}

	latRaw, lonRaw := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LON")
	if latRaw != "" || lonRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return nil, fmt.Errorf("config: DEVICE_LAT must be a number, got %q", latRaw)
		}
		lon, err := strconv.ParseFloat(lonRaw, 64)
		if err != nil {
			return nil, fmt.Errorf("config: DEVICE_LON must be a number, got %q", lonRaw)
		}
		cfg.DeviceLat, cfg.DeviceLon, cfg.HasDeviceFix = lat, lon, true
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallbackMinutes int) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackMinutes) * time.Minute, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	return time.Duration(minutes) * time.Minute, nil
}
