package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusapp/nimbus/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("CACHE_TTL_MINUTES", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, config.StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "WEATHER_API_KEY")
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "redis")

	_, err := config.Load()
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}

func TestLoad_CacheTTL(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CACHE_TTL_MINUTES", "45")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.CacheTTL)

	t.Setenv("CACHE_TTL_MINUTES", "zero")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoad_DeviceCoordinates(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("DEVICE_LAT", "51.5072")
	t.Setenv("DEVICE_LON", "-0.1276")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasDeviceFix)
	assert.InDelta(t, 51.5072, cfg.DeviceLat, 1e-9)
	assert.InDelta(t, -0.1276, cfg.DeviceLon, 1e-9)
}

func TestLoad_DeviceCoordinatesIncomplete(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("DEVICE_LAT", "51.5072")
	t.Setenv("DEVICE_LON", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "DEVICE_LON")
}
