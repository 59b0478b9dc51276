package weatherapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusapp/nimbus/internal/provider/resilience"
	"github.com/nimbusapp/nimbus/internal/weather"
	"github.com/nimbusapp/nimbus/internal/weather/weatherapi"
)

const forecastPayload = `{
	"location": {"name": "Paris", "region": "Ile-de-France", "country": "France",
		"lat": 48.87, "lon": 2.33, "tz_id": "Europe/Paris", "localtime": "2025-06-01 14:00"},
	"current": {
		"temp_c": 21.0, "temp_f": 69.8, "is_day": 1,
		"condition": {"text": "Partly cloudy", "icon": "//cdn/116.png", "code": 1003},
		"wind_kph": 15.1, "wind_mph": 9.4, "pressure_mb": 1016.0, "pressure_in": 30.0,
		"precip_mm": 0.0, "precip_in": 0.0, "humidity": 58, "cloud": 50, "uv": 5.0,
		"air_quality": {"pm2_5": 8.2, "pm10": 12.1, "us-epa-index": 1}
	},
	"forecast": {"forecastday": [{
		"date": "2025-06-01",
		"day": {"maxtemp_c": 23.4, "maxtemp_f": 74.1, "mintemp_c": 13.2, "mintemp_f": 55.8,
			"avgtemp_c": 18.5, "avgtemp_f": 65.3,
			"condition": {"text": "Partly cloudy", "code": 1003}, "uv": 5.0},
		"astro": {"sunrise": "05:51 AM", "sunset": "09:49 PM", "moon_phase": "Waxing Crescent"},
		"hour": [{"time_epoch": 1748762400, "time": "2025-06-01 00:00", "temp_c": 14.0,
			"temp_f": 57.2, "is_day": 0, "condition": {"text": "Clear", "code": 1000},
			"wind_kph": 8.0, "wind_mph": 5.0, "precip_mm": 0.0, "humidity": 70,
			"chance_of_rain": 0, "uv": 1.0}]
	}]}
}`

func newTestClient(serverURL string) *weatherapi.Client {
	return weatherapi.NewClient(weatherapi.ClientConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:           "weatherapi-test",
			MaxRetries:     1,
			InitialBackoff: time.Millisecond,
		}),
		Logger: zerolog.Nop(),
	})
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "Paris", q.Get("q"))
		assert.Equal(t, "7", q.Get("days"))
		assert.Equal(t, "yes", q.Get("aqi"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastPayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	snap, err := client.Fetch(context.Background(), "Paris")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "Paris", snap.Location.Name)
	assert.Equal(t, 21.0, snap.Current.TempC)
	assert.Equal(t, 69.8, snap.Current.TempF)
	assert.Equal(t, weather.CodePartlyCloudy, snap.Current.Condition.Code)
	assert.Equal(t, 8.2, snap.Current.AirQuality.PM25)
	require.Len(t, snap.Forecast.Days, 1)
	assert.Equal(t, "Waxing Crescent", snap.Forecast.Days[0].Astro.MoonPhase)
	require.Len(t, snap.Forecast.Days[0].Hours, 1)
}

func TestClient_FetchAuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":2006,"message":"API key is invalid."}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "Paris")
	assert.ErrorIs(t, err, weather.ErrAuthRejected)
}

func TestClient_FetchCityNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, weather.ErrCityNotFound)
}

func TestClient_FetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "Paris")
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}

func TestClient_FetchMissingForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"location":{"name":"Paris"},"current":{"temp_c":20}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "Paris")
	assert.ErrorIs(t, err, weather.ErrMalformedResponse)
}

func TestClient_FetchNetworkUnreachable(t *testing.T) {
	client := weatherapi.NewClient(weatherapi.ClientConfig{
		APIKey:  "test-key",
		BaseURL: "http://127.0.0.1:1",
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:           "weatherapi-unreachable",
			MaxRetries:     1,
			InitialBackoff: time.Millisecond,
			Timeout:        100 * time.Millisecond,
		}),
		Logger: zerolog.Nop(),
	})

	_, err := client.Fetch(context.Background(), "Paris")
	assert.ErrorIs(t, err, weather.ErrNetworkUnreachable)
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "par", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[
			{"id": 803267, "name": "Paris", "region": "Ile-de-France", "country": "France", "lat": 48.87, "lon": 2.33},
			{"id": 2618724, "name": "Paris", "region": "Texas", "country": "USA", "lat": 33.66, "lon": -95.56}
		]`))
	}))
	defer server.Close()

	cities, err := newTestClient(server.URL).Search(context.Background(), "par")
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Ile-de-France", cities[0].Region)
}
