package handler

import (
	"errors"
	"net/http"

	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// WeatherResponse wraps a snapshot with the fetch pipeline's flags.
type WeatherResponse struct {
	Snapshot *weather.Snapshot `json:"snapshot"`
	Units    units.System      `json:"units"`
	Offline  bool              `json:"offline,omitempty"`
	Stale    bool              `json:"stale,omitempty"`
	Warning  string            `json:"warning,omitempty"`
}

// WeatherHandler handles weather fetch endpoints.
type WeatherHandler struct {
	service  *weather.Service
	cache    *weather.Cache
	settings *units.Settings
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service *weather.Service, cache *weather.Cache, settings *units.Settings) *WeatherHandler {
	return &WeatherHandler{service: service, cache: cache, settings: settings}
}

// GetWeather handles GET /v1/weather?q={city}&skip_cache={bool}.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "query parameter q is required", nil)
		return
	}
	skipCache := r.URL.Query().Get("skip_cache") == "true"

	result, err := h.service.Fetch(r.Context(), query, skipCache)
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, WeatherResponse{
		Snapshot: result.Snapshot,
		Units:    resolveUnits(r, h.settings),
		Offline:  result.Offline,
		Stale:    result.Stale,
		Warning:  result.Warning,
	})
}

// ClearCache handles DELETE /v1/weather/cache and
// DELETE /v1/weather/cache/{city}.
func (h *WeatherHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if city := r.URL.Query().Get("q"); city != "" {
		if err := h.cache.Clear(r.Context(), city); err != nil {
			response.InternalError(w, r, "failed to clear cached weather")
			return
		}
		response.NoContent(w, r)
		return
	}

	if err := h.cache.ClearAll(r.Context()); err != nil {
		response.InternalError(w, r, "failed to clear cached weather")
		return
	}
	response.NoContent(w, r)
}

// writeWeatherError maps the fetch pipeline's failure classes onto
// problem responses.
func writeWeatherError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, weather.ErrCityNotFound):
		response.NotFound(w, r, "no matching city was found")
	case errors.Is(err, weather.ErrNoCachedData):
		response.ServiceUnavailable(w, r, "no internet connection and no saved data for this city")
	case errors.Is(err, weather.ErrNetworkUnreachable):
		response.ServiceUnavailable(w, r, "the weather provider could not be reached")
	case errors.Is(err, weather.ErrAuthRejected):
		response.ServiceUnavailable(w, r, "the weather provider rejected this service's credentials")
	case errors.Is(err, weather.ErrProviderUnavailable):
		response.ServiceUnavailable(w, r, "the weather provider is temporarily unavailable")
	case errors.Is(err, weather.ErrMalformedResponse):
		response.ServiceUnavailable(w, r, "the weather provider returned an unusable response")
	default:
		response.InternalError(w, r, "failed to fetch weather")
	}
}

// resolveUnits picks the unit system for the request: an explicit units
// query parameter wins, otherwise the persisted setting applies.
func resolveUnits(r *http.Request, settings *units.Settings) units.System {
	if raw := r.URL.Query().Get("units"); raw != "" {
		if sys, err := units.Parse(raw); err == nil {
			return sys
		}
	}
	return settings.System()
}
