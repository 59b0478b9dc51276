// Package weather provides the weather snapshot model, the per-city snapshot
// cache and the fetch pipeline that turns a city query into displayed
// weather state.
package weather

import (
	"errors"
	"time"
)

// Pipeline errors. These are the classified failure categories surfaced to
// the UI layer; everything else is recovered internally via cache fallback.
var (
	// ErrNoCachedData is the hard failure: offline and nothing cached.
	ErrNoCachedData = errors.New("no connection and no cached data")

	// ErrNetworkUnreachable indicates the provider could not be reached.
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrAuthRejected indicates the provider rejected the API key.
	ErrAuthRejected = errors.New("weather provider rejected credentials")

	// ErrCityNotFound indicates the query matched no known location.
	ErrCityNotFound = errors.New("city not found")

	// ErrProviderUnavailable indicates a provider-side server error.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrMalformedResponse indicates a response missing forecast data.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Condition codes used by the rule engines. The values follow the provider's
// condition code table.
const (
	CodeClear        = 1000
	CodePartlyCloudy = 1003
	CodeCloudy       = 1006
	CodeOvercast     = 1009
	CodeMist         = 1030
	CodePatchyRain   = 1063
	CodePatchySnow   = 1066
	CodeThunderyRain = 1087
	CodeFog          = 1135
	CodeLightRain    = 1183
	CodeModerateRain = 1189
	CodeHeavyRain    = 1195
	CodeLightSnow    = 1213
	CodeHeavySnow    = 1225
	CodeRainShower   = 1240
	CodeSnowShower   = 1255
	CodeThunderstorm = 1276
)

// Snapshot is one fetched weather observation plus its 7-day forecast.
// It is immutable once fetched; both metric and imperial fields are always
// present and the unit system only governs which is displayed.
type Snapshot struct {
	Location    Location  `json:"location"`
	Current     Current   `json:"current"`
	Forecast    Forecast  `json:"forecast"`
	LastUpdated time.Time `json:"last_updated"`
}

// Location identifies where the snapshot was observed.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TzID      string  `json:"tz_id"`
	Localtime string  `json:"localtime"`
}

// Condition is a coded weather condition with display text.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// AirQuality carries pollutant concentrations in µg/m³ plus the US EPA index.
type AirQuality struct {
	CO         float64 `json:"co"`
	NO2        float64 `json:"no2"`
	O3         float64 `json:"o3"`
	SO2        float64 `json:"so2"`
	PM25       float64 `json:"pm2_5"`
	PM10       float64 `json:"pm10"`
	USEPAIndex int     `json:"us-epa-index"`
}

// Current is the current reading.
type Current struct {
	TempC      float64    `json:"temp_c"`
	TempF      float64    `json:"temp_f"`
	FeelsLikeC float64    `json:"feelslike_c"`
	FeelsLikeF float64    `json:"feelslike_f"`
	IsDay      int        `json:"is_day"`
	Condition  Condition  `json:"condition"`
	WindKph    float64    `json:"wind_kph"`
	WindMph    float64    `json:"wind_mph"`
	WindDegree int        `json:"wind_degree"`
	WindDir    string     `json:"wind_dir"`
	PressureMb float64    `json:"pressure_mb"`
	PressureIn float64    `json:"pressure_in"`
	PrecipMm   float64    `json:"precip_mm"`
	PrecipIn   float64    `json:"precip_in"`
	Humidity   int        `json:"humidity"`
	Cloud      int        `json:"cloud"`
	UV         float64    `json:"uv"`
	GustKph    float64    `json:"gust_kph"`
	GustMph    float64    `json:"gust_mph"`
	AirQuality AirQuality `json:"air_quality"`
}

// Forecast is the 7-day outlook.
type Forecast struct {
	Days []ForecastDay `json:"forecastday"`
}

// ForecastDay is one forecast day with its hourly breakdown.
type ForecastDay struct {
	Date  string `json:"date"`
	Day   Day    `json:"day"`
	Astro Astro  `json:"astro"`
	Hours []Hour `json:"hour"`
}

// Day aggregates a forecast day.
type Day struct {
	MaxTempC          float64   `json:"maxtemp_c"`
	MaxTempF          float64   `json:"maxtemp_f"`
	MinTempC          float64   `json:"mintemp_c"`
	MinTempF          float64   `json:"mintemp_f"`
	AvgTempC          float64   `json:"avgtemp_c"`
	AvgTempF          float64   `json:"avgtemp_f"`
	MaxWindKph        float64   `json:"maxwind_kph"`
	MaxWindMph        float64   `json:"maxwind_mph"`
	TotalPrecipMm     float64   `json:"totalprecip_mm"`
	TotalPrecipIn     float64   `json:"totalprecip_in"`
	AvgHumidity       float64   `json:"avghumidity"`
	DailyChanceOfRain int       `json:"daily_chance_of_rain"`
	Condition         Condition `json:"condition"`
	UV                float64   `json:"uv"`
}

// Astro carries astronomical data for a forecast day.
type Astro struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination int    `json:"moon_illumination"`
}

// Hour is one hour of a forecast day.
type Hour struct {
	TimeEpoch    int64     `json:"time_epoch"`
	Time         string    `json:"time"`
	TempC        float64   `json:"temp_c"`
	TempF        float64   `json:"temp_f"`
	IsDay        int       `json:"is_day"`
	Condition    Condition `json:"condition"`
	WindKph      float64   `json:"wind_kph"`
	WindMph      float64   `json:"wind_mph"`
	PrecipMm     float64   `json:"precip_mm"`
	PrecipIn     float64   `json:"precip_in"`
	Humidity     int       `json:"humidity"`
	ChanceOfRain int       `json:"chance_of_rain"`
	UV           float64   `json:"uv"`
}

// Validate checks the invariant every consumer relies on: at least one
// forecast day with at least one hourly entry.
func (s *Snapshot) Validate() error {
	if len(s.Forecast.Days) == 0 {
		return ErrMalformedResponse
	}
	if len(s.Forecast.Days[0].Hours) == 0 {
		return ErrMalformedResponse
	}
	return nil
}

// Today returns the first forecast day.
// Callers must have validated the snapshot first.
func (s *Snapshot) Today() *ForecastDay {
	return &s.Forecast.Days[0]
}
