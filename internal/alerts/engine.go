package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// AlertTTL is the fixed lifetime of every alert.
const AlertTTL = time.Hour

// threshold is a metric/imperial value pair. Both sides are declared as
// fixed literals rather than converted at read time, so the same reading
// trips the same alert in either unit system.
type threshold struct {
	metric   float64
	imperial float64
}

func (t threshold) value(system units.System) float64 {
	if system == units.Imperial {
		return t.imperial
	}
	return t.metric
}

var (
	extremeHeat   = threshold{metric: 40, imperial: 104}
	heat          = threshold{metric: 35, imperial: 95}
	extremeCold   = threshold{metric: -20, imperial: -4}
	cold          = threshold{metric: -10, imperial: 14}
	violentWind   = threshold{metric: 90, imperial: 56}  // kph / mph
	strongWind    = threshold{metric: 60, imperial: 37}  // kph / mph
	heavyPrecip   = threshold{metric: 10, imperial: 0.4} // mm / in
	notablePrecip = threshold{metric: 4, imperial: 0.16} // mm / in
)

// thunderCodes are condition codes treated as storm conditions regardless
// of measured precipitation.
var thunderCodes = map[int]bool{
	weather.CodeThunderyRain: true,
	weather.CodeThunderstorm: true,
}

// EngineConfig configures a NewEngine call.
type EngineConfig struct {
	Logger zerolog.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// Engine owns the process-wide active alert list. All mutation goes
// through Check and Dismiss.
type Engine struct {
	mu     sync.Mutex
	active []Alert
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine creates an alert engine with an empty active list.
func NewEngine(cfg EngineConfig) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		logger: cfg.Logger,
		now:    now,
	}
}

// Check purges expired alerts, evaluates every threshold family against
// the snapshot, and returns the resulting active list. A candidate whose
// (title, severity) pair matches an unexpired alert is dropped.
func (e *Engine) Check(snapshot *weather.Snapshot, system units.System) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.purgeLocked(now)

	if snapshot == nil {
		return e.snapshotLocked()
	}

	for _, c := range e.evaluate(snapshot, system) {
		if e.duplicateLocked(c) {
			continue
		}
		c.ID = uuid.NewString()
		c.CreatedAt = now
		c.ExpiresAt = now.Add(AlertTTL)
		e.active = append(e.active, c)
		e.logger.Info().
			Str("alert_id", c.ID).
			Str("type", string(c.Type)).
			Str("severity", string(c.Severity)).
			Msg("weather alert raised")
	}

	return e.snapshotLocked()
}

// Active purges expired alerts and returns the remaining ones.
func (e *Engine) Active() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.purgeLocked(e.now())
	return e.snapshotLocked()
}

// Dismiss removes the alert with the given id ahead of its expiry.
// Unknown ids are a no-op.
func (e *Engine) Dismiss(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, a := range e.active {
		if a.ID == id {
			e.active = append(e.active[:i], e.active[i+1:]...)
			e.logger.Debug().Str("alert_id", id).Msg("alert dismissed")
			return
		}
	}
}

// evaluate runs the five independent threshold families and returns the
// candidate alerts, without ids or timestamps.
func (e *Engine) evaluate(snapshot *weather.Snapshot, system units.System) []Alert {
	var out []Alert

	cur := snapshot.Current
	temp := cur.TempC
	wind := cur.WindKph
	precip := cur.PrecipMm
	if system == units.Imperial {
		temp = cur.TempF
		wind = cur.WindMph
		precip = cur.PrecipIn
	}

	// Temperature.
	switch {
	case temp >= extremeHeat.value(system):
		out = append(out, Alert{
			Title:       "Extreme heat",
			Description: "Dangerously high temperatures. Stay hydrated and avoid prolonged sun exposure.",
			Type:        TypeTemperature,
			Severity:    SeverityHigh,
		})
	case temp >= heat.value(system):
		out = append(out, Alert{
			Title:       "High temperature",
			Description: "Very warm conditions. Limit strenuous outdoor activity.",
			Type:        TypeTemperature,
			Severity:    SeverityMedium,
		})
	case temp <= extremeCold.value(system):
		out = append(out, Alert{
			Title:       "Extreme cold",
			Description: "Dangerously low temperatures. Limit time outdoors and cover exposed skin.",
			Type:        TypeTemperature,
			Severity:    SeverityHigh,
		})
	case temp <= cold.value(system):
		out = append(out, Alert{
			Title:       "Severe cold",
			Description: "Very cold conditions. Dress in warm layers.",
			Type:        TypeTemperature,
			Severity:    SeverityMedium,
		})
	}

	// Wind.
	switch {
	case wind >= violentWind.value(system):
		out = append(out, Alert{
			Title:       "Violent wind",
			Description: "Damaging winds expected. Secure loose objects and avoid exposed areas.",
			Type:        TypeWind,
			Severity:    SeverityHigh,
		})
	case wind >= strongWind.value(system):
		out = append(out, Alert{
			Title:       "Strong wind",
			Description: "Strong gusts possible. Take care outdoors.",
			Type:        TypeWind,
			Severity:    SeverityMedium,
		})
	}

	// Precipitation and storm conditions.
	switch {
	case thunderCodes[cur.Condition.Code]:
		out = append(out, Alert{
			Title:       "Thunderstorm",
			Description: "Thunderstorm conditions. Seek shelter indoors and avoid open ground.",
			Type:        TypePrecipitation,
			Severity:    SeverityHigh,
		})
	case precip >= heavyPrecip.value(system):
		out = append(out, Alert{
			Title:       "Heavy precipitation",
			Description: "Heavy rain or snow. Watch for flooding and reduced visibility.",
			Type:        TypePrecipitation,
			Severity:    SeverityHigh,
		})
	case precip >= notablePrecip.value(system):
		out = append(out, Alert{
			Title:       "Significant precipitation",
			Description: "Persistent rain or snow. Allow extra travel time.",
			Type:        TypePrecipitation,
			Severity:    SeverityMedium,
		})
	}

	// UV index is unitless.
	switch {
	case cur.UV >= 11:
		out = append(out, Alert{
			Title:       "Extreme UV",
			Description: fmt.Sprintf("UV index %.0f. Avoid sun exposure during midday hours.", cur.UV),
			Type:        TypeUV,
			Severity:    SeverityHigh,
		})
	case cur.UV >= 8:
		out = append(out, Alert{
			Title:       "Very high UV",
			Description: fmt.Sprintf("UV index %.0f. Use sun protection outdoors.", cur.UV),
			Type:        TypeUV,
			Severity:    SeverityMedium,
		})
	}

	// Air quality by US EPA index.
	switch {
	case cur.AirQuality.USEPAIndex >= 5:
		out = append(out, Alert{
			Title:       "Very unhealthy air quality",
			Description: "Air quality is very unhealthy. Avoid outdoor exertion.",
			Type:        TypeAirQuality,
			Severity:    SeverityHigh,
		})
	case cur.AirQuality.USEPAIndex == 4:
		out = append(out, Alert{
			Title:       "Unhealthy air quality",
			Description: "Air quality is unhealthy. Sensitive groups should stay indoors.",
			Type:        TypeAirQuality,
			Severity:    SeverityMedium,
		})
	}

	return out
}

// purgeLocked drops alerts whose lifetime has passed. Caller holds e.mu.
func (e *Engine) purgeLocked(now time.Time) {
	kept := e.active[:0]
	for _, a := range e.active {
		if !a.Expired(now) {
			kept = append(kept, a)
		}
	}
	e.active = kept
}

// duplicateLocked reports whether an unexpired alert with the same
// (title, severity) pair already exists. Caller holds e.mu.
func (e *Engine) duplicateLocked(c Alert) bool {
	for _, a := range e.active {
		if a.Title == c.Title && a.Severity == c.Severity {
			return true
		}
	}
	return false
}

// snapshotLocked copies the active list so callers cannot mutate engine
// state. Caller holds e.mu.
func (e *Engine) snapshotLocked() []Alert {
	out := make([]Alert, len(e.active))
	copy(out, e.active)
	return out
}
