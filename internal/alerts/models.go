// Package alerts derives short-lived weather alerts from a snapshot.
//
// Alerts are synthesized client-side from threshold checks, not pulled
// from a provider feed. Each alert lives for exactly one hour and is
// purged lazily on the next engine call rather than by a timer.
package alerts

import "time"

// Type categorizes what an alert is about.
type Type string

const (
	TypeTemperature   Type = "temperature"
	TypeWind          Type = "wind"
	TypePrecipitation Type = "precipitation"
	TypeUV            Type = "uv"
	TypeAirQuality    Type = "air_quality"
)

// Severity ranks how urgent an alert is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a derived, ephemeral warning about current conditions.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the alert's lifetime has passed at the given
// instant.
func (a Alert) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}
