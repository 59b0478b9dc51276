// Package derive holds the rule engines that turn a weather snapshot
// into derived domain objects: clothing recommendations, activity
// suitability scores, and educational facts. Everything here is a pure
// function of the snapshot and unit system, apart from the one-slot
// repeat-avoidance memory in the facts engine.
package derive

import (
	"strings"

	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// Recommendation is the clothing and umbrella advice for the current
// conditions.
type Recommendation struct {
	Clothing      string `json:"clothing"`
	NeedsUmbrella bool   `json:"needs_umbrella"`
}

// clothingBand is one rung of the ordered recommendation ladder. The
// metric and imperial cutoffs are fixed literal pairs so neither side
// drifts from float conversion.
type clothingBand struct {
	maxC   float64
	maxF   float64
	advice string
}

// Bands are evaluated top to bottom; the first match wins. Anything
// warmer than the last rung gets light clothing.
var clothingLadder = []clothingBand{
	{maxC: 0, maxF: 32, advice: "Heavy winter coat, hat, and gloves"},
	{maxC: 10, maxF: 50, advice: "Warm coat and layers"},
	{maxC: 20, maxF: 68, advice: "Light jacket or sweater"},
}

const defaultClothing = "Light clothing"

// rainPhrases mark a condition text as umbrella weather. Matching is a
// case-insensitive substring test.
var rainPhrases = []string{
	"rain",
	"drizzle",
	"shower",
	"thunder",
	"sleet",
}

// Recommend derives clothing and umbrella advice from the snapshot's
// current reading, using the temperature field of the active unit system.
func Recommend(snapshot *weather.Snapshot, system units.System) Recommendation {
	temp := snapshot.Current.TempC
	if system == units.Imperial {
		temp = snapshot.Current.TempF
	}

	clothing := defaultClothing
	for _, band := range clothingLadder {
		max := band.maxC
		if system == units.Imperial {
			max = band.maxF
		}
		if temp <= max {
			clothing = band.advice
			break
		}
	}

	return Recommendation{
		Clothing:      clothing,
		NeedsUmbrella: NeedsUmbrella(snapshot.Current.Condition.Text),
	}
}

// NeedsUmbrella reports whether the condition text indicates rain.
func NeedsUmbrella(conditionText string) bool {
	text := strings.ToLower(conditionText)
	for _, phrase := range rainPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
