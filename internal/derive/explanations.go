package derive

import (
	"math/rand"

	"github.com/nimbusapp/nimbus/internal/weather"
)

// explanationsByCode maps condition codes to blurbs explaining why the
// current conditions occur. Codes with no entry fall through to the
// temperature generics.
var explanationsByCode = map[int][]Fact{
	weather.CodeClear: {
		{ID: "why-clear", Text: "Skies are clear because sinking air under high pressure warms as it descends, evaporating cloud droplets before they can grow."},
		{ID: "why-clear-nights-cold", Text: "Clear nights cool quickly because without clouds the ground radiates its heat straight out to space."},
	},
	weather.CodePartlyCloudy: {
		{ID: "why-partly-cloudy", Text: "Scattered clouds form where pockets of warm air rise and cool, while the drier air between them stays clear."},
	},
	weather.CodeCloudy: {
		{ID: "why-cloudy", Text: "Broad cloud decks build when a large sheet of moist air is lifted slowly, often ahead of an approaching front."},
	},
	weather.CodeOvercast: {
		{ID: "why-overcast", Text: "An unbroken grey sky usually means a stable layer of moist air is trapped under warmer air above, unable to rise or break up."},
	},
	weather.CodeMist: {
		{ID: "why-mist", Text: "Mist appears when air near the ground cools to its dew point, condensing moisture into droplets fine enough to hang in the air."},
	},
	weather.CodeFog: {
		{ID: "why-fog", Text: "Fog forms on calm, clear nights when the ground chills the air above it below its dew point, or when mild moist air drifts over a cold surface."},
	},
	weather.CodeLightRain: {
		{ID: "why-light-rain", Text: "Light rain falls from shallow layered clouds where droplets grow slowly and stay small before drifting down."},
	},
	weather.CodeModerateRain: {
		{ID: "why-rain", Text: "Steady rain comes from deep layered clouds along a front, where moist air is lifted over a long period across a wide area."},
	},
	weather.CodeHeavyRain: {
		{ID: "why-heavy-rain", Text: "Downpours happen when strong updrafts hold droplets aloft long enough to grow large before the cloud releases them all at once."},
	},
	weather.CodeLightSnow: {
		{ID: "why-snow", Text: "Snow reaches the ground when the air is cold through the whole depth of the cloud and below it, so crystals never melt on the way down."},
	},
	weather.CodeHeavySnow: {
		{ID: "why-heavy-snow", Text: "Heavy snow often falls just below freezing, when the air holds more moisture than in a deep cold spell and crystals clump into large flakes."},
	},
	weather.CodeThunderyRain: {
		{ID: "why-thundery-rain", Text: "Thundery showers develop when sunshine heats the ground unevenly, sending bubbles of warm moist air surging into cold air aloft."},
	},
	weather.CodeThunderstorm: {
		{ID: "why-thunderstorm", Text: "Thunderstorms need unstable air: rising parcels stay warmer than their surroundings and accelerate upward, building towering charged clouds."},
	},
}

var (
	hotExplanations = []Fact{
		{ID: "why-hot", Text: "Heat like this usually comes from a stalled high-pressure dome that traps air, letting the ground bake under day after day of sunshine."},
	}
	coldExplanations = []Fact{
		{ID: "why-cold", Text: "Cold snaps arrive when the winds steer air from polar regions over you, and clear calm nights let it chill even further."},
	}
	mildExplanations = []Fact{
		{ID: "why-mild", Text: "Mild, unremarkable weather usually means no front is nearby; the air mass overhead has had time to settle toward the local average."},
	}
)

// NewExplanationPicker creates a picker over the explanation tables with
// its own empty repeat memory, independent of the facts picker.
func NewExplanationPicker() *FactPicker {
	return &FactPicker{
		byCode: explanationsByCode,
		hot:    hotExplanations,
		cold:   coldExplanations,
		mild:   mildExplanations,
		intn:   rand.Intn,
	}
}
