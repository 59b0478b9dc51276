package derive

import (
	"math/rand"
	"sync"

	"github.com/nimbusapp/nimbus/internal/weather"
)

// Fact is a short educational blurb about the current weather, either a
// trivia fact or an explanation of why the current conditions occur.
type Fact struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// factsByCode maps condition codes to their candidate facts. Codes with
// no entry fall through to the temperature generics.
var factsByCode = map[int][]Fact{
	weather.CodeClear: {
		{ID: "clear-sky-blue", Text: "The sky looks blue because air molecules scatter short blue wavelengths of sunlight more than red ones."},
		{ID: "clear-uv", Text: "UV radiation is strongest under clear skies, even when the air feels cool."},
	},
	weather.CodePartlyCloudy: {
		{ID: "cumulus-weight", Text: "An average cumulus cloud weighs around half a million kilograms, held aloft by rising air."},
		{ID: "cloud-types", Text: "Meteorologists classify clouds into ten basic types based on their shape and altitude."},
	},
	weather.CodeCloudy: {
		{ID: "cloud-formation", Text: "Clouds form when moist air rises and cools past its dew point, condensing onto tiny particles."},
		{ID: "cloud-albedo", Text: "Thick cloud cover reflects a large share of incoming sunlight back to space, cooling the surface below."},
	},
	weather.CodeOvercast: {
		{ID: "overcast-blanket", Text: "An overcast sky acts like a blanket at night, trapping heat and keeping temperatures milder."},
		{ID: "overcast-diffuse", Text: "Overcast light is diffuse and shadow-free, which is why photographers often prefer it."},
	},
	weather.CodeMist: {
		{ID: "mist-vs-fog", Text: "Mist and fog are the same phenomenon; it is called fog when visibility drops below one kilometre."},
	},
	weather.CodeFog: {
		{ID: "fog-droplets", Text: "Fog is a cloud at ground level, made of water droplets so small they stay suspended in the air."},
	},
	weather.CodeLightRain: {
		{ID: "raindrop-shape", Text: "Raindrops are not tear-shaped; small ones are spheres and larger ones flatten like hamburger buns."},
		{ID: "petrichor", Text: "The earthy smell after rain is called petrichor, released by soil bacteria when drops hit dry ground."},
	},
	weather.CodeModerateRain: {
		{ID: "raindrop-speed", Text: "A typical raindrop falls at around 22 kilometres per hour by the time it reaches the ground."},
		{ID: "petrichor", Text: "The earthy smell after rain is called petrichor, released by soil bacteria when drops hit dry ground."},
	},
	weather.CodeHeavyRain: {
		{ID: "rain-measure", Text: "One millimetre of rain means one litre of water has fallen on every square metre of ground."},
	},
	weather.CodeLightSnow: {
		{ID: "snowflake-unique", Text: "A snowflake's shape records the temperature and humidity of every layer of air it fell through."},
	},
	weather.CodeHeavySnow: {
		{ID: "snow-quiet", Text: "Fresh snow absorbs sound waves, which is why the world seems quieter right after a snowfall."},
	},
	weather.CodeThunderyRain: {
		{ID: "lightning-heat", Text: "A lightning bolt heats the air around it to roughly 30,000 °C, five times hotter than the Sun's surface."},
	},
	weather.CodeThunderstorm: {
		{ID: "thunder-distance", Text: "Count the seconds between flash and thunder and divide by three to estimate the storm's distance in kilometres."},
		{ID: "lightning-heat", Text: "A lightning bolt heats the air around it to roughly 30,000 °C, five times hotter than the Sun's surface."},
	},
}

// Temperature generics cover codes without a dedicated entry.
var (
	hotFacts = []Fact{
		{ID: "heat-humidity", Text: "Humidity makes heat feel worse because sweat evaporates more slowly in moist air."},
		{ID: "heat-record", Text: "The highest air temperature reliably recorded on Earth is 56.7 °C, in Death Valley in 1913."},
	}
	coldFacts = []Fact{
		{ID: "cold-wind-chill", Text: "Wind chill measures how fast moving air strips heat from skin, not an actual air temperature."},
		{ID: "cold-record", Text: "The lowest natural temperature recorded on Earth is -89.2 °C, at Vostok Station in Antarctica."},
	}
	mildFacts = []Fact{
		{ID: "pressure-weather", Text: "Falling air pressure usually signals approaching wet weather; rising pressure signals fair skies."},
		{ID: "wind-cause", Text: "Wind is air flowing from high pressure toward low pressure, deflected by the Earth's rotation."},
	}
)

// FactPicker selects an entry from its tables for a snapshot while avoiding
// showing the same entry twice in a row. The single-slot memory lives for
// the life of the picker instance, so the facts picker and the explanations
// picker each remember their own last pick.
type FactPicker struct {
	byCode map[int][]Fact
	hot    []Fact
	cold   []Fact
	mild   []Fact

	mu     sync.Mutex
	lastID string
	// intn is rand.Intn, overridable in tests.
	intn func(int) int
}

// NewFactPicker creates a picker over the educational facts tables with an
// empty repeat memory.
func NewFactPicker() *FactPicker {
	return &FactPicker{
		byCode: factsByCode,
		hot:    hotFacts,
		cold:   coldFacts,
		mild:   mildFacts,
		intn:   rand.Intn,
	}
}

// Pick chooses an entry for the snapshot's condition, falling back to
// temperature generics when the condition code has no dedicated entry.
func (p *FactPicker) Pick(snapshot *weather.Snapshot) Fact {
	candidates := p.byCode[snapshot.Current.Condition.Code]
	if len(candidates) == 0 {
		switch {
		case snapshot.Current.TempC >= 30:
			candidates = p.hot
		case snapshot.Current.TempC <= 0:
			candidates = p.cold
		default:
			candidates = p.mild
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fact := candidates[p.intn(len(candidates))]
	if fact.ID == p.lastID && len(candidates) > 1 {
		for _, c := range candidates {
			if c.ID != p.lastID {
				fact = c
				break
			}
		}
	}
	p.lastID = fact.ID
	return fact
}
