package derive

import (
	"sort"

	"github.com/nimbusapp/nimbus/internal/weather"
)

// Category groups activities for presentation and for the indoor bonus.
type Category string

const (
	CategorySports  Category = "sports"
	CategoryWater   Category = "water"
	CategoryLeisure Category = "leisure"
	CategoryIndoor  Category = "indoor"
)

// dayRequirement constrains when an activity makes sense.
type dayRequirement int

const (
	anyTime dayRequirement = iota
	daylightOnly
	nightOnly
)

// Activity is one scorable activity with its comfort envelope. All
// ranges are metric: °C, kph, mm. Scoring always runs on the snapshot's
// metric readings so a unit-system change cannot move a score.
type Activity struct {
	Name     string
	Category Category

	minTempC   float64
	maxTempC   float64
	maxWindKph float64
	maxPrecipM float64
	// allowedCodes is the set of condition codes the activity tolerates.
	// Empty means any condition.
	allowedCodes map[int]bool
	when         dayRequirement
}

// ScoredActivity pairs an activity with its suitability for the current
// conditions.
type ScoredActivity struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// Penalty and bonus magnitudes.
const (
	tempPenaltyPerDegree = 5
	windPenaltyPerKph    = 2
	precipPenaltyPerMm   = 10
	conditionPenalty     = 30
	overcastCredit       = 15
	dayNightPenalty      = 30
	indoorWeatherBonus   = 20
	indoorFloor          = 60
	reportCutoff         = 30
)

func fairSkies() map[int]bool {
	return map[int]bool{
		weather.CodeClear:        true,
		weather.CodePartlyCloudy: true,
		weather.CodeCloudy:       true,
	}
}

// catalog is the canonical activity list. Declaration order breaks score
// ties, so the order here is part of the contract.
var catalog = []Activity{
	{
		Name: "Running", Category: CategorySports,
		minTempC: 5, maxTempC: 24, maxWindKph: 30, maxPrecipM: 1,
		allowedCodes: fairSkies(), when: anyTime,
	},
	{
		Name: "Cycling", Category: CategorySports,
		minTempC: 8, maxTempC: 28, maxWindKph: 25, maxPrecipM: 0.5,
		allowedCodes: fairSkies(), when: daylightOnly,
	},
	{
		Name: "Hiking", Category: CategorySports,
		minTempC: 5, maxTempC: 26, maxWindKph: 35, maxPrecipM: 1,
		allowedCodes: fairSkies(), when: daylightOnly,
	},
	{
		Name: "Swimming", Category: CategoryWater,
		minTempC: 22, maxTempC: 38, maxWindKph: 20, maxPrecipM: 0.5,
		allowedCodes: map[int]bool{weather.CodeClear: true, weather.CodePartlyCloudy: true},
		when:         daylightOnly,
	},
	{
		Name: "Kayaking", Category: CategoryWater,
		minTempC: 15, maxTempC: 32, maxWindKph: 15, maxPrecipM: 0.5,
		allowedCodes: fairSkies(), when: daylightOnly,
	},
	{
		Name: "Picnic", Category: CategoryLeisure,
		minTempC: 15, maxTempC: 30, maxWindKph: 20, maxPrecipM: 0,
		allowedCodes: fairSkies(), when: daylightOnly,
	},
	{
		Name: "Photography", Category: CategoryLeisure,
		minTempC: -5, maxTempC: 35, maxWindKph: 40, maxPrecipM: 2,
		when: anyTime,
	},
	{
		Name: "Stargazing", Category: CategoryLeisure,
		minTempC: 0, maxTempC: 25, maxWindKph: 20, maxPrecipM: 0,
		allowedCodes: map[int]bool{weather.CodeClear: true},
		when:         nightOnly,
	},
	{
		Name: "Gym workout", Category: CategoryIndoor,
		minTempC: -30, maxTempC: 45, maxWindKph: 150, maxPrecipM: 50,
		when: anyTime,
	},
	{
		Name: "Museum visit", Category: CategoryIndoor,
		minTempC: -30, maxTempC: 45, maxWindKph: 150, maxPrecipM: 50,
		when: daylightOnly,
	},
}

// Suitability scores every catalog activity against the snapshot's
// current conditions, drops scores at or below the report cutoff, and
// returns the rest in descending score order. Equal scores keep catalog
// order.
func Suitability(snapshot *weather.Snapshot) []ScoredActivity {
	cur := snapshot.Current
	bad := badWeather(cur)

	var out []ScoredActivity
	for _, act := range catalog {
		score := scoreActivity(act, cur, bad)
		if score > reportCutoff {
			out = append(out, ScoredActivity{Name: act.Name, Category: act.Category, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func scoreActivity(act Activity, cur weather.Current, bad bool) int {
	score := 100.0

	switch {
	case cur.TempC < act.minTempC:
		score -= tempPenaltyPerDegree * (act.minTempC - cur.TempC)
	case cur.TempC > act.maxTempC:
		score -= tempPenaltyPerDegree * (cur.TempC - act.maxTempC)
	}

	if cur.WindKph > act.maxWindKph {
		score -= windPenaltyPerKph * (cur.WindKph - act.maxWindKph)
	}
	if cur.PrecipMm > act.maxPrecipM {
		score -= precipPenaltyPerMm * (cur.PrecipMm - act.maxPrecipM)
	}

	if len(act.allowedCodes) > 0 && !act.allowedCodes[cur.Condition.Code] {
		penalty := float64(conditionPenalty)
		// An activity that tolerates cloudy skies is only mildly worse
		// off under full overcast.
		if act.allowedCodes[weather.CodeCloudy] && cur.Condition.Code == weather.CodeOvercast {
			penalty -= overcastCredit
		}
		score -= penalty
	}

	isDay := cur.IsDay == 1
	if (act.when == daylightOnly && !isDay) || (act.when == nightOnly && isDay) {
		score -= dayNightPenalty
	}

	if act.Category == CategoryIndoor {
		if bad {
			score += indoorWeatherBonus
		}
		if score < indoorFloor {
			score = indoorFloor
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// badWeather reports conditions miserable enough that indoor activities
// get their bonus: heavy precipitation, high wind, or extreme heat/cold.
func badWeather(cur weather.Current) bool {
	return cur.PrecipMm >= 5 || cur.WindKph >= 50 || cur.TempC >= 35 || cur.TempC <= -5
}
