package derive

import (
	"fmt"
	"strings"

	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// ShareText renders a snapshot as a short plain-text summary suitable for
// the platform share sheet.
func ShareText(snapshot *weather.Snapshot, system units.System) string {
	cur := snapshot.Current
	loc := snapshot.Location

	var b strings.Builder
	fmt.Fprintf(&b, "Weather in %s", loc.Name)
	if loc.Country != "" {
		fmt.Fprintf(&b, ", %s", loc.Country)
	}
	b.WriteString("\n")

	if system == units.Imperial {
		fmt.Fprintf(&b, "%.0f°F, %s\n", cur.TempF, cur.Condition.Text)
		fmt.Fprintf(&b, "Feels like %.0f°F, wind %.0f mph, humidity %d%%\n",
			cur.FeelsLikeF, cur.WindMph, cur.Humidity)
	} else {
		fmt.Fprintf(&b, "%.0f°C, %s\n", cur.TempC, cur.Condition.Text)
		fmt.Fprintf(&b, "Feels like %.0f°C, wind %.0f km/h, humidity %d%%\n",
			cur.FeelsLikeC, cur.WindKph, cur.Humidity)
	}

	if today := snapshot.Today(); today != nil {
		if system == units.Imperial {
			fmt.Fprintf(&b, "Today: %.0f°F to %.0f°F", today.Day.MinTempF, today.Day.MaxTempF)
		} else {
			fmt.Fprintf(&b, "Today: %.0f°C to %.0f°C", today.Day.MinTempC, today.Day.MaxTempC)
		}
		if today.Day.DailyChanceOfRain > 0 {
			fmt.Fprintf(&b, ", %d%% chance of rain", today.Day.DailyChanceOfRain)
		}
		b.WriteString("\n")
	}

	return b.String()
}
