// Package units provides the metric/imperial unit system and the pure
// conversion functions used by the derived-feature engines.
package units

import "fmt"

// System identifies the unit system used for display. Snapshots always carry
// both metric and imperial fields; the system only selects which is shown.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// Parse converts a string to a System.
func Parse(s string) (System, error) {
	switch System(s) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// Valid reports whether the system is a known value.
func (s System) Valid() bool {
	return s == Metric || s == Imperial
}

// CelsiusToFahrenheit converts a temperature from °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a temperature from °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// KphToMph converts a wind speed from km/h to mph.
func KphToMph(kph float64) float64 {
	return kph * 0.621371
}

// MphToKph converts a wind speed from mph to km/h.
func MphToKph(mph float64) float64 {
	return mph / 0.621371
}

// MillibarToInHg converts pressure from millibars to inches of mercury.
func MillibarToInHg(mb float64) float64 {
	return mb * 0.02953
}

// InHgToMillibar converts pressure from inches of mercury to millibars.
func InHgToMillibar(in float64) float64 {
	return in / 0.02953
}

// MmToInches converts precipitation from millimeters to inches.
func MmToInches(mm float64) float64 {
	return mm * 0.0393701
}

// InchesToMm converts precipitation from inches to millimeters.
func InchesToMm(in float64) float64 {
	return in / 0.0393701
}
