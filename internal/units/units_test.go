package units_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusapp/nimbus/internal/kvstore"
	"github.com/nimbusapp/nimbus/internal/units"
)

func TestTemperatureConversion(t *testing.T) {
	assert.InDelta(t, 32.0, units.CelsiusToFahrenheit(0), 0.001)
	assert.InDelta(t, 50.0, units.CelsiusToFahrenheit(10), 0.001)
	assert.InDelta(t, 68.0, units.CelsiusToFahrenheit(20), 0.001)
	assert.InDelta(t, -40.0, units.CelsiusToFahrenheit(-40), 0.001)

	assert.InDelta(t, 0.0, units.FahrenheitToCelsius(32), 0.001)
	assert.InDelta(t, 100.0, units.FahrenheitToCelsius(212), 0.001)
}

func TestTemperatureRoundTrip(t *testing.T) {
	for _, c := range []float64{-20, -5.5, 0, 3.3, 17.8, 41} {
		assert.InDelta(t, c, units.FahrenheitToCelsius(units.CelsiusToFahrenheit(c)), 1e-9)
	}
}

func TestWindConversion(t *testing.T) {
	assert.InDelta(t, 6.21371, units.KphToMph(10), 0.001)
	assert.InDelta(t, 10.0, units.MphToKph(units.KphToMph(10)), 1e-9)
}

func TestPressureConversion(t *testing.T) {
	assert.InDelta(t, 29.92, units.MillibarToInHg(1013.25), 0.01)
	assert.InDelta(t, 1013.25, units.InHgToMillibar(units.MillibarToInHg(1013.25)), 1e-9)
}

func TestPrecipConversion(t *testing.T) {
	assert.InDelta(t, 1.0, units.MmToInches(25.4), 0.001)
}

func TestParse(t *testing.T) {
	sys, err := units.Parse("metric")
	require.NoError(t, err)
	assert.Equal(t, units.Metric, sys)

	sys, err = units.Parse("imperial")
	require.NoError(t, err)
	assert.Equal(t, units.Imperial, sys)

	_, err = units.Parse("kelvin")
	assert.Error(t, err)
}

func TestSettings_DefaultsToMetric(t *testing.T) {
	store := kvstore.NewMemoryStore()
	s := units.NewSettings(context.Background(), store, zerolog.Nop())
	assert.Equal(t, units.Metric, s.System())
}

func TestSettings_PersistsSelection(t *testing.T) {
	store := kvstore.NewMemoryStore()
	ctx := context.Background()

	s := units.NewSettings(ctx, store, zerolog.Nop())
	require.NoError(t, s.SetSystem(ctx, units.Imperial))
	assert.Equal(t, units.Imperial, s.System())

	// A new instance loads the persisted choice.
	s2 := units.NewSettings(ctx, store, zerolog.Nop())
	assert.Equal(t, units.Imperial, s2.System())
}

func TestSettings_RejectsInvalid(t *testing.T) {
	store := kvstore.NewMemoryStore()
	s := units.NewSettings(context.Background(), store, zerolog.Nop())
	assert.Error(t, s.SetSystem(context.Background(), units.System("kelvin")))
	assert.Equal(t, units.Metric, s.System())
}
