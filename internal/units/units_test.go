package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shataken-source/seawatch/internal/units"
)

func TestMetersPerSecondToKnots(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"one", 1, 1.94384},
		{"typical breeze", 7.5, 14.5788},
		{"gale", 18.2, 35.377888},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := units.MetersPerSecondToKnots(units.Float(tt.in))
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-6)
		})
	}
}

func TestMetersToFeet(t *testing.T) {
	got := units.MetersToFeet(units.Float(2.5))
	require.NotNil(t, got)
	assert.InDelta(t, 8.2021, *got, 1e-4)
}

func TestCelsiusToFahrenheit(t *testing.T) {
	got := units.CelsiusToFahrenheit(units.Float(20))
	require.NotNil(t, got)
	assert.InDelta(t, 68.0, *got, 1e-9)

	got = units.CelsiusToFahrenheit(units.Float(-40))
	require.NotNil(t, got)
	assert.InDelta(t, -40.0, *got, 1e-9)
}

func TestMetersToNauticalMiles(t *testing.T) {
	got := units.MetersToNauticalMiles(units.Float(1852))
	require.NotNil(t, got)
	assert.InDelta(t, 1.0, *got, 1e-9)
}

func TestMissingPropagates(t *testing.T) {
	assert.Nil(t, units.MetersPerSecondToKnots(nil))
	assert.Nil(t, units.MetersToFeet(nil))
	assert.Nil(t, units.CelsiusToFahrenheit(nil))
	assert.Nil(t, units.MetersToNauticalMiles(nil))
}
