// Package units converts raw marine sensor readings into the working units
// used by the alert evaluator (knots, feet, degrees Fahrenheit, nautical
// miles). Readings that a station failed to report are modeled as nil
// pointers; every conversion propagates absence rather than coercing it to
// zero.
package units

// Conversion factors.
const (
	MetersPerSecondPerKnot = 1.94384
	FeetPerMeter           = 3.28084
	NauticalMilesPerMeter  = 1.0 / 1852.0
)

// MetersPerSecondToKnots converts a wind speed reading from m/s to knots.
func MetersPerSecondToKnots(v *float64) *float64 {
	if v == nil {
		return nil
	}
	kt := *v * MetersPerSecondPerKnot
	return &kt
}

// MetersToFeet converts a height reading from meters to feet.
func MetersToFeet(v *float64) *float64 {
	if v == nil {
		return nil
	}
	ft := *v * FeetPerMeter
	return &ft
}

// CelsiusToFahrenheit converts a temperature reading from °C to °F.
func CelsiusToFahrenheit(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v*9.0/5.0 + 32.0
	return &f
}

// MetersToNauticalMiles converts a distance reading from meters to nautical
// miles.
func MetersToNauticalMiles(v *float64) *float64 {
	if v == nil {
		return nil
	}
	nm := *v * NauticalMilesPerMeter
	return &nm
}

// Float returns a pointer to v. Convenience for building readings in tests
// and adapters.
func Float(v float64) *float64 {
	return &v
}
