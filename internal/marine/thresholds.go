package marine

// MeasurementKind selects which threshold column a value is classified
// against.
type MeasurementKind string

const (
	KindWindSpeed    MeasurementKind = "wind_speed"
	KindWaveHeight   MeasurementKind = "wave_height"
	KindPressureDrop MeasurementKind = "pressure_drop"
	KindVisibility   MeasurementKind = "visibility"
)

// Band is one row of the severity threshold table.
type Band struct {
	Level           Severity
	WindSpeedKt     float64
	WaveHeightFt    float64
	PressureDropHPa float64
	VisibilityNM    float64
}

// thresholdBands are fixed business constants, ordered most to least severe.
// Loaded once, never mutated at runtime.
var thresholdBands = [4]Band{
	{Level: SeverityCritical, WindSpeedKt: 35, WaveHeightFt: 8, PressureDropHPa: -5, VisibilityNM: 1},
	{Level: SeverityHigh, WindSpeedKt: 25, WaveHeightFt: 5, PressureDropHPa: -3, VisibilityNM: 2},
	{Level: SeverityMedium, WindSpeedKt: 20, WaveHeightFt: 3, PressureDropHPa: -2, VisibilityNM: 3},
	{Level: SeverityLow, WindSpeedKt: 15, WaveHeightFt: 2, PressureDropHPa: -1, VisibilityNM: 5},
}

// Bands returns a copy of the threshold table in severity order.
func Bands() []Band {
	out := make([]Band, len(thresholdBands))
	copy(out, thresholdBands[:])
	return out
}

// Classify returns the most severe band whose threshold the value meets, or
// nil when the value falls below even the low band. Bands are checked from
// critical down to low with inclusive bounds, so a value satisfying several
// bands always gets the highest severity. Wind and wave values trigger at or
// above the threshold; pressure drop and visibility trigger at or below.
func Classify(kind MeasurementKind, value float64) *Band {
	for i := range thresholdBands {
		band := thresholdBands[i]
		if meets(kind, value, band) {
			b := band
			return &b
		}
	}
	return nil
}

func meets(kind MeasurementKind, value float64, band Band) bool {
	switch kind {
	case KindWindSpeed:
		return value >= band.WindSpeedKt
	case KindWaveHeight:
		return value >= band.WaveHeightFt
	case KindPressureDrop:
		return value <= band.PressureDropHPa
	case KindVisibility:
		return value <= band.VisibilityNM
	default:
		return false
	}
}
