// Package marine holds the weather alert evaluator: the measurement model,
// the severity threshold tables, and the analyzer that turns observations and
// advisories into actionable alerts.
package marine

import (
	"errors"
	"time"

	"github.com/shataken-source/seawatch/internal/units"
)

// Marine errors.
var (
	// ErrProviderUnavailable indicates a single upstream data source failed
	// or timed out. It degrades that subject's signal set and never escalates
	// past the evaluation for that subject.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// Severity is an ordered alert severity level. Higher values are more severe.
// There is no "none" member: the absence of alerts is represented by an empty
// alert list and a nil overall severity.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// AdvisorySeverity maps the upstream advisory severity vocabulary onto our
// ordered scale. Unknown values map to medium rather than being dropped.
func AdvisorySeverity(source string) Severity {
	switch source {
	case "Extreme":
		return SeverityCritical
	case "Severe":
		return SeverityHigh
	case "Moderate":
		return SeverityMedium
	case "Minor":
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// RawObservation is a buoy report in sensor units: wind in m/s, heights in
// meters, temperatures in °C, pressure in hPa, visibility in nautical miles.
// Nil fields are readings the station did not report.
type RawObservation struct {
	StationID   string
	StationName string
	ObservedAt  time.Time

	WindSpeedMS     *float64
	WindGustMS      *float64
	WaveHeightM     *float64
	DominantPeriodS *float64
	PressureHPa     *float64
	AirTempC        *float64
	WaterTempC      *float64
	VisibilityNM    *float64
}

// Observation is a buoy report in the evaluator's working units: knots, feet,
// °F, hPa, nautical miles. Derived from a RawObservation and only ever
// attached to an AnalysisResult, never persisted on its own.
type Observation struct {
	StationID   string
	StationName string
	ObservedAt  time.Time

	WindSpeedKt     *float64
	WindGustKt      *float64
	WaveHeightFt    *float64
	DominantPeriodS *float64
	PressureHPa     *float64
	AirTempF        *float64
	WaterTempF      *float64
	VisibilityNM    *float64
}

// Normalize converts a raw buoy report into working units. Missing readings
// stay missing.
func Normalize(raw RawObservation) Observation {
	return Observation{
		StationID:       raw.StationID,
		StationName:     raw.StationName,
		ObservedAt:      raw.ObservedAt,
		WindSpeedKt:     units.MetersPerSecondToKnots(raw.WindSpeedMS),
		WindGustKt:      units.MetersPerSecondToKnots(raw.WindGustMS),
		WaveHeightFt:    units.MetersToFeet(raw.WaveHeightM),
		DominantPeriodS: raw.DominantPeriodS,
		PressureHPa:     raw.PressureHPa,
		AirTempF:        units.CelsiusToFahrenheit(raw.AirTempC),
		WaterTempF:      units.CelsiusToFahrenheit(raw.WaterTempC),
		VisibilityNM:    raw.VisibilityNM,
	}
}

// Advisory is an active alert published by the forecast source. Read-only.
type Advisory struct {
	Event          string
	Headline       string
	SourceSeverity string
	Instruction    string
	Expires        time.Time
}

// TideType distinguishes high and low water predictions.
type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// TidePrediction is a single predicted high or low water event.
type TidePrediction struct {
	Time     time.Time
	Type     TideType
	HeightFt float64
}

// ForecastPeriod is one named period from the zone forecast.
type ForecastPeriod struct {
	Name          string
	StartTime     time.Time
	WindSpeed     string
	ShortForecast string
	Detailed      string
}

// ForecastBundle is what the forecast provider returns for a point. Either
// half may be empty when the corresponding upstream feed was unavailable.
type ForecastBundle struct {
	Periods    []ForecastPeriod
	Advisories []Advisory
}

// AlertType categorizes what triggered an alert.
type AlertType string

const (
	AlertWind     AlertType = "wind"
	AlertWave     AlertType = "wave"
	AlertPressure AlertType = "pressure"
	AlertAdvisory AlertType = "advisory"
)

// Alert is a single evaluated hazard. Alerts are constructed once per
// evaluation run and never mutated afterwards.
type Alert struct {
	Type           AlertType
	Severity       Severity
	Message        string
	Details        string
	Recommendation string
	Expires        *time.Time
}

// AnalysisResult is the verdict for one subject at one point in time. It is
// consumed immediately by the dispatcher; only audit records outlive it.
type AnalysisResult struct {
	Alerts          []Alert
	OverallSeverity *Severity
	Summary         string
	Observation     *Observation
	Advisories      []Advisory
	Tides           []TidePrediction
}

// HasAlerts reports whether any alert was raised.
func (r AnalysisResult) HasAlerts() bool {
	return len(r.Alerts) > 0
}
