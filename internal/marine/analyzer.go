package marine

import (
	"fmt"
	"strings"
)

// Analyze combines a normalized buoy observation, active advisories, and tide
// predictions into a single ranked verdict. It is pure: no clock, no network,
// no hidden state, and identical inputs always produce identical results.
//
// A nil observation yields a degraded-but-valid result with no alerts rather
// than an error, so a buoy outage never blocks advisory-driven notification
// in the next cycle.
func Analyze(obs *Observation, advisories []Advisory, tides []TidePrediction) AnalysisResult {
	if obs == nil {
		return AnalysisResult{
			Alerts:     []Alert{},
			Summary:    "Weather data unavailable",
			Advisories: advisories,
			Tides:      tides,
		}
	}

	var alerts []Alert

	if obs.WindSpeedKt != nil {
		if band := Classify(KindWindSpeed, *obs.WindSpeedKt); band != nil {
			alerts = append(alerts, windAlert(obs, band))
		}
	}

	if obs.WaveHeightFt != nil {
		if band := Classify(KindWaveHeight, *obs.WaveHeightFt); band != nil {
			alerts = append(alerts, waveAlert(obs, band))
		}
	}

	// Flat absolute-pressure check, deliberately independent of the banded
	// classifier. The pressure-drop band column is not consulted here.
	if obs.PressureHPa != nil && *obs.PressureHPa < 1000 {
		alerts = append(alerts, pressureAlert(*obs.PressureHPa))
	}

	for _, adv := range advisories {
		alerts = append(alerts, advisoryAlert(adv))
	}

	result := AnalysisResult{
		Alerts:      alerts,
		Summary:     summarize(alerts),
		Observation: obs,
		Advisories:  advisories,
		Tides:       tides,
	}
	if len(alerts) > 0 {
		overall := alerts[0].Severity
		for _, a := range alerts[1:] {
			if a.Severity > overall {
				overall = a.Severity
			}
		}
		result.OverallSeverity = &overall
	}
	return result
}

func windAlert(obs *Observation, band *Band) Alert {
	speed := *obs.WindSpeedKt

	details := fmt.Sprintf("Sustained wind %.1f kt reported at station %s", speed, obs.StationID)
	if obs.WindGustKt != nil {
		details = fmt.Sprintf("Sustained wind %.1f kt with gusts to %.1f kt reported at station %s",
			speed, *obs.WindGustKt, obs.StationID)
	}

	return Alert{
		Type:           AlertWind,
		Severity:       band.Level,
		Message:        fmt.Sprintf("High winds of %.0f kt", speed),
		Details:        details,
		Recommendation: windRecommendation(speed),
	}
}

func windRecommendation(kt float64) string {
	switch {
	case kt >= 35:
		return "Do not depart. These winds are dangerous for all charter vessels."
	case kt >= 25:
		return "Small craft advisory conditions. Only experienced captains with suitable vessels should consider departing."
	case kt >= 20:
		return "Brief customers on expected conditions before departure."
	case kt >= 15:
		return "Maintain awareness. Conditions may be uncomfortable for some passengers."
	default:
		return "Wind conditions are favorable."
	}
}

func waveAlert(obs *Observation, band *Band) Alert {
	height := *obs.WaveHeightFt

	details := fmt.Sprintf("Significant wave height %.1f ft reported at station %s", height, obs.StationID)
	if obs.DominantPeriodS != nil {
		details = fmt.Sprintf("Significant wave height %.1f ft with a dominant period of %.0f s reported at station %s",
			height, *obs.DominantPeriodS, obs.StationID)
	}

	return Alert{
		Type:           AlertWave,
		Severity:       band.Level,
		Message:        fmt.Sprintf("High seas of %.1f ft", height),
		Details:        details,
		Recommendation: waveRecommendation(height),
	}
}

func waveRecommendation(ft float64) string {
	switch {
	case ft >= 8:
		return "Do not depart. Seas of this height are dangerous for all charter vessels."
	case ft >= 5:
		return "Small craft advisory conditions. Only experienced captains with suitable vessels should consider departing."
	case ft >= 3:
		return "Brief customers on expected conditions before departure."
	case ft >= 2:
		return "Maintain awareness. Conditions may be uncomfortable for some passengers."
	default:
		return "Sea conditions are favorable."
	}
}

func pressureAlert(hpa float64) Alert {
	return Alert{
		Type:           AlertPressure,
		Severity:       SeverityMedium,
		Message:        "Low barometric pressure",
		Details:        fmt.Sprintf("Barometric pressure %.1f hPa is below 1000 hPa", hpa),
		Recommendation: "Monitor conditions closely. Falling pressure often precedes deteriorating weather.",
	}
}

func advisoryAlert(adv Advisory) Alert {
	message := adv.Event
	if message == "" {
		message = "Marine weather advisory"
	}

	recommendation := adv.Instruction
	if recommendation == "" {
		recommendation = "Review the advisory and follow official guidance."
	}

	alert := Alert{
		Type:           AlertAdvisory,
		Severity:       AdvisorySeverity(adv.SourceSeverity),
		Message:        message,
		Details:        adv.Headline,
		Recommendation: recommendation,
	}
	if !adv.Expires.IsZero() {
		expires := adv.Expires
		alert.Expires = &expires
	}
	return alert
}

func summarize(alerts []Alert) string {
	if len(alerts) == 0 {
		return "Weather conditions are within normal parameters. Safe for boating."
	}

	if msgs := messagesAt(alerts, SeverityCritical); len(msgs) > 0 {
		return fmt.Sprintf("DANGEROUS CONDITIONS: %s. We strongly recommend canceling or rescheduling this trip.",
			strings.Join(msgs, "; "))
	}
	if msgs := messagesAt(alerts, SeverityHigh); len(msgs) > 0 {
		return fmt.Sprintf("HAZARDOUS CONDITIONS: %s. Use extreme caution and consider rescheduling.",
			strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("Moderate weather alerts in effect: %s.", alerts[0].Message)
}

func messagesAt(alerts []Alert, level Severity) []string {
	var msgs []string
	for _, a := range alerts {
		if a.Severity == level {
			msgs = append(msgs, a.Message)
		}
	}
	return msgs
}
