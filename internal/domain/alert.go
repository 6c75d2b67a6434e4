package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Severity orders alert urgency from advisory to emergency.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityEmergency
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	case SeverityEmergency:
		return "EMERGENCY"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its string name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "INFO":
		*s = SeverityInfo
	case "WARNING":
		*s = SeverityWarning
	case "CRITICAL":
		*s = SeverityCritical
	case "EMERGENCY":
		*s = SeverityEmergency
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// AlertCategory names the weather dimension an alert concerns.
type AlertCategory string

const (
	CategoryWind          AlertCategory = "wind"
	CategoryVisibility    AlertCategory = "visibility"
	CategoryTemperature   AlertCategory = "temperature"
	CategoryPrecipitation AlertCategory = "precipitation"
	CategoryPressure      AlertCategory = "pressure"
	CategorySevere        AlertCategory = "severe"
)

// Alert is a value object describing one hazardous condition. Identity
// within an evaluation pass is (category, severity, location); the
// evaluator emits at most one alert per category.
type Alert struct {
	Category  AlertCategory `json:"category"`
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Location  string        `json:"location"`
}

// EvaluateAlerts inspects one observation, and optionally a short
// chronological history of earlier observations for the same location,
// against the configured thresholds. Each category contributes at most
// the single highest-severity alert it matched; the result is ordered
// by severity descending. Pressure-trend evaluation silently skips when
// fewer than two points are available.
func EvaluateAlerts(obs Observation, history []Observation, th Thresholds) []Alert {
	var alerts []Alert
	add := func(cat AlertCategory, sev Severity, msg string) {
		alerts = append(alerts, Alert{
			Category:  cat,
			Severity:  sev,
			Message:   msg,
			Timestamp: obs.Timestamp,
			Location:  obs.Location,
		})
	}

	// Wind: judged on the worst of sustained and gust.
	wind := obs.WindSpeed
	if obs.EffectiveGust() > wind {
		wind = obs.EffectiveGust()
	}
	switch {
	case wind >= th.Wind.Dangerous*th.EscalationRatio:
		add(CategoryWind, SeverityCritical,
			fmt.Sprintf("wind %.1f km/h far exceeds the %.0f km/h operating limit", wind, th.Wind.Dangerous))
	case wind > th.Wind.Dangerous:
		add(CategoryWind, SeverityWarning,
			fmt.Sprintf("wind %.1f km/h exceeds the %.0f km/h operating limit", wind, th.Wind.Dangerous))
	}

	switch {
	case obs.Visibility <= th.Visibility.Dangerous/th.EscalationRatio:
		add(CategoryVisibility, SeverityCritical,
			fmt.Sprintf("visibility %.1f km, visual flight not possible", obs.Visibility))
	case obs.Visibility < th.Visibility.Dangerous:
		add(CategoryVisibility, SeverityWarning,
			fmt.Sprintf("visibility %.1f km below the %.0f km minimum", obs.Visibility, th.Visibility.Dangerous))
	}

	switch {
	case obs.Temperature <= th.Temperature.MinSafe-th.TempCriticalMargin:
		add(CategoryTemperature, SeverityCritical,
			fmt.Sprintf("temperature %.1f°C, battery and equipment failure likely", obs.Temperature))
	case obs.Temperature >= th.Temperature.MaxSafe+th.TempCriticalMargin:
		add(CategoryTemperature, SeverityCritical,
			fmt.Sprintf("temperature %.1f°C, overheating likely", obs.Temperature))
	case obs.Temperature < th.Temperature.MinSafe:
		add(CategoryTemperature, SeverityWarning,
			fmt.Sprintf("temperature %.1f°C below the %.0f°C minimum", obs.Temperature, th.Temperature.MinSafe))
	case obs.Temperature > th.Temperature.MaxSafe:
		add(CategoryTemperature, SeverityWarning,
			fmt.Sprintf("temperature %.1f°C above the %.0f°C maximum", obs.Temperature, th.Temperature.MaxSafe))
	}

	switch {
	case obs.PrecipRate >= th.Precipitation.Dangerous*th.EscalationRatio:
		add(CategoryPrecipitation, SeverityCritical,
			fmt.Sprintf("precipitation %.1f mm/h, equipment damage likely", obs.PrecipRate))
	case obs.PrecipRate > th.Precipitation.Dangerous:
		add(CategoryPrecipitation, SeverityWarning,
			fmt.Sprintf("precipitation %.1f mm/h exceeds the %.0f mm/h limit", obs.PrecipRate, th.Precipitation.Dangerous))
	}

	if obs.PrecipType == PrecipStorm {
		add(CategorySevere, SeverityEmergency, "Severe Weather: storm conditions, land immediately")
	}

	if alert, ok := pressureTrendAlert(obs, history, th); ok {
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity > alerts[j].Severity
	})
	return alerts
}

// pressureTrendAlert classifies the barometric fall rate across the
// history window plus the current observation. Requires at least two
// chronologically ordered points for the same location; anything less
// reports no alert rather than an error.
func pressureTrendAlert(obs Observation, history []Observation, th Thresholds) (Alert, bool) {
	earliest, ok := earliestForLocation(obs, history)
	if !ok {
		return Alert{}, false
	}

	hours := obs.Timestamp.Sub(earliest.Timestamp).Hours()
	if hours <= 0 {
		return Alert{}, false
	}
	fallRate := (earliest.Pressure - obs.Pressure) / hours

	var sev Severity
	switch {
	case fallRate >= th.PressureRates.Critical:
		sev = SeverityCritical
	case fallRate >= th.PressureRates.Warning:
		sev = SeverityWarning
	default:
		return Alert{}, false
	}

	return Alert{
		Category:  CategoryPressure,
		Severity:  sev,
		Message:   fmt.Sprintf("pressure falling %.1f hPa/h, deteriorating conditions likely", fallRate),
		Timestamp: obs.Timestamp,
		Location:  obs.Location,
	}, true
}

// earliestForLocation finds the oldest history point for the
// observation's location that precedes it in time.
func earliestForLocation(obs Observation, history []Observation) (Observation, bool) {
	for _, h := range history {
		if h.Location == obs.Location && h.Timestamp.Before(obs.Timestamp) {
			return h, true
		}
	}
	return Observation{}, false
}
