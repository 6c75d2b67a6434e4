package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig marks threshold configuration that cannot be scored
// against: unordered tiers or weights that do not sum to one. Detected
// once at load, never mid-scoring.
var ErrInvalidConfig = errors.New("invalid threshold configuration")

// Tier holds the three graduated limits for one weather factor. For
// higher-is-worse factors (wind, precipitation) the values ascend; for
// visibility they descend, since less distance is worse.
type Tier struct {
	Safe      float64
	Caution   float64
	Dangerous float64
}

// TemperatureBounds delimits the operating temperature range. Scores
// fall off on both sides.
type TemperatureBounds struct {
	MinSafe float64
	MaxSafe float64
}

// PressureRates sets the barometric fall rates (hPa per hour) that
// classify a pressure-trend alert.
type PressureRates struct {
	Warning  float64
	Critical float64
}

// Weights distributes the combined score across the five factors.
// Must sum to exactly 1.0.
type Weights struct {
	Wind          float64
	Visibility    float64
	Temperature   float64
	Precipitation float64
	Cloud         float64
}

// Thresholds is the complete, immutable scoring and alerting
// configuration. Constructed once at startup and shared read-only.
type Thresholds struct {
	Wind          Tier
	Visibility    Tier
	Temperature   TemperatureBounds
	Precipitation Tier
	PressureRates PressureRates
	Weights       Weights

	// GustRatio is the tolerated gust-to-sustained ratio. Gusts beyond
	// speed*GustRatio raise the effective wind speed proportionally.
	GustRatio float64

	// EscalationRatio stretches each dangerous tier into the band where
	// sub-scores reach zero and alerts escalate Warning -> Critical.
	EscalationRatio float64

	// TempCriticalMargin is how many °C beyond a temperature bound
	// escalates the alert from Warning to Critical.
	TempCriticalMargin float64

	// DensityAltitudeLimit is the performance threshold in feet above
	// which the temperature score takes a secondary penalty of
	// DensityAltitudePenalty points per 100 ft.
	DensityAltitudeLimit   float64
	DensityAltitudePenalty float64
}

// DefaultThresholds returns the operational limits for small multirotor
// aircraft. Wind and visibility follow common drone operating guidance;
// precipitation bands follow standard meteorological light/moderate/heavy
// intensity boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Wind:          Tier{Safe: 15, Caution: 25, Dangerous: 35},   // km/h
		Visibility:    Tier{Safe: 10, Caution: 5, Dangerous: 1},     // km
		Temperature:   TemperatureBounds{MinSafe: -10, MaxSafe: 40}, // °C
		Precipitation: Tier{Safe: 2.5, Caution: 7.6, Dangerous: 50}, // mm/h
		PressureRates: PressureRates{Warning: 1.5, Critical: 3.0},   // hPa/h fall
		Weights: Weights{
			Wind:          0.30,
			Visibility:    0.25,
			Temperature:   0.15,
			Precipitation: 0.20,
			Cloud:         0.10,
		},
		GustRatio:              1.1,
		EscalationRatio:        1.5,
		TempCriticalMargin:     5,
		DensityAltitudeLimit:   5000, // ft
		DensityAltitudePenalty: 1,    // points per 100 ft over
	}
}

// Sum returns the total of all five factor weights.
func (w Weights) Sum() float64 {
	return w.Wind + w.Visibility + w.Temperature + w.Precipitation + w.Cloud
}

// Validate checks tier ordering, weight sum, and rate ordering.
// Any violation is fatal configuration, wrapped in ErrInvalidConfig.
func (t Thresholds) Validate() error {
	if s := t.Weights.Sum(); math.Abs(s-1.0) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %.6f, want 1.0", ErrInvalidConfig, s)
	}
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"wind", t.Weights.Wind},
		{"visibility", t.Weights.Visibility},
		{"temperature", t.Weights.Temperature},
		{"precipitation", t.Weights.Precipitation},
		{"cloud", t.Weights.Cloud},
	} {
		if w.value <= 0 {
			return fmt.Errorf("%w: %s weight %.4f must be positive", ErrInvalidConfig, w.name, w.value)
		}
	}

	if !(0 < t.Wind.Safe && t.Wind.Safe < t.Wind.Caution && t.Wind.Caution < t.Wind.Dangerous) {
		return fmt.Errorf("%w: wind tiers must ascend safe < caution < dangerous", ErrInvalidConfig)
	}
	if !(t.Visibility.Safe > t.Visibility.Caution && t.Visibility.Caution > t.Visibility.Dangerous && t.Visibility.Dangerous > 0) {
		return fmt.Errorf("%w: visibility tiers must descend safe > caution > dangerous > 0", ErrInvalidConfig)
	}
	if !(0 < t.Precipitation.Safe && t.Precipitation.Safe < t.Precipitation.Caution && t.Precipitation.Caution < t.Precipitation.Dangerous) {
		return fmt.Errorf("%w: precipitation tiers must ascend safe < caution < dangerous", ErrInvalidConfig)
	}
	if t.Temperature.MinSafe >= t.Temperature.MaxSafe {
		return fmt.Errorf("%w: temperature min_safe %.1f must be below max_safe %.1f", ErrInvalidConfig, t.Temperature.MinSafe, t.Temperature.MaxSafe)
	}
	if !(0 < t.PressureRates.Warning && t.PressureRates.Warning < t.PressureRates.Critical) {
		return fmt.Errorf("%w: pressure rates must ascend 0 < warning < critical", ErrInvalidConfig)
	}
	if t.GustRatio < 1 {
		return fmt.Errorf("%w: gust ratio %.2f must be at least 1", ErrInvalidConfig, t.GustRatio)
	}
	if t.EscalationRatio <= 1 {
		return fmt.Errorf("%w: escalation ratio %.2f must exceed 1", ErrInvalidConfig, t.EscalationRatio)
	}
	if t.TempCriticalMargin <= 0 {
		return fmt.Errorf("%w: temperature critical margin must be positive", ErrInvalidConfig)
	}
	if t.DensityAltitudeLimit <= 0 || t.DensityAltitudePenalty < 0 {
		return fmt.Errorf("%w: density altitude limit must be positive and penalty non-negative", ErrInvalidConfig)
	}
	return nil
}
