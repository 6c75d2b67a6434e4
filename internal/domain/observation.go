package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidObservation marks an observation with a malformed or
// physically impossible field. The engine fails closed on these rather
// than scoring data it cannot trust.
var ErrInvalidObservation = errors.New("invalid observation")

// PrecipType classifies the form of precipitation in an observation.
type PrecipType string

const (
	PrecipNone  PrecipType = "none"
	PrecipRain  PrecipType = "rain"
	PrecipSnow  PrecipType = "snow"
	PrecipStorm PrecipType = "storm"
)

// Observation is a validated snapshot of weather conditions at one
// location and instant, either measured or forecast. All values use
// metric units; producers normalize before publishing.
type Observation struct {
	Timestamp     time.Time  `json:"timestamp"`
	Location      string     `json:"location"`
	Temperature   float64    `json:"temperature_c"`
	Humidity      float64    `json:"humidity_pct"`
	Pressure      float64    `json:"pressure_hpa"`
	WindSpeed     float64    `json:"wind_speed_kmh"`
	WindGust      float64    `json:"wind_gust_kmh,omitempty"` // 0 = not reported
	WindDirection float64    `json:"wind_direction_deg"`
	Visibility    float64    `json:"visibility_km"`
	PrecipRate    float64    `json:"precip_rate_mmh"`
	PrecipType    PrecipType `json:"precip_type"`
	CloudCover    float64    `json:"cloud_cover_pct"`
	Elevation     float64    `json:"elevation_m,omitempty"` // site elevation, 0 if unknown
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseRawEvent deserializes and validates a RawEvent's value as an
// Observation. If the payload carries no timestamp the message timestamp
// is used.
func ParseRawEvent(raw RawEvent) (Observation, error) {
	var obs Observation
	if err := json.Unmarshal(raw.Value, &obs); err != nil {
		return Observation{}, fmt.Errorf("parse raw observation: %w", err)
	}
	if obs.Timestamp.IsZero() {
		obs.Timestamp = raw.Timestamp
	}
	if obs.PrecipType == "" {
		obs.PrecipType = PrecipNone
	}
	if err := obs.Validate(); err != nil {
		return Observation{}, err
	}
	return obs, nil
}

// physical ranges for observation fields. Values outside these bounds
// indicate sensor or producer faults, not weather.
const (
	minTemperature = -90.0  // °C, below lowest recorded surface temperature
	maxTemperature = 60.0
	minPressure    = 850.0  // hPa, deeper than any recorded surface low
	maxPressure    = 1100.0
	maxWindSpeed   = 450.0  // km/h, above strongest recorded gust
	maxVisibility  = 400.0  // km
	maxPrecipRate  = 500.0  // mm/h
	minElevation   = -450.0 // m, below Dead Sea shore
	maxElevation   = 9000.0
)

// Validate checks every field against its declared physical range.
// A zero WindGust means "not reported" and is accepted; a reported gust
// below the sustained speed is rejected.
func (o Observation) Validate() error {
	if o.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidObservation)
	}
	if o.Location == "" {
		return fmt.Errorf("%w: missing location", ErrInvalidObservation)
	}

	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"temperature", o.Temperature, minTemperature, maxTemperature},
		{"humidity", o.Humidity, 0, 100},
		{"pressure", o.Pressure, minPressure, maxPressure},
		{"wind speed", o.WindSpeed, 0, maxWindSpeed},
		{"wind direction", o.WindDirection, 0, 360},
		{"visibility", o.Visibility, 0, maxVisibility},
		{"precipitation rate", o.PrecipRate, 0, maxPrecipRate},
		{"cloud cover", o.CloudCover, 0, 100},
		{"elevation", o.Elevation, minElevation, maxElevation},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidObservation, c.name)
		}
		if c.value < c.min || c.value > c.max {
			return fmt.Errorf("%w: %s %.2f outside [%.2f, %.2f]", ErrInvalidObservation, c.name, c.value, c.min, c.max)
		}
	}
	if o.WindDirection == 360 {
		return fmt.Errorf("%w: wind direction 360.00 outside [0.00, 360.00)", ErrInvalidObservation)
	}

	if math.IsNaN(o.WindGust) || math.IsInf(o.WindGust, 0) {
		return fmt.Errorf("%w: wind gust is not finite", ErrInvalidObservation)
	}
	if o.WindGust != 0 && (o.WindGust < o.WindSpeed || o.WindGust > maxWindSpeed) {
		return fmt.Errorf("%w: wind gust %.2f must be between sustained speed %.2f and %.2f", ErrInvalidObservation, o.WindGust, o.WindSpeed, maxWindSpeed)
	}

	switch o.PrecipType {
	case PrecipNone, PrecipRain, PrecipSnow, PrecipStorm:
	default:
		return fmt.Errorf("%w: unknown precipitation type %q", ErrInvalidObservation, o.PrecipType)
	}

	return nil
}

// EffectiveGust returns the gust to assume for safety purposes: the
// reported gust when present, otherwise the sustained speed. A missing
// gust is never treated as calm.
func (o Observation) EffectiveGust() float64 {
	if o.WindGust == 0 {
		return o.WindSpeed
	}
	return o.WindGust
}
