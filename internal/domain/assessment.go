package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Assessment is the full flight-safety judgment for one observation:
// the score breakdown, density altitude, and any alerts, ordered by
// severity descending.
type Assessment struct {
	Location        string         `json:"location"`
	ObservedAt      time.Time      `json:"observed_at"`
	Score           ScoreBreakdown `json:"score"`
	DensityAltitude float64        `json:"density_altitude_ft"`
	Alerts          []Alert        `json:"alerts,omitempty"`
	EvaluatedAt     time.Time      `json:"evaluated_at"`
}

// Assess validates the observation, then runs scoring and alert
// evaluation against it. History, if supplied, must be chronologically
// ordered earlier observations for the same location; it only feeds the
// pressure-trend rule. Fails closed on invalid input rather than
// returning a degraded result.
func Assess(obs Observation, history []Observation, th Thresholds) (Assessment, error) {
	if err := obs.Validate(); err != nil {
		return Assessment{}, err
	}

	return Assessment{
		Location:        obs.Location,
		ObservedAt:      obs.Timestamp,
		Score:           Score(obs, th),
		DensityAltitude: DensityAltitude(obs.Pressure, obs.Temperature, obs.Elevation),
		Alerts:          EvaluateAlerts(obs, history, th),
		EvaluatedAt:     clock.Now().UTC(),
	}, nil
}

// SerializeAssessment marshals an assessment into an OutputEvent keyed
// by location, with the safety level and evaluation time as headers so
// consumers can route without deserializing.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.Location),
		Value: data,
		Headers: map[string]string{
			"safety_level": a.Score.Level.String(),
			"evaluated_at": a.EvaluatedAt.Format(time.RFC3339),
		},
	}, nil
}
