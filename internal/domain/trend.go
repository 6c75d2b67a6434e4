package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidForecast marks a forecast sequence that violates the
// analyzer's preconditions: empty, out of order, or with duplicate
// timestamps. A violation is a caller bug, not bad weather data.
var ErrInvalidForecast = errors.New("invalid forecast sequence")

// ForecastAnalysis holds the per-step assessments for a forecast plus
// the best and worst scoring steps, for "best window to fly" guidance.
type ForecastAnalysis struct {
	Steps []Assessment `json:"steps"`
	Best  Assessment   `json:"best"`
	Worst Assessment   `json:"worst"`
}

// AnalyzeForecast runs scoring and alert evaluation over a chronological
// forecast sequence, one assessment per step. Earlier steps serve as
// pressure-trend history for later ones. Ties for best or worst go to
// the earliest step. Read-only over its input.
func AnalyzeForecast(steps []Observation, th Thresholds) (ForecastAnalysis, error) {
	if len(steps) == 0 {
		return ForecastAnalysis{}, fmt.Errorf("%w: empty", ErrInvalidForecast)
	}
	for i := 1; i < len(steps); i++ {
		if !steps[i].Timestamp.After(steps[i-1].Timestamp) {
			return ForecastAnalysis{}, fmt.Errorf("%w: step %d timestamp %s does not follow %s",
				ErrInvalidForecast, i, steps[i].Timestamp.Format(time.RFC3339), steps[i-1].Timestamp.Format(time.RFC3339))
		}
	}

	analysis := ForecastAnalysis{Steps: make([]Assessment, 0, len(steps))}
	best, worst := 0, 0
	for i, obs := range steps {
		assessment, err := Assess(obs, steps[:i], th)
		if err != nil {
			return ForecastAnalysis{}, fmt.Errorf("forecast step %d: %w", i, err)
		}
		analysis.Steps = append(analysis.Steps, assessment)

		if assessment.Score.Combined > analysis.Steps[best].Score.Combined {
			best = i
		}
		if assessment.Score.Combined < analysis.Steps[worst].Score.Combined {
			worst = i
		}
	}

	analysis.Best = analysis.Steps[best]
	analysis.Worst = analysis.Steps[worst]
	return analysis, nil
}
