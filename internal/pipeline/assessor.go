package pipeline

import (
	"context"
	"log/slog"

	"github.com/skyvane/flightwx/internal/domain"
	"github.com/skyvane/flightwx/internal/observability"
)

// Assessor implements Transformer: it parses each raw observation, runs
// scoring and alert evaluation against the rolling per-location history,
// and serializes the assessment for the sink topic.
//
// History is read and updated only from the pipeline goroutine, so no
// locking is needed. Not safe for concurrent use.
type Assessor struct {
	thresholds domain.Thresholds
	history    map[string][]domain.Observation
	depth      int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewAssessor creates an Assessor keeping up to depth past observations
// per location for pressure-trend evaluation.
func NewAssessor(th domain.Thresholds, depth int, metrics *observability.Metrics, logger *slog.Logger) *Assessor {
	return &Assessor{
		thresholds: th,
		history:    make(map[string][]domain.Observation),
		depth:      depth,
		metrics:    metrics,
		logger:     logger,
	}
}

func (a *Assessor) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	obs, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	assessment, err := domain.Assess(obs, a.history[obs.Location], a.thresholds)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	a.record(obs)

	a.metrics.AssessmentsByLevel.WithLabelValues(assessment.Score.Level.String()).Inc()
	for _, alert := range assessment.Alerts {
		a.metrics.AlertsEmitted.WithLabelValues(string(alert.Category), alert.Severity.String()).Inc()
	}

	if len(assessment.Alerts) > 0 {
		a.logger.Info("alerts raised",
			"location", assessment.Location,
			"level", assessment.Score.Level.String(),
			"alert_count", len(assessment.Alerts),
			"top_severity", assessment.Alerts[0].Severity.String(),
		)
	}

	return domain.SerializeAssessment(assessment)
}

// record appends the observation to its location's history, evicting the
// oldest entry once the depth limit is reached. Out-of-order arrivals
// are dropped so the window stays chronological.
func (a *Assessor) record(obs domain.Observation) {
	window := a.history[obs.Location]
	if n := len(window); n > 0 && !obs.Timestamp.After(window[n-1].Timestamp) {
		return
	}
	window = append(window, obs)
	if len(window) > a.depth {
		window = window[1:]
	}
	a.history[obs.Location] = window
}
