package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment pipeline.
type Metrics struct {
	ObservationsConsumed prometheus.Counter
	AssessmentsProduced  prometheus.Counter
	InvalidObservations  prometheus.Counter
	PipelineRunning      prometheus.Gauge

	// Assessment outcome metrics.
	AssessmentsByLevel *prometheus.CounterVec // labels: level={NO_FLY,DANGEROUS,CAUTION,SAFE}
	AlertsEmitted      *prometheus.CounterVec // labels: category, severity

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObservationsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flightwx",
			Name:      "observations_consumed_total",
			Help:      "Total observations read from the source topic.",
		}),
		AssessmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flightwx",
			Name:      "assessments_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		InvalidObservations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flightwx",
			Name:      "invalid_observations_total",
			Help:      "Total observations rejected by validation.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flightwx",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		AssessmentsByLevel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flightwx",
			Name:      "assessments_by_level_total",
			Help:      "Assessments produced by safety level.",
		}, []string{"level"}),
		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flightwx",
			Name:      "alerts_emitted_total",
			Help:      "Alerts attached to assessments by category and severity.",
		}, []string{"category", "severity"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flightwx",
			Name:      "batch_size",
			Help:      "Number of observations per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flightwx",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.ObservationsConsumed,
		m.AssessmentsProduced,
		m.InvalidObservations,
		m.PipelineRunning,
		m.AssessmentsByLevel,
		m.AlertsEmitted,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObservationsConsumed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flightwx", Name: "observations_consumed_total"}),
		AssessmentsProduced:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flightwx", Name: "assessments_produced_total"}),
		InvalidObservations:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flightwx", Name: "invalid_observations_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flightwx", Name: "pipeline_running"}),
		AssessmentsByLevel:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flightwx", Name: "assessments_by_level_total"}, []string{"level"}),
		AlertsEmitted:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flightwx", Name: "alerts_emitted_total"}, []string{"category", "severity"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flightwx", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flightwx", Name: "batch_processing_duration_seconds"}),
	}
}
