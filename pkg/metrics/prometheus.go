package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	resolutions   *prometheus.CounterVec
	hitlReviews   *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		resolutions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoanalyst_resolutions_total",
				Help: "Total number of resolved assets by match origin",
			},
			[]string{"origin"},
		),
		hitlReviews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoanalyst_hitl_reviews_total",
				Help: "Total number of review-gate decisions by reason",
			},
			[]string{"reason"},
		),
		warnings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoanalyst_warnings_total",
				Help: "Total number of validation warnings by kind",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptoanalyst_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptoanalyst_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordResolution records one resolved asset by match origin.
func (r *Recorder) RecordResolution(origin string) {
	r.resolutions.WithLabelValues(origin).Inc()
}

// RecordHitl records a review-gate decision.
func (r *Recorder) RecordHitl(reason string) {
	r.hitlReviews.WithLabelValues(reason).Inc()
}

// RecordWarning records a validation warning.
func (r *Recorder) RecordWarning(kind string) {
	r.warnings.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStageDuration records a pipeline stage duration in seconds.
func (r *Recorder) RecordStageDuration(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}
