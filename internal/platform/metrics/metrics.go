package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements service.Recorder on top of prometheus.
type Metrics struct {
	submissions *prometheus.CounterVec
	dispatch    *prometheus.HistogramVec
	driver      string
}

// New registers the collectors on reg. driver labels dispatch latency.
func New(reg prometheus.Registerer, driver string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "service_report_submissions_total",
				Help: "Form submissions by outcome",
			},
			[]string{"outcome"},
		),
		dispatch: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "service_report_dispatch_duration_seconds",
				Help:    "Time spent waiting on the notification relay",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"driver"},
		),
		driver: driver,
	}
}

func (m *Metrics) SubmissionOutcome(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DispatchDuration(d time.Duration) {
	m.dispatch.WithLabelValues(m.driver).Observe(d.Seconds())
}
