// Package metrics exposes judge counters in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rps_judge"

// Metrics holds the judge's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RoundsStarted   prometheus.Counter
	Submissions     *prometheus.CounterVec
	Errors          *prometheus.CounterVec
	JudgeLatency    prometheus.Histogram
	ActuatorsOnline prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Number of round start events broadcast",
		}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Judged submissions by result",
		}, []string{"result"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_errors_total",
			Help:      "Rejected submissions by error kind",
		}, []string{"kind"}),
		JudgeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "judge_duration_seconds",
			Help:      "Time from receiving a submission to returning its result",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		ActuatorsOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "actuators_connected",
			Help:      "Number of connected push channel clients",
		}),
	}

	m.registry.MustRegister(
		m.RoundsStarted,
		m.Submissions,
		m.Errors,
		m.JudgeLatency,
		m.ActuatorsOnline,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncRoundsStarted() {
	if m == nil {
		return
	}
	m.RoundsStarted.Inc()
}

func (m *Metrics) ObserveSubmission(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(result).Inc()
	m.JudgeLatency.Observe(d.Seconds())
}

func (m *Metrics) IncError(kind string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetActuators(n int) {
	if m == nil {
		return
	}
	m.ActuatorsOnline.Set(float64(n))
}
