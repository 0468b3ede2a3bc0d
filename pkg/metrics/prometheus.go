package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "grader"

// PrometheusRecorder implements Recorder with client_golang
// collectors registered on a private registry, so several
// recorders can coexist in one process.
type PrometheusRecorder struct {
	registry  *prometheus.Registry
	graders   *prometheus.CounterVec
	durations *prometheus.HistogramVec
	scenarios *prometheus.CounterVec
	scores    *prometheus.HistogramVec
	runs      prometheus.Counter
}

// NewPrometheusRecorder creates a PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	m := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		graders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graders_total",
			Help:      "Graders run, by batch status.",
		}, []string{"grader", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grader_duration_seconds",
			Help:      "Time spent running a grader's scenarios.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"grader"}),
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Scenarios evaluated, by agreement with the expected verdict.",
		}, []string{"grader", "result"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_score",
			Help:      "Distribution of scenario scores.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}, []string{"grader"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Batch runs started.",
		}),
	}
	m.registry.MustRegister(
		m.graders, m.durations, m.scenarios, m.scores, m.runs,
	)
	return m
}

func (m *PrometheusRecorder) RecordGrader(
	graderID, status string,
	duration time.Duration,
) {
	m.graders.WithLabelValues(graderID, status).Inc()
	m.durations.WithLabelValues(graderID).Observe(duration.Seconds())
}

func (m *PrometheusRecorder) RecordScenario(graderID string, agreed bool) {
	result := "disagreed"
	if agreed {
		result = "agreed"
	}
	m.scenarios.WithLabelValues(graderID, result).Inc()
}

func (m *PrometheusRecorder) ObserveScore(graderID string, score float64) {
	m.scores.WithLabelValues(graderID).Observe(score)
}

func (m *PrometheusRecorder) IncrementRunTotal() {
	m.runs.Inc()
}

// Gatherer exposes the private registry.
func (m *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes every collected metric to path in the
// text exposition format, for pickup by a node exporter
// textfile collector.
func (m *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
