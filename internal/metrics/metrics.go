package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	RunSuccess = "success"
	RunError   = "error"
	RunSkipped = "skipped"
)

type RetrainMetrics struct {
	Registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	duration     prometheus.Histogram
	lastSuccess  prometheus.Gauge
	trainingRows prometheus.Gauge
}

func NewRetrainMetrics() *RetrainMetrics {
	m := &RetrainMetrics{
		Registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraud_retrain_runs_total",
				Help: "Retrain runs by outcome.",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fraud_retrain_duration_seconds",
				Help:    "Wall-clock duration of completed retrain runs.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fraud_retrain_last_success_timestamp",
				Help: "Unix time of the last successful retrain.",
			},
		),
		trainingRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fraud_training_rows",
				Help: "Training partition size of the last successful retrain.",
			},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		m.runsTotal,
		m.duration,
		m.lastSuccess,
		m.trainingRows,
	)

	return m
}

func (m *RetrainMetrics) RunFinished(status string, duration time.Duration) {
	m.runsTotal.WithLabelValues(status).Inc()

	if status == RunSkipped {
		return
	}

	m.duration.Observe(duration.Seconds())

	if status == RunSuccess {
		m.lastSuccess.SetToCurrentTime()
	}
}

func (m *RetrainMetrics) TrainingRows(rows int) {
	m.trainingRows.Set(float64(rows))
}
