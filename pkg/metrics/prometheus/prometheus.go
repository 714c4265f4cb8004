package prometheus

import (
	"time"

	"payments-engine/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector for Prometheus.
type PrometheusCollector struct {
	namespace string

	// Counters
	applies    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	runs       *prometheus.CounterVec
	records    prometheus.Counter

	// Gauges
	accounts    prometheus.Gauge
	historySize prometheus.Gauge

	// Histograms
	applyLatency *prometheus.HistogramVec
	runLatency   prometheus.Histogram
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	pc := &PrometheusCollector{
		namespace: namespace,
		applies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Total number of processed transaction records per kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of per-record rejections per kind and reason",
			},
			[]string{"kind", "reason"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of replay runs by status",
			},
			[]string{"status"},
		),
		records: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_processed_total",
				Help:      "Total number of records consumed across all runs",
			},
		),
		accounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accounts",
				Help:      "Current number of ledger accounts",
			},
		),
		historySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "history_entries",
				Help:      "Current number of retained transactions",
			},
		),
		applyLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "apply_duration_seconds",
				Help:      "Per-record apply latency",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12), // 1us to ~16s
			},
			[]string{"kind"},
		),
		runLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Full replay run latency",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~3s
			},
		),
	}

	return pc
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		pc.applies,
		pc.rejections,
		pc.runs,
		pc.records,
		pc.accounts,
		pc.historySize,
		pc.applyLatency,
		pc.runLatency,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordApply records the outcome of applying one record.
func (pc *PrometheusCollector) RecordApply(kind string, outcome metrics.Outcome, duration time.Duration) {
	pc.applies.WithLabelValues(kind, string(outcome)).Inc()
	pc.applyLatency.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRejection records a per-record rejection by reason.
func (pc *PrometheusCollector) RecordRejection(kind string, reason string) {
	pc.rejections.WithLabelValues(kind, reason).Inc()
}

// RecordRun records a completed or aborted replay run.
func (pc *PrometheusCollector) RecordRun(records int, duration time.Duration, failed bool) {
	status := "ok"
	if failed {
		status = "failed"
	}
	pc.runs.WithLabelValues(status).Inc()
	pc.records.Add(float64(records))
	pc.runLatency.Observe(duration.Seconds())
}

// SetAccounts records the current number of ledger accounts.
func (pc *PrometheusCollector) SetAccounts(n int) {
	pc.accounts.Set(float64(n))
}

// SetHistorySize records the current number of retained transactions.
func (pc *PrometheusCollector) SetHistorySize(n int) {
	pc.historySize.Set(float64(n))
}
