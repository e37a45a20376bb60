package metrics

import (
	"net/http"
	"time"

	"catalog-sync/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics contains the prometheus collectors of the sync runs.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	Operations       *prometheus.CounterVec
	SourceItems      *prometheus.GaugeVec
	TargetRows       *prometheus.GaugeVec
	LastSuccessRate  *prometheus.GaugeVec
	LastRunTimestamp *prometheus.GaugeVec
}

// New creates the collectors on a dedicated registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of reconciliation runs",
		}, []string{"mode", "outcome"}),

		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of reconciliation runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34 minutes
		}, []string{"mode"}),

		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of per-row operations",
		}, []string{"mode", "action", "outcome"}),

		SourceItems: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_items",
			Help:      "Number of source items seen by the last run",
		}, []string{"mode"}),

		TargetRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "target_rows",
			Help:      "Estimated number of table rows after the last run",
		}, []string{"mode"}),

		LastSuccessRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_rate",
			Help:      "Success rate of the last run between 0 and 1",
		}, []string{"mode"}),

		LastRunTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}, []string{"mode"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOperation counts one applied row operation.
func (m *Metrics) ObserveOperation(mode string, action reconcile.ActionType, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(mode, string(action), outcome(err)).Inc()
}

// ObserveRun records the outcome of a finished run. A nil result records a fatal run.
func (m *Metrics) ObserveRun(mode string, result *reconcile.RunResult, err error, finished time.Time) {
	if m == nil {
		return
	}

	m.RunsTotal.WithLabelValues(mode, outcome(err)).Inc()
	m.LastRunTimestamp.WithLabelValues(mode).Set(float64(finished.Unix()))

	if result == nil {
		return
	}

	rate, _ := result.SuccessRate()
	m.RunDuration.WithLabelValues(mode).Observe(result.Duration.Seconds())
	m.SourceItems.WithLabelValues(mode).Set(float64(result.TotalSeen))
	m.LastSuccessRate.WithLabelValues(mode).Set(rate)
	if after := result.TargetAfter(); after >= 0 {
		m.TargetRows.WithLabelValues(mode).Set(float64(after))
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
