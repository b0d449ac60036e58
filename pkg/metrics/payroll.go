package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PayrollMetrics records run-level and leg-level outcomes.
type PayrollMetrics struct {
	runDuration      *prometheus.HistogramVec
	legSuccess       *prometheus.CounterVec
	legFailure       *prometheus.CounterVec
	providerFallback prometheus.Counter
}

// NewPayrollMetrics registers the payroll metrics on the provided registerer.
func NewPayrollMetrics(reg prometheus.Registerer) *PayrollMetrics {
	if reg == nil {
		return &PayrollMetrics{}
	}
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payroll_run_duration_seconds",
		Help:    "Duration of payroll runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	legSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_leg_success",
		Help: "Successfully executed allocation legs.",
	}, []string{"chain"})
	legFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_leg_failure",
		Help: "Failed allocation legs.",
	}, []string{"chain"})
	providerFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payroll_provider_fallback",
		Help: "Quote provider failures recovered via the fallback fee policy.",
	})
	reg.MustRegister(runDuration, legSuccess, legFailure, providerFallback)
	return &PayrollMetrics{
		runDuration:      runDuration,
		legSuccess:       legSuccess,
		legFailure:       legFailure,
		providerFallback: providerFallback,
	}
}

// ObserveRunDuration records how long a run took, labeled by terminal status.
func (m *PayrollMetrics) ObserveRunDuration(status string, duration time.Duration) {
	if m == nil || m.runDuration == nil {
		return
	}
	m.runDuration.WithLabelValues(normalizeLabel(status)).Observe(duration.Seconds())
}

// IncLegSuccess increments the success counter for the destination chain.
func (m *PayrollMetrics) IncLegSuccess(chain string) {
	if m == nil || m.legSuccess == nil {
		return
	}
	m.legSuccess.WithLabelValues(normalizeLabel(chain)).Inc()
}

// IncLegFailure increments the failure counter for the destination chain.
func (m *PayrollMetrics) IncLegFailure(chain string) {
	if m == nil || m.legFailure == nil {
		return
	}
	m.legFailure.WithLabelValues(normalizeLabel(chain)).Inc()
}

// IncProviderFallback counts quote provider failures absorbed by the fallback policy.
func (m *PayrollMetrics) IncProviderFallback() {
	if m == nil || m.providerFallback == nil {
		return
	}
	m.providerFallback.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
