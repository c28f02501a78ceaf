package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead lifecycle.
type LeadMetrics struct {
	createdTotal     *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	deletesTotal     prometheus.Counter
	backendErrors    *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bsc",
			Subsystem: "leads",
			Name:      "created_total",
			Help:      "Total leads created, by form source",
		}, []string{"source"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bsc",
			Subsystem: "leads",
			Name:      "status_transitions_total",
			Help:      "Total lead status transitions, by target status",
		}, []string{"status"}),
		deletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bsc",
			Subsystem: "leads",
			Name:      "deletes_total",
			Help:      "Total leads deleted from the triage screen",
		}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bsc",
			Subsystem: "leads",
			Name:      "backend_errors_total",
			Help:      "Total failed data backend round trips, by operation",
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.transitionsTotal, m.deletesTotal, m.backendErrors)
	return m
}

func (m *LeadMetrics) ObserveCreated(source string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(source).Inc()
}

func (m *LeadMetrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveDelete() {
	if m == nil {
		return
	}
	m.deletesTotal.Inc()
}

func (m *LeadMetrics) ObserveBackendError(operation string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(operation).Inc()
}
