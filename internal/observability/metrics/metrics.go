package metrics

import "github.com/prometheus/client_golang/prometheus"

// TriageMetrics exposes counters/histograms for the triage conversation flow.
type TriageMetrics struct {
	turnsTotal       *prometheus.CounterVec
	emergenciesTotal *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	modelFailures    prometheus.Counter
	turnLatency      prometheus.Histogram
}

func NewTriageMetrics(reg prometheus.Registerer) *TriageMetrics {
	m := &TriageMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthassist",
			Subsystem: "triage",
			Name:      "turns_total",
			Help:      "Total processed conversation turns by resulting state",
		}, []string{"state"}),
		emergenciesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthassist",
			Subsystem: "triage",
			Name:      "emergencies_total",
			Help:      "Total emergency escalations by detection source and category",
		}, []string{"source", "category"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthassist",
			Subsystem: "triage",
			Name:      "bookings_total",
			Help:      "Total appointment booking attempts by outcome",
		}, []string{"status"}),
		modelFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "healthassist",
			Subsystem: "triage",
			Name:      "model_failures_total",
			Help:      "Total model calls that fell back to the safe default",
		}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "healthassist",
			Subsystem: "triage",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one full conversation turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.emergenciesTotal, m.bookingsTotal, m.modelFailures, m.turnLatency)
	return m
}

func (m *TriageMetrics) ObserveTurn(state string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(state).Inc()
	m.turnLatency.Observe(seconds)
}

func (m *TriageMetrics) ObserveEmergency(source, category string) {
	if m == nil {
		return
	}
	m.emergenciesTotal.WithLabelValues(source, category).Inc()
}

func (m *TriageMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *TriageMetrics) ObserveModelFailure() {
	if m == nil {
		return
	}
	m.modelFailures.Inc()
}
