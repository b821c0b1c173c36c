package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestTriageMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTriageMetrics(reg)
	m.ObserveTurn("symptom_collection", 0.25)
	m.ObserveEmergency("keyword", "cardiac")
	m.ObserveBooking("confirmed")
	m.ObserveModelFailure()
}

func TestTriageMetricsNilSafe(t *testing.T) {
	var m *TriageMetrics
	m.ObserveTurn("greeting", 0.1)
	m.ObserveEmergency("model", "")
	m.ObserveBooking("failed")
	m.ObserveModelFailure()
}
