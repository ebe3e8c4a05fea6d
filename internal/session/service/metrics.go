package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the session module.
type Metrics struct {
	Recorded    prometheus.Counter
	Deactivated prometheus.Counter
}

// NewMetrics registers session module metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Recorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "precinct_sessions_recorded_total",
			Help: "Total number of login session descriptors recorded",
		}),
		Deactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "precinct_sessions_deactivated_total",
			Help: "Total number of sessions deactivated by logout",
		}),
	}
}

// IncRecorded records one persisted session descriptor.
func (m *Metrics) IncRecorded() {
	m.Recorded.Inc()
}

// IncDeactivated records one session deactivation.
func (m *Metrics) IncDeactivated() {
	m.Deactivated.Inc()
}
