package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts authentication outcomes.
type Metrics struct {
	loginSuccess prometheus.Counter
	loginFailure prometheus.Counter
	logouts      prometheus.Counter
}

// NewMetrics registers officer module metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		loginSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "precinct_logins_success_total",
			Help: "Total number of successful officer logins",
		}),
		loginFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "precinct_logins_failure_total",
			Help: "Total number of failed officer login attempts",
		}),
		logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "precinct_logouts_total",
			Help: "Total number of officer logouts",
		}),
	}
}

func (m *Metrics) IncLoginSuccess() { m.loginSuccess.Inc() }
func (m *Metrics) IncLoginFailure() { m.loginFailure.Inc() }
func (m *Metrics) IncLogout()       { m.logouts.Inc() }
